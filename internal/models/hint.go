package models

import (
	"time"
)

type Hint struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Hint) TableName() string {
	return "hints"
}
