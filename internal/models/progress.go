package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamProgress records a team's outcome for one question. A completed row
// is never modified again.
type TeamProgress struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"`
	TeamID      uint       `gorm:"not null;uniqueIndex:idx_progress_team_question"`
	Team        *Team      `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	QuestionID  string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_team_question;index"`
	Question    *Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	IsCompleted bool       `gorm:"default:false;not null;index"`
	SolvedAt    *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (p *TeamProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (TeamProgress) TableName() string {
	return "team_progress"
}
