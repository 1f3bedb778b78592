package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID           uint           `gorm:"primaryKey"`
	Name         string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string         `gorm:"type:varchar(100);not null"`
	Locked       bool           `gorm:"default:false;not null"`
	Users        []User         `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Progress     []TeamProgress `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

// Team size limits
const (
	MinTeamMembers = 3
	MaxTeamMembers = 5
)

// BeforeSave hook for validation
func (t *Team) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(t.Name) == "" {
		return gorm.ErrInvalidData
	}
	if t.PasswordHash == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Team) TableName() string {
	return "teams"
}

// User is a registered participant. Users are created together with their
// team and never change afterwards.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	EnrollNo  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	TeamID    uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(u.EnrollNo) == "" || strings.TrimSpace(u.Name) == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

// Team status labels used by the organizer views
const (
	TeamStatusCompleted  = "Completed All"
	TeamStatusInProgress = "In Progress"
	TeamStatusNotStarted = "Not Started"
)

// TeamStatus classifies a team by how many questions it has completed.
func TeamStatus(completed, total int) string {
	switch {
	case total > 0 && completed >= total:
		return TeamStatusCompleted
	case completed > 0:
		return TeamStatusInProgress
	default:
		return TeamStatusNotStarted
	}
}
