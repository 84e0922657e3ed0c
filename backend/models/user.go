package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:user"` // user, admin

	// Onboarding fields. EducationLevel doubles as the onboarding-complete
	// marker: empty means the user has not finished profile setup.
	EducationLevel string
	Interests      string // JSON array of interest tags
	KnowledgeLevel string

	// Gamification counters.
	XP     int `gorm:"default:0"`
	Level  int `gorm:"default:1"`
	Streak int `gorm:"default:1"`

	Theme      string `gorm:"default:dark"` // dark, light
	LastActive time.Time
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
