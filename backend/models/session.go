package models

import "gorm.io/gorm"

// SessionRecord is the durable backing row for "remembered" sessions.
// Data holds the JSON-encoded public session snapshot.
type SessionRecord struct {
	gorm.Model
	Token string `gorm:"uniqueIndex;not null"`
	Data  string `gorm:"not null"`
}
