package models

import "gorm.io/gorm"

type ChatMessage struct {
	gorm.Model
	UserID uint
	Role   string // "user" or "model"
	Text   string
}
