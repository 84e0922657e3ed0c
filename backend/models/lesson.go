package models

import "gorm.io/gorm"

type LessonRecord struct {
	gorm.Model
	UserID   uint
	Topic    string
	Title    string
	Sections string // JSON array of {title, content}
}
