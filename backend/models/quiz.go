package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizAttempt struct {
	gorm.Model
	UserID         uint
	Topic          string
	Questions      string // JSON array of generated questions
	Answers        string // JSON array of selected option indexes
	TotalQuestions int
	CorrectAnswers int
	Score          float64
	Completed      bool
	CompletedAt    *time.Time
}
