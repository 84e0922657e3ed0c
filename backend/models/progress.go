package models

import "time"

type MonthlyProgress struct {
	Month          time.Month     `json:"month"`
	Year           int            `json:"year"`
	QuizzesTaken   int64          `json:"quizzes_taken"`
	LessonsStudied int64          `json:"lessons_studied"`
	LoginFrequency map[string]int `json:"login_frequency"` // day -> count
}

type ProgressOverview struct {
	StreakDays       int     `json:"streak_days"`
	XP               int     `json:"xp"`
	Level            int     `json:"level"`
	QuizzesCompleted int     `json:"quizzes_completed"`
	LessonsGenerated int     `json:"lessons_generated"`
	ChatMessagesSent int     `json:"chat_messages_sent"`
	AverageQuizScore float64 `json:"average_quiz_score"`
}
