package controllers

import (
	"time"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// GetProgress godoc
// @Summary Get user progress
// @Description Returns the user's activity for the last 4 months
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// Last 4 months of activity.
	now := time.Now()
	months := make([]models.MonthlyProgress, 4)

	for i := 0; i < 4; i++ {
		month := now.AddDate(0, -i, 0)
		startOfMonth := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
		endOfMonth := startOfMonth.AddDate(0, 1, -1)

		var quizzesTaken int64
		pc.DB.Model(&models.QuizAttempt{}).
			Where("user_id = ? AND completed = ? AND created_at BETWEEN ? AND ?", sess.UserID, true, startOfMonth, endOfMonth).
			Count(&quizzesTaken)

		var lessonsStudied int64
		pc.DB.Model(&models.LessonRecord{}).
			Where("user_id = ? AND created_at BETWEEN ? AND ?", sess.UserID, startOfMonth, endOfMonth).
			Count(&lessonsStudied)

		loginFrequency := make(map[string]int)
		var logins []models.LoginHistory
		pc.DB.Where("user_id = ? AND login_time BETWEEN ? AND ?", sess.UserID, startOfMonth, endOfMonth).
			Find(&logins)
		for _, login := range logins {
			day := login.LoginTime.Format("2006-01-02")
			loginFrequency[day]++
		}

		months[i] = models.MonthlyProgress{
			Month:          month.Month(),
			Year:           month.Year(),
			QuizzesTaken:   quizzesTaken,
			LessonsStudied: lessonsStudied,
			LoginFrequency: loginFrequency,
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"progress": months,
	})
}

// GetProgressOverview godoc
// @Summary Get progress overview
// @Description Returns a summary of streak, XP and activity totals
// @Tags progress
// @Produce json
// @Success 200 {object} models.ProgressOverview
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/overview [get]
func (pc *ProgressController) GetProgressOverview(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var quizzesCompleted int64
	pc.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND completed = ?", sess.UserID, true).
		Count(&quizzesCompleted)

	var lessonsGenerated int64
	pc.DB.Model(&models.LessonRecord{}).
		Where("user_id = ?", sess.UserID).
		Count(&lessonsGenerated)

	var chatMessages int64
	pc.DB.Model(&models.ChatMessage{}).
		Where("user_id = ? AND role = ?", sess.UserID, "user").
		Count(&chatMessages)

	var avgScore float64
	pc.DB.Model(&models.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0)").
		Where("user_id = ? AND completed = ?", sess.UserID, true).
		Scan(&avgScore)

	return utils.Success(c, fiber.StatusOK, models.ProgressOverview{
		StreakDays:       sess.Streak,
		XP:               sess.XP,
		Level:            sess.Level,
		QuizzesCompleted: int(quizzesCompleted),
		LessonsGenerated: int(lessonsGenerated),
		ChatMessagesSent: int(chatMessages),
		AverageQuizScore: avgScore,
	})
}
