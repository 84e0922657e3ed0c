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

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// GetUserAnalytics godoc
// @Summary Get learning analytics
// @Description Returns quiz statistics, per-topic breakdown and daily activity for the user
// @Tags analytics
// @Produce json
// @Param start_date query string false "Period start (YYYY-MM-DD)"
// @Param end_date query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /analytics [get]
func (ac *AnalyticsController) GetUserAnalytics(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	var start, end time.Time
	var err error
	if startDate == "" {
		start = time.Now().AddDate(0, -1, 0)
	} else {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return utils.BadRequest(c, "Invalid start_date format. Use YYYY-MM-DD")
		}
	}

	if endDate == "" {
		end = time.Now()
	} else {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return utils.BadRequest(c, "Invalid end_date format. Use YYYY-MM-DD")
		}
	}

	var stats struct {
		QuizzesCompleted int64   `json:"quizzes_completed"`
		AvgScore         float64 `json:"avg_score"`
		BestScore        float64 `json:"best_score"`
		CorrectAnswers   int64   `json:"correct_answers"`
	}

	ac.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND completed = ? AND created_at BETWEEN ? AND ?", sess.UserID, true, start, end).
		Count(&stats.QuizzesCompleted)

	ac.DB.Model(&models.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0)").
		Where("user_id = ? AND completed = ? AND created_at BETWEEN ? AND ?", sess.UserID, true, start, end).
		Scan(&stats.AvgScore)

	ac.DB.Model(&models.QuizAttempt{}).
		Select("COALESCE(MAX(score), 0)").
		Where("user_id = ? AND completed = ? AND created_at BETWEEN ? AND ?", sess.UserID, true, start, end).
		Scan(&stats.BestScore)

	ac.DB.Model(&models.QuizAttempt{}).
		Select("COALESCE(SUM(correct_answers), 0)").
		Where("user_id = ? AND completed = ? AND created_at BETWEEN ? AND ?", sess.UserID, true, start, end).
		Scan(&stats.CorrectAnswers)

	// Per-topic breakdown.
	var topicStats []struct {
		Topic    string  `json:"topic"`
		Attempts int64   `json:"attempts"`
		AvgScore float64 `json:"avg_score"`
	}
	ac.DB.Raw(`
		SELECT topic,
			COUNT(*) as attempts,
			AVG(score) as avg_score
		FROM quiz_attempts
		WHERE user_id = ? AND completed = ? AND created_at BETWEEN ? AND ? AND deleted_at IS NULL
		GROUP BY topic
		ORDER BY attempts DESC
	`, sess.UserID, true, start, end).Scan(&topicStats)

	// Daily activity across quizzes, lessons and chat.
	var dailyActivity []struct {
		Date    string `json:"date"`
		Quizzes int64  `json:"quizzes"`
	}
	ac.DB.Raw(`
		SELECT DATE(created_at) as date,
			COUNT(*) as quizzes
		FROM quiz_attempts
		WHERE user_id = ? AND created_at BETWEEN ? AND ? AND deleted_at IS NULL
		GROUP BY DATE(created_at)
		ORDER BY date DESC
	`, sess.UserID, start, end).Scan(&dailyActivity)

	var lessonsGenerated int64
	ac.DB.Model(&models.LessonRecord{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", sess.UserID, start, end).
		Count(&lessonsGenerated)

	var chatMessages int64
	ac.DB.Model(&models.ChatMessage{}).
		Where("user_id = ? AND role = ? AND created_at BETWEEN ? AND ?", sess.UserID, "user", start, end).
		Count(&chatMessages)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"stats":             stats,
		"topics":            topicStats,
		"daily_activity":    dailyActivity,
		"lessons_generated": lessonsGenerated,
		"chat_messages":     chatMessages,
		"xp":                sess.XP,
		"level":             sess.Level,
		"streak":            sess.Streak,
		"period": fiber.Map{
			"start_date": start.Format("2006-01-02"),
			"end_date":   end.Format("2006-01-02"),
		},
	})
}

// GetPlatformAnalytics godoc
// @Summary Get platform analytics
// @Description Returns platform-wide metrics; admin only
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /analytics/platform [get]
func (ac *AnalyticsController) GetPlatformAnalytics(c *fiber.Ctx) error {
	var metrics struct {
		TotalUsers       int64   `json:"total_users"`
		ActiveUsers      int64   `json:"active_users"`
		NewUsers         int64   `json:"new_users"`
		QuizzesCompleted int64   `json:"quizzes_completed"`
		LessonsGenerated int64   `json:"lessons_generated"`
		AvgQuizScore     float64 `json:"avg_quiz_score"`
	}

	ac.DB.Model(&models.User{}).Count(&metrics.TotalUsers)
	ac.DB.Model(&models.User{}).Where("last_active > ?",
		time.Now().AddDate(0, 0, -30)).Count(&metrics.ActiveUsers)
	ac.DB.Model(&models.User{}).Where("created_at > ?",
		time.Now().AddDate(0, 0, -7)).Count(&metrics.NewUsers)
	ac.DB.Model(&models.QuizAttempt{}).Where("completed = ?", true).Count(&metrics.QuizzesCompleted)
	ac.DB.Model(&models.LessonRecord{}).Count(&metrics.LessonsGenerated)
	ac.DB.Model(&models.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0)").
		Where("completed = ?", true).
		Scan(&metrics.AvgQuizScore)

	// User signups over time.
	var userGrowth []map[string]interface{}
	ac.DB.Raw(`
		SELECT DATE(created_at) as date,
			COUNT(*) as users
		FROM users
		WHERE deleted_at IS NULL
		GROUP BY DATE(created_at)
		ORDER BY date
	`).Scan(&userGrowth)

	// Most-quizzed topics.
	var popularTopics []map[string]interface{}
	ac.DB.Raw(`
		SELECT topic,
			COUNT(*) as attempts,
			AVG(score) as avg_score
		FROM quiz_attempts
		WHERE completed = ? AND deleted_at IS NULL
		GROUP BY topic
		ORDER BY attempts DESC
		LIMIT 5
	`, true).Scan(&popularTopics)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"metrics":        metrics,
		"user_growth":    userGrowth,
		"popular_topics": popularTopics,
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}
