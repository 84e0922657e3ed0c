package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/genai"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/session"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const xpPerCorrectAnswer = 10

type QuizController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	AI       *genai.Client
	Sessions *session.Manager
}

func NewQuizController(db *gorm.DB, cfg *config.Config, ai *genai.Client, sessions *session.Manager) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, AI: ai, Sessions: sessions}
}

// Generate godoc
// @Summary Generate a quiz
// @Description Generates five multiple-choice questions on a topic and opens an attempt
// @Tags quiz
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Quiz topic"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/generate [post]
func (qc *QuizController) Generate(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Topic string `json:"topic"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Topic == "" {
		return utils.BadRequest(c, "Topic is required")
	}

	questions, err := qc.AI.GenerateQuiz(c.UserContext(), input.Topic)
	if err != nil {
		return utils.Error(c, fiber.StatusBadGateway,
			fiber.NewError(fiber.StatusBadGateway, "Quiz generation is unavailable right now"))
	}

	// An unparseable or empty model response yields zero questions; the
	// client renders that state instead of an error, and no attempt opens.
	if len(questions) == 0 {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"attempt_id": nil,
			"topic":      input.Topic,
			"questions":  []fiber.Map{},
		})
	}

	stored, err := json.Marshal(questions)
	if err != nil {
		return utils.InternalServerError(c, "Could not store quiz")
	}

	attempt := models.QuizAttempt{
		UserID:         sess.UserID,
		Topic:          input.Topic,
		Questions:      string(stored),
		TotalQuestions: len(questions),
	}
	if err := qc.DB.Create(&attempt).Error; err != nil {
		return utils.InternalServerError(c, "Could not store quiz")
	}

	// Answers and explanations stay server-side until submission.
	public := make([]fiber.Map, 0, len(questions))
	for i, q := range questions {
		public = append(public, fiber.Map{
			"index":    i,
			"question": q.Question,
			"options":  q.Options,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"attempt_id": attempt.ID,
		"topic":      attempt.Topic,
		"questions":  public,
	})
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Grades an open attempt, awards XP and updates the level
// @Tags quiz
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Attempt answers"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/submit [post]
func (qc *QuizController) Submit(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		AttemptID uint  `json:"attempt_id"`
		Answers   []int `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var attempt models.QuizAttempt
	err := qc.DB.Where("id = ? AND user_id = ?", input.AttemptID, sess.UserID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Quiz attempt not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if attempt.Completed {
		return utils.BadRequest(c, "Quiz attempt already submitted")
	}

	var questions []genai.QuizQuestion
	if err := json.Unmarshal([]byte(attempt.Questions), &questions); err != nil {
		return utils.InternalServerError(c, "Could not read stored quiz")
	}
	if len(input.Answers) != len(questions) {
		return utils.BadRequest(c, "Expected "+strconv.Itoa(len(questions))+" answers")
	}

	correct := 0
	results := make([]fiber.Map, 0, len(questions))
	for i, q := range questions {
		isCorrect := input.Answers[i] == q.Answer
		if isCorrect {
			correct++
		}
		results = append(results, fiber.Map{
			"index":       i,
			"correct":     isCorrect,
			"answer":      q.Answer,
			"explanation": q.Explanation,
		})
	}

	answers, _ := json.Marshal(input.Answers)
	now := time.Now()
	attempt.Answers = string(answers)
	attempt.CorrectAnswers = correct
	attempt.Score = float64(correct) / float64(len(questions)) * 100
	attempt.Completed = true
	attempt.CompletedAt = &now
	if err := qc.DB.Save(&attempt).Error; err != nil {
		return utils.InternalServerError(c, "Could not save attempt")
	}

	// Award XP and recompute the level, writing through the session
	// manager so the session and the account stay in sync.
	xp := sess.XP + correct*xpPerCorrectAnswer
	level := xp/100 + 1
	updated, ok := qc.Sessions.UpdateProfile(middleware.TokenFromCtx(c), session.ProfileUpdate{
		XP:    &xp,
		Level: &level,
	})
	if !ok {
		return utils.Unauthorized(c, "Session expired")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"score":      attempt.Score,
		"correct":    correct,
		"total":      len(questions),
		"results":    results,
		"xp":         updated.XP,
		"level":      updated.Level,
		"level_up":   updated.Level > sess.Level,
		"attempt_id": attempt.ID,
	})
}

// GetAttempts godoc
// @Summary List quiz attempts
// @Tags quiz
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} utils.PaginatedResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/attempts [get]
func (qc *QuizController) GetAttempts(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	query := qc.DB.Model(&models.QuizAttempt{}).Where("user_id = ?", sess.UserID)

	var total int64
	query.Count(&total)

	var attempts []models.QuizAttempt
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&attempts).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch attempts")
	}

	result := make([]fiber.Map, 0, len(attempts))
	for _, a := range attempts {
		result = append(result, fiber.Map{
			"id":           a.ID,
			"topic":        a.Topic,
			"score":        a.Score,
			"correct":      a.CorrectAnswers,
			"total":        a.TotalQuestions,
			"completed":    a.Completed,
			"completed_at": a.CompletedAt,
			"created_at":   a.CreatedAt,
		})
	}

	return utils.Paginate(c, result, total, page, pageSize)
}
