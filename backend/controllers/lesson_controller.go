package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/genai"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LessonController struct {
	DB  *gorm.DB
	Cfg *config.Config
	AI  *genai.Client
}

func NewLessonController(db *gorm.DB, cfg *config.Config, ai *genai.Client) *LessonController {
	return &LessonController{DB: db, Cfg: cfg, AI: ai}
}

// Generate godoc
// @Summary Generate a lesson
// @Description Generates a structured lesson on a topic and stores it for re-reading
// @Tags lessons
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Lesson topic"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/generate [post]
func (lc *LessonController) Generate(c *fiber.Ctx) error {
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

	doc, err := lc.AI.GenerateLesson(c.UserContext(), input.Topic)
	if err != nil {
		return utils.Error(c, fiber.StatusBadGateway,
			fiber.NewError(fiber.StatusBadGateway, "Lesson generation is unavailable right now"))
	}

	// The empty document is a valid outcome; nothing is stored for it.
	if doc.Title == "" && len(doc.Sections) == 0 {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"lesson_id": nil,
			"topic":     input.Topic,
			"title":     "",
			"sections":  []genai.LessonSection{},
		})
	}

	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return utils.InternalServerError(c, "Could not store lesson")
	}

	record := models.LessonRecord{
		UserID:   sess.UserID,
		Topic:    input.Topic,
		Title:    doc.Title,
		Sections: string(sections),
	}
	if err := lc.DB.Create(&record).Error; err != nil {
		return utils.InternalServerError(c, "Could not store lesson")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"lesson_id": record.ID,
		"topic":     record.Topic,
		"title":     doc.Title,
		"sections":  doc.Sections,
	})
}

// GetLessons godoc
// @Summary List generated lessons
// @Tags lessons
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} utils.PaginatedResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons [get]
func (lc *LessonController) GetLessons(c *fiber.Ctx) error {
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

	query := lc.DB.Model(&models.LessonRecord{}).Where("user_id = ?", sess.UserID)

	var total int64
	query.Count(&total)

	var lessons []models.LessonRecord
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&lessons).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch lessons")
	}

	result := make([]fiber.Map, 0, len(lessons))
	for _, l := range lessons {
		result = append(result, fiber.Map{
			"id":         l.ID,
			"topic":      l.Topic,
			"title":      l.Title,
			"created_at": l.CreatedAt,
		})
	}

	return utils.Paginate(c, result, total, page, pageSize)
}

// GetLesson godoc
// @Summary Get a stored lesson
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (lc *LessonController) GetLesson(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var record models.LessonRecord
	err = lc.DB.Where("id = ? AND user_id = ?", lessonID, sess.UserID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "Lesson not found")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var sections []genai.LessonSection
	if err := json.Unmarshal([]byte(record.Sections), &sections); err != nil {
		return utils.InternalServerError(c, "Could not read stored lesson")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         record.ID,
		"topic":      record.Topic,
		"title":      record.Title,
		"sections":   sections,
		"created_at": record.CreatedAt,
	})
}
