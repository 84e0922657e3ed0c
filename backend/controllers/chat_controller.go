package controllers

import (
	"log"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/genai"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// fallbackReply is shown inline in the transcript when the generation
// service is unreachable.
const fallbackReply = "I'm having trouble connecting right now. Please try again in a moment."

// historyWindow bounds how many prior turns are replayed to the model.
const historyWindow = 20

type ChatController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	AI     *genai.Client
	Logger *log.Logger
}

func NewChatController(db *gorm.DB, cfg *config.Config, ai *genai.Client, logger *log.Logger) *ChatController {
	return &ChatController{DB: db, Cfg: cfg, AI: ai, Logger: logger}
}

// SendMessage godoc
// @Summary Send a tutoring message
// @Description Sends a message to the tutor with the stored conversation history
// @Tags chat
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Chat message"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat [post]
func (cc *ChatController) SendMessage(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Message == "" {
		return utils.BadRequest(c, "Message is required")
	}

	var recent []models.ChatMessage
	cc.DB.Where("user_id = ?", sess.UserID).
		Order("created_at DESC").
		Limit(historyWindow).
		Find(&recent)

	// Reverse into chronological order for the model.
	history := make([]genai.Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, genai.Turn{Role: recent[i].Role, Text: recent[i].Text})
	}

	cc.DB.Create(&models.ChatMessage{UserID: sess.UserID, Role: "user", Text: input.Message})

	reply, err := cc.AI.Converse(c.UserContext(), input.Message, history)
	degraded := false
	if err != nil {
		// A remote failure degrades to a generic inline reply rather
		// than an error response; the transcript stays usable.
		if cc.Logger != nil {
			cc.Logger.Printf("chat: generation failed for user %d: %v", sess.UserID, err)
		}
		reply = fallbackReply
		degraded = true
	}

	cc.DB.Create(&models.ChatMessage{UserID: sess.UserID, Role: "model", Text: reply})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"reply":    reply,
		"degraded": degraded,
	})
}

// GetHistory godoc
// @Summary Get chat history
// @Tags chat
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/history [get]
func (cc *ChatController) GetHistory(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var messages []models.ChatMessage
	if err := cc.DB.Where("user_id = ?", sess.UserID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch chat history")
	}

	result := make([]fiber.Map, 0, len(messages))
	for _, m := range messages {
		result = append(result, fiber.Map{
			"id":   m.ID,
			"role": m.Role,
			"text": m.Text,
			"at":   m.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"messages": result,
	})
}
