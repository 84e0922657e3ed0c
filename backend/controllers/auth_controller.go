package controllers

import (
	"strings"
	"time"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/session"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Sessions *session.Manager
}

func NewAuthController(db *gorm.DB, cfg *config.Config, sessions *session.Manager) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Sessions: sessions}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a new account with the default profile and opens a remembered session
// @Tags auth
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Registration data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Name, email and password are required")
	}

	token, sess, err := ac.Sessions.Signup(input.Name, input.Email, input.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	jwtToken, err := utils.GenerateSessionToken(token, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.DB.Create(&models.LoginHistory{UserID: sess.UserID, LoginTime: time.Now()})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token":   jwtToken,
		"session": sess,
	})
}

// Login godoc
// @Summary Authenticate an account
// @Description Verifies credentials and opens a session; remember selects durable storage
// @Tags auth
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Remember bool   `json:"remember"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	token, sess, err := ac.Sessions.Login(input.Email, input.Password, input.Remember)
	if err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, err)
	}

	jwtToken, err := utils.GenerateSessionToken(token, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.DB.Create(&models.LoginHistory{UserID: sess.UserID, LoginTime: time.Now()})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token":   jwtToken,
		"session": sess,
	})
}

// Logout godoc
// @Summary End the active session
// @Description Clears the session from both stores; safe to repeat
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	// Logout is idempotent: an invalid or already-cleared token still
	// returns success.
	if token, err := utils.ExtractSessionID(c, ac.Cfg); err == nil {
		ac.Sessions.Logout(token)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Logged out",
	})
}

// Me godoc
// @Summary Get the active session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"session":             sess,
		"onboarding_complete": sess.OnboardingComplete(),
	})
}
