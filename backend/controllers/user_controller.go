package controllers

import (
	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/models"
	"github.com/Poornima1010/SmartLearning/backend/session"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Sessions *session.Manager
}

func NewUserController(db *gorm.DB, cfg *config.Config, sessions *session.Manager) *UserController {
	return &UserController{DB: db, Cfg: cfg, Sessions: sessions}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile and onboarding state
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var attempts int64
	uc.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND completed = ?", sess.UserID, true).
		Count(&attempts)

	var lessons int64
	uc.DB.Model(&models.LessonRecord{}).Where("user_id = ?", sess.UserID).Count(&lessons)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"profile":             sess,
		"onboarding_complete": sess.OnboardingComplete(),
		"quizzes_completed":   attempts,
		"lessons_generated":   lessons,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Merges the given profile fields into the session and the account record
// @Tags users
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Partial profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var input struct {
		EducationLevel *string   `json:"education_level"`
		Interests      *[]string `json:"interests"`
		KnowledgeLevel *string   `json:"knowledge_level"`
		Theme          *string   `json:"theme"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.EducationLevel != nil && !models.ValidEducationLevel(*input.EducationLevel) {
		return utils.BadRequest(c, "Unknown education level")
	}
	if input.KnowledgeLevel != nil && !models.ValidKnowledgeLevel(*input.KnowledgeLevel) {
		return utils.BadRequest(c, "Unknown knowledge level")
	}
	if input.Interests != nil && !models.ValidInterests(*input.Interests) {
		return utils.BadRequest(c, "Interests must be a non-empty set of known tags")
	}
	if input.Theme != nil && *input.Theme != "dark" && *input.Theme != "light" {
		return utils.BadRequest(c, "Theme must be dark or light")
	}

	sess, ok := uc.Sessions.UpdateProfile(middleware.TokenFromCtx(c), session.ProfileUpdate{
		EducationLevel: input.EducationLevel,
		Interests:      input.Interests,
		KnowledgeLevel: input.KnowledgeLevel,
		Theme:          input.Theme,
	})
	if !ok {
		return utils.Unauthorized(c, "Session expired")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"profile": sess,
	})
}

// UpdateTheme godoc
// @Summary Set theme preference
// @Tags users
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Theme preference"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/theme [put]
func (uc *UserController) UpdateTheme(c *fiber.Ctx) error {
	var input struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Theme != "dark" && input.Theme != "light" {
		return utils.BadRequest(c, "Theme must be dark or light")
	}

	sess, ok := uc.Sessions.UpdateProfile(middleware.TokenFromCtx(c), session.ProfileUpdate{
		Theme: &input.Theme,
	})
	if !ok {
		return utils.Unauthorized(c, "Session expired")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"theme": sess.Theme,
	})
}

// Onboarding is a strictly linear three-step sequence. Each step requires a
// non-empty valid selection and every earlier step to be done already;
// replaying a step with the same selection is harmless.

// OnboardingEducation godoc
// @Summary Onboarding step 1: education level
// @Tags onboarding
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Education level"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/onboarding/education [post]
func (uc *UserController) OnboardingEducation(c *fiber.Ctx) error {
	var input struct {
		EducationLevel string `json:"education_level"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if !models.ValidEducationLevel(input.EducationLevel) {
		return utils.BadRequest(c, "Select an education level to continue")
	}

	sess, ok := uc.Sessions.UpdateProfile(middleware.TokenFromCtx(c), session.ProfileUpdate{
		EducationLevel: &input.EducationLevel,
	})
	if !ok {
		return utils.Unauthorized(c, "Session expired")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"education_level": sess.EducationLevel,
		"next_step":       "interests",
	})
}

// OnboardingInterests godoc
// @Summary Onboarding step 2: interest tags
// @Tags onboarding
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Interest tags"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/onboarding/interests [post]
func (uc *UserController) OnboardingInterests(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if sess.EducationLevel == "" {
		return utils.BadRequest(c, "Complete the education step first")
	}

	var input struct {
		Interests []string `json:"interests"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if !models.ValidInterests(input.Interests) {
		return utils.BadRequest(c, "Select at least one interest to continue")
	}

	updated, ok := uc.Sessions.UpdateProfile(middleware.TokenFromCtx(c), session.ProfileUpdate{
		Interests: &input.Interests,
	})
	if !ok {
		return utils.Unauthorized(c, "Session expired")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"interests": updated.Interests,
		"next_step": "knowledge",
	})
}

// OnboardingKnowledge godoc
// @Summary Onboarding step 3: knowledge level
// @Description Completes profile setup and unlocks the main application
// @Tags onboarding
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Knowledge level"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/onboarding/knowledge [post]
func (uc *UserController) OnboardingKnowledge(c *fiber.Ctx) error {
	sess, ok := middleware.SessionFromCtx(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if sess.EducationLevel == "" || len(sess.Interests) == 0 {
		return utils.BadRequest(c, "Complete the earlier onboarding steps first")
	}

	var input struct {
		KnowledgeLevel string `json:"knowledge_level"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if !models.ValidKnowledgeLevel(input.KnowledgeLevel) {
		return utils.BadRequest(c, "Select a knowledge level to continue")
	}

	updated, ok := uc.Sessions.UpdateProfile(middleware.TokenFromCtx(c), session.ProfileUpdate{
		KnowledgeLevel: &input.KnowledgeLevel,
	})
	if !ok {
		return utils.Unauthorized(c, "Session expired")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"profile":             updated,
		"onboarding_complete": updated.OnboardingComplete(),
	})
}
