package middleware

import (
	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/session"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
)

const (
	// Locals keys set by AuthMiddleware for downstream handlers.
	LocalsSession = "session"
	LocalsToken   = "session_token"
)

// AuthMiddleware validates the request JWT and resolves the active session
// from the session stores. A valid JWT whose session was logged out or lost
// to a restart is rejected.
func AuthMiddleware(cfg *config.Config, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := utils.ExtractSessionID(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		sess, ok := sessions.Resolve(token)
		if !ok {
			return utils.Unauthorized(c, "Session expired")
		}

		c.Locals(LocalsSession, sess)
		c.Locals(LocalsToken, token)
		return c.Next()
	}
}

// SessionFromCtx returns the session resolved by AuthMiddleware.
func SessionFromCtx(c *fiber.Ctx) (session.Session, bool) {
	sess, ok := c.Locals(LocalsSession).(session.Session)
	return sess, ok
}

// TokenFromCtx returns the session token resolved by AuthMiddleware.
func TokenFromCtx(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalsToken).(string)
	return token
}

// RequireOnboarding gates the main application routes on a completed
// profile setup.
func RequireOnboarding() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromCtx(c)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !sess.OnboardingComplete() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Onboarding required",
				"code":  "onboarding_required",
			})
		}
		return c.Next()
	}
}

// AdminMiddleware restricts a route to admin accounts.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromCtx(c)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if sess.Role != "admin" {
			return utils.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}
