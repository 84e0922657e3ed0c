package routes

import (
	"log"
	"time"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/controllers"
	"github.com/Poornima1010/SmartLearning/backend/genai"
	"github.com/Poornima1010/SmartLearning/backend/middleware"
	"github.com/Poornima1010/SmartLearning/backend/session"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, sessions *session.Manager, ai *genai.Client, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, sessions)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/logout", authController.Logout)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg, sessions)
	onboardingGate := middleware.RequireOnboarding()
	adminMiddleware := middleware.AdminMiddleware()
	generationLimiter := middleware.NewRateLimiter(rate.Every(2*time.Second), 3)

	app.Get("/api/auth/me", authMiddleware, authController.Me)

	// User and onboarding routes
	userController := controllers.NewUserController(db, cfg, sessions)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Put("/api/user/theme", authMiddleware, userController.UpdateTheme)
	app.Post("/api/user/onboarding/education", authMiddleware, userController.OnboardingEducation)
	app.Post("/api/user/onboarding/interests", authMiddleware, userController.OnboardingInterests)
	app.Post("/api/user/onboarding/knowledge", authMiddleware, userController.OnboardingKnowledge)

	// Chat routes
	chatController := controllers.NewChatController(db, cfg, ai, logger)
	chat := app.Group("/api/chat", authMiddleware, onboardingGate)
	chat.Post("/", generationLimiter.Middleware(), chatController.SendMessage)
	chat.Get("/history", chatController.GetHistory)

	// Quiz routes
	quizController := controllers.NewQuizController(db, cfg, ai, sessions)
	quiz := app.Group("/api/quiz", authMiddleware, onboardingGate)
	quiz.Post("/generate", generationLimiter.Middleware(), quizController.Generate)
	quiz.Post("/submit", quizController.Submit)
	quiz.Get("/attempts", quizController.GetAttempts)

	// Lesson routes
	lessonController := controllers.NewLessonController(db, cfg, ai)
	lessons := app.Group("/api/lessons", authMiddleware, onboardingGate)
	lessons.Post("/generate", generationLimiter.Middleware(), lessonController.Generate)
	lessons.Get("/", lessonController.GetLessons)
	lessons.Get("/:id", lessonController.GetLesson)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Get("/api/progress", authMiddleware, onboardingGate, progressController.GetProgress)
	app.Get("/api/progress/overview", authMiddleware, onboardingGate, progressController.GetProgressOverview)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(db, cfg)
	app.Get("/api/analytics", authMiddleware, onboardingGate, analyticsController.GetUserAnalytics)
	app.Get("/api/analytics/platform", authMiddleware, adminMiddleware, analyticsController.GetPlatformAnalytics)
}
