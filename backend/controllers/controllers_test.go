package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Poornima1010/SmartLearning/backend/config"
	"github.com/Poornima1010/SmartLearning/backend/genai"
	"github.com/Poornima1010/SmartLearning/backend/routes"
	"github.com/Poornima1010/SmartLearning/backend/session"
	"github.com/Poornima1010/SmartLearning/backend/store"
	"github.com/Poornima1010/SmartLearning/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int

// stubGeneration answers like the generation service: structured calls are
// told apart by their response schema.
func stubGeneration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GenerationConfig *struct {
			ResponseSchema map[string]interface{} `json:"responseSchema"`
		} `json:"generationConfig"`
	}
	body, _ := io.ReadAll(r.Body)
	json.Unmarshal(body, &req)

	text := "Great question! Let's look at the basics together."
	if req.GenerationConfig != nil {
		switch req.GenerationConfig.ResponseSchema["type"] {
		case "ARRAY":
			questions := make([]genai.QuizQuestion, 5)
			for i := range questions {
				questions[i] = genai.QuizQuestion{
					Question:    fmt.Sprintf("Question %d", i+1),
					Options:     []string{"a", "b", "c", "d"},
					Answer:      1,
					Explanation: "b is correct",
				}
			}
			payload, _ := json.Marshal(questions)
			text = string(payload)
		case "OBJECT":
			doc := genai.LessonDocument{
				Title: "Lesson",
				Sections: []genai.LessonSection{
					{Title: "Overview", Content: "..."},
					{Title: "Key Concepts", Content: "..."},
					{Title: "Future Implications", Content: "..."},
				},
			}
			payload, _ := json.Marshal(doc)
			text = string(payload)
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
}

func newTestApp(t *testing.T, generation http.HandlerFunc) *fiber.App {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{JWTSecret: "testsecret", ServerPort: "8080"}

	accounts := store.NewAccountStore(db)
	sessions := session.NewManager(accounts,
		session.NewDurableStore(db, nil),
		session.NewMemoryStore(),
		nil)

	server := httptest.NewServer(generation)
	t.Cleanup(server.Close)
	ai := genai.NewClient(genai.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-test",
	}, nil, nil)

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, sessions, ai, nil)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func register(t *testing.T, app *fiber.App, name, email, password string) string {
	t.Helper()
	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	token := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func completeOnboarding(t *testing.T, app *fiber.App, token string) {
	t.Helper()
	status, _ := doJSON(t, app, "POST", "/api/user/onboarding/education", token,
		map[string]string{"education_level": "Undergraduate"})
	require.Equal(t, fiber.StatusOK, status)
	status, _ = doJSON(t, app, "POST", "/api/user/onboarding/interests", token,
		map[string]interface{}{"interests": []string{"Genetics"}})
	require.Equal(t, fiber.StatusOK, status)
	status, result := doJSON(t, app, "POST", "/api/user/onboarding/knowledge", token,
		map[string]string{"knowledge_level": "Beginner"})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	require.Equal(t, true, data["onboarding_complete"])
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	register(t, app, "Alex", "a@x.com", "secret1")

	status, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "a@x.com",
		"password": "secret1",
		"remember": true,
	})
	assert.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	sess := data["session"].(map[string]interface{})
	assert.Equal(t, "Alex", sess["name"])
	assert.Equal(t, float64(0), sess["xp"])
	assert.Equal(t, float64(1), sess["level"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	register(t, app, "Alex", "a@x.com", "secret1")

	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Blake",
		"email":    "a@x.com",
		"password": "other",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "duplicate_account", result["code"])
	assert.Equal(t, "An account with this email already exists.", result["message"])
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	register(t, app, "Alex", "a@x.com", "secret1")

	status, result := doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", result["code"])
	assert.Equal(t, "Incorrect password.", result["message"])

	status, result = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "nobody@x.com",
		"password": "whatever",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "account_not_found", result["code"])
	assert.Equal(t, "No account found with that email.", result["message"])
}

func TestOnboardingGateBlocksMainApp(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")

	status, result := doJSON(t, app, "GET", "/api/quiz/attempts", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "onboarding_required", result["code"])

	completeOnboarding(t, app, token)

	status, _ = doJSON(t, app, "GET", "/api/quiz/attempts", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestOnboardingStepsAreForwardOnly(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")

	// Later steps refuse to run before the earlier ones.
	status, _ := doJSON(t, app, "POST", "/api/user/onboarding/interests", token,
		map[string]interface{}{"interests": []string{"Genetics"}})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "POST", "/api/user/onboarding/knowledge", token,
		map[string]string{"knowledge_level": "Beginner"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Empty selections never advance a step.
	status, _ = doJSON(t, app, "POST", "/api/user/onboarding/education", token,
		map[string]string{"education_level": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)

	completeOnboarding(t, app, token)

	// Replaying with the same selections stays completed.
	completeOnboarding(t, app, token)
}

func TestQuizGenerateAndSubmit(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")
	completeOnboarding(t, app, token)

	status, result := doJSON(t, app, "POST", "/api/quiz/generate", token,
		map[string]string{"topic": "Genetics"})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	questions := data["questions"].([]interface{})
	require.Len(t, questions, 5)

	// The correct answers stay server-side until submission.
	first := questions[0].(map[string]interface{})
	assert.NotContains(t, first, "answer")
	assert.NotContains(t, first, "explanation")

	attemptID := data["attempt_id"].(float64)

	status, result = doJSON(t, app, "POST", "/api/quiz/submit", token, map[string]interface{}{
		"attempt_id": attemptID,
		"answers":    []int{1, 1, 1, 0, 2},
	})
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["correct"])
	assert.Equal(t, float64(60), data["score"])
	assert.Equal(t, float64(30), data["xp"])
	assert.Equal(t, float64(1), data["level"])

	// An attempt grades only once.
	status, _ = doJSON(t, app, "POST", "/api/quiz/submit", token, map[string]interface{}{
		"attempt_id": attemptID,
		"answers":    []int{1, 1, 1, 1, 1},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestQuizGenerateMalformedResponseYieldsZeroQuestions(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "garbage"}},
				}},
			},
		})
	})

	token := register(t, app, "Alex", "a@x.com", "secret1")
	completeOnboarding(t, app, token)

	status, result := doJSON(t, app, "POST", "/api/quiz/generate", token,
		map[string]string{"topic": "Genetics"})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Empty(t, data["questions"])
	assert.Nil(t, data["attempt_id"])
}

func TestChatDegradesOnRemoteFailure(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	token := register(t, app, "Alex", "a@x.com", "secret1")
	completeOnboarding(t, app, token)

	status, result := doJSON(t, app, "POST", "/api/chat", token,
		map[string]string{"message": "What is DNA?"})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, true, data["degraded"])
	assert.NotEmpty(t, data["reply"])
}

func TestChatRoundtripStoresTranscript(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")
	completeOnboarding(t, app, token)

	status, result := doJSON(t, app, "POST", "/api/chat", token,
		map[string]string{"message": "What is DNA?"})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, false, data["degraded"])

	status, result = doJSON(t, app, "GET", "/api/chat/history", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	messages := data["messages"].([]interface{})
	require.Len(t, messages, 2)
	first := messages[0].(map[string]interface{})
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "What is DNA?", first["text"])
}

func TestLessonGenerateAndFetch(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")
	completeOnboarding(t, app, token)

	status, result := doJSON(t, app, "POST", "/api/lessons/generate", token,
		map[string]string{"topic": "CRISPR"})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Lesson", data["title"])
	lessonID := data["lesson_id"].(float64)

	status, result = doJSON(t, app, "GET", fmt.Sprintf("/api/lessons/%d", int(lessonID)), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	data = result["data"].(map[string]interface{})
	sections := data["sections"].([]interface{})
	assert.Len(t, sections, 3)
}

func TestThemePreference(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")

	status, result := doJSON(t, app, "PUT", "/api/user/theme", token,
		map[string]string{"theme": "light"})
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "light", data["theme"])

	status, _ = doJSON(t, app, "PUT", "/api/user/theme", token,
		map[string]string{"theme": "purple"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")

	status, _ := doJSON(t, app, "GET", "/api/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, "POST", "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, "GET", "/api/user/profile", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// Logout stays safe with no active session.
	status, _ = doJSON(t, app, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestProgressOverview(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")
	completeOnboarding(t, app, token)

	status, result := doJSON(t, app, "GET", "/api/progress/overview", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["level"])
	assert.Equal(t, float64(0), data["xp"])
	assert.Equal(t, float64(1), data["streak_days"])
}

func TestPlatformAnalyticsRequiresAdmin(t *testing.T) {
	app := newTestApp(t, stubGeneration)

	token := register(t, app, "Alex", "a@x.com", "secret1")

	status, _ := doJSON(t, app, "GET", "/api/analytics/platform", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}
