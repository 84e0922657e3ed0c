// Package genai is a typed façade over the hosted generative-language API.
// It exposes the three call shapes the application needs: a free-form tutor
// turn, a structured quiz and a structured lesson. There is no retry,
// streaming or partial-result handling at this layer.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Poornima1010/SmartLearning/backend/metrics"
)

const tutorSystemInstruction = "You are Gene, an encouraging biotechnology tutor for the GeneXis " +
	"learning platform. Explain concepts clearly, adapt to the learner's level, ask guiding " +
	"questions and keep answers focused on biotechnology and the life sciences."

// Config configures endpoint, model and HTTP behavior.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client issues generation requests. It is stateless and safe for
// concurrent use.
type Client struct {
	cfg       Config
	logger    *log.Logger
	collector *metrics.Collector
}

// NewClient builds a generation client. The collector may be nil when
// telemetry is not wired (tests).
func NewClient(cfg Config, logger *log.Logger, collector *metrics.Collector) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &Client{cfg: cfg, logger: logger, collector: collector}
}

// Turn is one prior exchange in a tutoring conversation.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// QuizQuestion is one generated multiple-choice question.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"` // index into Options
	Explanation string   `json:"explanation"`
}

// LessonSection is one titled section of a generated lesson.
type LessonSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LessonDocument is a generated lesson. The zero value is the designed
// empty-document sentinel handed to callers on unparseable responses.
type LessonDocument struct {
	Title    string          `json:"title"`
	Sections []LessonSection `json:"sections"`
}

// Wire types for the generateContent endpoint.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Converse sends the conversation history plus the new message under the
// fixed tutor instruction and returns the model's reply unmodified.
func (c *Client) Converse(ctx context.Context, message string, history []Turn) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: turn.Text}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})

	req := generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: tutorSystemInstruction}}},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		c.record("converse", "remote_error")
		return "", err
	}
	if text == "" {
		c.record("converse", "empty")
		return "", fmt.Errorf("generation response missing output text")
	}
	c.record("converse", "ok")
	return text, nil
}

// GenerateQuiz requests exactly five multiple-choice questions about topic.
// A response that cannot be parsed yields an empty slice, never an error;
// only transport failures propagate.
func (c *Client) GenerateQuiz(ctx context.Context, topic string) ([]QuizQuestion, error) {
	prompt := fmt.Sprintf("Generate exactly 5 multiple-choice questions about %q for a "+
		"biotechnology learner. Each question has 4 options, the index of the correct "+
		"option and a short explanation of the answer.", topic)

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   quizSchema(),
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		c.record("quiz", "remote_error")
		return nil, err
	}

	var questions []QuizQuestion
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		if c.logger != nil {
			c.logger.Printf("genai: unparseable quiz response for topic %q: %v", topic, err)
		}
		if c.collector != nil {
			c.collector.RecordParseFailure("quiz")
		}
		c.record("quiz", "unparseable")
		return []QuizQuestion{}, nil
	}
	if len(questions) == 0 {
		if c.collector != nil {
			c.collector.RecordEmptyResult("quiz")
		}
		c.record("quiz", "empty")
		return []QuizQuestion{}, nil
	}
	c.record("quiz", "ok")
	return questions, nil
}

// GenerateLesson requests a lesson document on topic covering an overview,
// key concepts and future implications. An unparseable response yields the
// zero-value document, never an error.
func (c *Client) GenerateLesson(ctx context.Context, topic string) (LessonDocument, error) {
	prompt := fmt.Sprintf("Write a structured lesson about %q for a biotechnology learner. "+
		"Give the lesson a title and three sections covering an overview, the key concepts "+
		"and the future implications of the topic.", topic)

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   lessonSchema(),
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		c.record("lesson", "remote_error")
		return LessonDocument{}, err
	}

	var doc LessonDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		if c.logger != nil {
			c.logger.Printf("genai: unparseable lesson response for topic %q: %v", topic, err)
		}
		if c.collector != nil {
			c.collector.RecordParseFailure("lesson")
		}
		c.record("lesson", "unparseable")
		return LessonDocument{}, nil
	}
	if doc.Title == "" && len(doc.Sections) == 0 {
		if c.collector != nil {
			c.collector.RecordEmptyResult("lesson")
		}
		c.record("lesson", "empty")
		return LessonDocument{}, nil
	}
	c.record("lesson", "ok")
	return doc, nil
}

// generate performs one generateContent call and returns the concatenated
// text of the first candidate.
func (c *Client) generate(ctx context.Context, request generateRequest) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key travels only as a header and is never echoed in errors.
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	start := time.Now()
	res, err := c.cfg.HTTPClient.Do(req)
	if c.collector != nil {
		c.collector.RecordLatency(time.Since(start).Seconds())
	}
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		errBody, readErr := io.ReadAll(io.LimitReader(res.Body, 4096))
		if readErr != nil {
			return "", fmt.Errorf("read generation error body: %w", readErr)
		}
		return "", fmt.Errorf("generation request status %d: %s", res.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var payload generateResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}

	if len(payload.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range payload.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func (c *Client) record(operation, outcome string) {
	if c.collector != nil {
		c.collector.RecordCall(operation, outcome)
	}
}

func quizSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "ARRAY",
		"items": map[string]interface{}{
			"type": "OBJECT",
			"properties": map[string]interface{}{
				"question":    map[string]interface{}{"type": "STRING"},
				"options":     map[string]interface{}{"type": "ARRAY", "items": map[string]interface{}{"type": "STRING"}},
				"answer":      map[string]interface{}{"type": "INTEGER"},
				"explanation": map[string]interface{}{"type": "STRING"},
			},
			"required": []string{"question", "options", "answer", "explanation"},
		},
	}
}

func lessonSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{"type": "STRING"},
			"sections": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"title":   map[string]interface{}{"type": "STRING"},
						"content": map[string]interface{}{"type": "STRING"},
					},
					"required": []string{"title", "content"},
				},
			},
		},
		"required": []string{"title", "sections"},
	}
}
