package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStub returns a client pointed at a server that replies with the given
// candidate text.
func newStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-test",
	}, nil, nil)
}

func candidateReply(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestConverseReturnsReply(t *testing.T) {
	var gotBody generateRequest
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		candidateReply("DNA stores genetic information.")(w, r)
	})

	history := []Turn{
		{Role: "user", Text: "Hi"},
		{Role: "model", Text: "Hello! What shall we study?"},
	}
	reply, err := client.Converse(context.Background(), "What is DNA?", history)
	require.NoError(t, err)
	assert.Equal(t, "DNA stores genetic information.", reply)

	// History plus the new message, in order, under the tutor instruction.
	require.Len(t, gotBody.Contents, 3)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	assert.Equal(t, "model", gotBody.Contents[1].Role)
	assert.Equal(t, "What is DNA?", gotBody.Contents[2].Parts[0].Text)
	require.NotNil(t, gotBody.SystemInstruction)
	assert.Contains(t, gotBody.SystemInstruction.Parts[0].Text, "tutor")
}

func TestConverseRemoteFailure(t *testing.T) {
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Converse(context.Background(), "What is DNA?", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateQuizParsesQuestions(t *testing.T) {
	questions := []QuizQuestion{
		{Question: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: 2, Explanation: "because"},
		{Question: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: 0, Explanation: "since"},
		{Question: "Q3", Options: []string{"a", "b", "c", "d"}, Answer: 1, Explanation: "as"},
		{Question: "Q4", Options: []string{"a", "b", "c", "d"}, Answer: 3, Explanation: "so"},
		{Question: "Q5", Options: []string{"a", "b", "c", "d"}, Answer: 1, Explanation: "thus"},
	}
	payload, _ := json.Marshal(questions)
	client := newStub(t, candidateReply(string(payload)))

	got, err := client.GenerateQuiz(context.Background(), "Genetics")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "Q1", got[0].Question)
	assert.Equal(t, 2, got[0].Answer)
}

func TestGenerateQuizMalformedResponseYieldsEmpty(t *testing.T) {
	client := newStub(t, candidateReply("this is not json"))

	got, err := client.GenerateQuiz(context.Background(), "Genetics")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateQuizNoCandidatesYieldsEmpty(t *testing.T) {
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	})

	got, err := client.GenerateQuiz(context.Background(), "Genetics")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateQuizRemoteFailurePropagates(t *testing.T) {
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GenerateQuiz(context.Background(), "Genetics")
	require.Error(t, err)
}

func TestGenerateLessonParsesDocument(t *testing.T) {
	doc := LessonDocument{
		Title: "CRISPR",
		Sections: []LessonSection{
			{Title: "Overview", Content: "..."},
			{Title: "Key Concepts", Content: "..."},
			{Title: "Future Implications", Content: "..."},
		},
	}
	payload, _ := json.Marshal(doc)
	client := newStub(t, candidateReply(string(payload)))

	got, err := client.GenerateLesson(context.Background(), "CRISPR")
	require.NoError(t, err)
	assert.Equal(t, "CRISPR", got.Title)
	require.Len(t, got.Sections, 3)
}

func TestGenerateLessonMalformedResponseYieldsEmptyDocument(t *testing.T) {
	client := newStub(t, candidateReply("{broken"))

	got, err := client.GenerateLesson(context.Background(), "CRISPR")
	require.NoError(t, err)
	assert.Equal(t, LessonDocument{}, got)
}
