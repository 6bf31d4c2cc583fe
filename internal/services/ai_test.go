package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/config"
)

func pointServiceAt(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config.Conf = &config.Config{AI: config.AIConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 2,
	}}
	return NewAIService(zap.NewNop())
}

func chatReply(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": chatMessage{Role: "assistant", Content: content}},
		},
	})
	return body
}

func TestSuggestAttributesParsesCommaList(t *testing.T) {
	var gotPath, gotAuth string
	s := pointServiceAt(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write(chatReply("Sweetness, Sourness,  Apple aroma."))
	})

	attrs := s.SuggestAttributes(context.Background(), "apple juice concentrate")
	assert.Equal(t, []string{"Sweetness", "Sourness", "Apple aroma"}, attrs)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestSuggestAttributesDegradesToNil(t *testing.T) {
	s := pointServiceAt(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.Nil(t, s.SuggestAttributes(context.Background(), "anything"))
}

func TestAnalyzeReturnsNarrative(t *testing.T) {
	s := pointServiceAt(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		w.Write(chatReply("Judges clearly separated the two samples."))
	})

	got := s.Analyze(context.Background(), "Juice profile", "qda", "Sample 417 attribute 11 mean 50.00.")
	assert.Equal(t, "Judges clearly separated the two samples.", got)
}

func TestAnalyzeDegradesToPlaceholder(t *testing.T) {
	s := pointServiceAt(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})
	assert.Equal(t, AnalysisUnavailable, s.Analyze(context.Background(), "t", "qda", "s"))
}
