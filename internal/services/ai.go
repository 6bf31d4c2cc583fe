package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/config"
)

// AnalysisUnavailable is returned in place of a narrative when the text
// service cannot be reached. It is a placeholder, not an error: AI calls
// are fire-and-forget and never fail a leader request.
const AnalysisUnavailable = "Automatic analysis is currently unavailable."

// AIService wraps the external text-generation endpoint behind the two
// calls the leader surface needs.
type AIService struct {
	log    *zap.Logger
	client *http.Client
}

func NewAIService(log *zap.Logger) *AIService {
	timeout := 20 * time.Second
	if config.Conf != nil && config.Conf.AI.TimeoutSeconds > 0 {
		timeout = time.Duration(config.Conf.AI.TimeoutSeconds) * time.Second
	}
	return &AIService{
		log:    log,
		client: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete performs one chat completion round-trip.
func (s *AIService) complete(ctx context.Context, system, user string) (string, error) {
	aiConf := config.Conf.AI

	body, err := json.Marshal(chatRequest{
		Model: aiConf.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, aiConf.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+aiConf.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text service returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("text service returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// SuggestAttributes asks for sensory attributes fitting a free-text product
// description. Failures degrade to an empty list.
func (s *AIService) SuggestAttributes(ctx context.Context, description string) []string {
	system := "You are a sensory science assistant. Reply with a comma-separated list of 5 to 10 sensory attributes, nothing else."
	user := fmt.Sprintf("Suggest evaluation attributes for this product: %s", description)

	raw, err := s.complete(ctx, system, user)
	if err != nil {
		s.log.Warn("Attribute suggestion failed", zap.Error(err))
		return nil
	}

	var attrs []string
	for _, part := range strings.Split(raw, ",") {
		if a := strings.TrimSpace(strings.Trim(strings.TrimSpace(part), ".")); a != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// Analyze asks for a short narrative reading of a test's aggregate summary.
// Failures degrade to the placeholder string.
func (s *AIService) Analyze(ctx context.Context, testName, method, summary string) string {
	system := "You are a sensory panel analyst. Write a short plain-language interpretation of the aggregated panel results you are given."
	user := fmt.Sprintf("Test: %s\nMethod: %s\n\n%s", testName, method, summary)

	narrative, err := s.complete(ctx, system, user)
	if err != nil {
		s.log.Warn("Narrative analysis failed", zap.Error(err), zap.String("test", testName))
		return AnalysisUnavailable
	}
	return narrative
}
