package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient is the primary provider. It loops over the configured model
// variants in priority order and returns the first usable candidate text.
type GeminiClient struct {
	apiKey  string
	models  []string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewGeminiClient(apiKey string, models []string, timeout time.Duration, logger *zap.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		models:  models,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *GeminiClient) Name() string { return "gemini" }

func (g *GeminiClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("missing GEMINI_API_KEY")
	}
	if len(g.models) == 0 {
		return "", errors.New("no gemini models configured")
	}

	var lastErr error
	for _, model := range g.models {
		text, err := g.generateWithModel(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		g.logger.Warn("gemini model failed, trying next",
			zap.String("model", model),
			zap.Error(err),
		)
	}
	return "", lastErr
}

func (g *GeminiClient) generateWithModel(ctx context.Context, model string, prompt Prompt) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)

	payload := map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]string{
				{"text": prompt.System},
			},
		},
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt.User},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error (%d): %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}

	g.logger.Debug("gemini raw response", zap.String("model", model), zap.String("body", truncate(string(raw), 2000)))

	return result.Candidates[0].Content.Parts[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
