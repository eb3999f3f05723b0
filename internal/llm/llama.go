package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LlamaClient is the secondary provider. The hosted Llama endpoints answer in
// several response shapes, so extraction tries each known variant before
// giving up.
type LlamaClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	logger *zap.Logger
}

func NewLlamaClient(apiKey, apiURL, model string, timeout time.Duration, logger *zap.Logger) *LlamaClient {
	return &LlamaClient{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (l *LlamaClient) Name() string { return "llama" }

func (l *LlamaClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if l.apiKey == "" {
		return "", errors.New("missing LLAMA_API_KEY")
	}
	if l.apiURL == "" {
		return "", errors.New("missing LLAMA_API_URL")
	}

	payload := map[string]any{
		"model":       l.model,
		"input":       prompt.System + "\n\n" + prompt.User,
		"temperature": 0.1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("llama api error: " + truncate(string(raw), 200))
	}

	l.logger.Debug("llama raw response", zap.String("body", truncate(string(raw), 2000)))

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}

	if text := llamaText(parsed); text != "" {
		return text, nil
	}
	return "", errors.New("empty llama response")
}

// llamaText pulls the generated text out of whichever response variant the
// endpoint used.
func llamaText(parsed map[string]any) string {
	if v, ok := parsed["output_text"].(string); ok && v != "" {
		return v
	}
	if v, ok := parsed["generated_text"].(string); ok && v != "" {
		return v
	}
	if gen, ok := parsed["generation"].(map[string]any); ok {
		if txt, ok := gen["text"].(string); ok && txt != "" {
			return txt
		}
	}
	// OpenAI-compatible gateways
	if choices, ok := parsed["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if msg, ok := choice["message"].(map[string]any); ok {
				if txt, ok := msg["content"].(string); ok && txt != "" {
					return txt
				}
			}
			if txt, ok := choice["text"].(string); ok && txt != "" {
				return txt
			}
		}
	}
	return ""
}
