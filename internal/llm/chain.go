package llm

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/NokoLucky/grocery-ai-api/internal/metrics"
)

// Chain tries each provider in order and returns the first non-empty
// response. Transport errors, bad statuses and empty bodies all read as "this
// provider failed"; they are logged and never surface past the chain. With
// the synthetic provider last, Generate cannot fail in practice.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewChain(logger *zap.Logger, m *metrics.Metrics, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger, metrics: m}
}

func (c *Chain) Generate(ctx context.Context, prompt Prompt) (string, error) {
	for _, p := range c.providers {
		if c.metrics != nil {
			c.metrics.ProviderAttempts.WithLabelValues(p.Name()).Inc()
		}

		text, err := p.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}

		if c.metrics != nil {
			c.metrics.ProviderFailures.WithLabelValues(p.Name()).Inc()
		}
		c.logger.Warn("provider failed, advancing chain",
			zap.String("provider", p.Name()),
			zap.Error(err),
		)
	}
	return "", errors.New("all providers exhausted")
}
