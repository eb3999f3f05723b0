package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(_ context.Context, _ Prompt) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestChainReturnsFirstSuccess(t *testing.T) {
	first := &stubProvider{name: "first", text: `{"ok": true}`}
	second := &stubProvider{name: "second", text: `{"unused": true}`}
	chain := NewChain(zap.NewNop(), nil, first, second)

	got, err := chain.Generate(context.Background(), Prompt{User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, got)
	assert.Zero(t, second.calls, "chain must short-circuit on first success")
}

func TestChainAdvancesPastFailures(t *testing.T) {
	dead := &stubProvider{name: "dead", err: errors.New("connection refused")}
	empty := &stubProvider{name: "empty", text: "   "}
	alive := &stubProvider{name: "alive", text: `{"ok": true}`}
	chain := NewChain(zap.NewNop(), nil, dead, empty, alive)

	got, err := chain.Generate(context.Background(), Prompt{User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, got)
	assert.Equal(t, 1, dead.calls)
	assert.Equal(t, 1, empty.calls, "empty body counts as a failure")
}

func TestChainExhaustion(t *testing.T) {
	dead := &stubProvider{name: "dead", err: errors.New("boom")}
	chain := NewChain(zap.NewNop(), nil, dead)

	_, err := chain.Generate(context.Background(), Prompt{User: "hello"})
	require.Error(t, err)
}

func TestChainWithSyntheticNeverFails(t *testing.T) {
	dead := &stubProvider{name: "dead", err: errors.New("boom")}
	chain := NewChain(zap.NewNop(), nil, dead, NewSynthetic())

	got, err := chain.Generate(context.Background(), BuildSuggestionsPrompt("mil"))
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
