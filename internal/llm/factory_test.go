package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, b := range envBindings {
		t.Setenv(EnvPrefix+b.name, "")
	}
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearProviderEnv(t)
	_, ok := ConfigFromEnv()
	assert.False(t, ok)

	t.Setenv("PHISHWISE_LLM_PROVIDER", "openai")
	t.Setenv("PHISHWISE_OPENAI_API_KEY", "sk-test")
	t.Setenv("PHISHWISE_LLM_TIMEOUT", "5s")

	cfg, ok := ConfigFromEnv()
	require.True(t, ok)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig_Priority(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENROUTER_API_KEY", "r")

	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)

	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok = DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	assert.ErrorContains(t, cfg.Validate(), "PHISHWISE_OPENROUTER_API_KEY")

	cfg.Provider = "mock"
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestNewProviderFromEnv_NothingConfigured(t *testing.T) {
	clearProviderEnv(t)
	_, err := NewProviderFromEnv(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoProviderConfigured)
}

func TestNewProvider_OpenRouter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "slow", p.ModelID())

	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	assert.Same(t, Provider(mock), WithTimeout(mock, 0))
}
