package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tanmay/resona/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, recorder store.EventRecorder) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base,
	// so every attempt is recorded individually.
	logged := WithLogging(base, cfg.Provider, recorder)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewUnconfiguredProvider returns a Provider whose every call fails with
// ErrProviderUnavailable. The read-only CLI subcommands use it where a
// Provider is required by a constructor but never actually called.
func NewUnconfiguredProvider() Provider {
	return unconfiguredProvider{}
}

type unconfiguredProvider struct{}

func (unconfiguredProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: errors.New("no API key configured")}
}

func (unconfiguredProvider) ModelID() string { return "unconfigured" }
