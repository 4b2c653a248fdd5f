package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/store"
)

// NewProvider builds the configured provider. Calls flow through the
// timeout, then retry, then logging, so every attempt is recorded in
// events (which may be nil).
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log zerolog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	log = log.With().Str("component", "llm").Str("provider", cfg.Provider).Logger()
	p := WithLogging(base, events, log)
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}
