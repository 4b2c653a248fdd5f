package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects a provider and carries the settings of each one.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // for OpenAI-compatible servers
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes the exponential backoff of WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses Anthropic with cheap, fast models everywhere.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// keyedProvider describes a provider that needs an API key. stdEnv is
// the variable its own SDK reads, e.g. OPENAI_API_KEY.
type keyedProvider struct {
	name   string
	stdEnv string
	key    func(*Config) *string
	model  func(*Config) *string
	base   func(*Config) *string
}

// keyedProviders is also the discovery order of DiscoverConfig.
var keyedProviders = []keyedProvider{
	{
		name:   ProviderGemini,
		stdEnv: "GEMINI_API_KEY",
		key:    func(c *Config) *string { return &c.Gemini.APIKey },
		model:  func(c *Config) *string { return &c.Gemini.Model },
	},
	{
		name:   ProviderOpenAI,
		stdEnv: "OPENAI_API_KEY",
		key:    func(c *Config) *string { return &c.OpenAI.APIKey },
		model:  func(c *Config) *string { return &c.OpenAI.Model },
		base:   func(c *Config) *string { return &c.OpenAI.BaseURL },
	},
	{
		name:   ProviderAnthropic,
		stdEnv: "ANTHROPIC_API_KEY",
		key:    func(c *Config) *string { return &c.Anthropic.APIKey },
		model:  func(c *Config) *string { return &c.Anthropic.Model },
	},
	{
		name:   ProviderOpenRouter,
		stdEnv: "OPENROUTER_API_KEY",
		key:    func(c *Config) *string { return &c.OpenRouter.APIKey },
		model:  func(c *Config) *string { return &c.OpenRouter.Model },
		base:   func(c *Config) *string { return &c.OpenRouter.BaseURL },
	},
}

// envPrefix is LEARNCRICKET_<PROVIDER>_, e.g. LEARNCRICKET_GEMINI_.
func (p keyedProvider) envPrefix() string {
	return "LEARNCRICKET_" + strings.ToUpper(p.name) + "_"
}

func lookupKeyed(name string) (keyedProvider, bool) {
	for _, p := range keyedProviders {
		if p.name == name {
			return p, true
		}
	}
	return keyedProvider{}, false
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ConfigFromEnv builds a Config from LEARNCRICKET_* environment
// variables over the defaults: LEARNCRICKET_LLM_PROVIDER,
// LEARNCRICKET_LLM_TIMEOUT (a Go duration) and, per provider,
// LEARNCRICKET_<PROVIDER>_API_KEY, _MODEL and _BASE_URL where supported.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	setFromEnv(&cfg.Provider, "LEARNCRICKET_LLM_PROVIDER")
	for _, p := range keyedProviders {
		prefix := p.envPrefix()
		setFromEnv(p.key(&cfg), prefix+"API_KEY")
		setFromEnv(p.model(&cfg), prefix+"MODEL")
		if p.base != nil {
			setFromEnv(p.base(&cfg), prefix+"BASE_URL")
		}
	}
	if d, err := time.ParseDuration(os.Getenv("LEARNCRICKET_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

// DiscoverConfig picks the first provider whose standard API key
// variable is set, in the order Gemini, OpenAI, Anthropic, OpenRouter.
func DiscoverConfig() (Config, bool) {
	for _, p := range keyedProviders {
		k := os.Getenv(p.stdEnv)
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = p.name
		*p.key(&cfg) = k
		return cfg, true
	}
	return Config{}, false
}

// ResolveConfig prefers explicit LEARNCRICKET_* settings and falls back
// to discovery. An explicitly chosen provider without a key is not
// replaced by a discovered one. ok is false when no provider has a key.
func ResolveConfig() (Config, bool) {
	cfg := ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg, true
	}
	if os.Getenv("LEARNCRICKET_LLM_PROVIDER") != "" {
		return cfg, false
	}
	return DiscoverConfig()
}

// Validate checks that the selected provider exists and has a key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	p, ok := lookupKeyed(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *p.key(&c) == "" {
		return fmt.Errorf("%sAPI_KEY is required for the %s provider", p.envPrefix(), p.name)
	}
	return nil
}
