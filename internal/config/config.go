// Package config loads learncricket settings from a TOML file and
// LEARNCRICKET_* environment variables.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/adaptive"
	"github.com/abhisek/learncricket/internal/innings"
	"github.com/abhisek/learncricket/internal/scoring"
	"github.com/abhisek/learncricket/internal/session"
	"github.com/abhisek/learncricket/internal/store"
	"github.com/abhisek/learncricket/internal/topics"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Question sources. SourceAuto uses the LLM when a provider key is
// configured and the built-in bank otherwise.
const (
	SourceAuto = "auto"
	SourceBank = "bank"
	SourceLLM  = "llm"
)

// Config is the full application configuration.
type Config struct {
	Match    MatchConfig    `toml:"match"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Adaptive AdaptiveConfig `toml:"adaptive"`
	Session  SessionConfig  `toml:"session"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	Supply   SupplyConfig   `toml:"supply"`
}

// MatchConfig sizes the innings.
type MatchConfig struct {
	Overs        int `toml:"overs"`
	BallsPerOver int `toml:"balls_per_over"`
	Wickets      int `toml:"wickets"`
}

// ScoringConfig holds the response-time cut-offs in seconds.
type ScoringConfig struct {
	Six    float64 `toml:"six"`
	Four   float64 `toml:"four"`
	Single float64 `toml:"single"`
}

// AdaptiveConfig tunes difficulty and topic selection.
type AdaptiveConfig struct {
	MinAttempts   int    `toml:"min_attempts"`
	FocusCount    int    `toml:"focus_count"`
	MinDifficulty string `toml:"min_difficulty"`
	MaxDifficulty string `toml:"max_difficulty"`
}

// SessionConfig tunes the question buffer.
type SessionConfig struct {
	Key               string `toml:"key"`
	BufferAhead       int    `toml:"buffer_ahead"`
	BatchSize         int    `toml:"batch_size"`
	MaxSupplyAttempts int    `toml:"max_supply_attempts"`
	RecentTopics      int    `toml:"recent_topics"`
}

// StorageConfig selects where progress is kept. The event log always
// lives in SQLite.
type StorageConfig struct {
	Backend     string `toml:"backend"`
	DBPath      string `toml:"db_path"`
	RedisURL    string `toml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// SupplyConfig selects the question source.
type SupplyConfig struct {
	Source string `toml:"source"`
	// Seed makes the bank order reproducible. Zero is random.
	Seed uint64 `toml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	ic := innings.DefaultConfig()
	th := scoring.DefaultThresholds()
	return Config{
		Match:   MatchConfig{Overs: ic.TotalOvers, BallsPerOver: ic.BallsPerOver, Wickets: ic.TotalWickets},
		Scoring: ScoringConfig{Six: th.Six, Four: th.Four, Single: th.Single},
		Adaptive: AdaptiveConfig{
			MinAttempts: 3,
			FocusCount:  adaptive.DefaultFocusCount,
		},
		Session: SessionConfig{
			Key:               session.DefaultKey,
			BufferAhead:       session.DefaultBufferAhead,
			BatchSize:         session.DefaultBatchSize,
			MaxSupplyAttempts: session.DefaultMaxSupplyAttempts,
			RecentTopics:      session.DefaultRecentTopics,
		},
		Storage: StorageConfig{Backend: BackendSQLite, RedisPrefix: store.DefaultRedisPrefix},
		Log:     LogConfig{Level: "info"},
		Supply:  SupplyConfig{Source: SourceAuto},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error. An empty path
// uses DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to stat config: %w", err)
		}
	} else {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		key string
		dst *string
	}{
		{"LEARNCRICKET_MIN_DIFFICULTY", &c.Adaptive.MinDifficulty},
		{"LEARNCRICKET_MAX_DIFFICULTY", &c.Adaptive.MaxDifficulty},
		{"LEARNCRICKET_SESSION_KEY", &c.Session.Key},
		{"LEARNCRICKET_STORAGE", &c.Storage.Backend},
		{"LEARNCRICKET_DB", &c.Storage.DBPath},
		{"LEARNCRICKET_REDIS_URL", &c.Storage.RedisURL},
		{"LEARNCRICKET_REDIS_PREFIX", &c.Storage.RedisPrefix},
		{"LEARNCRICKET_LOG_LEVEL", &c.Log.Level},
		{"LEARNCRICKET_LOG_FILE", &c.Log.File},
		{"LEARNCRICKET_SUPPLY", &c.Supply.Source},
	}
	for _, s := range strs {
		if v := os.Getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"LEARNCRICKET_OVERS", &c.Match.Overs},
		{"LEARNCRICKET_BALLS_PER_OVER", &c.Match.BallsPerOver},
		{"LEARNCRICKET_WICKETS", &c.Match.Wickets},
		{"LEARNCRICKET_MIN_ATTEMPTS", &c.Adaptive.MinAttempts},
		{"LEARNCRICKET_FOCUS_COUNT", &c.Adaptive.FocusCount},
		{"LEARNCRICKET_BUFFER_AHEAD", &c.Session.BufferAhead},
		{"LEARNCRICKET_BATCH_SIZE", &c.Session.BatchSize},
		{"LEARNCRICKET_MAX_SUPPLY_ATTEMPTS", &c.Session.MaxSupplyAttempts},
		{"LEARNCRICKET_RECENT_TOPICS", &c.Session.RecentTopics},
	}
	for _, i := range ints {
		v := os.Getenv(i.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: expected an integer, got %q", i.key, v)
		}
		*i.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"LEARNCRICKET_SIX_SECS", &c.Scoring.Six},
		{"LEARNCRICKET_FOUR_SECS", &c.Scoring.Four},
		{"LEARNCRICKET_SINGLE_SECS", &c.Scoring.Single},
	}
	for _, f := range floats {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: expected a number, got %q", f.key, v)
		}
		*f.dst = x
	}

	if v := os.Getenv("LEARNCRICKET_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LEARNCRICKET_SEED: expected an unsigned integer, got %q", v)
		}
		c.Supply.Seed = n
	}
	return nil
}

// Validate checks every section and names the offending key.
func (c Config) Validate() error {
	if err := c.Innings().Validate(); err != nil {
		return fmt.Errorf("match: %w", err)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if c.Adaptive.MinAttempts < 1 {
		return fmt.Errorf("adaptive.min_attempts must be at least 1, got %d", c.Adaptive.MinAttempts)
	}
	if c.Adaptive.FocusCount < 1 {
		return fmt.Errorf("adaptive.focus_count must be at least 1, got %d", c.Adaptive.FocusCount)
	}
	if _, err := topics.ParseDifficulty(c.Adaptive.MinDifficulty); err != nil {
		return fmt.Errorf("adaptive.min_difficulty: %w", err)
	}
	if _, err := topics.ParseDifficulty(c.Adaptive.MaxDifficulty); err != nil {
		return fmt.Errorf("adaptive.max_difficulty: %w", err)
	}
	if strings.TrimSpace(c.Session.Key) == "" {
		return fmt.Errorf("session.key must not be empty")
	}
	for name, v := range map[string]int{
		"session.buffer_ahead":        c.Session.BufferAhead,
		"session.batch_size":          c.Session.BatchSize,
		"session.max_supply_attempts": c.Session.MaxSupplyAttempts,
	} {
		if v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, v)
		}
	}
	if c.Session.RecentTopics < 0 {
		return fmt.Errorf("session.recent_topics must not be negative, got %d", c.Session.RecentTopics)
	}
	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendRedis, c.Storage.Backend)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Supply.Source {
	case SourceAuto, SourceBank, SourceLLM:
	default:
		return fmt.Errorf("supply.source must be %q, %q or %q, got %q", SourceAuto, SourceBank, SourceLLM, c.Supply.Source)
	}
	return nil
}

// Innings returns the innings sizes.
func (c Config) Innings() innings.Config {
	return innings.Config{
		TotalOvers:   c.Match.Overs,
		BallsPerOver: c.Match.BallsPerOver,
		TotalWickets: c.Match.Wickets,
	}
}

// Thresholds returns the scoring cut-offs.
func (c Config) Thresholds() scoring.Thresholds {
	return scoring.Thresholds{Six: c.Scoring.Six, Four: c.Scoring.Four, Single: c.Scoring.Single}
}

// AdaptiveSelector returns the selector configuration. Call Validate
// first; unparsable difficulties are treated as unset.
func (c Config) AdaptiveSelector() adaptive.Config {
	lo, _ := topics.ParseDifficulty(c.Adaptive.MinDifficulty)
	hi, _ := topics.ParseDifficulty(c.Adaptive.MaxDifficulty)
	return adaptive.Config{
		FocusCount:    c.Adaptive.FocusCount,
		MinAttempts:   c.Adaptive.MinAttempts,
		MinDifficulty: lo,
		MaxDifficulty: hi,
	}
}

// SessionConfig returns the configuration for a new session.
func (c Config) SessionConfig() session.Config {
	recent := c.Session.RecentTopics
	if recent == 0 {
		recent = -1
	}
	return session.Config{
		Key:               c.Session.Key,
		Innings:           c.Innings(),
		Thresholds:        c.Thresholds(),
		Adaptive:          c.AdaptiveSelector(),
		BufferAhead:       c.Session.BufferAhead,
		BatchSize:         c.Session.BatchSize,
		MaxSupplyAttempts: c.Session.MaxSupplyAttempts,
		RecentTopics:      recent,
	}
}
