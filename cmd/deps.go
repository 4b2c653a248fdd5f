package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/config"
	"github.com/abhisek/learncricket/internal/llm"
	"github.com/abhisek/learncricket/internal/questions"
	"github.com/abhisek/learncricket/internal/store"
)

// openProgress returns the configured progress backend. The returned
// close function releases a Redis client; it is a no-op for SQLite.
func openProgress(ctx context.Context, c config.Config, st *store.Store) (store.ProgressRepo, func() error, error) {
	if c.Storage.Backend != config.BackendRedis {
		return st.ProgressRepo(), func() error { return nil }, nil
	}
	client, err := store.OpenRedis(ctx, c.Storage.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open redis: %w", err)
	}
	return store.NewRedisProgressRepo(client, c.Storage.RedisPrefix), client.Close, nil
}

// supplySource builds a fresh question supply for each innings, so the
// bank's no-repeat bookkeeping is per innings.
type supplySource struct {
	source   string
	seed     uint64
	provider llm.Provider
	log      zerolog.Logger
}

// newSupplySource resolves the configured source. For "auto" the LLM is
// used when a provider key is found; "llm" without a key is an error.
func newSupplySource(ctx context.Context, c config.Config, events store.EventRepo, log zerolog.Logger) (*supplySource, error) {
	s := &supplySource{source: c.Supply.Source, seed: c.Supply.Seed, log: log}
	if s.source == config.SourceBank {
		return s, nil
	}

	llmCfg, ok := llm.ResolveConfig()
	if !ok {
		if s.source == config.SourceLLM {
			return nil, fmt.Errorf("supply.source is llm but no LLM API key is configured")
		}
		log.Info().Msg("no LLM API key found, using the built-in question bank")
		s.source = config.SourceBank
		return s, nil
	}

	provider, err := llm.NewProvider(ctx, llmCfg, events, log)
	if err != nil {
		if s.source == config.SourceLLM {
			return nil, err
		}
		log.Warn().Err(err).Msg("LLM provider unavailable, using the built-in question bank")
		s.source = config.SourceBank
		return s, nil
	}
	s.provider = provider
	return s, nil
}

// Name describes where questions come from.
func (s *supplySource) Name() string {
	if s.provider != nil {
		return fmt.Sprintf("%s (%s)", s.source, s.provider.ModelID())
	}
	return s.source
}

// New returns a supply for one innings. LLM sources fall back to the
// bank when generation fails, unless the source is strictly "llm".
func (s *supplySource) New() (questions.Supply, error) {
	if s.provider == nil {
		return questions.NewDefaultBankSupply(s.seed)
	}

	gen := questions.NewLLMSupply(s.provider, questions.DefaultLLMConfig(), s.log)
	if s.source == config.SourceLLM {
		return gen, nil
	}
	bank, err := questions.NewDefaultBankSupply(s.seed)
	if err != nil {
		return nil, err
	}
	return questions.NewChain(s.log, gen, bank), nil
}
