package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Chain tries each supply in order and returns the first non-empty batch.
type Chain struct {
	supplies []Supply
	log      zerolog.Logger
}

// NewChain creates a fallback chain, e.g. LLM first then the bank.
func NewChain(log zerolog.Logger, supplies ...Supply) *Chain {
	return &Chain{supplies: supplies, log: log}
}

func (c *Chain) Fetch(ctx context.Context, req Request) ([]Question, error) {
	var errs []error
	for i, s := range c.supplies {
		qs, err := s.Fetch(ctx, req)
		if err == nil && len(qs) > 0 {
			return qs, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err == nil {
			err = ErrExhausted
		}
		c.log.Debug().Err(err).Int("supply", i).Msg("question supply failed, falling back")
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil, ErrExhausted
	}
	joined := errors.Join(errs...)
	for _, err := range errs {
		if !errors.Is(err, ErrExhausted) {
			return nil, fmt.Errorf("all question supplies failed: %w", joined)
		}
	}
	return nil, fmt.Errorf("all question supplies exhausted: %w", joined)
}
