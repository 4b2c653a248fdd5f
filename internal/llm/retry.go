package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// ±20% jitter. Rate limits and unavailability are retried up to
// MaxAttempts; a schema mismatch gets one extra try since the model
// often gets it right the second time; truncation is never retried.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	sleep  func(context.Context, time.Duration) error
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &RetryProvider{inner: p, config: cfg, sleep: sleepCtx}
}

func (r *RetryProvider) Name() string    { return r.inner.Name() }
func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidSeen := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil || attempt >= r.config.MaxAttempts {
			return nil, err
		}

		kind, _ := KindOf(err)
		switch kind {
		case KindTruncated:
			return nil, err
		case KindInvalidResponse:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		if serr := r.sleep(ctx, r.backoff(attempt, err)); serr != nil {
			return nil, serr
		}
	}
}

// backoff returns the wait after the given 1-based attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
