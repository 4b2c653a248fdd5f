package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/learncricket/internal/store"
)

// LoggingProvider logs each call and appends it to the event log as an
// LLM request event. Recording failures are logged and never returned.
type LoggingProvider struct {
	inner  Provider
	events store.EventRepo
	log    zerolog.Logger
	now    func() time.Time
}

// WithLogging wraps p. events may be nil.
func WithLogging(p Provider, events store.EventRepo, log zerolog.Logger) Provider {
	return &LoggingProvider{inner: p, events: events, log: log, now: time.Now}
}

func (l *LoggingProvider) Name() string    { return l.inner.Name() }
func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	rec := store.LLMRequestEventData{
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     string(PurposeFrom(ctx)),
		LatencyMs:   l.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		rec.Model = resp.Model
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.ResponseBody = string(resp.Content)
	}

	logEv := l.log.Debug()
	if err != nil {
		rec.ErrorMessage = err.Error()
		logEv = l.log.Warn().Err(err)
		if kind, ok := KindOf(err); ok {
			logEv = logEv.Stringer("kind", kind)
		}
	}
	logEv.Str("provider", rec.Provider).
		Str("model", rec.Model).
		Str("purpose", rec.Purpose).
		Int("input_tokens", rec.InputTokens).
		Int("output_tokens", rec.OutputTokens).
		Int64("latency_ms", rec.LatencyMs).
		Msg("llm request")

	if l.events != nil {
		if werr := l.events.AppendLLMRequest(ctx, rec); werr != nil {
			l.log.Warn().Err(werr).Msg("record llm request event")
		}
	}
	return resp, err
}

// transcript renders req for the event log: system prompt, each message
// by role, then the schema.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}

// TimeoutProvider bounds each Generate call, retries included when it
// wraps a RetryProvider.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout returns p unchanged for a non-positive d.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Name() string    { return t.inner.Name() }
func (t *TimeoutProvider) ModelID() string { return t.inner.ModelID() }

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}
