package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network failures, 5xx and anything unclassified.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindInvalidResponse means the output did not match the requested schema.
	KindInvalidResponse
	// KindTruncated means generation stopped at MaxTokens.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalidResponse:
		return "invalid response"
	case KindTruncated:
		return "truncated at max tokens"
	default:
		return "unavailable"
	}
}

// Error is the error type every provider returns for a failed Generate.
type Error struct {
	Kind     Kind
	Provider string

	// RetryAfter is the server-requested wait for KindRateLimited, if any.
	RetryAfter time.Duration

	// Content is the raw model output for KindInvalidResponse and
	// KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError classifies an HTTP status returned by a provider SDK.
func statusError(provider string, status int, err error) *Error {
	kind := KindUnavailable
	if status == http.StatusTooManyRequests {
		kind = KindRateLimited
	}
	return &Error{Kind: kind, Provider: provider, Err: err}
}
