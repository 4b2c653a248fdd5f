package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorMessage(t *testing.T) {
	e := &Error{Kind: KindRateLimited, Provider: "openai", RetryAfter: 2 * time.Second, Err: errors.New("429")}
	want := "openai: rate limited (retry after 2s): 429"
	if e.Error() != want {
		t.Fatalf("Error() = %q, want %q", e.Error(), want)
	}

	bare := &Error{Kind: KindTruncated}
	if bare.Error() != "truncated at max tokens" {
		t.Fatalf("Error() = %q", bare.Error())
	}
}

func TestKindOf(t *testing.T) {
	inner := errors.New("boom")
	wrapped := fmt.Errorf("generate: %w", &Error{Kind: KindInvalidResponse, Err: inner})

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindInvalidResponse {
		t.Fatalf("KindOf = %v, %v", kind, ok)
	}
	if !errors.Is(wrapped, inner) {
		t.Fatal("Error should unwrap to its cause")
	}
	if _, ok := KindOf(inner); ok {
		t.Fatal("plain errors have no kind")
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusInternalServerError, KindUnavailable},
		{http.StatusServiceUnavailable, KindUnavailable},
		{http.StatusBadRequest, KindUnavailable},
	}
	for _, tt := range tests {
		if got := statusError("gemini", tt.status, nil).Kind; got != tt.want {
			t.Errorf("status %d: kind = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestRetryAfterHeader(t *testing.T) {
	h := http.Header{}
	if retryAfter(h) != 0 {
		t.Fatal("missing header should be zero")
	}
	h.Set("Retry-After", "7")
	if got := retryAfter(h); got != 7*time.Second {
		t.Fatalf("retryAfter = %s", got)
	}
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	if retryAfter(h) != 0 {
		t.Fatal("HTTP dates are ignored")
	}
}
