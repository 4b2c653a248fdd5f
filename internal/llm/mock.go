package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one canned reply. Err takes precedence over Content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays canned responses in order and records requests.
// Once the queue is empty every call fails as unavailable.
type MockProvider struct {
	mu       sync.Mutex
	queue    []MockResponse
	requests []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

func (m *MockProvider) Name() string    { return ProviderMock }
func (m *MockProvider) ModelID() string { return ProviderMock }

// Generate returns canned content as is, without schema validation, so
// callers can be tested against output a real model might produce.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable, Provider: ProviderMock, Err: errors.New("no canned responses left")}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      ProviderMock,
		StopReason: StopEnd,
	}, nil
}

// Push queues more responses.
func (m *MockProvider) Push(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// Requests returns a copy of every request received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
