package questions

import (
	"context"
	"sync"
)

// StaticSupply serves a fixed queue of questions in order, ignoring the
// request filters. It is meant for tests and demos.
type StaticSupply struct {
	mu       sync.Mutex
	queue    []Question
	requests []Request

	// Err, when set, is returned by every Fetch.
	Err error
}

// NewStaticSupply creates a supply that serves qs in order.
func NewStaticSupply(qs ...Question) *StaticSupply {
	return &StaticSupply{queue: append([]Question(nil), qs...)}
}

func (s *StaticSupply) Fetch(ctx context.Context, req Request) ([]Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.queue) == 0 {
		return nil, ErrExhausted
	}

	n := min(req.count(), len(s.queue))
	out := append([]Question(nil), s.queue[:n]...)
	s.queue = s.queue[n:]
	return out, nil
}

// Add appends questions to the queue.
func (s *StaticSupply) Add(qs ...Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, qs...)
}

// Remaining returns how many queued questions have not been served.
func (s *StaticSupply) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Requests returns a copy of every request received.
func (s *StaticSupply) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}
