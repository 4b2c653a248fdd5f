// Package innings keeps the authoritative score of a single innings.
package innings

import (
	"fmt"

	"github.com/abhisek/learncricket/internal/scoring"
)

// Machine applies outcomes ball by ball. It has no side effects beyond its
// own state; observers learn about changes from the session layer.
// Not safe for concurrent use.
type Machine struct {
	cfg   Config
	state State
}

// New creates an innings with every ball marked NotBowled.
func New(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("innings config: %w", err)
	}
	results := make([]scoring.Outcome, cfg.TotalBalls())
	for i := range results {
		results[i] = scoring.NotBowled
	}
	return &Machine{
		cfg:   cfg,
		state: State{BallResults: results, Status: StatusInProgress},
	}, nil
}

// Config returns the innings sizes.
func (m *Machine) Config() Config { return m.cfg }

// State returns a copy of the current state.
func (m *Machine) State() State { return m.state.clone() }

// Status returns the lifecycle status.
func (m *Machine) Status() Status { return m.state.Status }

// ApplyBall records one delivery and returns the resulting state.
// A finished innings returns *TerminalStateError and a non-delivery
// outcome returns *RangeError; in both cases nothing changes.
func (m *Machine) ApplyBall(o scoring.Outcome) (State, error) {
	if m.state.Status.Terminal() {
		return m.State(), &TerminalStateError{Status: m.state.Status}
	}
	if !o.Bowled() {
		return m.State(), outcomeRangeError(o)
	}

	s := &m.state
	s.BallResults[s.BallsBowled] = o
	s.BallsBowled++
	s.Runs += o.Runs()

	switch o {
	case scoring.Six:
		s.Sixes++
	case scoring.Four:
		s.Fours++
	case scoring.Single:
		s.Singles++
	case scoring.Dot:
		s.DotBalls++
	case scoring.Wicket:
		s.WicketsLost++
	}

	s.StrikeRate = strikeRate(s.Runs, s.BallsBowled)
	s.RunRate = runRate(s.Runs, s.BallsBowled, m.cfg.BallsPerOver)

	// Wickets are checked first so an all-out on the last ball reports AllOut.
	switch {
	case s.WicketsLost >= m.cfg.AllOutAt():
		s.Status = StatusAllOut
	case s.BallsBowled >= m.cfg.TotalBalls():
		s.Status = StatusOversComplete
	}

	return m.State(), nil
}

// IsOverComplete reports whether the last ball finished an over and play
// continues. An over that ends the innings is reported through Status.
func (m *Machine) IsOverComplete() bool {
	b := m.state.BallsBowled
	return b > 0 && b%m.cfg.BallsPerOver == 0 && m.state.Status == StatusInProgress
}

// OversStarted is the number of overs with at least one ball bowled.
func (m *Machine) OversStarted() int {
	bpo := m.cfg.BallsPerOver
	return (m.state.BallsBowled + bpo - 1) / bpo
}

// CurrentOver is the zero-based index of the over the next ball belongs to.
func (m *Machine) CurrentOver() int {
	return m.state.BallsBowled / m.cfg.BallsPerOver
}

// BallInOver is the one-based position of the next ball within its over.
func (m *Machine) BallInOver() int {
	return m.state.BallsBowled%m.cfg.BallsPerOver + 1
}

// OverSummary returns the breakdown of a started over.
func (m *Machine) OverSummary(index int) (OverSummary, error) {
	if index < 0 || index >= m.OversStarted() {
		return OverSummary{}, &RangeError{
			Field: "over index",
			Value: index,
			Limit: fmt.Sprintf("%d overs started", m.OversStarted()),
		}
	}
	return summarizeOver(m.state.BallResults, index, m.cfg.BallsPerOver), nil
}

// Overs returns summaries for every started over, in order.
func (m *Machine) Overs() []OverSummary {
	n := m.OversStarted()
	out := make([]OverSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, summarizeOver(m.state.BallResults, i, m.cfg.BallsPerOver))
	}
	return out
}

// BallsRemaining is the number of deliveries left if no more wickets fall.
func (m *Machine) BallsRemaining() int {
	if m.state.Status.Terminal() {
		return 0
	}
	return m.cfg.TotalBalls() - m.state.BallsBowled
}

// WicketsInHand is the number of wickets that can still fall before all out.
func (m *Machine) WicketsInHand() int {
	return m.cfg.AllOutAt() - m.state.WicketsLost
}

func summarizeOver(results []scoring.Outcome, index, ballsPerOver int) OverSummary {
	sum := OverSummary{Index: index}
	start := index * ballsPerOver
	end := start + ballsPerOver
	if end > len(results) {
		end = len(results)
	}
	for _, o := range results[start:end] {
		if !o.Bowled() {
			continue
		}
		sum.Balls++
		sum.Runs += o.Runs()
		switch o {
		case scoring.Wicket:
			sum.Wickets++
		case scoring.Dot:
			sum.Dots++
		}
	}
	sum.Complete = sum.Balls == ballsPerOver
	sum.Maiden = sum.Complete && sum.Runs == 0
	return sum
}
