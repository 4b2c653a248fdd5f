// Package scoring maps a timed answer to a cricket outcome.
package scoring

import (
	"fmt"
	"math"
)

// Thresholds are the response-time cut-offs in seconds. A correct answer
// strictly faster than Six scores a six, strictly faster than Four a four,
// strictly faster than Single a single, and anything slower is a dot ball.
// A time equal to a cut-off falls into the slower bucket.
type Thresholds struct {
	Six    float64
	Four   float64
	Single float64
}

// DefaultThresholds returns the standard 3s / 5s / 10s cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Six: 3, Four: 5, Single: 10}
}

// Validate checks that the cut-offs are positive and strictly ascending.
func (t Thresholds) Validate() error {
	if !(t.Six > 0) {
		return fmt.Errorf("six threshold must be positive, got %v", t.Six)
	}
	if !(t.Four > t.Six) {
		return fmt.Errorf("four threshold (%v) must be greater than six threshold (%v)", t.Four, t.Six)
	}
	if !(t.Single > t.Four) {
		return fmt.Errorf("single threshold (%v) must be greater than four threshold (%v)", t.Single, t.Four)
	}
	return nil
}

// Policy evaluates answers against a fixed set of thresholds.
// The zero value is not usable; construct with NewPolicy.
type Policy struct {
	thresholds Thresholds
}

// NewPolicy creates a Policy after validating the thresholds.
func NewPolicy(t Thresholds) (Policy, error) {
	if err := t.Validate(); err != nil {
		return Policy{}, fmt.Errorf("scoring thresholds: %w", err)
	}
	return Policy{thresholds: t}, nil
}

// DefaultPolicy returns a Policy using DefaultThresholds.
func DefaultPolicy() Policy {
	return Policy{thresholds: DefaultThresholds()}
}

// Thresholds returns the cut-offs this policy uses.
func (p Policy) Thresholds() Thresholds { return p.thresholds }

// Evaluate classifies a single answer. It is pure: the same inputs always
// give the same outcome. Negative times count as instant; NaN counts as
// slowest.
func (p Policy) Evaluate(responseSeconds float64, correct bool) Outcome {
	if !correct {
		return Wicket
	}
	if math.IsNaN(responseSeconds) {
		return Dot
	}
	if responseSeconds < 0 {
		responseSeconds = 0
	}

	t := p.thresholds
	switch {
	case responseSeconds < t.Six:
		return Six
	case responseSeconds < t.Four:
		return Four
	case responseSeconds < t.Single:
		return Single
	default:
		return Dot
	}
}
