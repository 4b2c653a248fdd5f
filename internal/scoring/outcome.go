package scoring

import "fmt"

// Outcome is the result of a single delivery.
type Outcome int

const (
	NotBowled Outcome = iota // placeholder for balls not yet bowled
	Dot                      // correct but slow, 0 runs
	Single                   // 1 run
	Four                     // boundary
	Six                      // boundary over the rope
	Wicket                   // incorrect answer
)

// BowledOutcomes lists every outcome that can be produced by a delivery.
func BowledOutcomes() []Outcome {
	return []Outcome{Six, Four, Single, Dot, Wicket}
}

// Runs returns the run value of the outcome. Wickets, dots and unbowled
// balls are worth nothing.
func (o Outcome) Runs() int {
	switch o {
	case Six:
		return 6
	case Four:
		return 4
	case Single:
		return 1
	default:
		return 0
	}
}

// Bowled reports whether the outcome represents a delivery.
func (o Outcome) Bowled() bool {
	return o >= Dot && o <= Wicket
}

// IsWicket reports whether the outcome is a dismissal.
func (o Outcome) IsWicket() bool { return o == Wicket }

// Correct reports whether the outcome stems from a correct answer.
// Only meaningful for bowled outcomes.
func (o Outcome) Correct() bool { return o.Bowled() && o != Wicket }

// IsBoundary reports whether the outcome is a four or a six.
func (o Outcome) IsBoundary() bool { return o == Four || o == Six }

// Label is the short commentary shown after the ball.
func (o Outcome) Label() string {
	switch o {
	case Six:
		return "SIX!"
	case Four:
		return "FOUR!"
	case Single:
		return "Single"
	case Dot:
		return "Dot ball"
	case Wicket:
		return "OUT!"
	default:
		return ""
	}
}

// Symbol is the one-character form used in ball-by-ball strips.
func (o Outcome) Symbol() string {
	switch o {
	case Six:
		return "6"
	case Four:
		return "4"
	case Single:
		return "1"
	case Dot:
		return "•"
	case Wicket:
		return "W"
	default:
		return "·"
	}
}

func (o Outcome) String() string {
	switch o {
	case NotBowled:
		return "not_bowled"
	case Dot:
		return "dot"
	case Single:
		return "single"
	case Four:
		return "four"
	case Six:
		return "six"
	case Wicket:
		return "wicket"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseOutcome is the inverse of String. Used when reading ball events back
// from the store.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range append(BowledOutcomes(), NotBowled) {
		if o.String() == s {
			return o, nil
		}
	}
	return NotBowled, fmt.Errorf("unknown outcome %q", s)
}
