// Package questions defines multiple-choice cricket questions and the
// supplies that produce them: an embedded bank, an LLM generator and a
// fallback chain.
package questions

import (
	"context"
	"errors"

	"github.com/abhisek/learncricket/internal/topics"
)

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Question is a single multiple-choice question.
type Question struct {
	ID           string            `json:"id"`
	Prompt       string            `json:"prompt"`
	Options      []string          `json:"options"`
	CorrectIndex int               `json:"correct_index"`
	Explanation  string            `json:"explanation"`
	Topic        topics.Topic      `json:"topic"`
	Difficulty   topics.Difficulty `json:"difficulty"`
}

// IsCorrect reports whether choice is the correct option index.
func (q Question) IsCorrect(choice int) bool {
	return choice == q.CorrectIndex
}

// CorrectOption returns the text of the correct option, or "" if the
// question is malformed.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Request describes the questions wanted from a Supply.
type Request struct {
	// Topic is the preferred topic. Empty means any.
	Topic topics.Topic

	// Difficulty is the preferred level. DifficultyUnset means any.
	Difficulty topics.Difficulty

	// ExcludeRecentTopics are topics the caller has just asked about.
	ExcludeRecentTopics []topics.Topic

	// ExcludeIDs are questions already served in this session.
	ExcludeIDs []string

	// PriorPrompts are recent prompts, for generators that dedup by text.
	PriorPrompts []string

	// Count is how many questions are wanted. Values below 1 mean 1.
	Count int
}

func (r Request) count() int {
	if r.Count < 1 {
		return 1
	}
	return r.Count
}

// ErrExhausted is returned when a supply has no more questions to give.
var ErrExhausted = errors.New("question supply exhausted")

// Supply produces questions. Fetch may return fewer than req.Count
// questions; it returns ErrExhausted (possibly wrapped) when it can
// return none.
type Supply interface {
	Fetch(ctx context.Context, req Request) ([]Question, error)
}
