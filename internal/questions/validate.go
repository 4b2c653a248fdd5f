package questions

import (
	"fmt"
	"strings"
)

// MalformedQuestionError describes why a question was rejected.
type MalformedQuestionError struct {
	QuestionID string
	Validator  string
	Reason     string
}

func (e *MalformedQuestionError) Error() string {
	id := e.QuestionID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("malformed question %s: %s: %s", id, e.Validator, e.Reason)
}

// Validator checks one aspect of a question. Implementations are
// stateless and safe for concurrent use.
type Validator interface {
	Name() string
	Validate(q *Question) *MalformedQuestionError
}

const (
	maxPromptLen      = 500
	maxOptionLen      = 200
	maxExplanationLen = 1000
)

// StructuralValidator checks required fields and length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *MalformedQuestionError {
	fail := func(msg string) *MalformedQuestionError {
		return &MalformedQuestionError{QuestionID: q.ID, Validator: v.Name(), Reason: msg}
	}
	switch {
	case strings.TrimSpace(q.ID) == "":
		return fail("id is empty")
	case strings.TrimSpace(q.Prompt) == "":
		return fail("prompt is empty")
	case len(q.Prompt) > maxPromptLen:
		return fail(fmt.Sprintf("prompt exceeds %d characters", maxPromptLen))
	case len(q.Explanation) > maxExplanationLen:
		return fail(fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen))
	case strings.TrimSpace(string(q.Topic)) == "":
		return fail("topic is empty")
	case !q.Difficulty.Valid():
		return fail("difficulty must be easy, medium or hard")
	}
	return nil
}

// OptionsValidator checks the four options and the correct index.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *MalformedQuestionError {
	fail := func(msg string) *MalformedQuestionError {
		return &MalformedQuestionError{QuestionID: q.ID, Validator: v.Name(), Reason: msg}
	}
	if len(q.Options) != OptionCount {
		return fail(fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return fail(fmt.Sprintf("correct_index %d out of range [0,%d]", q.CorrectIndex, OptionCount-1))
	}
	seen := make(map[string]bool, OptionCount)
	for i, o := range q.Options {
		norm := strings.ToLower(strings.TrimSpace(o))
		if norm == "" {
			return fail(fmt.Sprintf("option %d is empty", i))
		}
		if len(o) > maxOptionLen {
			return fail(fmt.Sprintf("option %d exceeds %d characters", i, maxOptionLen))
		}
		if seen[norm] {
			return fail(fmt.Sprintf("option %q is duplicated", o))
		}
		seen[norm] = true
	}
	return nil
}

// DefaultValidators is the chain Validate runs.
func DefaultValidators() []Validator {
	return []Validator{&StructuralValidator{}, &OptionsValidator{}}
}

// Validate runs the default validator chain; the first failure stops it.
// It returns nil or a *MalformedQuestionError.
func Validate(q Question) error {
	for _, v := range DefaultValidators() {
		if err := v.Validate(&q); err != nil {
			return err
		}
	}
	return nil
}
