package questions

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/learncricket/internal/topics"
)

func sampleQuestion(id string, topic topics.Topic, d topics.Difficulty) Question {
	return Question{
		ID:           id,
		Prompt:       "How many balls are in an over?",
		Options:      []string{"4", "5", "6", "8"},
		CorrectIndex: 2,
		Explanation:  "Six legal deliveries make an over.",
		Topic:        topic,
		Difficulty:   d,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(sampleQuestion("q1", topics.Rules, topics.Easy)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(q *Question)
		validator string
	}{
		{"empty id", func(q *Question) { q.ID = " " }, "structural"},
		{"empty prompt", func(q *Question) { q.Prompt = "" }, "structural"},
		{"long prompt", func(q *Question) { q.Prompt = strings.Repeat("x", 501) }, "structural"},
		{"long explanation", func(q *Question) { q.Explanation = strings.Repeat("x", 1001) }, "structural"},
		{"no topic", func(q *Question) { q.Topic = "" }, "structural"},
		{"unset difficulty", func(q *Question) { q.Difficulty = topics.DifficultyUnset }, "structural"},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }, "options"},
		{"five options", func(q *Question) { q.Options = append(q.Options, "9") }, "options"},
		{"negative index", func(q *Question) { q.CorrectIndex = -1 }, "options"},
		{"index too large", func(q *Question) { q.CorrectIndex = 4 }, "options"},
		{"blank option", func(q *Question) { q.Options[1] = "  " }, "options"},
		{"long option", func(q *Question) { q.Options[0] = strings.Repeat("y", 201) }, "options"},
		{"duplicate option", func(q *Question) { q.Options[3] = " SIX"; q.Options[2] = "six" }, "options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuestion("q1", topics.Rules, topics.Easy)
			q.Options = append([]string(nil), q.Options...)
			tt.mutate(&q)

			err := Validate(q)
			var merr *MalformedQuestionError
			if !errors.As(err, &merr) {
				t.Fatalf("expected *MalformedQuestionError, got %v", err)
			}
			if merr.Validator != tt.validator {
				t.Errorf("validator = %q, want %q", merr.Validator, tt.validator)
			}
			if !IsMalformed(err) {
				t.Error("IsMalformed should be true")
			}
		})
	}
}

func TestMalformedQuestionError_NoID(t *testing.T) {
	err := &MalformedQuestionError{Validator: "structural", Reason: "id is empty"}
	if !strings.Contains(err.Error(), "<no id>") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestQuestion_CorrectOption(t *testing.T) {
	q := sampleQuestion("q1", topics.Rules, topics.Easy)
	if q.CorrectOption() != "6" {
		t.Errorf("CorrectOption = %q", q.CorrectOption())
	}
	if !q.IsCorrect(2) || q.IsCorrect(0) {
		t.Error("IsCorrect mismatch")
	}
	q.CorrectIndex = 7
	if q.CorrectOption() != "" {
		t.Error("out-of-range index should give empty option")
	}
}
