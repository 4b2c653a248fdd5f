package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func overSchema() *Schema {
	return &Schema{
		Name: "over-test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"bowler": map[string]any{"type": "string"},
				"balls": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
					"minItems": 1,
				},
			},
			"required":             []any{"bowler", "balls"},
			"additionalProperties": false,
		},
	}
}

func TestValidatorCheck(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		invalid bool
	}{
		{name: "valid", raw: `{"bowler":"Starc","balls":[0,4,6]}`, want: `{"bowler":"Starc","balls":[0,4,6]}`},
		{name: "json fence", raw: "```json\n{\"bowler\":\"Bumrah\",\"balls\":[1]}\n```", want: `{"bowler":"Bumrah","balls":[1]}`},
		{name: "bare fence", raw: "```\n{\"bowler\":\"Rashid\",\"balls\":[0]}\n```", want: `{"bowler":"Rashid","balls":[0]}`},
		{name: "not json", raw: `the bowler was Starc`, invalid: true},
		{name: "missing field", raw: `{"bowler":"Starc"}`, invalid: true},
		{name: "wrong type", raw: `{"bowler":7,"balls":[1]}`, invalid: true},
		{name: "out of range", raw: `{"bowler":"Starc","balls":[8]}`, invalid: true},
		{name: "extra field", raw: `{"bowler":"Starc","balls":[1],"keeper":"Carey"}`, invalid: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Check(overSchema(), json.RawMessage(tt.raw))
			if tt.invalid {
				var e *Error
				if !errors.As(err, &e) || e.Kind != KindInvalidResponse {
					t.Fatalf("expected invalid response error, got %v", err)
				}
				if string(e.Content) != tt.raw {
					t.Errorf("Content = %q, want the raw output", e.Content)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatorNilSchema(t *testing.T) {
	raw := json.RawMessage("plain text")
	got, err := NewValidator().Check(nil, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "plain text" {
		t.Fatalf("content = %q", got)
	}
}

func TestValidatorCachesByName(t *testing.T) {
	v := NewValidator()
	if _, err := v.Check(overSchema(), json.RawMessage(`{"bowler":"a","balls":[1]}`)); err != nil {
		t.Fatal(err)
	}
	if len(v.compiled) != 1 {
		t.Fatalf("compiled = %d, want 1", len(v.compiled))
	}
	if _, err := v.Check(overSchema(), json.RawMessage(`{"bowler":"b","balls":[2]}`)); err != nil {
		t.Fatal(err)
	}
	if len(v.compiled) != 1 {
		t.Fatalf("schema compiled twice")
	}
}
