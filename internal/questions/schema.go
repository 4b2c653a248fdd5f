package questions

import "github.com/abhisek/learncricket/internal/llm"

// BatchSchema is the JSON schema for a batch of generated questions.
var BatchSchema = &llm.Schema{
	Name:        "cricket-questions",
	Description: "A batch of multiple-choice cricket quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the player, one or two sentences",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    OptionCount,
							"maxItems":    OptionCount,
							"description": "Exactly 4 answer options, exactly one of them correct",
						},
						"correct_index": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     OptionCount - 1,
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences explaining the correct answer",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "The topic slug the question belongs to",
						},
					},
					"required":             []any{"prompt", "options", "correct_index", "explanation", "topic"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
