package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent is one provider call, successful or not. Token counts
// feed the usage report; the bodies are kept for `llm view`.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Enum("provider").
			Values("anthropic", "openai", "gemini", "openrouter", "mock"),
		field.String("model").
			Comment("Model ID after alias resolution"),
		field.String("purpose").
			Comment("question-gen, or unknown when the caller set none"),
		field.Int("input_tokens").Default(0),
		field.Int("output_tokens").Default(0),
		field.Int64("latency_ms").Default(0),
		field.Bool("success"),
		field.Text("error_message").Default(""),
		field.Text("request_body").Default(""),
		field.Text("response_body").Default(""),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purpose"),
		index.Fields("model"),
	}
}
