package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// BallEvent records one delivered ball: the question, the answer and
// what it scored.
type BallEvent struct {
	ent.Schema
}

func (BallEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (BallEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.Int("ball_index").
			NonNegative().
			Comment("Zero-based ball number in the innings"),
		field.String("question_id").
			Default(""),
		field.String("topic").
			Comment("Question topic, e.g. rules"),
		field.String("difficulty").
			Default(""),
		field.Bool("correct"),
		field.Int64("response_ms").
			Default(0).
			Comment("Time from question shown to answer"),
		field.String("outcome").
			Comment("dot, single, four, six or wicket"),
		field.Int("runs").
			Default(0),
		field.Int("total_runs").
			Default(0).
			Comment("Innings total after this ball"),
		field.Int("wickets").
			Default(0).
			Comment("Wickets down after this ball"),
	}
}

func (BallEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
	}
}
