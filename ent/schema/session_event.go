package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records an innings starting, finishing or being declared.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("session_key").
			Default("").
			Comment("Player whose progress the innings used"),
		field.Enum("action").
			Values("start", "end", "abort"),
		field.Int("runs").
			Default(0),
		field.Int("wickets").
			Default(0),
		field.Int("balls").
			Default(0),
		field.Int("overs").
			Default(0).
			Comment("Configured innings length"),
		field.Int("balls_per_over").
			Default(0),
		field.Int("total_wickets").
			Default(0),
		field.String("status").
			Default("").
			Comment("in_progress, all_out or overs_complete"),
		field.Int("duration_secs").
			Default(0),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
