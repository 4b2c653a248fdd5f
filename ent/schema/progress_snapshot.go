package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressSnapshot holds one player's saved performance. The newest row
// per key wins; older rows are pruned.
type ProgressSnapshot struct {
	ent.Schema
}

func (ProgressSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			NotEmpty().
			Comment("Player name"),
		field.Time("timestamp").
			Default(time.Now).
			Comment("When the snapshot was saved"),
		field.JSON("data", map[string]any{}).
			Comment("Topic and difficulty buckets, streaks and innings totals"),
	}
}

func (ProgressSnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("key"),
	}
}
