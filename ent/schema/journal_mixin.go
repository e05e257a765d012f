// Package schema declares the persisted entities. internal/store derives its
// tables and field checks from these descriptors.
package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// JournalMixin gives append-only rows a position in the shared sequence
// and the time they were written.
type JournalMixin struct {
	mixin.Schema
}

func (JournalMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").Unique().Immutable(),
		field.Time("timestamp").Default(time.Now).Immutable().
			Comment("UTC; llm list --since filters on it"),
	}
}

func (JournalMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
	}
}
