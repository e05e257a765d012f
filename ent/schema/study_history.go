package schema

import (
	"encoding/json"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// StudyHistory is one packet served to a signed-in user.
type StudyHistory struct {
	ent.Schema
}

func (StudyHistory) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			MaxLen(36).
			Immutable().
			Comment("UUID assigned when the entry is queued"),
		field.Int64("sequence").
			Unique().
			Immutable(),
		field.String("user_id").
			NotEmpty(),
		field.String("topic"),
		field.Enum("mode").
			Values("normal", "math", "framework").
			Default("normal"),
		field.JSON("study_data", json.RawMessage{}).
			Comment("Summary, quiz, study tip, math question and source URL"),
		field.Time("created_at").
			Immutable(),
	}
}

func (StudyHistory) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "created_at"),
	}
}
