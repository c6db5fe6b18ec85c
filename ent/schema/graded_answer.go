package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GradedAnswer is the outcome for one question of a quiz attempt.
type GradedAnswer struct {
	ent.Schema
}

func (GradedAnswer) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (GradedAnswer) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id"),
		field.Int("position"),
		field.Text("question"),
		field.Text("user_answer"),
		field.Text("correct_answer"),
		field.Bool("graded").
			Comment("False when the grader failed for this position"),
		field.Bool("correct"),
		field.Text("feedback").
			Default(""),
	}
}

func (GradedAnswer) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("attempt_id", "position").
			Unique(),
	}
}
