package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizAttempt summarizes one evaluated quiz.
type QuizAttempt struct {
	ent.Schema
}

func (QuizAttempt) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizAttempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id").
			Unique().
			Immutable(),
		field.String("document_id"),
		field.String("document_name").
			Default(""),
		field.String("difficulty"),
		field.Int("question_count"),
		field.Int("correct_count"),
		field.Int("ungraded_count").
			Default(0).
			Comment("Positions whose grading call failed"),
		field.Float("percentage"),
	}
}

func (QuizAttempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
	}
}
