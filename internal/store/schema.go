package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/studykit/ent/schema"
)

var (
	// LLMRequestEventsTable holds one row per provider call.
	LLMRequestEventsTable = tableFor("llm_request_events", entschema.LLMRequestEvent{})

	// QuizAttemptsTable holds one row per evaluated quiz.
	QuizAttemptsTable = tableFor("quiz_attempts", entschema.QuizAttempt{})

	// GradedAnswersTable holds one row per question of an evaluated quiz.
	GradedAnswersTable = tableFor("graded_answers", entschema.GradedAnswer{})

	// Tables lists every table managed by the store.
	Tables = []*schema.Table{
		LLMRequestEventsTable,
		QuizAttemptsTable,
		GradedAnswersTable,
	}
)

// tableFor builds the migration table for an ent schema: an auto-increment
// id, then mixin fields, then the schema's own fields. Only scalar defaults
// are carried; function defaults are applied by the repo on insert.
func tableFor(name string, s ent.Interface) *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	byName := make(map[string]*schema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		switch d.Default.(type) {
		case string, bool, int, int64, float64:
			c.Default = d.Default
		}
		t.Columns = append(t.Columns, c)
		byName[d.Name] = c
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*schema.Column, 0, len(d.Fields))
		for _, f := range d.Fields {
			c, ok := byName[f]
			if !ok {
				panic(fmt.Sprintf("store: index on unknown field %s.%s", name, f))
			}
			cols = append(cols, c)
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t
}

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
