package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	subjectsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "color", Type: field.TypeString, Default: ""},
		{Name: "icon", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	subjectsTable = &schema.Table{
		Name:       "subjects",
		Columns:    subjectsColumns,
		PrimaryKey: []*schema.Column{subjectsColumns[0]},
	}

	chaptersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "subject_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeInt64},
	}
	chaptersTable = &schema.Table{
		Name:       "chapters",
		Columns:    chaptersColumns,
		PrimaryKey: []*schema.Column{chaptersColumns[0]},
		Indexes: []*schema.Index{
			{Name: "chapters_subject_id", Columns: []*schema.Column{chaptersColumns[1]}},
		},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "subject_id", Type: field.TypeString},
		{Name: "chapter_id", Type: field.TypeString},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_option", Type: field.TypeString},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "important", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeInt64},
	}
	questionsTable = &schema.Table{
		Name:       "questions",
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "questions_subject_id", Columns: []*schema.Column{questionsColumns[1]}},
			{Name: "questions_chapter_id", Columns: []*schema.Column{questionsColumns[2]}},
		},
	}

	performanceColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "times_asked", Type: field.TypeInt, Default: 0},
		{Name: "times_correct", Type: field.TypeInt, Default: 0},
		{Name: "times_wrong", Type: field.TypeInt, Default: 0},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "ease_factor", Type: field.TypeFloat64, Default: 2.5},
		{Name: "interval_days", Type: field.TypeInt, Default: 1},
		{Name: "repetitions", Type: field.TypeInt, Default: 0},
		{Name: "mastery_level", Type: field.TypeInt, Default: 0},
		{Name: "flagged", Type: field.TypeBool, Default: false},
		{Name: "last_asked", Type: field.TypeInt64, Default: 0},
		{Name: "next_due", Type: field.TypeInt64, Default: 0},
		{Name: "last_confidence", Type: field.TypeString, Default: ""},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	performanceTable = &schema.Table{
		Name:       "performance",
		Columns:    performanceColumns,
		PrimaryKey: []*schema.Column{performanceColumns[0], performanceColumns[1]},
		Indexes: []*schema.Index{
			{Name: "performance_user_next_due", Columns: []*schema.Column{performanceColumns[0], performanceColumns[12]}},
		},
	}

	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "config", Type: field.TypeJSON},
		{Name: "question_ids", Type: field.TypeJSON},
		{Name: "option_orders", Type: field.TypeJSON, Nullable: true},
		{Name: "results", Type: field.TypeJSON},
		{Name: "current_index", Type: field.TypeInt, Default: 0},
		{Name: "remaining", Type: field.TypeInt, Default: 0},
		{Name: "total", Type: field.TypeInt, Default: 0},
		{Name: "answered", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "skipped", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
		{Name: "ended_at", Type: field.TypeInt64, Default: 0},
	}
	sessionsTable = &schema.Table{
		Name:       "sessions",
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessions_user_status", Columns: []*schema.Column{sessionsColumns[1], sessionsColumns[2]}},
			{Name: "sessions_user_started", Columns: []*schema.Column{sessionsColumns[1], sessionsColumns[15]}},
		},
	}

	templatesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "config", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeInt64},
	}
	templatesTable = &schema.Table{
		Name:       "templates",
		Columns:    templatesColumns,
		PrimaryKey: []*schema.Column{templatesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "templates_user_id", Columns: []*schema.Column{templatesColumns[1]}},
		},
	}

	tables = []*schema.Table{
		subjectsTable,
		chaptersTable,
		questionsTable,
		performanceTable,
		sessionsTable,
		templatesTable,
	}
)

// migrate creates or upgrades every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
