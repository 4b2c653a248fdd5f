package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column definitions. Every event table starts with the shared
// id/sequence/timestamp columns so the global sequence can order rows
// across tables.

func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

func eventTable(name string, cols []*schema.Column, indexed ...int) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
		},
	}
	for _, i := range indexed {
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    name + "_" + cols[i].Name,
			Columns: []*schema.Column{cols[i]},
		})
	}
	return t
}

var (
	progressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "key", Type: field.TypeString},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	progressTable = &schema.Table{
		Name:       "progress_snapshots",
		Columns:    progressColumns,
		PrimaryKey: []*schema.Column{progressColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progress_snapshots_key", Columns: []*schema.Column{progressColumns[1]}},
		},
	}

	ballColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "ball_index", Type: field.TypeInt},
		&schema.Column{Name: "question_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "topic", Type: field.TypeString},
		&schema.Column{Name: "difficulty", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "correct", Type: field.TypeBool},
		&schema.Column{Name: "response_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "outcome", Type: field.TypeString},
		&schema.Column{Name: "runs", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "total_runs", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "wickets", Type: field.TypeInt, Default: 0},
	)
	ballTable = eventTable("ball_events", ballColumns, 3)

	sessionColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "session_key", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "runs", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "wickets", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "balls", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "overs", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "balls_per_over", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "total_wickets", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "status", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	)
	sessionTable = eventTable("session_events", sessionColumns, 3, 5)

	llmColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	llmTable = eventTable("llm_request_events", llmColumns, 4, 5)

	tables = []*schema.Table{progressTable, ballTable, sessionTable, llmTable}
)

// migrate creates or updates every table.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
