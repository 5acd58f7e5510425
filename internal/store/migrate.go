package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// eventColumns returns the columns shared by every event table: an
// auto-increment id, the global sequence number and a UTC timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

// eventTable builds an event table with sequence/timestamp indexes plus an
// index on each of the named columns.
func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, c := range cols {
		if c.Name == "timestamp" || contains(indexed, c.Name) {
			t.Indexes = append(t.Indexes, &schema.Index{
				Name:    fmt.Sprintf("%s_%s", name, c.Name),
				Columns: []*schema.Column{c},
			})
		}
	}
	return t
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var (
	AnswerEventsTable = eventTable("answer_events", eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "level_id", Type: field.TypeString},
		&schema.Column{Name: "item_id", Type: field.TypeString},
		&schema.Column{Name: "option_index", Type: field.TypeInt},
		&schema.Column{Name: "correct", Type: field.TypeBool},
		&schema.Column{Name: "first_try", Type: field.TypeBool},
		&schema.Column{Name: "review", Type: field.TypeBool},
		&schema.Column{Name: "points", Type: field.TypeInt},
	), "session_id", "level_id", "item_id")

	HintEventsTable = eventTable("hint_events", eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "level_id", Type: field.TypeString},
		&schema.Column{Name: "item_id", Type: field.TypeString},
		&schema.Column{Name: "hint_text", Type: field.TypeString, Size: 2048},
	), "session_id")

	LifeEventsTable = eventTable("life_events", eventColumns(
		&schema.Column{Name: "reason", Type: field.TypeString},
		&schema.Column{Name: "delta", Type: field.TypeInt},
		&schema.Column{Name: "balance", Type: field.TypeInt},
		&schema.Column{Name: "session_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "coins", Type: field.TypeInt, Default: 0},
	), "reason")

	SessionEventsTable = eventTable("session_events", eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "level_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "mode", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "score", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "mistakes", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "first_try_correct", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "medal", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "xp_earned", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "coins_earned", Type: field.TypeInt, Default: 0},
	), "session_id", "level_id", "action")

	LLMRequestEventsTable = eventTable("llm_request_events", eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "attempt", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "try", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Size: 4096, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	), "provider", "purpose", "success")

	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	SnapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshots_timestamp", Columns: []*schema.Column{snapshotsColumns[2]}},
		},
	}

	// Tables holds every table managed by auto-migration. The global
	// sequence table is created separately by the sequence counter.
	Tables = []*schema.Table{
		AnswerEventsTable,
		HintEventsTable,
		LifeEventsTable,
		SessionEventsTable,
		LLMRequestEventsTable,
		SnapshotsTable,
	}
)

// migrate creates or updates all tables.
func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, Tables...)
}
