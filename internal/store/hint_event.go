package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	return r.appendEvent(ctx, HintEventsTable.Name,
		[]string{"session_id", "level_id", "item_id", "hint_text"},
		[]any{data.SessionID, data.LevelID, data.ItemID, data.HintText},
	)
}

func (r *eventRepo) HintCount(ctx context.Context, sessionID string) (int, error) {
	t := entsql.Table(HintEventsTable.Name)
	sel := builder().Select(entsql.Count("*")).From(t).
		Where(entsql.EQ(t.C("session_id"), sessionID))

	var n int
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count hints: %w", err)
	}
	return n, nil
}
