package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.appendEvent(ctx, AnswerEventsTable.Name,
		[]string{"session_id", "level_id", "item_id", "option_index", "correct", "first_try", "review", "points"},
		[]any{data.SessionID, data.LevelID, data.ItemID, data.Option, data.Correct, data.FirstTry, data.Review, data.Points},
	)
}

func (r *eventRepo) ItemAccuracy(ctx context.Context, levelID string) ([]ItemAccuracy, error) {
	t := entsql.Table(AnswerEventsTable.Name)
	sel := builder().Select(
		t.C("item_id"),
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As(entsql.Sum(t.C("correct")), "correct_count"),
	).From(t).
		Where(entsql.EQ(t.C("level_id"), levelID)).
		GroupBy(t.C("item_id")).
		OrderBy(t.C("item_id"))

	var out []ItemAccuracy
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		a := ItemAccuracy{LevelID: levelID}
		if err := rows.Scan(&a.ItemID, &a.Attempts, &a.Correct); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query item accuracy: %w", err)
	}
	return out, nil
}
