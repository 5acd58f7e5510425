package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.appendEvent(ctx, SessionEventsTable.Name,
		[]string{
			"session_id", "level_id", "action", "mode", "score", "mistakes",
			"first_try_correct", "medal", "duration_secs", "xp_earned", "coins_earned",
		},
		[]any{
			data.SessionID, data.LevelID, data.Action, data.Mode, data.Score, data.Mistakes,
			data.FirstTryCorrect, data.Medal, data.DurationSecs, data.XPEarned, data.CoinsEarned,
		},
	)
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	t := entsql.Table(SessionEventsTable.Name)
	sel := builder().Select(
		t.C("session_id"), t.C("level_id"), t.C("timestamp"), t.C("mode"),
		t.C("score"), t.C("mistakes"), t.C("first_try_correct"), t.C("medal"),
		t.C("duration_secs"), t.C("xp_earned"), t.C("coins_earned"),
	).From(t).
		Where(entsql.EQ(t.C("action"), SessionCompleted)).
		OrderBy(entsql.Desc(t.C("sequence")))
	applyOpts(sel, opts)

	var out []SessionSummaryRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var s SessionSummaryRecord
		if err := rows.Scan(
			&s.SessionID, &s.LevelID, &s.Timestamp, &s.Mode,
			&s.Score, &s.Mistakes, &s.FirstTryCorrect, &s.Medal,
			&s.DurationSecs, &s.XPEarned, &s.CoinsEarned,
		); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	return out, nil
}
