package store

import "context"

func (r *eventRepo) AppendLifeEvent(ctx context.Context, data LifeEventData) error {
	return r.appendEvent(ctx, LifeEventsTable.Name,
		[]string{"reason", "delta", "balance", "session_id", "coins"},
		[]any{data.Reason, data.Delta, data.Balance, data.SessionID, data.Coins},
	)
}
