package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo using ent's SQL builder.
type snapshotRepo struct {
	drv *entsql.Driver
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	query, args := builder().Insert(SnapshotsTable.Name).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, ts.UTC(), string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	t := entsql.Table(SnapshotsTable.Name)
	query, args := builder().Select(t.C("id"), t.C("sequence"), t.C("timestamp"), t.C("data")).
		From(t).
		OrderBy(entsql.Desc(t.C("timestamp")), entsql.Desc(t.C("id"))).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}

	var (
		snap Snapshot
		raw  string
	)
	if err := rows.Scan(&snap.ID, &snap.Sequence, &snap.Timestamp, &raw); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	t := entsql.Table(SnapshotsTable.Name)
	keepIDs := builder().Select(t.C("id")).
		From(t).
		OrderBy(entsql.Desc(t.C("timestamp")), entsql.Desc(t.C("id"))).
		Limit(keep)

	query, args := builder().Delete(SnapshotsTable.Name).
		Where(entsql.NotIn("id", keepIDs)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
