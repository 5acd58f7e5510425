package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.appendEvent(ctx, LLMRequestEventsTable.Name,
		[]string{
			"provider", "model", "purpose", "attempt", "try", "input_tokens", "output_tokens", "latency_ms",
			"success", "error_message", "request_body", "response_body",
		},
		[]any{
			data.Provider, data.Model, data.Purpose, data.Attempt, data.Try, data.InputTokens, data.OutputTokens, data.LatencyMs,
			data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
}

func llmEventSelect() (*entsql.SelectTable, *entsql.Selector) {
	t := entsql.Table(LLMRequestEventsTable.Name)
	sel := builder().Select(
		t.C("id"), t.C("sequence"), t.C("timestamp"), t.C("provider"), t.C("model"),
		t.C("purpose"), t.C("attempt"), t.C("try"), t.C("input_tokens"), t.C("output_tokens"), t.C("latency_ms"),
		t.C("success"), t.C("error_message"), t.C("request_body"), t.C("response_body"),
	).From(t)
	return t, sel
}

func scanLLMEvent(rows *entsql.Rows) (LLMRequestEventRecord, error) {
	var e LLMRequestEventRecord
	err := rows.Scan(
		&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model,
		&e.Purpose, &e.Attempt, &e.Try, &e.InputTokens, &e.OutputTokens, &e.LatencyMs,
		&e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	t, sel := llmEventSelect()
	sel.OrderBy(entsql.Desc(t.C("sequence")))
	applyOpts(sel, opts)

	var out []LLMRequestEventRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	t, sel := llmEventSelect()
	sel.Where(entsql.EQ(t.C("id"), id)).Limit(1)

	var found *LLMRequestEventRecord
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		found = &e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	return found, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error) {
	t := entsql.Table(LLMRequestEventsTable.Name)
	sel := builder().Select(
		t.C("purpose"),
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum(t.C("input_tokens")), "input_tokens"),
		entsql.As(entsql.Sum(t.C("output_tokens")), "output_tokens"),
		entsql.As(fmt.Sprintf("CAST(%s AS INTEGER)", entsql.Avg(t.C("latency_ms"))), "avg_latency"),
	).From(t).
		GroupBy(t.C("purpose")).
		OrderBy(t.C("purpose"))

	var out []LLMUsageStat
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var s LLMUsageStat
		if err := rows.Scan(&s.Purpose, &s.Calls, &s.InputTokens, &s.OutputTokens, &s.AvgLatencyMs); err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by purpose: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	t := entsql.Table(LLMRequestEventsTable.Name)
	sel := builder().Select(
		t.C("model"),
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum(t.C("input_tokens")), "input_tokens"),
		entsql.As(entsql.Sum(t.C("output_tokens")), "output_tokens"),
	).From(t).
		GroupBy(t.C("model")).
		OrderBy(t.C("model"))

	var out []LLMModelUsage
	err := r.query(ctx, sel, func(rows *entsql.Rows) error {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return err
		}
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by model: %w", err)
	}
	return out, nil
}
