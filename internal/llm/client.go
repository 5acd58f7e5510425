package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/nu9ve/academy/internal/logging"
	"github.com/nu9ve/academy/internal/store"
)

// Client sends structured-output requests to one vendor.
type Client struct {
	backend Backend
	vendor  string
	config  Config
	events  store.EventRepo // nil disables recording
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// Open builds the backend for cfg.Provider and wraps it in a Client.
func Open(ctx context.Context, cfg Config, events store.EventRepo) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		b   Backend
		err error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		b = newAnthropic(cfg.Anthropic)
	case ProviderOpenAI:
		b = newOpenAI(ProviderOpenAI, cfg.OpenAI)
	case ProviderOpenRouter:
		b = newOpenAI(ProviderOpenRouter, cfg.OpenRouter)
	case ProviderGemini:
		b, err = newGemini(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s backend: %w", cfg.Provider, err)
	}
	return New(b, cfg, events), nil
}

// New wraps an existing backend. cfg supplies routing, retry and timeout;
// its API keys are not consulted.
func New(b Backend, cfg Config, events store.EventRepo) *Client {
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}
	return &Client{
		backend: b,
		vendor:  cfg.Provider,
		config:  cfg,
		events:  events,
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

// Vendor returns the configured vendor name.
func (c *Client) Vendor() string { return c.vendor }

// Model returns the model that serves purpose.
func (c *Client) Model(purpose string) string { return c.config.ModelFor(purpose) }

// Generate sends req and returns a reply that matches req.Schema.
// Unavailable and rate-limited calls are repeated with backoff; malformed,
// truncated and rejected replies are returned at once as *Error so the
// caller can decide whether a new prompt is worth it.
func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Schema == nil {
		return nil, errors.New("llm: request has no schema")
	}
	if _, err := compileSchema(req.Schema); err != nil {
		return nil, err
	}
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	call := Call{
		Model:       c.Model(req.Purpose),
		System:      req.System,
		Prompt:      req.Prompt,
		Schema:      req.Schema,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var usage Usage
	for try := 1; ; try++ {
		resp, err := c.round(ctx, req, call, try)
		if resp != nil {
			usage = usage.Add(resp.Usage)
		}
		if err == nil {
			resp.Usage = usage
			resp.Tries = try
			return resp, nil
		}

		var lerr *Error
		if !errors.As(err, &lerr) {
			return nil, err
		}
		lerr.Usage = usage
		if !lerr.Temporary() || try >= c.config.Retry.MaxAttempts {
			return nil, err
		}
		if err := c.sleep(ctx, c.backoff(try, lerr)); err != nil {
			return nil, err
		}
	}
}

// round makes one vendor call and records it. On a malformed or truncated
// reply it still returns the Response so its tokens are counted.
func (c *Client) round(ctx context.Context, req Request, call Call, try int) (*Response, error) {
	start := c.now()
	reply, err := c.backend.Complete(ctx, call)
	latency := c.now().Sub(start)

	var resp *Response
	if err == nil {
		resp = &Response{Model: reply.Model, Usage: reply.Usage}
		if resp.Model == "" {
			resp.Model = call.Model
		}
		resp.Content, err = checkReply(call.Schema, reply.Text)
		switch {
		case reply.Truncated:
			err = &Error{Kind: KindTruncated, Vendor: c.vendor, Content: resp.Content, Err: err}
		case err != nil:
			err = &Error{Kind: KindMalformed, Vendor: c.vendor, Content: resp.Content, Err: err}
		}
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	c.record(ctx, req, call, resp, err, try, latency)
	return resp, err
}

// backoff honours a rate limit's RetryAfter, otherwise grows InitialWait by
// Multiplier per try up to MaxWait, with ±20% jitter.
func (c *Client) backoff(try int, err *Error) time.Duration {
	if err.RetryAfter > 0 {
		return err.RetryAfter
	}
	r := c.config.Retry
	wait := float64(r.InitialWait) * math.Pow(r.Multiplier, float64(try-1))
	if r.MaxWait > 0 {
		wait = math.Min(wait, float64(r.MaxWait))
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// record writes one event per vendor call. A failed append never fails the
// request.
func (c *Client) record(ctx context.Context, req Request, call Call, resp *Response, err error, try int, latency time.Duration) {
	data := store.LLMRequestEventData{
		Provider:    c.vendor,
		Model:       call.Model,
		Purpose:     req.Purpose,
		Attempt:     req.Attempt,
		Try:         try,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: renderCall(call),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	log := logging.FromContext(ctx)
	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("provider", data.Provider).
		Str("model", data.Model).
		Str("purpose", data.Purpose).
		Int("attempt", data.Attempt).
		Int("try", try).
		Dur("latency", latency).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens).
		Msg("llm request")

	if c.events == nil {
		return
	}
	if appendErr := c.events.AppendLLMRequest(ctx, data); appendErr != nil {
		log.Warn().Err(appendErr).Msg("append llm request event")
	}
}

// renderCall flattens a call into the text shown by `academy llm view`.
func renderCall(call Call) string {
	var b strings.Builder
	if call.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", call.System)
	}
	fmt.Fprintf(&b, "[prompt]\n%s\n", call.Prompt)
	if call.Schema != nil {
		if def, err := json.Marshal(call.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n%s\n", call.Schema.Name, def)
		}
	}
	return b.String()
}
