package levelgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/llm"
	"github.com/nu9ve/academy/internal/logging"
)

// ErrBadInput reports an Input that cannot be sent to the model.
var ErrBadInput = errors.New("invalid generation input")

// LLMGenerator implements Generator on top of a Drafter.
type LLMGenerator struct {
	drafter Drafter
	config  Config
}

// New creates an LLMGenerator.
func New(drafter Drafter, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{drafter: drafter, config: cfg}
}

func normalize(in Input) (Input, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" {
		return in, fmt.Errorf("%w: topic is required", ErrBadInput)
	}
	if in.Type == "" {
		in.Type = content.TypeQuiz
	}
	if !slices.Contains(content.AllLevelTypes(), in.Type) {
		return in, fmt.Errorf("%w: unknown level type %q", ErrBadInput, in.Type)
	}
	if in.Items == 0 {
		in.Items = 5
	}
	if in.Items < 1 || in.Items > 20 {
		return in, fmt.Errorf("%w: items must be between 1 and 20", ErrBadInput)
	}
	if in.CourseID == "" {
		in.CourseID = content.DefaultCourseID
	}
	return in, nil
}

// Generate drafts a level. When a draft is rejected for a retryable reason
// the next attempt is sent as a repair, routed by llm.PurposeLevelRepair,
// with the rejection appended to the prompt. The last rejection is
// returned once attempts run out.
func (g *LLMGenerator) Generate(ctx context.Context, in Input) (*Result, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	var (
		res      Result
		rejected string
		lastErr  error
	)
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		res.Attempts = attempt
		l, resp, err := g.draft(ctx, in, attempt, rejected)
		res.Usage = res.Usage.Add(spent(resp, err))
		if err == nil {
			res.Level = l
			res.Model = resp.Model
			log.Info().
				Str("level", l.ID).
				Int("attempt", attempt).
				Str("model", res.Model).
				Int("tokens", res.Usage.Total()).
				Msg("level generated")
			return &res, nil
		}

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("generated level rejected")
		rejected = verr.Message
		lastErr = err
	}
	return nil, fmt.Errorf("no valid level after %d attempts: %w", g.config.MaxAttempts, lastErr)
}

// draft requests one level. A reply that is not a schema-valid level
// becomes a retryable ValidationError so the next attempt can repair it.
func (g *LLMGenerator) draft(ctx context.Context, in Input, attempt int, rejected string) (*content.Level, *llm.Response, error) {
	req := llm.Request{
		Purpose:     llm.PurposeLevelDraft,
		Attempt:     attempt,
		System:      systemPrompt,
		Prompt:      buildUserMessage(in, g.config),
		Schema:      LevelSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if rejected != "" {
		req.Purpose = llm.PurposeLevelRepair
		req.Prompt = buildRepairMessage(in, g.config, rejected)
	}

	resp, err := g.drafter.Generate(ctx, req)
	if err != nil {
		var lerr *llm.Error
		if errors.As(err, &lerr) && lerr.Kind == llm.KindMalformed {
			return nil, nil, &ValidationError{Validator: "schema", Message: lerr.Err.Error(), Retryable: true, Err: err}
		}
		return nil, nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var l content.Level
	if err := json.Unmarshal(resp.Content, &l); err != nil {
		return nil, resp, &ValidationError{Validator: "decode", Message: err.Error(), Retryable: true, Err: err}
	}
	g.fillDefaults(&l, in)

	for _, v := range g.config.Validators {
		if verr := v.Validate(&l, in); verr != nil {
			return nil, resp, verr
		}
	}
	return &l, resp, nil
}

// spent is the token usage of one attempt, whether or not it succeeded.
func spent(resp *llm.Response, err error) llm.Usage {
	if resp != nil {
		return resp.Usage
	}
	var lerr *llm.Error
	if errors.As(err, &lerr) {
		return lerr.Usage
	}
	return llm.Usage{}
}

func (g *LLMGenerator) fillDefaults(l *content.Level, in Input) {
	l.CourseID = in.CourseID
	if wantsContinuity(l.Type) {
		l.HasContinuity = true
	}
	if l.XPReward == 0 {
		l.XPReward = g.config.XPReward
	}
	if l.CoinReward == 0 {
		l.CoinReward = g.config.CoinReward
	}
	if l.DurationMinutes == 0 {
		l.DurationMinutes = 2 * len(l.Items)
	}
}
