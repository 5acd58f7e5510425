package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned by a Scripted backend with no steps left.
var ErrScriptExhausted = errors.New("llm: scripted backend has no more replies")

// Step is one canned outcome of a Scripted backend.
type Step struct {
	Text      string
	Usage     Usage
	Truncated bool
	Err       error
}

// Scripted is an in-memory Backend that replays steps in order and keeps
// every call it received. Tests drive Client and level generation with it.
type Scripted struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
}

// Script returns a backend that replays steps.
func Script(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

func (s *Scripted) Complete(ctx context.Context, call Call) (*Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, call)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.steps) == 0 {
		return nil, ErrScriptExhausted
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return &Reply{Text: step.Text, Model: call.Model, Usage: step.Usage, Truncated: step.Truncated}, nil
}

// Calls returns a copy of the calls received so far.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}
