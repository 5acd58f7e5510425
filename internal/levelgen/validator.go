package levelgen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nu9ve/academy/internal/content"
)

// Validator checks a generated level.
type Validator interface {
	Name() string
	Validate(l *content.Level, in Input) *ValidationError
}

// ValidationError describes why a draft was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool // regeneration is likely to fix it
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ContentValidator applies the structural rules every playable level must
// satisfy.
type ContentValidator struct{}

func (v *ContentValidator) Name() string { return "content" }

func (v *ContentValidator) Validate(l *content.Level, _ Input) *ValidationError {
	err := content.ValidateLevel(*l)
	if err == nil {
		return nil
	}
	var ce *content.ContentError
	if errors.As(err, &ce) && len(ce.Problems) > 0 {
		return &ValidationError{Validator: v.Name(), Message: ce.Problems[0].String(), Retryable: true, Err: err}
	}
	return &ValidationError{Validator: v.Name(), Message: err.Error(), Retryable: true, Err: err}
}

// ShapeValidator checks that the draft matches the request.
type ShapeValidator struct{}

func (v *ShapeValidator) Name() string { return "shape" }

func (v *ShapeValidator) Validate(l *content.Level, in Input) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}
	if l.Type != in.Type {
		return fail("type is %q, want %q", l.Type, in.Type)
	}
	if in.Items > 0 && len(l.Items) != in.Items {
		return fail("%d items, want %d", len(l.Items), in.Items)
	}
	for _, it := range l.Items {
		if len(it.Options) > 6 {
			return fail("item %q has %d options, want at most 6", it.ID, len(it.Options))
		}
		if len(it.Prompt) > 600 {
			return fail("item %q prompt exceeds 600 characters", it.ID)
		}
	}
	return nil
}

// UniqueIDValidator rejects level or item IDs that clash with the catalogue.
type UniqueIDValidator struct{}

func (v *UniqueIDValidator) Name() string { return "unique-id" }

func (v *UniqueIDValidator) Validate(l *content.Level, in Input) *ValidationError {
	if slices.Contains(in.ExistingIDs, l.ID) {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("level ID %q already exists", l.ID), Retryable: true}
	}
	for _, it := range l.Items {
		if slices.Contains(in.ExistingIDs, it.ID) {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("item ID %q already exists", it.ID), Retryable: true}
		}
	}
	return nil
}

// AnswerSpreadValidator rejects levels of three or more items whose correct
// answer always sits at the same position.
type AnswerSpreadValidator struct{}

func (v *AnswerSpreadValidator) Name() string { return "answer-spread" }

func (v *AnswerSpreadValidator) Validate(l *content.Level, _ Input) *ValidationError {
	if len(l.Items) < 3 {
		return nil
	}
	first := l.Items[0].CorrectIndex()
	for _, it := range l.Items[1:] {
		if it.CorrectIndex() != first {
			return nil
		}
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("every correct answer is option %d", first+1),
		Retryable: true,
	}
}
