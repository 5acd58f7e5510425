// Package levelgen drafts new course levels with an LLM provider.
package levelgen

import (
	"context"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/llm"
)

// Input describes the level to generate.
type Input struct {
	// Topic is the communication skill the level practises.
	Topic string

	// Type selects the presentation variant. Roleplay and story levels are
	// generated with continuity.
	Type content.LevelType

	// Items is the number of multiple-choice items wanted.
	Items int

	// Language of the generated text, e.g. "es" or "en".
	Language string

	// CourseID is stamped on the level. Empty means content.DefaultCourseID.
	CourseID string

	// ExistingIDs lists level and item IDs already in the catalogue; the
	// generated level must not reuse them.
	ExistingIDs []string

	// ExistingTitles is shown to the model so it picks a fresh angle.
	ExistingTitles []string
}

// Result is an accepted level and what it cost.
type Result struct {
	Level *content.Level

	// Attempts counts drafts requested, including rejected ones.
	Attempts int

	// Model produced the accepted draft.
	Model string

	// Usage sums tokens over every attempt.
	Usage llm.Usage
}

// Generator produces validated levels.
type Generator interface {
	Generate(ctx context.Context, in Input) (*Result, error)
}

// Drafter sends one structured-output request; *llm.Client implements it.
type Drafter interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Response, error)
}
