package session

import (
	"fmt"

	"github.com/nu9ve/academy/internal/content"
)

// Phase is the lifecycle phase of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota // Created, order not yet fixed
	PhaseActive                  // Serving items (first pass or review)
	PhaseCompleted               // Result produced, no further input
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Mode selects how items are sequenced.
type Mode int

const (
	// ModeMastery shuffles items and requires each to be answered correctly.
	ModeMastery Mode = iota

	// ModeContinuity keeps authored order and always advances.
	ModeContinuity
)

func (m Mode) String() string {
	if m == ModeContinuity {
		return "continuity"
	}
	return "mastery"
}

// ModeFor returns the sequencing mode selected by a level's metadata.
func ModeFor(l content.Level) Mode {
	if l.HasContinuity {
		return ModeContinuity
	}
	return ModeMastery
}

// NextAction tells the caller what Advance will do with pending feedback.
type NextAction int

const (
	NextItem    NextAction = iota // Present a different item
	RetryItem                     // Present the same item again
	StartReview                   // Begin the review round
	Complete                      // Finish the session
)

func (a NextAction) String() string {
	switch a {
	case NextItem:
		return "next"
	case RetryItem:
		return "retry"
	case StartReview:
		return "review"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("NextAction(%d)", int(a))
	}
}

// Feedback is the outcome of one submission.
type Feedback struct {
	ItemID   string
	Option   int
	Correct  bool
	FirstTry bool // first-try bonus applied
	Points   int  // score delta, negative on a miss
	Message  string
	Next     NextAction
}

// Progress is a retry-aware progress fraction. Total grows when items are
// queued for review; Done equals Total exactly when the session completes.
type Progress struct {
	Done  int
	Total int
}

// Fraction returns Done/Total in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total)
}

// HintStatus is the outcome of a hint request.
type HintStatus int

const (
	HintRevealed HintStatus = iota
	HintNone
	HintAlreadyUsed
)

// HintResult is returned by RequestHint.
type HintResult struct {
	Status HintStatus
	Text   string
}

// HintState describes the hint for the presented item.
type HintState struct {
	Available bool
	Used      bool
	Text      string // set once revealed
}

// View is the render model for the caller. It is a snapshot; mutating it
// does not affect the session.
type View struct {
	SessionID string
	LevelID   string
	Phase     Phase
	Mode      Mode
	Review    bool

	// Item is nil once the session is completed.
	Item *content.Item

	// Position is the 1-based position within the current pass.
	Position   int
	PassLength int

	// ReviewRemaining is the number of items waiting in the retry queue.
	ReviewRemaining int

	Progress Progress

	// Narrative is set only for the first item of the first pass.
	Narrative string

	// Selected is the option chosen for pending feedback, or -1.
	Selected int
	Feedback *Feedback
	Hint     HintState

	Score    int
	Mistakes int
	Medal    Medal
}

// AwaitingAnswer reports whether the view expects a submission.
func (v *View) AwaitingAnswer() bool {
	return v.Phase == PhaseActive && v.Feedback == nil
}
