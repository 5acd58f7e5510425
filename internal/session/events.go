package session

import "time"

// EventKind identifies a session event.
type EventKind int

const (
	// EventItemAnswered fires on every submission.
	EventItemAnswered EventKind = iota

	// EventLifeLost fires once per incorrect submission.
	EventLifeLost

	// EventItemMastered fires when an item is answered correctly and has
	// no pending review.
	EventItemMastered

	// EventHintRevealed fires once per item encounter.
	EventHintRevealed

	// EventSessionCompleted fires exactly once, carrying the Result.
	EventSessionCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventItemAnswered:
		return "item_answered"
	case EventLifeLost:
		return "life_lost"
	case EventItemMastered:
		return "item_mastered"
	case EventHintRevealed:
		return "hint_revealed"
	case EventSessionCompleted:
		return "session_completed"
	default:
		return "unknown"
	}
}

// Event is a side effect signalled to the caller. The engine never applies
// effects (lives, coins) itself.
type Event struct {
	Kind      EventKind
	SessionID string
	LevelID   string
	ItemID    string
	At        time.Time

	// Set for EventItemAnswered.
	Option   int
	Correct  bool
	Points   int
	FirstTry bool
	Review   bool

	// Set for EventSessionCompleted.
	Result *Result
}

// EventHandler receives events synchronously, in the order they occur.
type EventHandler func(Event)
