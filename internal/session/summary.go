package session

import "time"

// Result is the immutable outcome of a completed session.
type Result struct {
	SessionID       string
	LevelID         string
	Mode            Mode
	Score           int
	Mistakes        int
	FirstTryCorrect int
	Items           int
	Medal           Medal
	StartedAt       time.Time
	CompletedAt     time.Time
	Elapsed         time.Duration
}

// Accuracy returns the share of items answered correctly on the first try.
func (r *Result) Accuracy() float64 {
	if r.Items == 0 {
		return 0
	}
	return float64(r.FirstTryCorrect) / float64(r.Items)
}
