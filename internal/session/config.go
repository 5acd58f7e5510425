package session

import "fmt"

// RetryPolicy controls what happens after a missed item in mastery mode.
type RetryPolicy int

const (
	// RetryDeferred moves on after a miss and revisits the item in a review
	// round once the first pass is over.
	RetryDeferred RetryPolicy = iota

	// RetryImmediate keeps the learner on a missed item until it is
	// answered correctly. The item is still revisited in the review round.
	RetryImmediate
)

// String returns the config name of the policy.
func (p RetryPolicy) String() string {
	switch p {
	case RetryDeferred:
		return "deferred"
	case RetryImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("RetryPolicy(%d)", int(p))
	}
}

// ParseRetryPolicy parses a config value. The empty string selects the default.
func ParseRetryPolicy(s string) (RetryPolicy, error) {
	switch s {
	case "", "deferred":
		return RetryDeferred, nil
	case "immediate":
		return RetryImmediate, nil
	default:
		return RetryDeferred, fmt.Errorf("unknown retry policy %q (want deferred or immediate)", s)
	}
}

// Config holds the scoring constants of the engine.
type Config struct {
	// FirstTryBonus is added to an option's points when an item is answered
	// correctly on its first submission.
	FirstTryBonus int

	// IncorrectPenalty is subtracted from the score on every wrong answer.
	IncorrectPenalty int

	RetryPolicy RetryPolicy
}

// DefaultConfig returns the standard scoring constants.
func DefaultConfig() Config {
	return Config{
		FirstTryBonus:    25,
		IncorrectPenalty: 50,
		RetryPolicy:      RetryDeferred,
	}
}
