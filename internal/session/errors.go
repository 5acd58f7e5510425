package session

import (
	"errors"
	"fmt"
)

// ErrInvalidState matches any *InvalidStateError via errors.Is.
var ErrInvalidState = errors.New("invalid session state")

// InvalidStateError is returned when an operation is called out of sequence.
// It signals a caller bug; retrying the same call will fail again.
type InvalidStateError struct {
	Op     string
	Phase  Phase
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session: %s in phase %s: %s", e.Op, e.Phase, e.Reason)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
