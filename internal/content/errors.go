package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContent matches any *ContentError via errors.Is.
var ErrInvalidContent = errors.New("invalid content")

// Problem is a single content defect.
type Problem struct {
	ItemID  string // empty for level-wide problems
	Message string
}

func (p Problem) String() string {
	if p.ItemID == "" {
		return p.Message
	}
	return fmt.Sprintf("item %q: %s", p.ItemID, p.Message)
}

// ContentError reports malformed level content. It is raised before any
// interaction so that malformed items never reach scoring.
type ContentError struct {
	LevelID  string
	Problems []Problem
}

func (e *ContentError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return fmt.Sprintf("level %q: invalid content:\n  %s", e.LevelID, strings.Join(lines, "\n  "))
}

func (e *ContentError) Is(target error) bool {
	return target == ErrInvalidContent
}
