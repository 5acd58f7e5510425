package content

import (
	"fmt"
	"strings"
)

// ValidateLevel performs all structural checks on a level. It returns a
// *ContentError listing every problem found, or nil if the level is playable.
func ValidateLevel(l Level) error {
	var problems []Problem

	if strings.TrimSpace(l.ID) == "" {
		problems = append(problems, Problem{Message: "level id is empty"})
	}
	if len(l.Items) == 0 {
		problems = append(problems, Problem{Message: "level has no items"})
	}

	seen := make(map[string]bool, len(l.Items))
	for i, it := range l.Items {
		id := it.ID
		if strings.TrimSpace(id) == "" {
			problems = append(problems, Problem{Message: fmt.Sprintf("item %d has an empty id", i)})
			id = fmt.Sprintf("#%d", i)
		} else if seen[id] {
			problems = append(problems, Problem{ItemID: id, Message: "duplicate item id"})
		}
		seen[id] = true

		problems = append(problems, validateItem(id, it)...)
	}

	if len(problems) > 0 {
		return &ContentError{LevelID: l.ID, Problems: problems}
	}
	return nil
}

func validateItem(id string, it Item) []Problem {
	var problems []Problem

	if strings.TrimSpace(it.Prompt) == "" {
		problems = append(problems, Problem{ItemID: id, Message: "prompt is empty"})
	}
	if len(it.Options) == 0 {
		return append(problems, Problem{ItemID: id, Message: "options list is empty"})
	}

	correct := 0
	for j, o := range it.Options {
		if o.Correct {
			correct++
		}
		if o.Points < 0 {
			problems = append(problems, Problem{ItemID: id, Message: fmt.Sprintf("option %d has negative points (%d)", j, o.Points)})
		}
		if strings.TrimSpace(o.Text) == "" {
			problems = append(problems, Problem{ItemID: id, Message: fmt.Sprintf("option %d has empty text", j)})
		}
	}

	switch {
	case correct == 0:
		problems = append(problems, Problem{ItemID: id, Message: "no correct option"})
	case correct > 1:
		problems = append(problems, Problem{ItemID: id, Message: fmt.Sprintf("%d correct options, want exactly 1", correct)})
	}
	return problems
}

// ValidateCourse checks course-level invariants and every contained level.
// Returns a combined error describing all problems found, or nil if valid.
func ValidateCourse(c Course) error {
	var errs []string

	if strings.TrimSpace(c.ID) == "" {
		errs = append(errs, "course id is empty")
	}
	if len(c.Levels) == 0 {
		errs = append(errs, fmt.Sprintf("course %q has no levels", c.ID))
	}

	ids := make(map[string]bool, len(c.Levels))
	for _, l := range c.Levels {
		if ids[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate level ID: %q", l.ID))
		}
		ids[l.ID] = true

		if !isKnownType(l.Type) {
			errs = append(errs, fmt.Sprintf("level %q has unknown type %q", l.ID, l.Type))
		}
		if l.XPReward < 0 || l.CoinReward < 0 {
			errs = append(errs, fmt.Sprintf("level %q has negative rewards", l.ID))
		}
		if err := ValidateLevel(l); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("course %q validation failed: %w:\n  %s", c.ID, ErrInvalidContent, strings.Join(errs, "\n  "))
	}
	return nil
}

func isKnownType(t LevelType) bool {
	for _, known := range AllLevelTypes() {
		if t == known {
			return true
		}
	}
	return false
}
