package content

// LevelType identifies the presentation variant of a level. All variants are
// played by the same engine; the type only changes labels and framing.
type LevelType string

const (
	TypeRoleplay    LevelType = "roleplay"
	TypeQuiz        LevelType = "quiz"
	TypeStory       LevelType = "story"
	TypeInteractive LevelType = "interactive"
	TypeVideo       LevelType = "video"
)

// AllLevelTypes returns all level types in display order.
func AllLevelTypes() []LevelType {
	return []LevelType{TypeRoleplay, TypeQuiz, TypeStory, TypeInteractive, TypeVideo}
}

// DisplayName returns a human-readable label for the level type.
func (t LevelType) DisplayName() string {
	switch t {
	case TypeRoleplay:
		return "Roleplay"
	case TypeQuiz:
		return "Quiz"
	case TypeStory:
		return "Story"
	case TypeInteractive:
		return "Interactive"
	case TypeVideo:
		return "Video"
	default:
		return string(t)
	}
}

// Option is one selectable answer of an Item.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
	Points  int    `json:"points"`

	// Feedback overrides the item-level feedback message for this option.
	Feedback string `json:"feedback,omitempty"`

	// Principle names the communication principle a roleplay choice exercises.
	Principle string `json:"principle,omitempty"`
}

// Feedback holds the messages shown after an answer.
type Feedback struct {
	Correct   string `json:"correct,omitempty"`
	Incorrect string `json:"incorrect,omitempty"`
}

// Item is a single question or scenario.
type Item struct {
	ID        string   `json:"id"`
	Prompt    string   `json:"prompt"`
	Options   []Option `json:"options"`
	Hint      string   `json:"hint,omitempty"`
	Narrative string   `json:"narrative,omitempty"`
	Feedback  Feedback `json:"feedback,omitempty"`
}

// HasHint reports whether the item carries a hint.
func (it Item) HasHint() bool {
	return it.Hint != ""
}

// CorrectIndex returns the index of the first correct option, or -1.
func (it Item) CorrectIndex() int {
	for i, o := range it.Options {
		if o.Correct {
			return i
		}
	}
	return -1
}

// Level is an ordered set of items played in one session.
type Level struct {
	ID       string    `json:"id"`
	CourseID string    `json:"course_id,omitempty"`
	Title    string    `json:"title"`
	Type     LevelType `json:"type"`

	// HasContinuity selects continuity sequencing: authored order, mistakes
	// never block advancement.
	HasContinuity bool `json:"has_continuity"`

	DurationMinutes   int    `json:"duration_minutes,omitempty"`
	XPReward          int    `json:"xp_reward"`
	CoinReward        int    `json:"coin_reward"`
	Background        string `json:"background,omitempty"`
	Story             string `json:"story,omitempty"`
	UnlockedByDefault bool   `json:"unlocked_by_default,omitempty"`

	Items []Item `json:"items"`
}

// MaxScore returns the best achievable score without bonuses.
func (l Level) MaxScore() int {
	total := 0
	for _, it := range l.Items {
		best := 0
		for _, o := range it.Options {
			if o.Correct && o.Points > best {
				best = o.Points
			}
		}
		total += best
	}
	return total
}

// Course groups levels that unlock one after another.
type Course struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Levels      []Level `json:"levels"`
}
