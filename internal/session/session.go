// Package session implements the assessment engine: item sequencing, retry
// handling, scoring, hint gating and grading for one play-through of a level.
//
// A Session is not safe for concurrent use. Callers serialize operations,
// which the TUI does naturally by handling one key press at a time.
package session

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/nu9ve/academy/internal/content"
)

const (
	defaultCorrectMessage   = "Correct!"
	defaultIncorrectMessage = "Not quite. Try to remember this one."
)

// Session is the live state of one assessment.
type Session struct {
	id      string
	level   content.Level
	mode    Mode
	cfg     Config
	now     func() time.Time
	handler EventHandler

	seed    uint64
	hasSeed bool

	phase  Phase
	review bool
	pass   []int // item indices in presentation order
	retry  []int // missed item indices in encounter order
	index  int   // position in pass, or in retry during review

	enqueued  int // distinct items ever queued for review
	attempted map[string]bool
	hintUsed  bool
	selected  int
	pending   *Feedback

	score    int
	mistakes int
	firstTry int

	startedAt time.Time
	result    *Result
}

// Option configures a Session.
type Option func(*Session)

// WithConfig overrides the scoring constants.
func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithSeed fixes the shuffle seed used in mastery mode.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.seed = seed
		s.hasSeed = true
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithEventHandler registers the receiver of session events.
func WithEventHandler(h EventHandler) Option {
	return func(s *Session) { s.handler = h }
}

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New validates the level and creates a session in PhaseNotStarted.
// Malformed content fails with a *content.ContentError before any item is
// presented.
func New(level content.Level, opts ...Option) (*Session, error) {
	if err := content.ValidateLevel(level); err != nil {
		return nil, err
	}

	s := &Session{
		level:     cloneLevel(level),
		mode:      ModeFor(level),
		cfg:       DefaultConfig(),
		now:       time.Now,
		attempted: make(map[string]bool, len(level.Items)),
		selected:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Level returns the level being played.
func (s *Session) Level() content.Level { return cloneLevel(s.level) }

// Mode returns the sequencing mode.
func (s *Session) Mode() Mode { return s.mode }

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Seed returns the shuffle seed. It is fixed by Start.
func (s *Session) Seed() uint64 { return s.seed }

// Start fixes the item order and the start time, and presents the first item.
func (s *Session) Start() (*View, error) {
	if s.phase != PhaseNotStarted {
		return nil, s.invalid("Start", "session already started")
	}

	s.startedAt = s.now()
	n := len(s.level.Items)
	if s.mode == ModeContinuity {
		s.pass = authoredOrder(n)
	} else {
		if !s.hasSeed {
			s.seed = uint64(s.startedAt.UnixNano())
			s.hasSeed = true
		}
		s.pass = shuffledOrder(n, s.seed)
	}
	s.phase = PhaseActive
	return s.View(), nil
}

// SubmitAnswer scores the chosen option of the presented item and returns
// feedback. The session then awaits Advance.
func (s *Session) SubmitAnswer(optionIndex int) (*Feedback, error) {
	if s.phase != PhaseActive {
		return nil, s.invalid("SubmitAnswer", "session is not active")
	}
	if s.pending != nil {
		return nil, s.invalid("SubmitAnswer", "feedback has not been acknowledged")
	}

	idx := s.currentIndex()
	item := &s.level.Items[idx]
	if optionIndex < 0 || optionIndex >= len(item.Options) {
		return nil, s.invalid("SubmitAnswer", "option index out of range")
	}
	opt := item.Options[optionIndex]

	firstTry := !s.attempted[item.ID]
	s.attempted[item.ID] = true

	fb := &Feedback{
		ItemID:  item.ID,
		Option:  optionIndex,
		Correct: opt.Correct,
		Message: feedbackMessage(item, opt),
	}

	mastered := false
	if opt.Correct {
		fb.Points = opt.Points
		if firstTry {
			fb.Points += s.cfg.FirstTryBonus
			fb.FirstTry = true
			s.firstTry++
		}
		if s.review {
			s.retry = slices.DeleteFunc(s.retry, func(i int) bool { return i == idx })
		}
		mastered = !slices.Contains(s.retry, idx)
	} else {
		fb.Points = opt.Points - s.cfg.IncorrectPenalty
		s.mistakes++
		if s.mode == ModeMastery && !s.review && !slices.Contains(s.retry, idx) {
			s.retry = append(s.retry, idx)
			s.enqueued++
		}
	}
	s.score += fb.Points
	fb.Next = s.nextAction(opt.Correct)

	s.selected = optionIndex
	s.pending = fb

	at := s.now()
	if !opt.Correct {
		s.emit(Event{Kind: EventLifeLost, ItemID: item.ID, At: at})
	}
	s.emit(Event{
		Kind:     EventItemAnswered,
		ItemID:   item.ID,
		At:       at,
		Option:   optionIndex,
		Correct:  opt.Correct,
		Points:   fb.Points,
		FirstTry: fb.FirstTry,
		Review:   s.review,
	})
	if mastered {
		s.emit(Event{Kind: EventItemMastered, ItemID: item.ID, At: at})
	}

	out := *fb
	return &out, nil
}

// nextAction decides where Advance goes after the current submission.
func (s *Session) nextAction(correct bool) NextAction {
	if s.mode == ModeContinuity {
		if s.index+1 < len(s.pass) {
			return NextItem
		}
		return Complete
	}

	if !correct && (s.review || s.cfg.RetryPolicy == RetryImmediate) {
		return RetryItem
	}

	if s.review {
		if len(s.retry) == 0 {
			return Complete
		}
		return NextItem
	}

	switch {
	case s.index+1 < len(s.pass):
		return NextItem
	case len(s.retry) > 0:
		return StartReview
	default:
		return Complete
	}
}

// Advance acknowledges the pending feedback and moves to whatever comes next.
func (s *Session) Advance() (*View, error) {
	if s.phase != PhaseActive {
		return nil, s.invalid("Advance", "session is not active")
	}
	if s.pending == nil {
		return nil, s.invalid("Advance", "no feedback to acknowledge")
	}

	next := s.pending.Next
	answered := s.currentIndex()
	s.pending = nil
	s.selected = -1

	switch next {
	case RetryItem:
		// Same item: hint state carries over.
	case NextItem:
		if s.review {
			// The retry queue shrank; restart from its front.
			s.index = 0
		} else {
			s.index++
		}
		s.hintUsed = false
	case StartReview:
		s.review = true
		s.index = 0
		// A review that opens on the item just missed is the same
		// encounter, so its hint stays spent.
		if s.currentIndex() != answered {
			s.hintUsed = false
		}
	case Complete:
		s.complete()
	}
	return s.View(), nil
}

// RequestHint reveals the hint of the presented item, at most once per
// encounter. Hints never affect scoring.
func (s *Session) RequestHint() (HintResult, error) {
	if s.phase != PhaseActive {
		return HintResult{}, s.invalid("RequestHint", "session is not active")
	}

	item := &s.level.Items[s.currentIndex()]
	if !item.HasHint() {
		return HintResult{Status: HintNone}, nil
	}
	if s.hintUsed {
		return HintResult{Status: HintAlreadyUsed, Text: item.Hint}, nil
	}

	s.hintUsed = true
	s.emit(Event{Kind: EventHintRevealed, ItemID: item.ID, At: s.now()})
	return HintResult{Status: HintRevealed, Text: item.Hint}, nil
}

// Result returns the final result once the session is completed.
func (s *Session) Result() (*Result, bool) {
	if s.result == nil {
		return nil, false
	}
	r := *s.result
	return &r, true
}

// Medal returns the live grade for the mistakes so far.
func (s *Session) Medal() Medal {
	return ComputeMedal(s.mistakes)
}

// View returns the current render model.
func (s *Session) View() *View {
	v := &View{
		SessionID:       s.id,
		LevelID:         s.level.ID,
		Phase:           s.phase,
		Mode:            s.mode,
		Review:          s.review,
		ReviewRemaining: len(s.retry),
		Progress:        s.progress(),
		Selected:        s.selected,
		Score:           s.score,
		Mistakes:        s.mistakes,
		Medal:           ComputeMedal(s.mistakes),
	}
	if s.phase != PhaseActive {
		return v
	}

	item := cloneItem(s.level.Items[s.currentIndex()])
	v.Item = &item
	v.Position = s.index + 1
	v.PassLength = len(s.queue())
	if !s.review && s.index == 0 {
		v.Narrative = s.level.Story
		if v.Narrative == "" {
			v.Narrative = item.Narrative
		}
	}
	if s.pending != nil {
		fb := *s.pending
		v.Feedback = &fb
	}
	v.Hint = HintState{Available: item.HasHint(), Used: s.hintUsed}
	if s.hintUsed {
		v.Hint.Text = item.Hint
	}
	return v
}

func (s *Session) progress() Progress {
	total := len(s.level.Items) + s.enqueued
	if s.phase == PhaseCompleted {
		return Progress{Done: total, Total: total}
	}

	firstDone := s.index
	if s.review {
		firstDone = len(s.pass)
	} else if s.pending != nil && s.pending.Next != RetryItem {
		firstDone++
	}
	reviewDone := 0
	if s.review {
		reviewDone = s.enqueued - len(s.retry)
	}
	return Progress{Done: firstDone + reviewDone, Total: total}
}

func (s *Session) queue() []int {
	if s.review {
		return s.retry
	}
	return s.pass
}

func (s *Session) currentIndex() int {
	return s.queue()[s.index]
}

func (s *Session) complete() {
	done := s.now()
	s.phase = PhaseCompleted
	s.result = &Result{
		SessionID:       s.id,
		LevelID:         s.level.ID,
		Mode:            s.mode,
		Score:           s.score,
		Mistakes:        s.mistakes,
		FirstTryCorrect: s.firstTry,
		Items:           len(s.level.Items),
		Medal:           ComputeMedal(s.mistakes),
		StartedAt:       s.startedAt,
		CompletedAt:     done,
		Elapsed:         done.Sub(s.startedAt),
	}
	r := *s.result
	s.emit(Event{Kind: EventSessionCompleted, At: done, Result: &r})
}

func (s *Session) emit(e Event) {
	if s.handler == nil {
		return
	}
	e.SessionID = s.id
	e.LevelID = s.level.ID
	s.handler(e)
}

func (s *Session) invalid(op, reason string) error {
	return &InvalidStateError{Op: op, Phase: s.phase, Reason: reason}
}

// feedbackMessage picks the most specific message available.
// cloneLevel copies the items and their options so the session's content
// cannot be changed through a returned value, and vice versa.
func cloneLevel(l content.Level) content.Level {
	l.Items = slices.Clone(l.Items)
	for i := range l.Items {
		l.Items[i] = cloneItem(l.Items[i])
	}
	return l
}

func cloneItem(it content.Item) content.Item {
	it.Options = slices.Clone(it.Options)
	return it
}

func feedbackMessage(item *content.Item, opt content.Option) string {
	if opt.Feedback != "" {
		return opt.Feedback
	}
	if opt.Correct {
		if item.Feedback.Correct != "" {
			return item.Feedback.Correct
		}
		return defaultCorrectMessage
	}
	if item.Feedback.Incorrect != "" {
		return item.Feedback.Incorrect
	}
	return defaultIncorrectMessage
}
