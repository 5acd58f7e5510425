package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/nu9ve/academy/internal/content"
)

func testLevel(n int, continuity bool) content.Level {
	items := make([]content.Item, n)
	for i := range items {
		items[i] = content.Item{
			ID:     fmt.Sprintf("item-%d", i),
			Prompt: fmt.Sprintf("Question %d", i),
			Options: []content.Option{
				{Text: "wrong", Correct: false, Points: 0},
				{Text: "right", Correct: true, Points: 20},
				{Text: "partial", Correct: false, Points: 5},
			},
			Hint: "think",
			Feedback: content.Feedback{
				Correct:   "yes",
				Incorrect: "no",
			},
		}
	}
	return content.Level{ID: "test-level", Story: "Once upon a time", HasContinuity: continuity, Items: items}
}

type recorder struct {
	events []Event
}

func (r *recorder) handle(e Event) { r.events = append(r.events, e) }

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func startSession(t *testing.T, level content.Level, opts ...Option) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithSeed(42), WithClock(fixedClock()), WithEventHandler(rec.handle)}, opts...)
	s, err := New(level, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, rec
}

func currentItem(t *testing.T, s *Session) content.Item {
	t.Helper()
	v := s.View()
	if v.Item == nil {
		t.Fatal("no item presented")
	}
	return *v.Item
}

func answer(t *testing.T, s *Session, correct bool) *Feedback {
	t.Helper()
	item := currentItem(t, s)
	idx := item.CorrectIndex()
	if !correct {
		idx = 0
	}
	fb, err := s.SubmitAnswer(idx)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	return fb
}

func advance(t *testing.T, s *Session) *View {
	t.Helper()
	v, err := s.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	return v
}

func TestComputeMedal(t *testing.T) {
	tests := []struct {
		mistakes int
		want     Medal
	}{
		{0, MedalPlatinum},
		{1, MedalGold},
		{2, MedalGold},
		{3, MedalSilver},
		{10, MedalSilver},
	}
	for _, tt := range tests {
		if got := ComputeMedal(tt.mistakes); got != tt.want {
			t.Errorf("ComputeMedal(%d) = %s, want %s", tt.mistakes, got, tt.want)
		}
	}

	for m := 0; m < 20; m++ {
		if ComputeMedal(m+1).Better(ComputeMedal(m)) {
			t.Errorf("medal improved from %d to %d mistakes", m, m+1)
		}
	}
}

func TestScenario_SingleItemFirstTry(t *testing.T) {
	s, rec := startSession(t, testLevel(1, false))

	fb := answer(t, s, true)
	if !fb.Correct || !fb.FirstTry {
		t.Fatalf("feedback = %+v, want correct first try", fb)
	}
	if fb.Next != Complete {
		t.Errorf("Next = %s, want complete", fb.Next)
	}
	advance(t, s)

	r, ok := s.Result()
	if !ok {
		t.Fatal("expected result after completion")
	}
	if r.Score != 20+DefaultConfig().FirstTryBonus {
		t.Errorf("Score = %d, want %d", r.Score, 20+DefaultConfig().FirstTryBonus)
	}
	if r.Mistakes != 0 || r.Medal != MedalPlatinum || r.FirstTryCorrect != 1 {
		t.Errorf("result = %+v", r)
	}
	if rec.count(EventSessionCompleted) != 1 {
		t.Errorf("SessionCompleted fired %d times", rec.count(EventSessionCompleted))
	}
}

func TestScenario_SingleItemWrongThenCorrect(t *testing.T) {
	for _, policy := range []RetryPolicy{RetryDeferred, RetryImmediate} {
		t.Run(policy.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.RetryPolicy = policy
			s, rec := startSession(t, testLevel(1, false), WithConfig(cfg))

			fb := answer(t, s, false)
			if fb.Correct || fb.Points != -cfg.IncorrectPenalty {
				t.Fatalf("feedback = %+v", fb)
			}
			v := advance(t, s)
			if v.Phase != PhaseActive {
				t.Fatal("session completed before the item was answered correctly")
			}
			if policy == RetryDeferred && !v.Review {
				t.Error("deferred policy should move into the review round")
			}

			fb = answer(t, s, true)
			if fb.FirstTry {
				t.Error("first-try bonus awarded on a retry")
			}

			// Immediate retry still reviews the item once the pass is over.
			if policy == RetryImmediate {
				if fb.Next != StartReview {
					t.Fatalf("Next = %s, want review", fb.Next)
				}
				advance(t, s)
				answer(t, s, true)
			}

			v = advance(t, s)
			if v.Phase != PhaseCompleted {
				t.Fatalf("Phase = %s, want completed", v.Phase)
			}
			r, _ := s.Result()
			if r.Mistakes != 1 || r.Medal != MedalGold || r.FirstTryCorrect != 0 {
				t.Errorf("result = %+v", r)
			}
			if got := rec.count(EventLifeLost); got != 1 {
				t.Errorf("LifeLost = %d, want 1", got)
			}
			if v.ReviewRemaining != 0 {
				t.Errorf("retry queue not empty at completion: %d", v.ReviewRemaining)
			}
		})
	}
}

func TestScenario_ContinuityAllWrong(t *testing.T) {
	s, rec := startSession(t, testLevel(3, true))

	advances := 0
	for s.Phase() == PhaseActive {
		answer(t, s, false)
		advance(t, s)
		advances++
	}
	if advances != 3 {
		t.Errorf("advances = %d, want 3", advances)
	}
	r, _ := s.Result()
	if r.Mistakes != 3 || r.Medal != MedalSilver {
		t.Errorf("result = %+v", r)
	}
	if rec.count(EventLifeLost) != 3 {
		t.Errorf("LifeLost = %d, want 3", rec.count(EventLifeLost))
	}
}

func TestContinuity_AdvancesRegardlessOfCorrectness(t *testing.T) {
	const n = 4
	for mask := 0; mask < 1<<n; mask++ {
		s, _ := startSession(t, testLevel(n, true))

		changes := 0
		for i := 0; s.Phase() == PhaseActive; i++ {
			before := s.View()
			if before.Item.ID != fmt.Sprintf("item-%d", i) {
				t.Fatalf("mask %b: item %d presented out of authored order: %s", mask, i, before.Item.ID)
			}
			answer(t, s, mask&(1<<i) != 0)
			after := advance(t, s)
			if after.Phase == PhaseCompleted || after.Position != before.Position {
				changes++
			}
		}
		if changes != n {
			t.Errorf("mask %b: index changed %d times, want %d", mask, changes, n)
		}
	}
}

func TestMastery_CompletesOnlyWhenAllCorrect(t *testing.T) {
	for _, policy := range []RetryPolicy{RetryDeferred, RetryImmediate} {
		for seed := uint64(1); seed <= 50; seed++ {
			cfg := DefaultConfig()
			cfg.RetryPolicy = policy
			s, rec := startSession(t, testLevel(5, false), WithConfig(cfg), WithSeed(seed))
			rng := rand.New(rand.NewPCG(seed, 7))

			answeredCorrectly := map[string]bool{}
			wrong := 0
			prev := Progress{}
			for steps := 0; s.Phase() == PhaseActive; steps++ {
				if steps > 500 {
					t.Fatalf("%s/%d: session did not terminate", policy, seed)
				}
				item := currentItem(t, s)
				correct := rng.IntN(2) == 0
				answer(t, s, correct)
				if correct {
					answeredCorrectly[item.ID] = true
				} else {
					wrong++
				}
				v := advance(t, s)
				if v.Progress.Done < prev.Done {
					t.Fatalf("%s/%d: progress went backwards %+v -> %+v", policy, seed, prev, v.Progress)
				}
				prev = v.Progress
			}

			if len(answeredCorrectly) != 5 {
				t.Errorf("%s/%d: completed with %d/5 items answered correctly", policy, seed, len(answeredCorrectly))
			}
			v := s.View()
			if v.ReviewRemaining != 0 {
				t.Errorf("%s/%d: retry queue has %d items at completion", policy, seed, v.ReviewRemaining)
			}
			if v.Progress.Done != v.Progress.Total {
				t.Errorf("%s/%d: progress %+v at completion", policy, seed, v.Progress)
			}
			if got := rec.count(EventLifeLost); got != wrong {
				t.Errorf("%s/%d: LifeLost = %d, want %d", policy, seed, got, wrong)
			}
			if got := rec.count(EventItemMastered); got != 5 {
				t.Errorf("%s/%d: ItemMastered = %d, want 5", policy, seed, got)
			}
		}
	}
}

func TestFirstTryBonus_OncePerItemOnFirstSubmission(t *testing.T) {
	s, rec := startSession(t, testLevel(4, false))

	// Miss every item once, then clear the review round.
	for s.Phase() == PhaseActive {
		v := s.View()
		answer(t, s, v.Review)
		advance(t, s)
	}

	submissions := map[string]int{}
	for _, e := range rec.events {
		if e.Kind != EventItemAnswered {
			continue
		}
		submissions[e.ItemID]++
		if e.FirstTry && submissions[e.ItemID] != 1 {
			t.Errorf("bonus on submission %d of %s", submissions[e.ItemID], e.ItemID)
		}
		if e.FirstTry {
			t.Errorf("bonus awarded to %s after a miss", e.ItemID)
		}
	}
	r, _ := s.Result()
	if r.FirstTryCorrect != 0 {
		t.Errorf("FirstTryCorrect = %d, want 0", r.FirstTryCorrect)
	}
	if want := 4 * (20 - DefaultConfig().IncorrectPenalty); r.Score != want {
		t.Errorf("Score = %d, want %d", r.Score, want)
	}
}

func TestMastery_DeferredMovesOnAfterMiss(t *testing.T) {
	s, _ := startSession(t, testLevel(3, false))

	first := currentItem(t, s)
	fb := answer(t, s, false)
	if fb.Next != NextItem {
		t.Fatalf("Next = %s, want next", fb.Next)
	}
	v := advance(t, s)
	if v.Item.ID == first.ID {
		t.Fatal("deferred retry should present a different item")
	}
	if v.ReviewRemaining != 1 {
		t.Errorf("ReviewRemaining = %d, want 1", v.ReviewRemaining)
	}

	answer(t, s, true)
	advance(t, s)
	fb = answer(t, s, true)
	if fb.Next != StartReview {
		t.Fatalf("Next = %s, want review", fb.Next)
	}
	v = advance(t, s)
	if !v.Review || v.Item.ID != first.ID || v.Position != 1 || v.PassLength != 1 {
		t.Errorf("review view = %+v", v)
	}
}

func TestMastery_ReviewMissStaysOnItemWithoutRequeue(t *testing.T) {
	s, rec := startSession(t, testLevel(2, false))

	// Miss both items in the first pass.
	answer(t, s, false)
	advance(t, s)
	answer(t, s, false)
	advance(t, s)

	v := s.View()
	if !v.Review || v.ReviewRemaining != 2 {
		t.Fatalf("expected review round over 2 items, got %+v", v)
	}
	reviewFirst := v.Item.ID

	fb := answer(t, s, false)
	if fb.Next != RetryItem {
		t.Fatalf("Next = %s, want retry", fb.Next)
	}
	v = advance(t, s)
	if v.Item.ID != reviewFirst || v.Selected != -1 || v.Feedback != nil {
		t.Errorf("miss in review should re-present a clean item, got %+v", v)
	}
	if v.ReviewRemaining != 2 {
		t.Errorf("item re-queued: ReviewRemaining = %d", v.ReviewRemaining)
	}

	answer(t, s, true)
	v = advance(t, s)
	if v.ReviewRemaining != 1 || v.Position != 1 || v.Item.ID == reviewFirst {
		t.Errorf("after clearing an item the round should restart at the front, got %+v", v)
	}
	answer(t, s, true)
	v = advance(t, s)
	if v.Phase != PhaseCompleted {
		t.Fatalf("Phase = %s, want completed", v.Phase)
	}
	if rec.count(EventLifeLost) != 3 {
		t.Errorf("LifeLost = %d, want 3", rec.count(EventLifeLost))
	}
}

func TestShuffle_ReproducibleForSeed(t *testing.T) {
	order := func(seed uint64) []string {
		s, _ := startSession(t, testLevel(8, false), WithSeed(seed))
		var ids []string
		for s.Phase() == PhaseActive {
			ids = append(ids, currentItem(t, s).ID)
			answer(t, s, true)
			advance(t, s)
		}
		return ids
	}

	a, b := order(99), order(99)
	if fmt.Sprint(a) != fmt.Sprint(b) {
		t.Errorf("same seed produced different orders: %v vs %v", a, b)
	}
	if len(a) != 8 {
		t.Errorf("presented %d items, want 8", len(a))
	}
}

func TestHints(t *testing.T) {
	level := testLevel(2, true)
	level.Items[1].Hint = ""
	s, rec := startSession(t, level)

	h, err := s.RequestHint()
	if err != nil || h.Status != HintRevealed || h.Text != "think" {
		t.Fatalf("first hint = %+v, %v", h, err)
	}
	h, _ = s.RequestHint()
	if h.Status != HintAlreadyUsed {
		t.Errorf("second hint status = %d, want already used", h.Status)
	}
	if v := s.View(); !v.Hint.Used || v.Hint.Text != "think" {
		t.Errorf("hint state = %+v", v.Hint)
	}

	fb := answer(t, s, true)
	if fb.Points != 20+DefaultConfig().FirstTryBonus {
		t.Errorf("hint changed scoring: %d", fb.Points)
	}
	advance(t, s)

	h, _ = s.RequestHint()
	if h.Status != HintNone {
		t.Errorf("item without hint: status = %d", h.Status)
	}
	if rec.count(EventHintRevealed) != 1 {
		t.Errorf("HintRevealed = %d, want 1", rec.count(EventHintRevealed))
	}
}

func TestHints_PersistAcrossRetryOfSameItem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetryPolicy = RetryImmediate
	s, _ := startSession(t, testLevel(2, false), WithConfig(cfg))

	if _, err := s.RequestHint(); err != nil {
		t.Fatal(err)
	}
	answer(t, s, false)
	advance(t, s)

	h, _ := s.RequestHint()
	if h.Status != HintAlreadyUsed {
		t.Errorf("hint reset on retry of the same item: status = %d", h.Status)
	}

	answer(t, s, true)
	advance(t, s)
	h, _ = s.RequestHint()
	if h.Status != HintRevealed {
		t.Errorf("hint not reset for a new item: status = %d", h.Status)
	}
}

func TestHints_StaySpentWhenReviewOpensOnSameItem(t *testing.T) {
	s, _ := startSession(t, testLevel(1, false))

	if h, _ := s.RequestHint(); h.Status != HintRevealed {
		t.Fatalf("first hint status = %d", h.Status)
	}
	answer(t, s, false)
	v := advance(t, s)
	if !v.Review {
		t.Fatal("expected the review round")
	}
	if !v.Hint.Used || v.Hint.Text != "think" {
		t.Errorf("hint state on review of the same item = %+v", v.Hint)
	}
	if h, _ := s.RequestHint(); h.Status != HintAlreadyUsed {
		t.Errorf("hint revealed twice for one encounter: status = %d", h.Status)
	}
}

func TestHints_ResetWhenReviewOpensOnAnotherItem(t *testing.T) {
	s, _ := startSession(t, testLevel(2, false))

	answer(t, s, false)
	advance(t, s)
	if h, _ := s.RequestHint(); h.Status != HintRevealed {
		t.Fatalf("hint on second item = %d", h.Status)
	}
	answer(t, s, true)
	if v := advance(t, s); !v.Review || v.Hint.Used {
		t.Fatalf("review view = %+v", v)
	}
	if h, _ := s.RequestHint(); h.Status != HintRevealed {
		t.Errorf("hint not available for the reviewed item: status = %d", h.Status)
	}
}

func TestInvalidState(t *testing.T) {
	s, err := New(testLevel(1, false), WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.SubmitAnswer(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SubmitAnswer before Start: err = %v", err)
	}
	if _, err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Start(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Start: err = %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Advance before feedback: err = %v", err)
	}
	if _, err := s.SubmitAnswer(7); !errors.Is(err, ErrInvalidState) {
		t.Errorf("out of range option: err = %v", err)
	}
	if _, err := s.SubmitAnswer(1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitAnswer(1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SubmitAnswer with pending feedback: err = %v", err)
	}
	if _, err := s.Advance(); err != nil {
		t.Fatal(err)
	}

	var ise *InvalidStateError
	if _, err := s.SubmitAnswer(1); !errors.As(err, &ise) || ise.Phase != PhaseCompleted {
		t.Errorf("SubmitAnswer after completion: err = %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Advance after completion: err = %v", err)
	}
	if _, err := s.RequestHint(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RequestHint after completion: err = %v", err)
	}
}

func TestNew_RejectsMalformedContent(t *testing.T) {
	level := testLevel(2, false)
	level.Items[1].Options[2].Correct = true

	_, err := New(level)
	if !errors.Is(err, content.ErrInvalidContent) {
		t.Fatalf("err = %v, want content error", err)
	}
}

func TestView_NarrativeOnlyOnFirstItem(t *testing.T) {
	s, _ := startSession(t, testLevel(2, true))

	if v := s.View(); v.Narrative != "Once upon a time" {
		t.Errorf("Narrative = %q", v.Narrative)
	}
	answer(t, s, true)
	if v := advance(t, s); v.Narrative != "" {
		t.Errorf("Narrative shown on second item: %q", v.Narrative)
	}
}

func TestView_ItemIsDetached(t *testing.T) {
	level := testLevel(2, true)
	s, _ := startSession(t, level)

	// Changes to the caller's level after New do not reach the session.
	level.Items[0].Options[0].Correct = true

	v := s.View()
	for i := range v.Item.Options {
		v.Item.Options[i].Correct = i == 0
		v.Item.Options[i].Points = 999
	}
	lv := s.Level()
	lv.Items[0].Options[0].Correct = true
	lv.Items[1].Options[0].Correct = true

	fb, err := s.SubmitAnswer(0)
	if err != nil {
		t.Fatal(err)
	}
	if fb.Correct || fb.Points != -DefaultConfig().IncorrectPenalty {
		t.Fatalf("authored wrong option scored from a mutated view: %+v", fb)
	}
	if got := s.View().Item.Options; got[0].Correct || !got[1].Correct || got[1].Points != 20 {
		t.Errorf("session options changed: %+v", got)
	}

	advance(t, s)
	fb, _ = s.SubmitAnswer(0)
	if fb.Correct {
		t.Error("mutating Level() changed the second item")
	}
}

func TestFeedbackMessage_Precedence(t *testing.T) {
	level := testLevel(1, true)
	level.Items[0].Options[0].Feedback = "option says no"
	level.Items[0].Feedback = content.Feedback{}

	s, _ := startSession(t, level)
	fb, err := s.SubmitAnswer(0)
	if err != nil {
		t.Fatal(err)
	}
	if fb.Message != "option says no" {
		t.Errorf("Message = %q", fb.Message)
	}
	if fb.Points != 0-DefaultConfig().IncorrectPenalty {
		t.Errorf("Points = %d", fb.Points)
	}

	s, _ = startSession(t, level)
	fb, _ = s.SubmitAnswer(2)
	if fb.Message != defaultIncorrectMessage {
		t.Errorf("Message = %q, want default", fb.Message)
	}
	if fb.Points != 5-DefaultConfig().IncorrectPenalty {
		t.Errorf("partial option Points = %d", fb.Points)
	}
}

func TestResult_Elapsed(t *testing.T) {
	s, _ := startSession(t, testLevel(1, true))
	answer(t, s, true)
	advance(t, s)

	r, _ := s.Result()
	if r.Elapsed <= 0 || !r.CompletedAt.After(r.StartedAt) {
		t.Errorf("elapsed = %v", r.Elapsed)
	}
}

func TestParseRetryPolicy(t *testing.T) {
	if p, err := ParseRetryPolicy("immediate"); err != nil || p != RetryImmediate {
		t.Errorf("immediate: %v %v", p, err)
	}
	if p, err := ParseRetryPolicy(""); err != nil || p != RetryDeferred {
		t.Errorf("empty: %v %v", p, err)
	}
	if _, err := ParseRetryPolicy("never"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
