package level

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/profile"
	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/screens/summary"
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/store"
)

// recordingEvents captures appended events. Query methods are not used by
// the level screen and stay unimplemented.
type recordingEvents struct {
	store.EventRepo
	answers  []store.AnswerEventData
	hints    []store.HintEventData
	lives    []store.LifeEventData
	sessions []store.SessionEventData
}

func (r *recordingEvents) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	r.answers = append(r.answers, d)
	return nil
}

func (r *recordingEvents) AppendHintEvent(_ context.Context, d store.HintEventData) error {
	r.hints = append(r.hints, d)
	return nil
}

func (r *recordingEvents) AppendLifeEvent(_ context.Context, d store.LifeEventData) error {
	r.lives = append(r.lives, d)
	return nil
}

func (r *recordingEvents) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	r.sessions = append(r.sessions, d)
	return nil
}

func testLevel(continuity bool) content.Level {
	opts := func() []content.Option {
		return []content.Option{
			{Text: "Interrumpir", Points: 0},
			{Text: "Escuchar y parafrasear", Correct: true, Points: 100, Principle: "Escucha activa"},
			{Text: "Cambiar de tema", Points: 0},
		}
	}
	return content.Level{
		ID:            "escucha",
		Title:         "Escucha activa",
		Type:          content.TypeRoleplay,
		HasContinuity: continuity,
		XPReward:      50,
		CoinReward:    20,
		Story:         "Tu amiga llega preocupada.",
		Items: []content.Item{
			{ID: "a", Prompt: "Te cuenta un problema.", Options: opts(), Hint: "Repite lo que oíste."},
			{ID: "b", Prompt: "Se queda en silencio.", Options: opts()},
		},
	}
}

type fixture struct {
	screen   *LevelScreen
	events   *recordingEvents
	profiles *profile.Service
}

func newFixture(t *testing.T, level content.Level) *fixture {
	t.Helper()
	ctx := context.Background()

	cat, err := content.NewCatalog(&content.Course{ID: "c", Title: "Comunicación", Levels: []content.Level{level}})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	events := &recordingEvents{}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	profiles := profile.NewService(profile.DefaultConfig(), cat, nil, events,
		profile.WithClock(func() time.Time { return now }))
	if err := profiles.Load(ctx); err != nil {
		t.Fatalf("load profile: %v", err)
	}

	s := New(ctx, level, Deps{
		Profiles:       profiles,
		Events:         events,
		Config:         session.DefaultConfig(),
		SessionOptions: []session.Option{session.WithSeed(7)},
	})
	s.Init()
	return &fixture{screen: s, events: events, profiles: profiles}
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func (f *fixture) press(t *testing.T, k string) tea.Cmd {
	t.Helper()
	updated, cmd := f.screen.Update(keyMsg(k))
	if updated != f.screen {
		t.Fatalf("Update returned a different screen")
	}
	return cmd
}

// answer submits the correct (or a wrong) option for the presented item.
func (f *fixture) answer(t *testing.T, correct bool) {
	t.Helper()
	item := f.screen.view.Item
	if item == nil {
		t.Fatal("no item presented")
	}
	idx := item.CorrectIndex()
	if !correct {
		idx = (idx + 1) % len(item.Options)
	}
	f.press(t, string(rune('1'+idx)))
	if f.screen.view.Feedback == nil {
		t.Fatalf("expected feedback after answering %d", idx+1)
	}
}

func TestLevelScreen_StartRecordsSession(t *testing.T) {
	f := newFixture(t, testLevel(true))

	if f.screen.errMsg != "" {
		t.Fatalf("unexpected error: %s", f.screen.errMsg)
	}
	if len(f.events.sessions) != 1 || f.events.sessions[0].Action != store.SessionStarted {
		t.Fatalf("sessions = %+v, want one start event", f.events.sessions)
	}
	if f.screen.Title() != "Escucha activa" {
		t.Errorf("Title = %q", f.screen.Title())
	}

	view := f.screen.View(100, 40)
	for _, want := range []string{"Tu amiga llega preocupada.", "Situación 1 de 2", "¿Qué respondes?", "Escuchar y parafrasear"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLevelScreen_CompletesAndShowsSummary(t *testing.T) {
	f := newFixture(t, testLevel(true))

	f.answer(t, true)
	if !strings.Contains(f.screen.View(100, 40), "Principio: Escucha activa") {
		t.Error("feedback should show the option's principle")
	}
	if cmd := f.press(t, "x"); cmd != nil {
		t.Fatal("acknowledging a mid-level answer should not navigate")
	}

	f.answer(t, true)
	cmd := f.press(t, "enter")
	if cmd == nil {
		t.Fatal("expected a navigation command on completion")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	if len(f.events.answers) != 2 {
		t.Errorf("answer events = %d, want 2", len(f.events.answers))
	}
	last := f.events.sessions[len(f.events.sessions)-1]
	if last.Action != store.SessionCompleted || last.Medal != string(session.MedalPlatinum) {
		t.Errorf("last session event = %+v, want platinum completion", last)
	}
	if xp := f.profiles.Profile().XP; xp != 50 {
		t.Errorf("XP = %d, want 50", xp)
	}
}

func TestLevelScreen_WrongAnswerLosesLife(t *testing.T) {
	f := newFixture(t, testLevel(true))
	before := f.profiles.Profile().Lives

	f.answer(t, false)

	if got := f.profiles.Profile().Lives; got != before-1 {
		t.Errorf("lives = %d, want %d", got, before-1)
	}
	if f.screen.lives != before-1 {
		t.Errorf("screen lives = %d, want %d", f.screen.lives, before-1)
	}
	if len(f.events.lives) != 1 || f.events.lives[0].Reason != store.LifeLost {
		t.Errorf("life events = %+v", f.events.lives)
	}
	if f.events.answers[0].Correct {
		t.Error("answer event should be incorrect")
	}
}

func TestLevelScreen_HintOncePerItem(t *testing.T) {
	f := newFixture(t, testLevel(true))

	f.press(t, "h")
	f.press(t, "h")

	if len(f.events.hints) != 1 {
		t.Fatalf("hint events = %d, want 1", len(f.events.hints))
	}
	if f.events.hints[0].HintText != "Repite lo que oíste." {
		t.Errorf("hint text = %q", f.events.hints[0].HintText)
	}
	if !strings.Contains(f.screen.View(100, 40), "Pista: Repite lo que oíste.") {
		t.Error("view should show the revealed hint")
	}
	if f.screen.view.Feedback != nil {
		t.Error("a hint must not submit an answer")
	}
}

func TestLevelScreen_HintMissing(t *testing.T) {
	f := newFixture(t, testLevel(true))
	f.answer(t, true)
	f.press(t, "x")

	f.press(t, "h")
	if len(f.events.hints) != 0 {
		t.Errorf("hint events = %d, want 0", len(f.events.hints))
	}
	if f.screen.notice == "" {
		t.Error("expected a notice for an item without hint")
	}
}

func TestLevelScreen_ArrowsAndEnter(t *testing.T) {
	f := newFixture(t, testLevel(true))

	f.press(t, "down")
	f.press(t, "down")
	f.press(t, "up")
	f.press(t, "enter")

	fb := f.screen.view.Feedback
	if fb == nil || fb.Option != 1 || !fb.Correct {
		t.Errorf("feedback = %+v, want correct answer on option 2", fb)
	}
}

func TestLevelScreen_OutOfRangeDigitIgnored(t *testing.T) {
	f := newFixture(t, testLevel(true))

	f.press(t, "9")

	if f.screen.view.Feedback != nil {
		t.Error("digit beyond the option count should be ignored")
	}
	if len(f.events.answers) != 0 {
		t.Errorf("answer events = %d, want 0", len(f.events.answers))
	}
}

func TestLevelScreen_QuitConfirm(t *testing.T) {
	f := newFixture(t, testLevel(true))

	f.press(t, "esc")
	if !f.screen.confirmQuit {
		t.Fatal("esc should ask for confirmation")
	}
	if cmd := f.press(t, "n"); cmd != nil || f.screen.confirmQuit {
		t.Fatal("n should cancel the quit")
	}

	f.press(t, "esc")
	cmd := f.press(t, "y")
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	last := f.events.sessions[len(f.events.sessions)-1]
	if last.Action != store.SessionAbandoned {
		t.Errorf("last session action = %q, want %q", last.Action, store.SessionAbandoned)
	}
}

func TestLevelScreen_MasteryReviewRound(t *testing.T) {
	f := newFixture(t, testLevel(false))

	f.answer(t, false)
	f.press(t, "x")
	f.answer(t, true)
	f.press(t, "x")

	v := f.screen.view
	if !v.Review || v.Item == nil {
		t.Fatalf("expected the review round, got %+v", v)
	}
	if !strings.Contains(f.screen.View(100, 40), "Repaso 1 de 1") {
		t.Error("view should label the review round")
	}

	f.answer(t, true)
	cmd := f.press(t, "x")
	if cmd == nil {
		t.Fatal("expected completion after the review round")
	}
	last := f.events.sessions[len(f.events.sessions)-1]
	if last.Mistakes != 1 || last.Medal != string(session.MedalGold) {
		t.Errorf("completion = %+v, want 1 mistake and gold", last)
	}
}

func TestLevelScreen_InvalidContent(t *testing.T) {
	bad := testLevel(true)
	bad.Items = nil
	f := newFixture(t, bad)

	if f.screen.errMsg == "" {
		t.Fatal("expected a content error")
	}
	cmd := f.press(t, "x")
	if cmd == nil {
		t.Fatal("any key should leave the error screen")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestLabelsFor(t *testing.T) {
	if got := labelsFor(content.TypeRoleplay).item; got != "Situación" {
		t.Errorf("roleplay label = %q", got)
	}
	if got := labelsFor(content.TypeQuiz).item; got != "Pregunta" {
		t.Errorf("quiz label = %q", got)
	}
}
