// Package level is the screen that plays one level through the assessment
// engine. It only renders session views and forwards input; scoring and
// sequencing stay in the session package.
package level

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/logging"
	"github.com/nu9ve/academy/internal/profile"
	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/screen"
	"github.com/nu9ve/academy/internal/screens/summary"
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/store"
	"github.com/nu9ve/academy/internal/ui/components"
	"github.com/nu9ve/academy/internal/ui/layout"
)

// Deps are the collaborators of the level screen.
type Deps struct {
	Profiles *profile.Service
	Events   store.EventRepo // may be nil
	Config   session.Config // scoring constants, usually session.DefaultConfig()

	// SessionOptions are passed to session.New after the defaults, for
	// fixed seeds and clocks in tests.
	SessionOptions []session.Option
}

// LevelScreen implements screen.Screen for a running level.
type LevelScreen struct {
	ctx   context.Context
	deps  Deps
	level content.Level
	sess  *session.Session

	view    *session.View
	options components.OptionList
	notice  string
	errMsg  string

	confirmQuit bool
	lives       int
	result      *session.Result
}

var _ screen.Screen = (*LevelScreen)(nil)
var _ screen.KeyHintProvider = (*LevelScreen)(nil)

// New creates a level screen. Content errors surface on the screen itself.
func New(ctx context.Context, level content.Level, deps Deps) *LevelScreen {
	s := &LevelScreen{ctx: ctx, deps: deps, level: level}
	if deps.Profiles != nil {
		s.lives = deps.Profiles.Profile().Lives
	}

	opts := append([]session.Option{
		session.WithConfig(deps.Config),
		session.WithEventHandler(s.handleEvent),
	}, deps.SessionOptions...)

	sess, err := session.New(level, opts...)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.sess = sess
	return s
}

func (s *LevelScreen) Init() tea.Cmd {
	if s.sess == nil {
		return nil
	}
	v, err := s.sess.Start()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.present(v)

	s.appendSession(store.SessionStarted)
	s.log().Info().
		Str("session", s.sess.ID()).
		Str("level", s.level.ID).
		Str("mode", s.sess.Mode().String()).
		Msg("level started")
	return nil
}

func (s *LevelScreen) Title() string {
	return s.level.Title
}

// Session exposes the underlying engine session.
func (s *LevelScreen) Session() *session.Session {
	return s.sess
}

func (s *LevelScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "cualquier tecla", Description: "Volver"}}
	case s.confirmQuit:
		return components.Hints(components.KeyYes, components.KeyNo)
	case s.view != nil && s.view.Feedback != nil:
		return []layout.KeyHint{{Key: "cualquier tecla", Description: "Continuar"}}
	}
	hint := components.KeyHint
	hint.SetEnabled(s.view != nil && s.view.Hint.Available && !s.view.Hint.Used)
	return components.Hints(components.KeyOption, components.KeyEnter, hint, components.KeyBack)
}

func (s *LevelScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	if s.errMsg != "" {
		return s, pop
	}
	if s.confirmQuit {
		return s.handleQuitConfirm(kmsg)
	}
	if s.view == nil {
		return s, nil
	}
	if s.view.Feedback != nil {
		return s.advance()
	}

	switch {
	case key.Matches(kmsg, components.KeyBack):
		s.confirmQuit = true
	case key.Matches(kmsg, components.KeyOption):
		idx := int(kmsg.String()[0] - '1')
		if idx < len(s.view.Item.Options) {
			return s.submit(idx)
		}
	case key.Matches(kmsg, components.KeyUp):
		s.options.Up()
	case key.Matches(kmsg, components.KeyDown):
		s.options.Down()
	case key.Matches(kmsg, components.KeyEnter):
		return s.submit(s.options.Cursor)
	case key.Matches(kmsg, components.KeyHint):
		s.requestHint()
	}
	return s, nil
}

func (s *LevelScreen) handleQuitConfirm(kmsg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(kmsg, components.KeyYes):
		s.confirmQuit = false
		s.appendSession(store.SessionAbandoned)
		return s, pop
	case key.Matches(kmsg, components.KeyNo):
		s.confirmQuit = false
	}
	return s, nil
}

func (s *LevelScreen) submit(idx int) (screen.Screen, tea.Cmd) {
	fb, err := s.sess.SubmitAnswer(idx)
	if err != nil {
		s.fail(err)
		return s, nil
	}
	s.options.Reveal(fb.Option, s.view.Item.CorrectIndex())
	s.view = s.sess.View()
	return s, nil
}

func (s *LevelScreen) advance() (screen.Screen, tea.Cmd) {
	v, err := s.sess.Advance()
	if err != nil {
		s.fail(err)
		return s, nil
	}
	if v.Phase == session.PhaseCompleted {
		return s, s.finish()
	}
	s.present(v)
	return s, nil
}

func (s *LevelScreen) requestHint() {
	res, err := s.sess.RequestHint()
	if err != nil {
		s.fail(err)
		return
	}
	if res.Status == session.HintNone {
		s.notice = "Este ítem no tiene pista."
	}
	s.view = s.sess.View()
}

// present shows a new view, resetting per-item state when the item changed.
func (s *LevelScreen) present(v *session.View) {
	changed := s.view == nil || s.view.Item == nil || v.Item == nil || s.view.Item.ID != v.Item.ID
	s.view = v
	s.notice = ""
	if v.Item == nil {
		return
	}

	texts := make([]string, len(v.Item.Options))
	for i, o := range v.Item.Options {
		texts[i] = o.Text
	}
	cursor := s.options.Cursor
	s.options = components.NewOptionList(texts)
	if !changed {
		s.options.Cursor = min(cursor, len(texts)-1)
	}
}

// finish applies the result to the profile and swaps in the summary.
func (s *LevelScreen) finish() tea.Cmd {
	result := s.result
	if result == nil {
		var ok bool
		if result, ok = s.sess.Result(); !ok {
			s.fail(errors.New("session completed without a result"))
			return nil
		}
	}

	var reward *profile.Reward
	if s.deps.Profiles != nil {
		var err error
		reward, err = s.deps.Profiles.ApplyResult(s.ctx, s.level, result)
		if err != nil {
			s.log().Error().Err(err).Str("session", result.SessionID).Msg("apply result")
		}
	}

	s.log().Info().
		Str("session", result.SessionID).
		Str("level", s.level.ID).
		Int("score", result.Score).
		Int("mistakes", result.Mistakes).
		Str("medal", string(result.Medal)).
		Msg("level completed")

	next := summary.New(s.level, result, reward)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *LevelScreen) fail(err error) {
	s.log().Error().Err(err).Str("level", s.level.ID).Msg("level screen")
	s.errMsg = err.Error()
}

func (s *LevelScreen) log() *zerolog.Logger {
	l := logging.FromContext(s.ctx)
	return &l
}

func pop() tea.Msg { return router.PopScreenMsg{} }
