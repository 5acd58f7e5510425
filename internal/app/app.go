package app

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/screen"
	"github.com/nu9ve/academy/internal/screens/home"
	"github.com/nu9ve/academy/internal/screens/level"
	"github.com/nu9ve/academy/internal/screens/welcome"
	"github.com/nu9ve/academy/internal/ui/components"
	"github.com/nu9ve/academy/internal/ui/layout"
)

// Options configure the TUI.
type Options struct {
	Home home.Deps

	// StartLevel, when set, opens this level on top of the home screen.
	StartLevel *content.Level

	// Splash shows the welcome animation before home. Ignored with
	// StartLevel.
	Splash   bool
	Greeting string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx    context.Context
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the splash or home screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	var root screen.Screen
	if opts.Splash && opts.StartLevel == nil {
		root = welcome.New(func() screen.Screen { return home.New(ctx, opts.Home) }, opts.Greeting)
	} else {
		root = home.New(ctx, opts.Home)
	}
	return AppModel{
		ctx:    ctx,
		router: router.New(root),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.opts.StartLevel != nil {
		next := level.New(m.ctx, *m.opts.StartLevel, m.opts.Home.Level)
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: next} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if key.Matches(msg, components.KeyQuit) {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footerHints = append(footerHints, components.Hints(components.KeyQuit)...)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) stats() layout.Stats {
	profiles := m.opts.Home.Level.Profiles
	if profiles == nil {
		return layout.Stats{}
	}
	p, cfg := profiles.Profile(), profiles.Config()
	return layout.Stats{
		Lives:       p.Lives,
		MaxLives:    cfg.MaxLives,
		Coins:       p.Coins,
		XP:          p.XP,
		PlayerLevel: p.PlayerLevel(cfg),
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
