package history

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/screen"
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/store"
	"github.com/nu9ve/academy/internal/ui/components"
	"github.com/nu9ve/academy/internal/ui/layout"
	"github.com/nu9ve/academy/internal/ui/theme"
)

// pageSize bounds how many sessions are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	sessions []store.SessionSummaryRecord
	hints    map[string]int // session id → hints revealed
	err      error
}

// HistoryScreen lists completed sessions, newest first.
type HistoryScreen struct {
	ctx     context.Context
	events  store.EventRepo
	catalog *content.Catalog

	sessions []store.SessionSummaryRecord
	hints    map[string]int
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. The catalog resolves level titles.
func New(ctx context.Context, events store.EventRepo, catalog *content.Catalog) *HistoryScreen {
	return &HistoryScreen{
		ctx:      ctx,
		events:   events,
		catalog:  catalog,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	ctx, events := s.ctx, s.events
	return func() tea.Msg {
		sessions, err := events.QuerySessionSummaries(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		hints := make(map[string]int, len(sessions))
		for _, sess := range sessions {
			// A failed count only hides the detail line.
			if n, err := events.HintCount(ctx, sess.SessionID); err == nil {
				hints[sess.SessionID] = n
			}
		}
		return historyLoadedMsg{sessions: sessions, hints: hints}
	}
}

func (s *HistoryScreen) Title() string {
	return "Historial"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	details := key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Detalles"))
	return components.Hints(components.KeyUp, components.KeyDown, details, components.KeyBack)
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		} else {
			s.sessions = msg.sessions
			s.hints = msg.hints
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, components.KeyBack):
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(msg, components.KeyUp):
			if s.selected > 0 {
				s.selected--
			}
		case key.Matches(msg, components.KeyDown):
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case key.Matches(msg, components.KeyEnter):
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

// Sessions returns the loaded session summaries.
func (s *HistoryScreen) Sessions() []store.SessionSummaryRecord {
	return s.sessions
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\nCargando historial...")
	case len(s.sessions) == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\nTodavía no hay sesiones. ¡Juega tu primer nivel!")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	for i, sess := range s.sessions {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %-26s %5d pts  %s",
			prefix,
			sess.Timestamp.Local().Format("02/01 15:04"),
			truncate(s.levelTitle(sess.LevelID), 26),
			sess.Score,
			components.MedalBadge(session.Medal(sess.Medal)),
		)
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(theme.Hint.Render(s.detail(sess)))
			b.WriteString("\n")
		}
	}

	return components.Frame(components.Card(b.String(), cw), width, height)
}

func (s *HistoryScreen) detail(sess store.SessionSummaryRecord) string {
	parts := []string{
		fmt.Sprintf("errores %d", sess.Mistakes),
		fmt.Sprintf("al primer intento %d", sess.FirstTryCorrect),
		fmt.Sprintf("%d:%02d", sess.DurationSecs/60, sess.DurationSecs%60),
		fmt.Sprintf("+%d XP", sess.XPEarned),
		fmt.Sprintf("+%d monedas", sess.CoinsEarned),
	}
	if n, ok := s.hints[sess.SessionID]; ok {
		parts = append(parts, fmt.Sprintf("pistas %d", n))
	}
	return "    " + strings.Join(parts, " · ")
}

func (s *HistoryScreen) levelTitle(id string) string {
	if s.catalog != nil {
		if l, ok := s.catalog.Level(id); ok {
			return l.Title
		}
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
