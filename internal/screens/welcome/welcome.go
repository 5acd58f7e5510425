package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/screen"
	"github.com/nu9ve/academy/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	sparkleAt    = 400 * time.Millisecond
	bannerAt     = 1200 * time.Millisecond
	totalDur     = 2400 * time.Millisecond
)

const owlArt = `    ╭─────╮
    │ ◉ ◉ │
    │  ▼  │
  ╭─┴─────┴─╮
  │ ▤▤▤ ▤▤▤ │
  ╰─────────╯`

var sparkleFrames = []string{"★", "✦", "✧"}

type tickMsg time.Time

// WelcomeScreen is the launch splash. It animates the owl and banner, then
// replaces itself with the screen built by next.
type WelcomeScreen struct {
	next         func() screen.Screen
	greeting     string
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. greeting is shown under the banner; empty
// means the default tagline.
func New(next func() screen.Screen, greeting string) *WelcomeScreen {
	if greeting == "" {
		greeting = "Aprende a comunicarte, un nivel a la vez."
	}
	return &WelcomeScreen{next: next, greeting: greeting}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.tickCount++
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		return w, tick()

	case tea.KeyPressMsg:
		// The first key finishes the animation, the next one moves on.
		if w.elapsed < totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		return w, w.transition()
	}
	return w, nil
}

// Done reports whether the animation has fully played.
func (w *WelcomeScreen) Done() bool {
	return w.elapsed >= totalDur
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	owl := lipgloss.NewStyle().Foreground(theme.Primary).Render(owlArt)

	if w.elapsed >= sparkleAt {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		a := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		b := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(owl, "\n")
		for i := 0; i < len(lines); i += 2 {
			if i%4 == 0 {
				lines[i] = a + "  " + lines[i] + "  " + b
			} else {
				lines[i] = b + "  " + lines[i] + "  " + a
			}
		}
		owl = strings.Join(lines, "\n")
	}

	sections := []string{owl}
	if w.elapsed >= bannerAt {
		sections = append(sections,
			"",
			RenderBanner(width, false),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(w.greeting),
		)
	}
	if w.Done() {
		sections = append(sections,
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("pulsa cualquier tecla"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
