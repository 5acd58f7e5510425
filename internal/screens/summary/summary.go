package summary

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/profile"
	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/screen"
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/ui/components"
	"github.com/nu9ve/academy/internal/ui/layout"
	"github.com/nu9ve/academy/internal/ui/theme"
)

// SummaryScreen displays the result of a completed level.
type SummaryScreen struct {
	level  content.Level
	result *session.Result
	reward *profile.Reward // nil when the result was not applied
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(level content.Level, result *session.Result, reward *profile.Reward) *SummaryScreen {
	return &SummaryScreen{level: level, result: result, reward: reward}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Resumen"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continuar"},
		{Key: "Esc", Description: "Inicio"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if key.Matches(kmsg, components.KeyEnter, components.KeyBack) {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	if r == nil {
		return ""
	}

	center := func(str string) string { return layout.Center(str, width) }
	var b strings.Builder

	b.WriteString(center(theme.Title.Render("¡Nivel completado!")))
	b.WriteString("\n")
	b.WriteString(center(theme.Subtitle.Render(s.level.Title)))
	b.WriteString("\n\n")

	medal := lipgloss.NewStyle().
		Foreground(theme.MedalColor(string(r.Medal))).
		Bold(true).
		Render("★ " + r.Medal.DisplayName() + " ★")
	b.WriteString(center(medal))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Puntos: %d    Errores: %d    Al primer intento: %d/%d    Tiempo: %s",
		r.Score, r.Mistakes, r.FirstTryCorrect, r.Items, formatDuration(r))
	b.WriteString(center(theme.Body.Render(stats)))
	b.WriteString("\n\n")

	if s.reward != nil {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Recompensas")))
		b.WriteString("\n")
		b.WriteString(center(layout.Divider(width)))
		b.WriteString("\n\n")
		for _, line := range rewardLines(s.reward) {
			b.WriteString(center(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func rewardLines(rw *profile.Reward) []string {
	accent := lipgloss.NewStyle().Foreground(theme.Accent)
	good := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)

	coins := fmt.Sprintf("+%d monedas", rw.Coins)
	if rw.MedalBonus > 0 {
		coins += fmt.Sprintf(" (incluye %d por medalla)", rw.MedalBonus)
	}
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("+%d XP", rw.XP)),
		accent.Render(coins),
	}
	if rw.NewBest && !rw.FirstClear {
		lines = append(lines, good.Render("¡Nuevo récord!"))
	}
	if rw.Unlocked != "" {
		lines = append(lines, good.Render("Nivel desbloqueado: "+rw.Unlocked))
	}
	if rw.LeveledUp {
		lines = append(lines, good.Render(fmt.Sprintf("¡Subiste al nivel %d!", rw.PlayerLevel)))
	}
	return lines
}

func formatDuration(r *session.Result) string {
	secs := int(r.Elapsed.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
