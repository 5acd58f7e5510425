package home

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/screens/welcome"
	"github.com/nu9ve/academy/internal/ui/components"
	"github.com/nu9ve/academy/internal/ui/layout"
	"github.com/nu9ve/academy/internal/ui/theme"
)

func renderTitle(cw int, compact bool) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(welcome.RenderBanner(cw, compact))
}

type stats struct {
	lives, maxLives int
	nextLife        time.Duration
	coins           int
	xpInLevel       int
	xpPerLevel      int
	playerLevel     int
	completed       int
	total           int
}

// renderStats renders lives, coins and player level in a double-bordered box.
func renderStats(st stats, cw int) string {
	lives := layout.Lives(st.lives, st.maxLives)
	if st.lives < st.maxLives && st.nextLife > 0 {
		lives += lipgloss.NewStyle().Foreground(theme.TextDim).Render(" +1 en " + formatCountdown(st.nextLife))
	}
	coins := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("● %d", st.coins))
	done := lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d/%d", st.completed, st.total))

	top := lives + "   " + coins + "   " + done
	bar := components.NewProgressBar(fmt.Sprintf("Nivel %d", st.playerLevel), st.xpInLevel, st.xpPerLevel, cw-6)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(top + "\n" + bar.View())
}

func renderLevels(menu components.Menu, heading string, cw int) string {
	var b strings.Builder
	if heading != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(heading))
		b.WriteString("\n\n")
	}
	b.WriteString(menu.View())
	return components.Card(b.String(), cw)
}

func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

func formatCountdown(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
