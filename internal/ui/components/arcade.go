package components

import (
	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all sections so
// boxes visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 72)
}

// Frame wraps content in a double border, centered within the given size.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Render(content)
}

// MedalBadge renders a medal in its color; an empty medal renders as a dash.
func MedalBadge(medal session.Medal) string {
	if medal == "" {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("-")
	}
	return lipgloss.NewStyle().Foreground(theme.MedalColor(string(medal))).Bold(true).Render("★ " + medal.DisplayName())
}
