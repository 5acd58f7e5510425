package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/ui/theme"
)

const (
	MinWidth  = 72
	MinHeight = 22

	CompactHeightThreshold = 30
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Stats is the learner state shown on the right of the header.
type Stats struct {
	Lives       int
	MaxLives    int
	Coins       int
	XP          int
	PlayerLevel int
}

// IsCompactHeight reports whether the terminal is short.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// Lives renders the life pool as hearts.
func Lives(lives, max int) string {
	if max <= 0 {
		max = lives
	}
	full := lipgloss.NewStyle().Foreground(theme.Heart).Render(strings.Repeat("♥", min(lives, max)))
	empty := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("♡", max-min(lives, max)))
	return full + empty
}

// RenderHeader renders the app name, screen title and learner stats.
func RenderHeader(title string, st Stats, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  Academy")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := Lives(st.Lives, st.MaxLives) + "  " +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("● %d", st.Coins)) + "  " +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("Nv %d · %d XP", st.PlayerLevel, st.XP))

	innerWidth := max(width-4, 0)
	leftLen, centerLen, rightLen := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, sizing content to fill
// the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	styled := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + styled + "\n" + footer
}

// Center renders s centered across width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Divider renders a horizontal rule up to 60 cells wide.
func Divider(width int) string {
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))
}
