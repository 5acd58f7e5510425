package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/ui/theme"
)

const bannerArt = ` ▄▀█ █▀▀ ▄▀█ █▀▄ █▀▀ █▀▄▀█ █▄█
 █▀█ █▄▄ █▀█ █▄▀ ██▄ █ ▀ █  █ `

const bannerCompact = "A · C · A · D · E · M · Y"

// bannerMinWidth is the narrowest terminal that fits the block letters.
const bannerMinWidth = 40

// RenderBanner returns the ACADEMY banner in the accent color. Narrow
// terminals or compact layouts get the spaced-out single line.
func RenderBanner(width int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	if compact || width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
