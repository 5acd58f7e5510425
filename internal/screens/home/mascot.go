package home

import (
	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/ui/theme"
)

// Mood selects which mascot art to display.
type Mood int

const (
	MoodIdle   Mood = iota // Lives left, nothing special
	MoodProud              // Every unlocked level cleared
	MoodTired              // Out of lives, waiting for regeneration
)

const owlIdle = `  ╭─────╮
  │ ◉ ◉ │
  │  ▼  │
  ╰┬───┬╯
   ╹   ╹`

const owlProud = `  ╭─────╮
  │ ★ ★ │
  │  ▼  │
 ╭╰┬───┬╯╮
   ╹   ╹`

const owlTired = `  ╭─────╮
  │ ─ ─ │ z
  │  ▽  │
  ╰┬───┬╯
   ╹   ╹`

// MoodFor picks the mascot mood from the learner state.
func MoodFor(lives, unlocked, completed int) Mood {
	switch {
	case lives <= 0:
		return MoodTired
	case unlocked > 0 && completed >= unlocked:
		return MoodProud
	default:
		return MoodIdle
	}
}

// RenderMascot returns the mascot art for a mood.
func RenderMascot(m Mood) string {
	art, fg := owlIdle, theme.Primary
	switch m {
	case MoodProud:
		art, fg = owlProud, theme.Gold
	case MoodTired:
		art, fg = owlTired, theme.TextDim
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
