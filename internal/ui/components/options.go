package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/ui/theme"
)

// OptionList renders the answer options of an item. Before an answer is
// submitted the cursor row is highlighted; afterwards the correct option is
// shown in green and a wrong pick in red.
type OptionList struct {
	Options  []string
	Cursor   int
	Chosen   int // -1 until submitted
	Correct  int // -1 when unknown
	Revealed bool
}

// NewOptionList creates an option list with nothing chosen.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options, Chosen: -1, Correct: -1}
}

// Up moves the cursor up.
func (o *OptionList) Up() {
	if o.Cursor > 0 {
		o.Cursor--
	}
}

// Down moves the cursor down.
func (o *OptionList) Down() {
	if o.Cursor < len(o.Options)-1 {
		o.Cursor++
	}
}

// Reveal marks the chosen and correct options.
func (o *OptionList) Reveal(chosen, correct int) {
	o.Chosen, o.Correct, o.Revealed = chosen, correct, true
}

// View renders the options, numbered from 1.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, text := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, text)

		style := theme.Unselected
		switch {
		case o.Revealed && i == o.Correct:
			style = theme.Correct
		case o.Revealed && i == o.Chosen:
			style = theme.Incorrect
		case o.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == o.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line) + "\n")
	}
	return b.String()
}
