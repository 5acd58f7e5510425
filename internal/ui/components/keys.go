package components

import (
	"charm.land/bubbles/v2/key"

	"github.com/nu9ve/academy/internal/ui/layout"
)

// Shared key bindings.
var (
	KeyUp      = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "Arriba"))
	KeyDown    = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "Abajo"))
	KeyEnter   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Elegir"))
	KeyBack    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Volver"))
	KeyQuit    = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Salir"))
	KeyHint    = key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "Pista"))
	KeyBuy     = key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "Comprar vida"))
	KeyHistory = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Historial"))
	KeyMedals  = key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Medallas"))
	KeyYes     = key.NewBinding(key.WithKeys("y", "s"), key.WithHelp("s", "Sí"))
	KeyNo      = key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "No"))
	KeyOption  = key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "Responder"),
	)
)

// Hints converts bindings to footer hints, skipping disabled ones.
func Hints(bindings ...key.Binding) []layout.KeyHint {
	hints := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}
