package level

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/ui/components"
	"github.com/nu9ve/academy/internal/ui/layout"
	"github.com/nu9ve/academy/internal/ui/theme"
)

// labels adapt the wording to the level type. Roleplay levels frame items
// as situations and their options as replies.
type labels struct {
	item     string
	question string
}

func labelsFor(t content.LevelType) labels {
	switch t {
	case content.TypeRoleplay:
		return labels{item: "Situación", question: "¿Qué respondes?"}
	case content.TypeStory:
		return labels{item: "Capítulo", question: "¿Qué pasa después?"}
	case content.TypeInteractive:
		return labels{item: "Reto", question: "Elige una opción"}
	case content.TypeVideo:
		return labels{item: "Escena", question: "¿Qué viste?"}
	default:
		return labels{item: "Pregunta", question: "Elige la respuesta correcta"}
	}
}

func (s *LevelScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderMessage(width, height, theme.Incorrect.Render("Error: "+s.errMsg))
	case s.confirmQuit:
		return renderMessage(width, height,
			theme.Body.Bold(true).Render("¿Salir del nivel?")+"\n\n"+
				theme.Subtitle.Render("Tu progreso en este nivel se perderá."))
	case s.view == nil || s.view.Item == nil:
		return renderMessage(width, height, theme.Subtitle.Render("Cargando…"))
	}

	cw := components.ContentWidth(width)
	v := s.view
	lb := labelsFor(s.level.Type)

	var b strings.Builder
	b.WriteString(s.renderStatus(cw))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	if v.Narrative != "" {
		b.WriteString(theme.Narrative.Width(cw).Render(v.Narrative))
		b.WriteString("\n\n")
	}

	heading := fmt.Sprintf("%s %d de %d", lb.item, v.Position, v.PassLength)
	if v.Review {
		heading = fmt.Sprintf("Repaso %d de %d", v.Position, v.PassLength)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(heading))
	b.WriteString("\n")
	b.WriteString(theme.Body.Bold(true).Width(cw).Render(v.Item.Prompt))
	b.WriteString("\n\n")

	if v.Feedback == nil {
		b.WriteString(theme.Subtitle.Render(lb.question))
		b.WriteString("\n")
	}
	b.WriteString(s.options.View(cw))

	if v.Hint.Text != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(cw).Render("Pista: " + v.Hint.Text))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(s.notice))
		b.WriteString("\n")
	}
	if v.Feedback != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(v.Feedback, cw))
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(b.String())
}

func (s *LevelScreen) renderStatus(cw int) string {
	v := s.view
	bar := components.NewProgressBar("", v.Progress.Done, v.Progress.Total, cw/2)

	right := fmt.Sprintf("%s  %s  %s",
		layout.Lives(s.lives, s.maxLives()),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d pts", v.Score)),
		components.MedalBadge(v.Medal),
	)
	if v.ReviewRemaining > 0 && !v.Review {
		right += lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  ↺ %d", v.ReviewRemaining))
	}
	gap := max(cw-lipgloss.Width(bar.View())-lipgloss.Width(right), 2)
	return bar.View() + strings.Repeat(" ", gap) + right
}

func (s *LevelScreen) renderFeedback(fb *session.Feedback, cw int) string {
	var b strings.Builder
	if fb.Correct {
		title := "¡Correcto!"
		if fb.FirstTry {
			title += " Al primer intento."
		}
		b.WriteString(theme.Correct.Render(title))
	} else {
		b.WriteString(theme.Incorrect.Render("Incorrecto"))
	}
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%+d pts", fb.Points)))
	b.WriteString("\n")

	if fb.Message != "" {
		b.WriteString(theme.Body.Width(cw).Render(fb.Message))
		b.WriteString("\n")
	}
	if item := s.view.Item; item != nil && fb.Option < len(item.Options) {
		if p := item.Options[fb.Option].Principle; p != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("Principio: " + p))
			b.WriteString("\n")
		}
	}

	switch fb.Next {
	case session.RetryItem:
		b.WriteString(theme.Subtitle.Render("Inténtalo de nuevo."))
	case session.StartReview:
		b.WriteString(theme.Subtitle.Render("Ahora repasemos lo que fallaste."))
	case session.Complete:
		b.WriteString(theme.Subtitle.Render("¡Nivel terminado!"))
	}
	return theme.Card.Width(cw).Render(b.String())
}

func (s *LevelScreen) maxLives() int {
	if s.deps.Profiles == nil {
		return s.lives
	}
	return s.deps.Profiles.Config().MaxLives
}

func renderMessage(width, height int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(msg)
}
