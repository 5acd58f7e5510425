package medals

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

// tabs lists the medals in display order, best first.
var tabs = []session.Medal{session.MedalPlatinum, session.MedalGold, session.MedalSilver}

var (
	keyNextTab = key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("Tab", "Cambiar medalla"))
	keyPrevTab = key.NewBinding(key.WithKeys("shift+tab", "left"))
)

type entry struct {
	level content.Level
	rec   *profile.LevelRecord
}

// MedalsScreen shows the best medal earned on each level, grouped by medal.
type MedalsScreen struct {
	entries      []entry
	total        int
	selectedTab  int
	scrollOffset int
}

var _ screen.Screen = (*MedalsScreen)(nil)
var _ screen.KeyHintProvider = (*MedalsScreen)(nil)

// New builds the screen from the profile's level records.
func New(p *profile.Profile, catalog *content.Catalog) *MedalsScreen {
	levels := catalog.Levels()
	s := &MedalsScreen{total: len(levels)}
	for _, l := range levels {
		if rec := p.Record(l.ID); rec != nil {
			s.entries = append(s.entries, entry{level: l, rec: rec})
		}
	}
	return s
}

func (s *MedalsScreen) Init() tea.Cmd {
	return nil
}

func (s *MedalsScreen) Title() string {
	return "Medallas"
}

func (s *MedalsScreen) KeyHints() []layout.KeyHint {
	return components.Hints(keyNextTab, components.KeyUp, components.KeyDown, components.KeyBack)
}

func (s *MedalsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(kmsg, components.KeyBack):
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case key.Matches(kmsg, keyNextTab):
		s.selectedTab = (s.selectedTab + 1) % len(tabs)
		s.scrollOffset = 0
	case key.Matches(kmsg, keyPrevTab):
		s.selectedTab = (s.selectedTab - 1 + len(tabs)) % len(tabs)
		s.scrollOffset = 0
	case key.Matches(kmsg, components.KeyUp):
		if s.scrollOffset > 0 {
			s.scrollOffset--
		}
	case key.Matches(kmsg, components.KeyDown):
		if s.scrollOffset < len(s.filtered())-1 {
			s.scrollOffset++
		}
	}
	return s, nil
}

// Selected returns the medal of the active tab.
func (s *MedalsScreen) Selected() session.Medal {
	return tabs[s.selectedTab]
}

// Count returns how many levels have m as their best medal.
func (s *MedalsScreen) Count(m session.Medal) int {
	n := 0
	for _, e := range s.entries {
		if e.rec.BestMedal == m {
			n++
		}
	}
	return n
}

func (s *MedalsScreen) View(width, height int) string {
	var b strings.Builder
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	b.WriteString(center.Foreground(theme.Text).Render(
		fmt.Sprintf("\n%d de %d niveles completados\n", len(s.entries), s.total)))
	b.WriteString("\n")

	var labels []string
	for i, m := range tabs {
		label := fmt.Sprintf("★ %s (%d)", m.DisplayName(), s.Count(m))
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.selectedTab {
			style = lipgloss.NewStyle().Foreground(theme.MedalColor(string(m))).Bold(true)
		}
		labels = append(labels, style.Render(label))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(labels, "     ")))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, layout.Divider(min(width-8, 60))))
	b.WriteString("\n\n")

	filtered := s.filtered()
	if len(filtered) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("Todavía no hay niveles con esta medalla"))
		return b.String()
	}

	maxVisible := max(height-10, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(filtered))
	for _, e := range filtered[start:end] {
		line := fmt.Sprintf("  %-30s %5d pts  ×%d  %s",
			e.level.Title, e.rec.BestScore, e.rec.Completions, e.rec.LastPlayed.Local().Format("02/01/2006"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(line)))
		b.WriteString("\n")
	}
	if end < len(filtered) {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf("... %d más", len(filtered)-end)))
	}
	return b.String()
}

func (s *MedalsScreen) filtered() []entry {
	var out []entry
	m := tabs[s.selectedTab]
	for _, e := range s.entries {
		if e.rec.BestMedal == m {
			out = append(out, e)
		}
	}
	return out
}
