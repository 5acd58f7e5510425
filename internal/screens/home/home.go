package home

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/profile"
	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/screen"
	"github.com/nu9ve/academy/internal/screens/history"
	"github.com/nu9ve/academy/internal/screens/level"
	"github.com/nu9ve/academy/internal/screens/medals"
	"github.com/nu9ve/academy/internal/ui/components"
	"github.com/nu9ve/academy/internal/ui/layout"
)

// Deps are the collaborators of the home screen.
type Deps struct {
	Catalog *content.Catalog
	Level   level.Deps

	Now func() time.Time
}

// HomeScreen lists the catalog levels with their lock and medal state.
type HomeScreen struct {
	ctx  context.Context
	deps Deps

	menu   components.Menu
	levels []content.Level
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

type tickMsg time.Time

// New creates a new HomeScreen.
func New(ctx context.Context, deps Deps) *HomeScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &HomeScreen{ctx: ctx, deps: deps, levels: deps.Catalog.Levels()}
	h.rebuild()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return tick()
}

func (h *HomeScreen) Title() string {
	return "Inicio"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	buy := components.KeyBuy
	buy.SetEnabled(h.canBuy())
	hist := components.KeyHistory
	hist.SetEnabled(h.deps.Level.Events != nil)
	return append(components.Hints(components.KeyUp, components.KeyDown, components.KeyEnter, buy, hist, components.KeyMedals),
		layout.KeyHint{Key: "q", Description: "Salir"})
}

// Resume refreshes lives and unlocks after a level screen is closed.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		h.refresh()
		return h, tick()

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, components.KeyBuy):
			h.buyLife()
			return h, nil
		case key.Matches(msg, components.KeyHistory) && h.deps.Level.Events != nil:
			return h, push(history.New(h.ctx, h.deps.Level.Events, h.deps.Catalog))
		case key.Matches(msg, components.KeyMedals):
			return h, push(medals.New(h.deps.Level.Profiles.Profile(), h.deps.Catalog))
		case msg.String() == "q":
			return h, tea.Quit
		}
		h.notice = ""
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || width < 90
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, RenderMascot(h.mood()))
	}
	sections = append(sections, renderStats(h.stats(), cw))
	sections = append(sections, renderLevels(h.menu, h.heading(), cw))
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

// Selected returns the level under the cursor.
func (h *HomeScreen) Selected() (content.Level, bool) {
	if h.menu.Selected < 0 || h.menu.Selected >= len(h.levels) {
		return content.Level{}, false
	}
	return h.levels[h.menu.Selected], true
}

// Notice returns the current status message.
func (h *HomeScreen) Notice() string {
	return h.notice
}

func (h *HomeScreen) rebuild() {
	p := h.deps.Level.Profiles.Profile()
	multi := len(h.deps.Catalog.Courses()) > 1

	items := make([]components.MenuItem, len(h.levels))
	for i, l := range h.levels {
		items[i] = components.MenuItem{
			Label:    levelLabel(l, p),
			Detail:   levelDetail(l, p, multi),
			Disabled: !p.IsUnlocked(l.ID),
			Action:   func() tea.Cmd { return h.play(l) },
		}
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) refresh() {
	if _, err := h.deps.Level.Profiles.Refresh(h.ctx); err != nil {
		h.notice = "Error: " + err.Error()
	}
	h.rebuild()
}

func (h *HomeScreen) play(l content.Level) tea.Cmd {
	profiles := h.deps.Level.Profiles
	if err := profiles.CanPlay(h.ctx, l.ID); err != nil {
		h.notice = blockedNotice(err, profiles, h.deps.Now())
		h.rebuild()
		return nil
	}
	return push(level.New(h.ctx, l, h.deps.Level))
}

func (h *HomeScreen) buyLife() {
	profiles := h.deps.Level.Profiles
	err := profiles.BuyLife(h.ctx)
	switch {
	case err == nil:
		h.notice = fmt.Sprintf("Compraste una vida por %d monedas.", profiles.Config().LifePrice)
	case errors.Is(err, profile.ErrLivesFull):
		h.notice = "Tus vidas ya están completas."
	case errors.Is(err, profile.ErrInsufficientCoins):
		h.notice = fmt.Sprintf("Necesitas %d monedas para comprar una vida.", profiles.Config().LifePrice)
	default:
		h.notice = "Error: " + err.Error()
	}
	h.rebuild()
}

func (h *HomeScreen) canBuy() bool {
	profiles := h.deps.Level.Profiles
	p, cfg := profiles.Profile(), profiles.Config()
	return p.Lives < cfg.MaxLives && p.Coins >= cfg.LifePrice
}

func (h *HomeScreen) stats() stats {
	profiles := h.deps.Level.Profiles
	p, cfg := profiles.Profile(), profiles.Config()
	return stats{
		lives:       p.Lives,
		maxLives:    cfg.MaxLives,
		nextLife:    p.NextLifeIn(cfg, h.deps.Now()),
		coins:       p.Coins,
		xpInLevel:   p.LevelProgress(cfg),
		xpPerLevel:  cfg.XPPerLevel,
		playerLevel: p.PlayerLevel(cfg),
		completed:   p.Completed(),
		total:       len(h.levels),
	}
}

func (h *HomeScreen) mood() Mood {
	p := h.deps.Level.Profiles.Profile()
	return MoodFor(p.Lives, len(p.UnlockedIDs()), p.Completed())
}

func (h *HomeScreen) heading() string {
	courses := h.deps.Catalog.Courses()
	if len(courses) == 1 {
		return courses[0].Title
	}
	return "Niveles"
}

func levelLabel(l content.Level, p *profile.Profile) string {
	switch {
	case !p.IsUnlocked(l.ID):
		return "🔒 " + l.Title
	case p.Record(l.ID) != nil:
		return "✓ " + l.Title
	default:
		return "▶ " + l.Title
	}
}

func levelDetail(l content.Level, p *profile.Profile, withCourse bool) string {
	parts := []string{l.Type.DisplayName()}
	if l.DurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", l.DurationMinutes))
	}
	if rec := p.Record(l.ID); rec != nil {
		parts = append(parts, rec.BestMedal.DisplayName())
	}
	if withCourse && l.CourseID != "" {
		parts = append(parts, l.CourseID)
	}
	return strings.Join(parts, " · ")
}

func blockedNotice(err error, profiles *profile.Service, now time.Time) string {
	switch {
	case errors.Is(err, profile.ErrNoLives):
		wait := profiles.Profile().NextLifeIn(profiles.Config(), now)
		return fmt.Sprintf("Sin vidas. La próxima llega en %s, o compra una con b.", formatCountdown(wait))
	case errors.Is(err, profile.ErrLocked):
		return "Completa el nivel anterior para desbloquear este."
	default:
		return "Error: " + err.Error()
	}
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}
