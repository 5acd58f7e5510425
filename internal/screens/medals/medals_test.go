package medals

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/profile"
	"github.com/nu9ve/academy/internal/router"
	"github.com/nu9ve/academy/internal/session"
)

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	item := content.Item{ID: "a", Prompt: "?", Options: []content.Option{{Text: "x", Correct: true}}}
	cat, err := content.NewCatalog(&content.Course{
		ID:    "c",
		Title: "Curso",
		Levels: []content.Level{
			{ID: "uno", Title: "Primer nivel", Type: content.TypeQuiz, Items: []content.Item{item}},
			{ID: "dos", Title: "Segundo nivel", Type: content.TypeQuiz, Items: []content.Item{item}},
			{ID: "tres", Title: "Tercer nivel", Type: content.TypeQuiz, Items: []content.Item{item}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func testProfile() *profile.Profile {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := profile.New(profile.DefaultConfig(), now, "uno", "dos")
	p.Levels["uno"] = &profile.LevelRecord{LevelID: "uno", BestMedal: session.MedalPlatinum, BestScore: 250, Completions: 2, LastPlayed: now}
	p.Levels["dos"] = &profile.LevelRecord{LevelID: "dos", BestMedal: session.MedalSilver, BestScore: 40, Completions: 1, LastPlayed: now}
	return p
}

func TestMedalsCounts(t *testing.T) {
	s := New(testProfile(), testCatalog(t))

	if got := s.Count(session.MedalPlatinum); got != 1 {
		t.Errorf("platinum = %d, want 1", got)
	}
	if got := s.Count(session.MedalGold); got != 0 {
		t.Errorf("gold = %d, want 0", got)
	}
	if got := s.Count(session.MedalSilver); got != 1 {
		t.Errorf("silver = %d, want 1", got)
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "2 de 3 niveles completados") {
		t.Error("expected completion count")
	}
	if !strings.Contains(view, "Primer nivel") {
		t.Error("platinum tab should list the first level")
	}
	if strings.Contains(view, "Segundo nivel") {
		t.Error("silver level should not be on the platinum tab")
	}
}

func TestMedalsTabCycle(t *testing.T) {
	s := New(testProfile(), testCatalog(t))

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.Selected() != session.MedalGold {
		t.Fatalf("selected = %s, want gold", s.Selected())
	}
	if !strings.Contains(s.View(100, 30), "Todavía no hay niveles con esta medalla") {
		t.Error("gold tab should be empty")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !strings.Contains(s.View(100, 30), "Segundo nivel") {
		t.Error("silver tab should list the second level")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.Selected() != session.MedalPlatinum {
		t.Errorf("tab should wrap to platinum, got %s", s.Selected())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Selected() != session.MedalSilver {
		t.Errorf("left should go back to silver, got %s", s.Selected())
	}
}

func TestMedalsEscPops(t *testing.T) {
	s := New(testProfile(), testCatalog(t))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop")
	}
}
