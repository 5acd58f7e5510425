package layout

import (
	"strings"
	"testing"
)

func TestLives(t *testing.T) {
	got := Lives(3, 5)
	if n := strings.Count(got, "♥"); n != 3 {
		t.Errorf("full hearts = %d, want 3", n)
	}
	if n := strings.Count(got, "♡"); n != 2 {
		t.Errorf("empty hearts = %d, want 2", n)
	}

	over := Lives(7, 5)
	if strings.Count(over, "♥") != 5 || strings.Contains(over, "♡") {
		t.Errorf("lives above max should render as full pool, got %q", over)
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Inicio", Stats{Lives: 4, MaxLives: 5, Coins: 120, XP: 250, PlayerLevel: 3}, 100)
	for _, want := range []string{"Academy", "Inicio", "120", "250 XP", "Nv 3"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("narrow terminal should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should be accepted")
	}
}
