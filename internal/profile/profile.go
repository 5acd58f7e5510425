package profile

import (
	"slices"
	"time"

	"github.com/nu9ve/academy/internal/session"
)

// LevelRecord is the best outcome recorded for one level.
type LevelRecord struct {
	LevelID     string
	BestMedal   session.Medal
	BestScore   int
	Completions int
	LastPlayed  time.Time
}

// Profile is the learner's persistent state. Methods that depend on time
// take it explicitly so that regeneration is deterministic.
type Profile struct {
	XP        int
	Coins     int
	Lives     int
	LastRegen time.Time
	Unlocked  map[string]bool
	Levels    map[string]*LevelRecord
	CreatedAt time.Time
}

// New returns a fresh profile with full lives.
func New(cfg Config, now time.Time, unlocked ...string) *Profile {
	p := &Profile{
		Coins:     cfg.StartingCoins,
		Lives:     cfg.MaxLives,
		LastRegen: now,
		Unlocked:  make(map[string]bool),
		Levels:    make(map[string]*LevelRecord),
		CreatedAt: now,
	}
	for _, id := range unlocked {
		p.Unlocked[id] = true
	}
	return p
}

// PlayerLevel derives the player's level from XP, starting at 1.
func (p *Profile) PlayerLevel(cfg Config) int {
	if cfg.XPPerLevel <= 0 {
		return 1
	}
	return p.XP/cfg.XPPerLevel + 1
}

// LevelProgress returns XP earned within the current player level.
func (p *Profile) LevelProgress(cfg Config) int {
	if cfg.XPPerLevel <= 0 {
		return 0
	}
	return p.XP % cfg.XPPerLevel
}

// Regenerate adds the lives accrued since LastRegen and returns how many
// were added. The partial interval carries over.
func (p *Profile) Regenerate(cfg Config, now time.Time) int {
	if p.Lives >= cfg.MaxLives || cfg.LifeRegen <= 0 {
		// The clock only runs while below max.
		p.LastRegen = now
		return 0
	}
	elapsed := now.Sub(p.LastRegen)
	if elapsed < cfg.LifeRegen {
		return 0
	}

	earned := int(elapsed / cfg.LifeRegen)
	added := min(earned, cfg.MaxLives-p.Lives)
	p.Lives += added
	if p.Lives >= cfg.MaxLives {
		p.LastRegen = now
	} else {
		p.LastRegen = p.LastRegen.Add(time.Duration(earned) * cfg.LifeRegen)
	}
	return added
}

// NextLifeIn returns the time until the next regenerated life, or zero when
// lives are full.
func (p *Profile) NextLifeIn(cfg Config, now time.Time) time.Duration {
	if p.Lives >= cfg.MaxLives {
		return 0
	}
	d := p.LastRegen.Add(cfg.LifeRegen).Sub(now)
	return max(d, 0)
}

// loseLife removes one life, flooring at zero. Returns false if none were left.
func (p *Profile) loseLife(cfg Config, now time.Time) bool {
	if p.Lives <= 0 {
		return false
	}
	if p.Lives >= cfg.MaxLives {
		// Regeneration starts counting from the first loss.
		p.LastRegen = now
	}
	p.Lives--
	return true
}

// IsUnlocked reports whether a level may be played.
func (p *Profile) IsUnlocked(levelID string) bool {
	return p.Unlocked[levelID]
}

// UnlockedIDs returns the unlocked level ids in sorted order.
func (p *Profile) UnlockedIDs() []string {
	ids := make([]string, 0, len(p.Unlocked))
	for id, ok := range p.Unlocked {
		if ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Record returns the record of a level, or nil if never completed.
func (p *Profile) Record(levelID string) *LevelRecord {
	return p.Levels[levelID]
}

// Completed returns the number of distinct completed levels.
func (p *Profile) Completed() int {
	return len(p.Levels)
}
