package profile

import (
	"time"

	"github.com/nu9ve/academy/internal/session"
)

// Config holds the economy constants of the learner profile.
type Config struct {
	MaxLives      int
	LifeRegen     time.Duration // one life per interval
	LifePrice     int           // coins per purchased life
	StartingCoins int
	XPPerLevel    int

	// MedalBonus is added to a level's coin reward.
	MedalBonus map[session.Medal]int

	// SnapshotsKept bounds the snapshot history.
	SnapshotsKept int
}

// DefaultConfig returns the standard economy.
func DefaultConfig() Config {
	return Config{
		MaxLives:      5,
		LifeRegen:     15 * time.Minute,
		LifePrice:     15,
		StartingCoins: 100,
		XPPerLevel:    100,
		MedalBonus: map[session.Medal]int{
			session.MedalPlatinum: 10,
			session.MedalGold:     5,
			session.MedalSilver:   0,
		},
		SnapshotsKept: 10,
	}
}
