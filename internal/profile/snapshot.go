package profile

import (
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/store"
)

// ToSnapshotData converts a profile for snapshot persistence.
func (p *Profile) ToSnapshotData() *store.ProfileSnapshotData {
	data := &store.ProfileSnapshotData{
		XP:        p.XP,
		Coins:     p.Coins,
		Lives:     p.Lives,
		LastRegen: p.LastRegen,
		Unlocked:  p.UnlockedIDs(),
		Levels:    make(map[string]*store.LevelRecordData, len(p.Levels)),
		CreatedAt: p.CreatedAt,
	}
	for id, r := range p.Levels {
		data.Levels[id] = &store.LevelRecordData{
			LevelID:     r.LevelID,
			BestMedal:   string(r.BestMedal),
			BestScore:   r.BestScore,
			Completions: r.Completions,
			LastPlayed:  r.LastPlayed,
		}
	}
	return data
}

// FromSnapshotData restores a profile from snapshot data.
func FromSnapshotData(data *store.ProfileSnapshotData) *Profile {
	p := &Profile{
		XP:        data.XP,
		Coins:     data.Coins,
		Lives:     data.Lives,
		LastRegen: data.LastRegen,
		Unlocked:  make(map[string]bool, len(data.Unlocked)),
		Levels:    make(map[string]*LevelRecord, len(data.Levels)),
		CreatedAt: data.CreatedAt,
	}
	for _, id := range data.Unlocked {
		p.Unlocked[id] = true
	}
	for id, r := range data.Levels {
		if r == nil {
			continue
		}
		p.Levels[id] = &LevelRecord{
			LevelID:     r.LevelID,
			BestMedal:   session.Medal(r.BestMedal),
			BestScore:   r.BestScore,
			Completions: r.Completions,
			LastPlayed:  r.LastPlayed,
		}
	}
	return p
}
