package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/nu9ve/academy/internal/content"
	"github.com/nu9ve/academy/internal/session"
	"github.com/nu9ve/academy/internal/store"
)

const snapshotVersion = 1

// Reward summarizes what a completed level earned.
type Reward struct {
	XP         int
	Coins      int // includes MedalBonus
	MedalBonus int
	NewBest    bool
	FirstClear bool

	// Unlocked is the id of the level unlocked by this completion, if any.
	Unlocked string

	PlayerLevel int
	LeveledUp   bool
}

// Service owns the learner profile: the life pool and its regeneration,
// currency, and level progression. It is the single writer of that state.
type Service struct {
	cfg     Config
	catalog *content.Catalog
	snaps   store.SnapshotRepo
	events  store.EventRepo
	now     func() time.Time

	profile *Profile
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a profile service. snaps and events may be nil, in
// which case nothing is persisted.
func NewService(cfg Config, catalog *content.Catalog, snaps store.SnapshotRepo, events store.EventRepo, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:     cfg,
		catalog: catalog,
		snaps:   snaps,
		events:  events,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the economy constants.
func (s *Service) Config() Config { return s.cfg }

// Load restores the latest snapshot, or starts a fresh profile. Levels that
// are unlocked by default in the catalog are always unlocked.
func (s *Service) Load(ctx context.Context) error {
	now := s.now()

	var snap *store.Snapshot
	if s.snaps != nil {
		var err error
		snap, err = s.snaps.Latest(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
	}

	if snap != nil && snap.Data.Profile != nil {
		s.profile = FromSnapshotData(snap.Data.Profile)
	} else {
		s.profile = New(s.cfg, now)
	}

	for _, l := range s.catalog.Levels() {
		if s.catalog.InitiallyUnlocked(l.ID) {
			s.profile.Unlocked[l.ID] = true
		}
	}

	_, err := s.Refresh(ctx)
	return err
}

// Save writes a new snapshot and prunes old ones.
func (s *Service) Save(ctx context.Context) error {
	if s.snaps == nil {
		return nil
	}

	var seq int64
	if s.events != nil {
		var err error
		if seq, err = s.events.LatestSequence(ctx); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}

	err := s.snaps.Save(ctx, &store.Snapshot{
		Sequence:  seq,
		Timestamp: s.now(),
		Data: store.SnapshotData{
			Version: snapshotVersion,
			Profile: s.profile.ToSnapshotData(),
		},
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if s.cfg.SnapshotsKept > 0 {
		if err := s.snaps.Prune(ctx, s.cfg.SnapshotsKept); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}
	return nil
}

// Profile returns the current profile. Call Refresh first to apply pending
// regeneration.
func (s *Service) Profile() *Profile {
	return s.profile
}

// Refresh applies lazy life regeneration and returns the lives added.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	added := s.profile.Regenerate(s.cfg, s.now())
	if added == 0 {
		return 0, nil
	}
	if err := s.appendLife(ctx, store.LifeEventData{
		Reason:  store.LifeRegenerated,
		Delta:   added,
		Balance: s.profile.Lives,
	}); err != nil {
		return added, err
	}
	return added, s.Save(ctx)
}

// CanPlay checks that a level exists, is unlocked, and that a life is left.
func (s *Service) CanPlay(ctx context.Context, levelID string) error {
	if _, ok := s.catalog.Level(levelID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, levelID)
	}
	if !s.profile.IsUnlocked(levelID) {
		return fmt.Errorf("%w: %q", ErrLocked, levelID)
	}
	if _, err := s.Refresh(ctx); err != nil {
		return err
	}
	if s.profile.Lives <= 0 {
		return ErrNoLives
	}
	return nil
}

// LoseLife applies a life-loss signal from a session. It returns the
// remaining lives.
func (s *Service) LoseLife(ctx context.Context, sessionID string) (int, error) {
	if !s.profile.loseLife(s.cfg, s.now()) {
		return 0, nil
	}
	if err := s.appendLife(ctx, store.LifeEventData{
		Reason:    store.LifeLost,
		Delta:     -1,
		Balance:   s.profile.Lives,
		SessionID: sessionID,
	}); err != nil {
		return s.profile.Lives, err
	}
	return s.profile.Lives, s.Save(ctx)
}

// BuyLife spends coins for one life.
func (s *Service) BuyLife(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err != nil {
		return err
	}
	p := s.profile
	if p.Lives >= s.cfg.MaxLives {
		return ErrLivesFull
	}
	if p.Coins < s.cfg.LifePrice {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientCoins, p.Coins, s.cfg.LifePrice)
	}

	p.Coins -= s.cfg.LifePrice
	p.Lives++
	if p.Lives >= s.cfg.MaxLives {
		p.LastRegen = s.now()
	}
	if err := s.appendLife(ctx, store.LifeEventData{
		Reason:  store.LifePurchased,
		Delta:   1,
		Balance: p.Lives,
		Coins:   s.cfg.LifePrice,
	}); err != nil {
		return err
	}
	return s.Save(ctx)
}

// ApplyResult credits a completed level: XP, coins plus medal bonus, best
// record, and unlocking the next level of the course.
func (s *Service) ApplyResult(ctx context.Context, level content.Level, r *session.Result) (*Reward, error) {
	p := s.profile
	beforeLevel := p.PlayerLevel(s.cfg)

	bonus := s.cfg.MedalBonus[r.Medal]
	reward := &Reward{
		XP:         level.XPReward,
		Coins:      level.CoinReward + bonus,
		MedalBonus: bonus,
	}
	p.XP += reward.XP
	p.Coins += reward.Coins

	rec, ok := p.Levels[level.ID]
	if !ok {
		rec = &LevelRecord{LevelID: level.ID, BestScore: r.Score, BestMedal: r.Medal}
		p.Levels[level.ID] = rec
		reward.FirstClear = true
		reward.NewBest = true
	}
	if r.Medal.Better(rec.BestMedal) {
		rec.BestMedal = r.Medal
		reward.NewBest = true
	}
	if r.Score > rec.BestScore {
		rec.BestScore = r.Score
		reward.NewBest = true
	}
	rec.Completions++
	rec.LastPlayed = r.CompletedAt

	if next, ok := s.catalog.Next(level.ID); ok && !p.Unlocked[next.ID] {
		p.Unlocked[next.ID] = true
		reward.Unlocked = next.ID
	}

	reward.PlayerLevel = p.PlayerLevel(s.cfg)
	reward.LeveledUp = reward.PlayerLevel > beforeLevel

	if s.events != nil {
		err := s.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:       r.SessionID,
			LevelID:         level.ID,
			Action:          store.SessionCompleted,
			Mode:            r.Mode.String(),
			Score:           r.Score,
			Mistakes:        r.Mistakes,
			FirstTryCorrect: r.FirstTryCorrect,
			Medal:           string(r.Medal),
			DurationSecs:    int(r.Elapsed.Seconds()),
			XPEarned:        reward.XP,
			CoinsEarned:     reward.Coins,
		})
		if err != nil {
			return reward, fmt.Errorf("record session: %w", err)
		}
	}
	return reward, s.Save(ctx)
}

// Reset replaces the profile with a fresh one and saves it.
func (s *Service) Reset(ctx context.Context) error {
	s.profile = New(s.cfg, s.now())
	for _, l := range s.catalog.Levels() {
		if s.catalog.InitiallyUnlocked(l.ID) {
			s.profile.Unlocked[l.ID] = true
		}
	}
	return s.Save(ctx)
}

func (s *Service) appendLife(ctx context.Context, data store.LifeEventData) error {
	if s.events == nil {
		return nil
	}
	if err := s.events.AppendLifeEvent(ctx, data); err != nil {
		return fmt.Errorf("record life event: %w", err)
	}
	return nil
}
