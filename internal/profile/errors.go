package profile

import "errors"

var (
	// ErrNoLives is returned when a level is started with an empty life pool.
	ErrNoLives = errors.New("no lives left")

	// ErrLocked is returned for levels that have not been unlocked yet.
	ErrLocked = errors.New("level is locked")

	// ErrUnknownLevel is returned for level ids missing from the catalog.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrLivesFull is returned when buying a life at the maximum.
	ErrLivesFull = errors.New("lives are already full")

	// ErrInsufficientCoins is returned when a purchase cannot be afforded.
	ErrInsufficientCoins = errors.New("not enough coins")
)
