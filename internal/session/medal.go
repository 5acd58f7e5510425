package session

// Medal is the grade awarded for a session.
type Medal string

const (
	MedalPlatinum Medal = "platinum"
	MedalGold     Medal = "gold"
	MedalSilver   Medal = "silver"
)

// ComputeMedal grades a session by its mistake count. It is safe to call at
// any point for a live preview.
func ComputeMedal(mistakes int) Medal {
	switch {
	case mistakes <= 0:
		return MedalPlatinum
	case mistakes <= 2:
		return MedalGold
	default:
		return MedalSilver
	}
}

// Rank orders medals: higher is better, 0 for an unknown medal.
func (m Medal) Rank() int {
	switch m {
	case MedalPlatinum:
		return 3
	case MedalGold:
		return 2
	case MedalSilver:
		return 1
	default:
		return 0
	}
}

// Better reports whether m outranks other.
func (m Medal) Better(other Medal) bool {
	return m.Rank() > other.Rank()
}

// DisplayName returns a human-readable label for the medal.
func (m Medal) DisplayName() string {
	switch m {
	case MedalPlatinum:
		return "Platinum"
	case MedalGold:
		return "Gold"
	case MedalSilver:
		return "Silver"
	default:
		return "-"
	}
}
