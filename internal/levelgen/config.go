package levelgen

// Config controls the LLMGenerator.
type Config struct {
	// Validators run in order on every draft; the first failure stops the
	// chain.
	Validators []Validator

	// MaxAttempts bounds regeneration after retryable validation failures.
	MaxAttempts int

	MaxTokens   int
	Temperature float64

	// MaxTitles caps how many existing titles are listed in the prompt.
	MaxTitles int

	// XPReward and CoinReward fill in rewards the model leaves at zero.
	XPReward   int
	CoinReward int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&ContentValidator{},
			&ShapeValidator{},
			&UniqueIDValidator{},
			&AnswerSpreadValidator{},
		},
		MaxAttempts: 3,
		MaxTokens:   4096,
		Temperature: 0.8,
		MaxTitles:   12,
		XPReward:    50,
		CoinReward:  20,
	}
}
