package quizgen

// Config controls the behavior of the Generator.
type Config struct {
	// Checks run in order on every generated question; the first failure
	// drops the question.
	Checks []Check

	// MaxTokensPerQuestion scales the response token budget with the
	// requested count.
	MaxTokensPerQuestion int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard check chain.
func DefaultConfig() Config {
	return Config{
		Checks: []Check{
			&StructuralCheck{},
			&OptionsCheck{},
		},
		MaxTokensPerQuestion: 300,
		Temperature:          0.7,
	}
}

func (c Config) maxTokens(count int) int {
	per := c.MaxTokensPerQuestion
	if per <= 0 {
		per = 300
	}
	return 256 + per*count
}
