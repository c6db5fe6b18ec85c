package studyaids

// Config holds study aid generation settings.
type Config struct {
	NotesMaxTokens         int
	DetailedNotesMaxTokens int
	TokensPerFlashcard     int
	Temperature            float64
}

// DefaultConfig returns sensible defaults for study aid generation.
func DefaultConfig() Config {
	return Config{
		NotesMaxTokens:         1024,
		DetailedNotesMaxTokens: 3072,
		TokensPerFlashcard:     120,
		Temperature:            0.5,
	}
}
