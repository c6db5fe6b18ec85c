package studyaids

import (
	"errors"
	"fmt"
	"strings"
)

// Style selects how much detail generated notes carry.
type Style string

const (
	StyleConcise  Style = "concise"
	StyleDetailed Style = "detailed"
)

// ParseStyle converts user input to a Style. Empty input yields StyleConcise.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StyleConcise, nil
	case StyleConcise, StyleDetailed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown notes style %q: must be concise or detailed", s)
	}
}

// Flashcard is one front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Flashcard count bounds.
const (
	MinFlashcards     = 1
	MaxFlashcards     = 30
	DefaultFlashcards = 10
)

// ClampFlashcards bounds a requested card count; zero selects the default.
func ClampFlashcards(n int) int {
	if n == 0 {
		return DefaultFlashcards
	}
	return max(MinFlashcards, min(n, MaxFlashcards))
}

// minNotesLen is the shortest notes text accepted from the model.
const minNotesLen = 10

// ErrShortOutput is returned when the model produced no usable content.
var ErrShortOutput = errors.New("model returned no usable content")
