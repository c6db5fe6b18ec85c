package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// OptionsPerQuestion is the number of answer options every question carries.
const OptionsPerQuestion = 4

// Question count bounds accepted by content generators.
const (
	MinQuestions     = 1
	MaxQuestions     = 20
	DefaultQuestions = 5
)

// ErrOutOfRange is returned when a position does not address a question.
var ErrOutOfRange = errors.New("position out of range")

// Difficulty is the requested difficulty of a generated quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted difficulty levels in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty converts user input to a Difficulty. Empty input yields
// DifficultyMedium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", &ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", s)}
	}
}

// Next returns the following difficulty, wrapping from hard to easy.
func (d Difficulty) Next() Difficulty {
	for i, v := range Difficulties {
		if v == d {
			return Difficulties[(i+1)%len(Difficulties)]
		}
	}
	return DifficultyMedium
}

// ClampCount bounds a requested question count to [MinQuestions, MaxQuestions].
func ClampCount(n int) int {
	return max(MinQuestions, min(n, MaxQuestions))
}

// Question is a single multiple-choice question. The correct option is
// identified by position, never by text.
type Question struct {
	Text         string
	Options      []string
	CorrectIndex int
	Explanation  string
}

// CorrectOption returns the reference answer text.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// OptionIndex returns the position of option in q.Options, or -1.
func (q Question) OptionIndex(option string) int {
	for i, o := range q.Options {
		if o == option {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is empty")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("expected %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for i, o := range q.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" {
			return fmt.Errorf("option %d is empty", i)
		}
		if seen[key] {
			return fmt.Errorf("option %d duplicates an earlier option", i)
		}
		seen[key] = true
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}

// QuestionSet is the immutable ordered sequence of questions of one quiz.
type QuestionSet struct {
	questions []Question
}

// NewQuestionSet validates qs and returns a set holding a private copy.
func NewQuestionSet(qs []Question) (*QuestionSet, error) {
	out := make([]Question, len(qs))
	for i, q := range qs {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return &QuestionSet{questions: out}, nil
}

// Len returns the number of questions. A nil set has length 0.
func (s *QuestionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.questions)
}

// At returns the question at pos.
func (s *QuestionSet) At(pos int) (Question, error) {
	if pos < 0 || pos >= s.Len() {
		return Question{}, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, pos, s.Len())
	}
	q := s.questions[pos]
	q.Options = append([]string(nil), q.Options...)
	return q, nil
}

// All returns a copy of every question in order.
func (s *QuestionSet) All() []Question {
	out := make([]Question, 0, s.Len())
	for i := range s.Len() {
		q, _ := s.At(i)
		out = append(out, q)
	}
	return out
}
