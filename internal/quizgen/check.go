package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studykit/internal/quiz"
)

// Check inspects one generated question.
// Implementations should be stateless and safe for concurrent use.
type Check interface {
	// Name returns a short identifier used in logs, e.g. "structural".
	Name() string

	// Check returns nil if the question passes.
	Check(q quiz.Question) *CheckError
}

// CheckError describes why a generated question was dropped.
type CheckError struct {
	Check   string
	Message string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %q: %s", e.Check, e.Message)
}

// Length limits for generated text.
const (
	maxQuestionLen    = 500
	maxOptionLen      = 200
	maxExplanationLen = 1000
)

// StructuralCheck checks that text fields are present and within length limits.
type StructuralCheck struct{}

func (c *StructuralCheck) Name() string { return "structural" }

func (c *StructuralCheck) Check(q quiz.Question) *CheckError {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return &CheckError{Check: c.Name(), Message: "question is empty"}
	case len(q.Text) > maxQuestionLen:
		return &CheckError{Check: c.Name(), Message: fmt.Sprintf("question exceeds %d characters", maxQuestionLen)}
	case len(q.Explanation) > maxExplanationLen:
		return &CheckError{Check: c.Name(), Message: fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen)}
	}
	for i, o := range q.Options {
		if len(o) > maxOptionLen {
			return &CheckError{Check: c.Name(), Message: fmt.Sprintf("option %d exceeds %d characters", i, maxOptionLen)}
		}
	}
	return nil
}

// OptionsCheck enforces four non-empty distinct options and an in-range
// correct index.
type OptionsCheck struct{}

func (c *OptionsCheck) Name() string { return "options" }

func (c *OptionsCheck) Check(q quiz.Question) *CheckError {
	if err := q.Validate(); err != nil {
		return &CheckError{Check: c.Name(), Message: err.Error()}
	}
	return nil
}
