package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrStale is returned when a response belongs to an abandoned request.
	ErrStale = errors.New("stale response")

	// ErrNoGrader is reported when evaluation runs without a grader.
	ErrNoGrader = errors.New("no grader configured")

	// ErrInvalidTransition is returned when an action is not allowed in the
	// session's current state.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// ValidationError is a locally rejected action. Session state is unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// GenerationError reports that the content generator failed to produce a quiz.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("quiz generation failed: %s: %v", e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("quiz generation failed: %v", e.Err)
	default:
		return fmt.Sprintf("quiz generation failed: %s", e.Message)
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GradingError reports that grading one question failed. Message carries
// the grader's own explanation when it gave one.
type GradingError struct {
	Position int
	Message  string
	Err      error
}

func (e *GradingError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("grading question %d: %s: %v", e.Position, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("grading question %d: %v", e.Position, e.Err)
	default:
		return fmt.Sprintf("grading question %d: %s", e.Position, e.Message)
	}
}

func (e *GradingError) Unwrap() error { return e.Err }

// AsGradingError returns a *GradingError for pos. An existing GradingError
// keeps its message and cause; the original value is not modified.
func AsGradingError(pos int, err error) *GradingError {
	var ge *GradingError
	if errors.As(err, &ge) {
		return &GradingError{Position: pos, Message: ge.Message, Err: ge.Err}
	}
	return &GradingError{Position: pos, Err: err}
}

// AsGenerationError wraps err in a *GenerationError unless it already is one.
func AsGenerationError(err error) *GenerationError {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge
	}
	return &GenerationError{Err: err}
}
