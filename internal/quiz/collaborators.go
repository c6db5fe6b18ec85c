package quiz

import "context"

// GenerateRequest asks a content generator for a quiz over one document.
type GenerateRequest struct {
	DocumentID string
	Count      int
	Difficulty Difficulty
}

// Generator produces a QuestionSet from an uploaded document. Failures
// should be reported as *GenerationError.
type Generator interface {
	GenerateQuiz(ctx context.Context, req GenerateRequest) (*QuestionSet, error)
}

// GradeRequest asks a grader to judge one answer.
type GradeRequest struct {
	Question      string
	UserAnswer    string
	CorrectAnswer string
}

// Grader judges a single answer against its reference answer.
type Grader interface {
	Grade(ctx context.Context, req GradeRequest) (EvaluationResult, error)
}

// GraderFunc adapts a function to the Grader interface.
type GraderFunc func(ctx context.Context, req GradeRequest) (EvaluationResult, error)

func (f GraderFunc) Grade(ctx context.Context, req GradeRequest) (EvaluationResult, error) {
	return f(ctx, req)
}
