// Package grading provides the graders that judge quiz answers.
package grading

import (
	"context"
	"strings"

	"github.com/abhisek/studykit/internal/quiz"
)

// Feedback texts produced by ExactGrader.
const (
	FeedbackCorrect         = "Correct!"
	feedbackIncorrectPrefix = "Incorrect. The correct answer is: "
)

// ExactGrader compares answers literally after trimming and case folding.
type ExactGrader struct{}

var _ quiz.Grader = ExactGrader{}

// Grade never fails.
func (ExactGrader) Grade(_ context.Context, req quiz.GradeRequest) (quiz.EvaluationResult, error) {
	if Match(req.UserAnswer, req.CorrectAnswer) {
		return quiz.EvaluationResult{IsCorrect: true, Feedback: FeedbackCorrect}, nil
	}
	return quiz.EvaluationResult{Feedback: IncorrectFeedback(req.CorrectAnswer)}, nil
}

// Match reports whether two answers are equal ignoring surrounding space
// and case.
func Match(answer, reference string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(reference))
}

// IncorrectFeedback is the feedback for a wrong answer.
func IncorrectFeedback(reference string) string {
	return feedbackIncorrectPrefix + reference
}

// Score maps a judgement to the numeric score reported by the HTTP API.
func Score(r quiz.EvaluationResult) float64 {
	if r.IsCorrect {
		return 1
	}
	return 0
}
