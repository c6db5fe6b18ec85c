package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studykit/internal/llm"
	"github.com/abhisek/studykit/internal/quiz"
)

func TestExactGrader(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		reference string
		want      quiz.EvaluationResult
	}{
		{name: "identical", answer: "Go", reference: "Go", want: quiz.EvaluationResult{IsCorrect: true, Feedback: "Correct!"}},
		{name: "case and space", answer: "  kubernetes ", reference: "Kubernetes", want: quiz.EvaluationResult{IsCorrect: true, Feedback: "Correct!"}},
		{name: "wrong", answer: "Rust", reference: "Go", want: quiz.EvaluationResult{Feedback: "Incorrect. The correct answer is: Go"}},
		{name: "empty answer", answer: "", reference: "Go", want: quiz.EvaluationResult{Feedback: "Incorrect. The correct answer is: Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExactGrader{}.Grade(context.Background(), quiz.GradeRequest{
				Question:      "Which language?",
				UserAnswer:    tt.answer,
				CorrectAnswer: tt.reference,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, Score(quiz.EvaluationResult{IsCorrect: true}))
	assert.Equal(t, 0.0, Score(quiz.EvaluationResult{}))
}

func TestLLMGrader_ShortCircuitsLiteralMatch(t *testing.T) {
	mock := llm.NewMockProvider()
	g := NewLLMGrader(mock, DefaultLLMGraderConfig())

	got, err := g.Grade(context.Background(), quiz.GradeRequest{Question: "Q", UserAnswer: "go", CorrectAnswer: "Go"})
	require.NoError(t, err)
	assert.True(t, got.IsCorrect)
	assert.Equal(t, 0, mock.CallCount())
}

func TestLLMGrader_ModelJudgement(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{
		"is_correct": true,
		"feedback":   "Right, PostgreSQL and Postgres are the same database.",
	}))
	g := NewLLMGrader(mock, DefaultLLMGraderConfig())

	got, err := g.Grade(context.Background(), quiz.GradeRequest{
		Question:      "Which database did the candidate use?",
		UserAnswer:    "Postgres",
		CorrectAnswer: "PostgreSQL",
	})
	require.NoError(t, err)
	assert.True(t, got.IsCorrect)
	assert.Contains(t, got.Feedback, "same database")

	req := mock.LastRequest()
	assert.Equal(t, GradeSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Reference answer: PostgreSQL")
	assert.Contains(t, req.Messages[0].Content, "Learner's answer: Postgres")
}

func TestLLMGrader_EmptyFeedbackFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"is_correct": false, "feedback": " "}))
	g := NewLLMGrader(mock, DefaultLLMGraderConfig())

	got, err := g.Grade(context.Background(), quiz.GradeRequest{Question: "Q", UserAnswer: "MySQL", CorrectAnswer: "SQLite"})
	require.NoError(t, err)
	assert.False(t, got.IsCorrect)
	assert.Equal(t, "Incorrect. The correct answer is: SQLite", got.Feedback)
}

func TestLLMGrader_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	g := NewLLMGrader(mock, DefaultLLMGraderConfig())

	_, err := g.Grade(context.Background(), quiz.GradeRequest{Question: "Q", UserAnswer: "a", CorrectAnswer: "b"})
	var unavailable *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))
}

func TestLLMGrader_FailureLeavesPositionUngraded(t *testing.T) {
	set, err := quiz.NewQuestionSet([]quiz.Question{
		{Text: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0},
		{Text: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 1},
	})
	require.NoError(t, err)
	answers := quiz.NewAnswerTracker(2)
	require.NoError(t, answers.Record(0, "a"))
	require.NoError(t, answers.Record(1, "c"))

	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	results := quiz.NewEvaluator(NewLLMGrader(mock, DefaultLLMGraderConfig())).Evaluate(context.Background(), set, answers)

	assert.Equal(t, 1, results.Len())
	_, ok := results.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, results.CorrectCount())
}
