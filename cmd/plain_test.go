package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/grading"
	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/store"
)

type fakeBackend struct {
	backend.Backend
	questions []quiz.Question
	genErr    error
	gradeErr  error
	req       quiz.GenerateRequest
}

func (f *fakeBackend) GenerateQuiz(_ context.Context, r quiz.GenerateRequest) (*quiz.QuestionSet, error) {
	f.req = r
	if f.genErr != nil {
		return nil, &quiz.GenerationError{Message: "LLM generation failed", Err: f.genErr}
	}
	return quiz.NewQuestionSet(f.questions)
}

func (f *fakeBackend) Grade(_ context.Context, r quiz.GradeRequest) (quiz.EvaluationResult, error) {
	if f.gradeErr != nil && strings.HasPrefix(r.Question, "Ungradable") {
		return quiz.EvaluationResult{}, f.gradeErr
	}
	if r.UserAnswer == r.CorrectAnswer {
		return quiz.EvaluationResult{IsCorrect: true, Feedback: "Correct!"}, nil
	}
	return quiz.EvaluationResult{Feedback: "Incorrect. The correct answer is: " + r.CorrectAnswer}, nil
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "studykit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{Text: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo", "Bern"}, CorrectIndex: 0, Explanation: "Paris is the capital."},
		{Text: "2 + 2?", Options: []string{"3", "4", "5", "22"}, CorrectIndex: 1},
		{Text: "Ungradable opinion?", Options: []string{"Yes", "No", "Maybe", "Never"}, CorrectIndex: 2},
	}
}

func TestRunPlainQuiz(t *testing.T) {
	st := openTestStore(t)
	b := &fakeBackend{questions: testQuestions(), gradeErr: errors.New("grader offline")}
	var out bytes.Buffer

	// Letter, invalid then number, and option text.
	in := strings.NewReader("a\n9\n3\nMaybe\n")
	err := runPlainQuiz(context.Background(), plainQuiz{
		backend:    b,
		events:     st.EventRepo(),
		doc:        backend.Document{ID: "doc-1", Filename: "geo.pdf"},
		count:      3,
		difficulty: quiz.DifficultyEasy,
		in:         in,
		out:        &out,
	})
	require.NoError(t, err)

	assert.Equal(t, quiz.GenerateRequest{DocumentID: "doc-1", Count: 3, Difficulty: quiz.DifficultyEasy}, b.req)

	text := out.String()
	assert.Contains(t, text, "── Question 1/3 ──")
	assert.Contains(t, text, "Enter a number from 1 to 4.")
	assert.Contains(t, text, "✓ Q1 Correct!")
	assert.Contains(t, text, "✗ Q2 Incorrect. The correct answer is: 4")
	assert.Contains(t, text, "? Q3 not graded")
	assert.Contains(t, text, "Explanation: Paris is the capital.")
	assert.Contains(t, text, "── Score: 1/3 (33.3%) ──")
	assert.Contains(t, text, "1 question(s) could not be graded")

	attempts, err := st.EventRepo().QueryQuizAttempts(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "geo.pdf", attempts[0].DocumentName)
	assert.Equal(t, 1, attempts[0].CorrectCount)
	assert.Equal(t, 1, attempts[0].UngradedCount)
}

func TestRunPlainQuiz_GenerationError(t *testing.T) {
	b := &fakeBackend{genErr: errors.New("rate limited")}
	var out bytes.Buffer
	err := runPlainQuiz(context.Background(), plainQuiz{
		backend: b, doc: backend.Document{ID: "doc-1"}, count: 5,
		difficulty: quiz.DifficultyMedium, in: strings.NewReader(""), out: &out,
	})
	require.Error(t, err)
	assert.NotNil(t, quiz.AsGenerationError(err))
}

func TestRunPlainQuiz_InputClosed(t *testing.T) {
	b := &fakeBackend{questions: testQuestions()}
	var out bytes.Buffer
	err := runPlainQuiz(context.Background(), plainQuiz{
		backend: b, doc: backend.Document{ID: "doc-1"}, count: 3,
		difficulty: quiz.DifficultyMedium, in: strings.NewReader("1\n"), out: &out,
	})
	assert.ErrorIs(t, err, errInputClosed)
}

func TestParseChoice(t *testing.T) {
	q := testQuestions()[0]
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 0, true},
		{"4", 3, true},
		{"0", 0, false},
		{"5", 0, false},
		{"b", 1, true},
		{"D", 3, true},
		{"e", 0, false},
		{"Oslo", 2, true},
		{"", 0, false},
		{"Madrid", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseChoice(tt.in, q)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPrintAttempts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	repo := st.EventRepo()

	var out bytes.Buffer
	printAttempts(&out, nil)
	assert.Contains(t, out.String(), "No quiz attempts yet.")

	require.NoError(t, repo.AppendQuizAttempt(ctx, store.QuizAttemptData{
		AttemptID: "att-1", DocumentID: "doc-1", DocumentName: "geo.pdf", Difficulty: "easy",
		QuestionCount: 2, CorrectCount: 1, Percentage: 50,
		Answers: []store.GradedAnswerData{
			{Position: 0, Question: "Capital of France?", UserAnswer: "Paris", CorrectAnswer: "Paris", Graded: true, Correct: true, Feedback: "Correct!"},
			{Position: 1, Question: "2 + 2?", UserAnswer: "5", CorrectAnswer: "4"},
		},
	}))

	attempts, err := repo.QueryQuizAttempts(ctx, store.QueryOpts{})
	require.NoError(t, err)
	out.Reset()
	printAttempts(&out, attempts)
	assert.Contains(t, out.String(), "att-1")
	assert.Contains(t, out.String(), "1/2")
	assert.Contains(t, out.String(), "50.0%")

	out.Reset()
	require.NoError(t, printAttemptAnswers(ctx, &out, repo, "att-1"))
	assert.Contains(t, out.String(), "✓ Q1  Capital of France?")
	assert.Contains(t, out.String(), "? Q2  2 + 2?")

	assert.Error(t, printAttemptAnswers(ctx, &out, repo, "missing"))
}

func TestNewGrader(t *testing.T) {
	t.Setenv("STUDYKIT_GRADER", "")
	g, err := newGrader(nil)
	require.NoError(t, err)
	assert.IsType(t, grading.ExactGrader{}, g)

	t.Setenv("STUDYKIT_GRADER", "LLM")
	g, err = newGrader(nil)
	require.NoError(t, err)
	assert.IsType(t, &grading.LLMGrader{}, g)

	t.Setenv("STUDYKIT_GRADER", "fuzzy")
	_, err = newGrader(nil)
	assert.Error(t, err)
}

func TestMaxUploadBytes(t *testing.T) {
	t.Setenv("STUDYKIT_MAX_UPLOAD_MB", "")
	n, err := maxUploadBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(10<<20), n)

	t.Setenv("STUDYKIT_MAX_UPLOAD_MB", "2")
	n, err = maxUploadBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), n)

	t.Setenv("STUDYKIT_MAX_UPLOAD_MB", "-1")
	_, err = maxUploadBytes()
	assert.Error(t, err)
}
