package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	set *QuestionSet
	err error
	req GenerateRequest
}

func (g *stubGenerator) GenerateQuiz(_ context.Context, req GenerateRequest) (*QuestionSet, error) {
	g.req = req
	return g.set, g.err
}

func activeSession(t *testing.T, n int) *Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, s.Generate(context.Background(), &stubGenerator{set: testSet(t, n)}, "doc-1", n, DifficultyMedium))
	require.Equal(t, StateActive, s.State())
	return s
}

func answerAll(t *testing.T, s *Session) {
	t.Helper()
	for pos := range s.Len() {
		q, err := s.Question(pos)
		require.NoError(t, err)
		require.NoError(t, s.RecordAnswer(pos, q.CorrectOption()))
	}
}

func TestSession_RequestRequiresDocument(t *testing.T) {
	s := NewSession()
	_, err := s.Request("", 5, DifficultyEasy)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, uint64(0), s.Generation())
}

func TestSession_RequestRejectsUnknownDifficulty(t *testing.T) {
	s := NewSession()
	_, err := s.Request("doc", 5, Difficulty("brutal"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_RequestClampsCount(t *testing.T) {
	s := NewSession()
	ticket, err := s.Request("doc", 50, "")
	require.NoError(t, err)
	assert.Equal(t, MaxQuestions, ticket.Request.Count)
	assert.Equal(t, DifficultyMedium, ticket.Request.Difficulty)
	assert.Equal(t, StateGenerating, s.State())
}

func TestSession_GenerationSuccess(t *testing.T) {
	gen := &stubGenerator{set: testSet(t, 3)}
	s := NewSession()
	require.NoError(t, s.Generate(context.Background(), gen, "doc-1", 3, DifficultyHard))

	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.Answered())
	assert.Equal(t, "doc-1", gen.req.DocumentID)
	assert.Equal(t, DifficultyHard, gen.req.Difficulty)

	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Question 0?", q.Text)
}

func TestSession_GenerationFailure(t *testing.T) {
	s := NewSession()
	err := s.Generate(context.Background(), &stubGenerator{err: errors.New("502 bad gateway")}, "doc-1", 3, DifficultyEasy)

	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, StateError, s.State())
	require.ErrorAs(t, s.Err(), &gerr)

	// Inert until a new request.
	assert.ErrorIs(t, s.RecordAnswer(0, "alpha"), ErrInvalidTransition)
	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, s.Navigate(1))

	require.NoError(t, s.Generate(context.Background(), &stubGenerator{set: testSet(t, 2)}, "doc-1", 2, DifficultyEasy))
	assert.Equal(t, StateActive, s.State())
	assert.NoError(t, s.Err())
}

func TestSession_EmptySetIsGenerationError(t *testing.T) {
	s := NewSession()
	empty, err := NewQuestionSet(nil)
	require.NoError(t, err)

	err = s.Generate(context.Background(), &stubGenerator{set: empty}, "doc", 3, DifficultyEasy)
	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, StateError, s.State())
}

func TestSession_AnswerDoesNotMoveCursor(t *testing.T) {
	s := activeSession(t, 3)
	require.NoError(t, s.RecordAnswer(2, "beta"))
	assert.Equal(t, 0, s.Cursor())

	got, ok := s.AnswerAt(2)
	assert.True(t, ok)
	assert.Equal(t, "beta", got)
	assert.ErrorIs(t, s.RecordAnswer(3, "beta"), ErrOutOfRange)
}

func TestSession_NavigateClamps(t *testing.T) {
	s := activeSession(t, 3)

	assert.Equal(t, 0, s.Navigate(-1))
	assert.Equal(t, 1, s.Navigate(1))
	assert.Equal(t, 2, s.Navigate(1))
	assert.Equal(t, 2, s.Navigate(1))
	assert.Equal(t, 2, s.Navigate(10))
	assert.Equal(t, 0, s.Navigate(-10))
}

func TestSession_SubmitGatedByCompleteness(t *testing.T) {
	s := activeSession(t, 3)
	require.NoError(t, s.RecordAnswer(0, "alpha"))
	require.NoError(t, s.RecordAnswer(1, "alpha"))

	_, err := s.Submit()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StateActive, s.State())

	require.NoError(t, s.RecordAnswer(2, "alpha"))
	_, err = s.Submit()
	require.NoError(t, err)
	assert.Equal(t, StateEvaluating, s.State())

	// Evaluating is exclusive.
	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, s.RecordAnswer(0, "beta"), ErrInvalidTransition)
}

func TestSession_EndToEndPartialGrading(t *testing.T) {
	s := activeSession(t, 3)
	answerAll(t, s)
	require.True(t, s.IsComplete())

	g := &scriptedGrader{failFor: map[string]bool{"Question 1?": true}}
	require.NoError(t, s.Evaluate(context.Background(), NewEvaluator(g)))

	assert.Equal(t, StateCompleted, s.State())
	score, ok := s.Score()
	require.True(t, ok)
	assert.Equal(t, 3, score.TotalQuestions)
	assert.Equal(t, 2, score.CorrectCount)
	assert.Equal(t, 66.7, score.Percentage)

	_, graded := s.Result(1)
	assert.False(t, graded)
	r0, graded := s.Result(0)
	assert.True(t, graded)
	assert.True(t, r0.IsCorrect)
}

func TestSession_CompletedIsBrowseOnly(t *testing.T) {
	s := activeSession(t, 2)
	answerAll(t, s)
	require.NoError(t, s.Evaluate(context.Background(), NewEvaluator(&scriptedGrader{})))

	assert.Equal(t, 1, s.Navigate(1))
	assert.Equal(t, 1, s.Navigate(1))
	assert.Equal(t, 0, s.Navigate(-1))
	assert.ErrorIs(t, s.RecordAnswer(0, "beta"), ErrInvalidTransition)
}

func TestSession_EvaluateWithoutGrader(t *testing.T) {
	s := activeSession(t, 1)
	answerAll(t, s)
	s.Navigate(1)
	err := s.Evaluate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoGrader)
	assert.Equal(t, StateError, s.State())
	assert.Equal(t, 0, s.Answered())
	assert.False(t, s.IsComplete())
	assert.Equal(t, 0, s.Cursor())
	assert.Nil(t, s.Results())
	_, ok := s.Score()
	assert.False(t, ok)
}

func TestSession_FailEvaluationDropsAnswers(t *testing.T) {
	s := activeSession(t, 2)
	answerAll(t, s)
	tk, err := s.Submit()
	require.NoError(t, err)

	require.NoError(t, s.FailEvaluation(tk, errors.New("grader offline")))
	assert.Equal(t, StateError, s.State())
	assert.Equal(t, 0, s.Answered())
	assert.False(t, s.IsComplete())
	_, ok := s.AnswerAt(0)
	assert.False(t, ok)

	// A second failure for the same run is stale.
	assert.ErrorIs(t, s.FailEvaluation(tk, errors.New("again")), ErrStale)
}

func TestSession_RegenerationClearsAnswers(t *testing.T) {
	s := activeSession(t, 2)
	answerAll(t, s)
	require.True(t, s.IsComplete())
	s.Navigate(1)

	_, err := s.Request("doc-1", 2, DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, StateGenerating, s.State())
	assert.Equal(t, 0, s.Answered())
	assert.False(t, s.IsComplete())
	assert.Equal(t, 0, s.Cursor())
	assert.Nil(t, s.Results())

	_, ok := s.Score()
	assert.False(t, ok)
}

func TestSession_RegenerationAfterCompletion(t *testing.T) {
	s := activeSession(t, 2)
	answerAll(t, s)
	require.NoError(t, s.Evaluate(context.Background(), NewEvaluator(&scriptedGrader{})))

	require.NoError(t, s.Generate(context.Background(), &stubGenerator{set: testSet(t, 4)}, "doc-2", 4, DifficultyEasy))
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 0, s.Answered())
	_, graded := s.Result(0)
	assert.False(t, graded)
}

func TestSession_StaleGenerationDropped(t *testing.T) {
	s := NewSession()
	first, err := s.Request("doc", 3, DifficultyEasy)
	require.NoError(t, err)
	second, err := s.Request("doc", 2, DifficultyHard)
	require.NoError(t, err)

	// The newer response lands first.
	require.NoError(t, s.CompleteGeneration(second, testSet(t, 2)))

	err = s.CompleteGeneration(first, testSet(t, 3))
	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, 2, s.Len())

	err = s.FailGeneration(first, errors.New("late failure"))
	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, StateActive, s.State())
}

func TestSession_StaleGenerationWhileGenerating(t *testing.T) {
	s := NewSession()
	first, _ := s.Request("doc", 3, DifficultyEasy)
	_, _ = s.Request("doc", 3, DifficultyEasy)

	assert.ErrorIs(t, s.CompleteGeneration(first, testSet(t, 3)), ErrStale)
	assert.Equal(t, StateGenerating, s.State())
	assert.Equal(t, 0, s.Len())
}

func TestSession_StaleEvaluationDropped(t *testing.T) {
	s := activeSession(t, 2)
	answerAll(t, s)
	ticket, err := s.Submit()
	require.NoError(t, err)

	// The user regenerates while grading is in flight.
	require.NoError(t, s.Generate(context.Background(), &stubGenerator{set: testSet(t, 2)}, "doc-1", 2, DifficultyEasy))

	late := NewEvaluator(&scriptedGrader{}).Evaluate(context.Background(), ticket.Questions, ticket.Answers)
	assert.ErrorIs(t, s.CompleteEvaluation(ticket, late), ErrStale)
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 0, s.Answered())
}

func TestSession_EvaluationTicketIsSnapshot(t *testing.T) {
	s := activeSession(t, 1)
	answerAll(t, s)
	ticket, err := s.Submit()
	require.NoError(t, err)

	require.NoError(t, ticket.Answers.Record(0, "mutated"))
	got, _ := s.AnswerAt(0)
	assert.NotEqual(t, "mutated", got)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "State(42)", State(42).String())
}
