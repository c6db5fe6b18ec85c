package quiz

import (
	"context"
	"fmt"
	"strings"
)

// State is the lifecycle phase of a Session.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateActive
	StateEvaluating
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateActive:
		return "active"
	case StateEvaluating:
		return "evaluating"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// GenerationTicket tags an in-flight generation request.
type GenerationTicket struct {
	Generation uint64
	Request    GenerateRequest
}

// EvaluationTicket tags an in-flight evaluation run. Questions and Answers
// are private snapshots safe to hand to another goroutine.
type EvaluationTicket struct {
	Generation uint64
	Questions  *QuestionSet
	Answers    *AnswerTracker
}

// Session is the quiz state machine. It owns the question set, answers,
// results and cursor of exactly one quiz. Every generation request bumps
// the generation counter and clears all per-quiz state; responses tagged
// with an older generation are rejected with ErrStale.
//
// Session is not safe for concurrent use. Callers run generators and graders
// elsewhere and feed their responses back through the Complete/Fail methods.
type Session struct {
	state      State
	generation uint64
	request    GenerateRequest

	questions *QuestionSet
	answers   *AnswerTracker
	results   *Results
	score     *Score
	cursor    int
	err       error
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Request starts a new generation, discarding any prior quiz. It is allowed
// from every state.
func (s *Session) Request(docID string, count int, difficulty Difficulty) (GenerationTicket, error) {
	if strings.TrimSpace(docID) == "" {
		return GenerationTicket{}, &ValidationError{Field: "document", Message: "upload a document first"}
	}
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	if _, err := ParseDifficulty(string(difficulty)); err != nil {
		return GenerationTicket{}, err
	}

	s.generation++
	s.state = StateGenerating
	s.request = GenerateRequest{DocumentID: docID, Count: ClampCount(count), Difficulty: difficulty}
	s.questions = nil
	s.answers = nil
	s.results = nil
	s.score = nil
	s.cursor = 0
	s.err = nil

	return GenerationTicket{Generation: s.generation, Request: s.request}, nil
}

func (s *Session) current(gen uint64, want State) error {
	if gen != s.generation {
		return fmt.Errorf("%w: generation %d, current %d", ErrStale, gen, s.generation)
	}
	if s.state != want {
		return fmt.Errorf("%w: session is %s", ErrStale, s.state)
	}
	return nil
}

// CompleteGeneration installs set as the active quiz.
func (s *Session) CompleteGeneration(t GenerationTicket, set *QuestionSet) error {
	if err := s.current(t.Generation, StateGenerating); err != nil {
		return err
	}
	if set.Len() == 0 {
		s.state = StateError
		s.err = &GenerationError{Message: "generator returned no questions"}
		return nil
	}
	s.questions = set
	s.answers = NewAnswerTracker(set.Len())
	s.results = nil
	s.score = nil
	s.cursor = 0
	s.state = StateActive
	return nil
}

// FailGeneration moves the session to the error state.
func (s *Session) FailGeneration(t GenerationTicket, err error) error {
	if cerr := s.current(t.Generation, StateGenerating); cerr != nil {
		return cerr
	}
	s.state = StateError
	s.err = AsGenerationError(err)
	return nil
}

// RecordAnswer stores the option selected for pos. Only allowed while Active.
func (s *Session) RecordAnswer(pos int, option string) error {
	if s.state != StateActive {
		return fmt.Errorf("%w: cannot answer while %s", ErrInvalidTransition, s.state)
	}
	return s.answers.Record(pos, option)
}

// Navigate moves the cursor by delta, clamped to the question range, and
// returns the new cursor. It is a no-op outside Active and Completed.
func (s *Session) Navigate(delta int) int {
	if s.state != StateActive && s.state != StateCompleted {
		return s.cursor
	}
	s.cursor = max(0, min(s.cursor+delta, s.questions.Len()-1))
	return s.cursor
}

// Submit starts evaluation. It is rejected with a ValidationError while any
// question is unanswered.
func (s *Session) Submit() (EvaluationTicket, error) {
	if s.state != StateActive {
		return EvaluationTicket{}, fmt.Errorf("%w: cannot submit while %s", ErrInvalidTransition, s.state)
	}
	if !s.answers.IsComplete(s.questions.Len()) {
		return EvaluationTicket{}, &ValidationError{Field: "answers", Message: "Answer all questions first."}
	}
	s.state = StateEvaluating
	return EvaluationTicket{
		Generation: s.generation,
		Questions:  s.questions,
		Answers:    s.answers.Clone(),
	}, nil
}

// CompleteEvaluation freezes results and the derived score.
func (s *Session) CompleteEvaluation(t EvaluationTicket, results *Results) error {
	if err := s.current(t.Generation, StateEvaluating); err != nil {
		return err
	}
	if results == nil {
		results = NewResults(nil)
	}
	score := ComputeScore(results, s.questions.Len())
	s.results = results
	s.score = &score
	s.state = StateCompleted
	return nil
}

// FailEvaluation moves the session to the error state when a run could not
// be carried out at all. Answers and results are dropped with it.
func (s *Session) FailEvaluation(t EvaluationTicket, err error) error {
	if cerr := s.current(t.Generation, StateEvaluating); cerr != nil {
		return cerr
	}
	s.state = StateError
	s.err = err
	s.answers = nil
	s.results = nil
	s.score = nil
	s.cursor = 0
	return nil
}

// Generate runs a full generation synchronously.
func (s *Session) Generate(ctx context.Context, gen Generator, docID string, count int, difficulty Difficulty) error {
	t, err := s.Request(docID, count, difficulty)
	if err != nil {
		return err
	}
	set, err := gen.GenerateQuiz(ctx, t.Request)
	if err != nil {
		if ferr := s.FailGeneration(t, err); ferr != nil {
			return ferr
		}
		return s.err
	}
	if err := s.CompleteGeneration(t, set); err != nil {
		return err
	}
	return s.err
}

// Evaluate submits and grades synchronously.
func (s *Session) Evaluate(ctx context.Context, ev *Evaluator) error {
	t, err := s.Submit()
	if err != nil {
		return err
	}
	if ev == nil {
		if ferr := s.FailEvaluation(t, ErrNoGrader); ferr != nil {
			return ferr
		}
		return s.err
	}
	return s.CompleteEvaluation(t, ev.Evaluate(ctx, t.Questions, t.Answers))
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Generation returns the current generation counter.
func (s *Session) Generation() uint64 { return s.generation }

// Cursor returns the position of the current question.
func (s *Session) Cursor() int { return s.cursor }

// Len returns the number of questions in the current quiz.
func (s *Session) Len() int { return s.questions.Len() }

// DocumentID returns the document of the latest generation request.
func (s *Session) DocumentID() string { return s.request.DocumentID }

// Difficulty returns the difficulty of the latest generation request.
func (s *Session) Difficulty() Difficulty { return s.request.Difficulty }

// Question returns the question at pos.
func (s *Session) Question(pos int) (Question, error) { return s.questions.At(pos) }

// Current returns the question under the cursor.
func (s *Session) Current() (Question, bool) {
	q, err := s.questions.At(s.cursor)
	return q, err == nil
}

// AnswerAt returns the recorded answer at pos.
func (s *Session) AnswerAt(pos int) (string, bool) { return s.answers.Get(pos) }

// Answered returns the number of answered questions.
func (s *Session) Answered() int { return s.answers.Len() }

// IsComplete reports whether every question has an answer.
func (s *Session) IsComplete() bool {
	return s.questions.Len() > 0 && s.answers.IsComplete(s.questions.Len())
}

// Result returns the evaluation of pos once Completed.
func (s *Session) Result(pos int) (EvaluationResult, bool) { return s.results.Get(pos) }

// Results returns the results of the completed run, or nil.
func (s *Session) Results() *Results { return s.results }

// Score returns the frozen score once Completed.
func (s *Session) Score() (Score, bool) {
	if s.score == nil {
		return Score{}, false
	}
	return *s.score, true
}

// Err returns the failure that moved the session to StateError.
func (s *Session) Err() error { return s.err }
