package quiz

import (
	"context"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
)

// EvaluationResult is the grader's judgement for one question.
type EvaluationResult struct {
	IsCorrect bool
	Feedback  string
}

// Results maps question positions to their evaluation. Positions whose
// grading failed are absent. Results is read-only once returned by Evaluate.
type Results struct {
	byPos map[int]EvaluationResult
	order []int
}

// NewResults builds Results from a position map. Positions are ordered
// ascending.
func NewResults(m map[int]EvaluationResult) *Results {
	r := &Results{byPos: make(map[int]EvaluationResult, len(m))}
	for pos, res := range m {
		r.byPos[pos] = res
		r.order = append(r.order, pos)
	}
	slices.Sort(r.order)
	return r
}

func (r *Results) add(pos int, res EvaluationResult) {
	if r.byPos == nil {
		r.byPos = make(map[int]EvaluationResult)
	}
	r.byPos[pos] = res
	r.order = append(r.order, pos)
}

// Get returns the result for pos and whether it was graded.
func (r *Results) Get(pos int) (EvaluationResult, bool) {
	if r == nil {
		return EvaluationResult{}, false
	}
	res, ok := r.byPos[pos]
	return res, ok
}

// Len returns the number of graded positions.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byPos)
}

// Positions returns graded positions in the order they were graded.
func (r *Results) Positions() []int {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// CorrectCount returns the number of results judged correct.
func (r *Results) CorrectCount() int {
	n := 0
	if r == nil {
		return n
	}
	for _, res := range r.byPos {
		if res.IsCorrect {
			n++
		}
	}
	return n
}

// Progress describes one attempted position during an evaluation run.
type Progress struct {
	Position  int
	Total     int
	Attempted int
	Result    *EvaluationResult
	Err       error
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithProgress registers fn to be called after each position is attempted,
// in ascending position order.
func WithProgress(fn func(Progress)) EvaluatorOption {
	return func(e *Evaluator) { e.progress = fn }
}

// WithLogger sets the logger used for grading failures.
func WithLogger(l logrus.FieldLogger) EvaluatorOption {
	return func(e *Evaluator) { e.log = l }
}

// Evaluator grades a quiz one question at a time, in position order.
// A failed grading call omits that position and the run continues.
// The Evaluator never retries.
type Evaluator struct {
	grader   Grader
	progress func(Progress)
	log      logrus.FieldLogger
}

// NewEvaluator creates an Evaluator backed by grader.
func NewEvaluator(grader Grader, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{grader: grader, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate grades every question in set and returns once all positions have
// been attempted.
func (e *Evaluator) Evaluate(ctx context.Context, set *QuestionSet, answers *AnswerTracker) *Results {
	total := set.Len()
	results := &Results{byPos: make(map[int]EvaluationResult, total)}

	for pos := range total {
		q, _ := set.At(pos)
		userAnswer, _ := answers.Get(pos)

		res, err := e.grade(ctx, GradeRequest{
			Question:      q.Text,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectOption(),
		})

		p := Progress{Position: pos, Total: total, Attempted: pos + 1}
		if err != nil {
			gerr := AsGradingError(pos, err)
			e.log.WithError(err).WithField("position", pos).Warn("grading failed, question left ungraded")
			p.Err = gerr
		} else {
			results.add(pos, res)
			p.Result = &res
		}

		if e.progress != nil {
			e.progress(p)
		}
	}

	return results
}

// grade calls the grader. A nil grader fails every position with ErrNoGrader.
func (e *Evaluator) grade(ctx context.Context, req GradeRequest) (EvaluationResult, error) {
	if e.grader == nil {
		return EvaluationResult{}, ErrNoGrader
	}
	return e.grader.Grade(ctx, req)
}

// Score is the aggregate outcome of an evaluation run.
type Score struct {
	CorrectCount   int
	TotalQuestions int
	Percentage     float64
}

// ComputeScore derives the score over total questions. Ungraded positions
// count as not correct; the denominator is always total. Results outside
// [0,total) are ignored.
func ComputeScore(r *Results, total int) Score {
	s := Score{TotalQuestions: total}
	for pos := range total {
		if res, ok := r.Get(pos); ok && res.IsCorrect {
			s.CorrectCount++
		}
	}
	if total > 0 {
		s.Percentage = math.Round(float64(s.CorrectCount)/float64(total)*1000) / 10
	}
	return s
}

// Ungraded returns the positions in [0,total) that have no result.
func (r *Results) Ungraded(total int) []int {
	var out []int
	for pos := range total {
		if _, ok := r.Get(pos); !ok {
			out = append(out, pos)
		}
	}
	return out
}
