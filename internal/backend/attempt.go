package backend

import (
	"context"

	"github.com/google/uuid"

	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/store"
)

// AttemptData summarizes a completed session for the event log.
func AttemptData(sess *quiz.Session, documentName string) store.QuizAttemptData {
	total := sess.Len()
	score, _ := sess.Score()
	results := sess.Results()

	data := store.QuizAttemptData{
		AttemptID:     uuid.New().String(),
		DocumentID:    sess.DocumentID(),
		DocumentName:  documentName,
		Difficulty:    string(sess.Difficulty()),
		QuestionCount: total,
		CorrectCount:  score.CorrectCount,
		UngradedCount: len(results.Ungraded(total)),
		Percentage:    score.Percentage,
		Answers:       make([]store.GradedAnswerData, 0, total),
	}

	for pos := range total {
		q, _ := sess.Question(pos)
		answer, _ := sess.AnswerAt(pos)
		a := store.GradedAnswerData{
			Position:      pos,
			Question:      q.Text,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectOption(),
		}
		if res, ok := results.Get(pos); ok {
			a.Graded = true
			a.Correct = res.IsCorrect
			a.Feedback = res.Feedback
		}
		data.Answers = append(data.Answers, a)
	}
	return data
}

// RecordAttempt appends a completed session to the event log. A nil repo
// records nothing.
func RecordAttempt(ctx context.Context, repo store.EventRepo, sess *quiz.Session, documentName string) error {
	if repo == nil || sess.State() != quiz.StateCompleted {
		return nil
	}
	return repo.AppendQuizAttempt(ctx, AttemptData(sess, documentName))
}
