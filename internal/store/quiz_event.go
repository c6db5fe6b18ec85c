package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendQuizAttempt(ctx context.Context, data QuizAttemptData) error {
	if data.AttemptID == "" {
		return fmt.Errorf("quiz attempt id is required")
	}

	first, err := r.seq.Reserve(ctx, 1+len(data.Answers))
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := builder().Insert(QuizAttemptsTable.Name).
		Columns(
			"sequence", "timestamp", "attempt_id", "document_id", "document_name",
			"difficulty", "question_count", "correct_count", "ungraded_count", "percentage",
		).
		Values(
			first, now, data.AttemptID, data.DocumentID, data.DocumentName,
			data.Difficulty, data.QuestionCount, data.CorrectCount, data.UngradedCount, data.Percentage,
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}

	if len(data.Answers) > 0 {
		ins := builder().Insert(GradedAnswersTable.Name).
			Columns(
				"sequence", "timestamp", "attempt_id", "position", "question",
				"user_answer", "correct_answer", "graded", "correct", "feedback",
			)
		for i, a := range data.Answers {
			ins.Values(
				first+int64(i)+1, now, data.AttemptID, a.Position, a.Question,
				a.UserAnswer, a.CorrectAnswer, a.Graded, a.Correct, a.Feedback,
			)
		}
		query, args := ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save graded answers: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit quiz attempt: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizAttempts(ctx context.Context, opts QueryOpts) ([]QuizAttempt, error) {
	sel := builder().Select(
		"id", "sequence", "timestamp", "attempt_id", "document_id", "document_name",
		"difficulty", "question_count", "correct_count", "ungraded_count", "percentage",
	).From(entsql.Table(QuizAttemptsTable.Name))
	query, args := applyQueryOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []QuizAttempt
	for rows.Next() {
		var a QuizAttempt
		if err := rows.Scan(
			&a.ID, &a.Sequence, &a.Timestamp, &a.AttemptID, &a.DocumentID, &a.DocumentName,
			&a.Difficulty, &a.QuestionCount, &a.CorrectCount, &a.UngradedCount, &a.Percentage,
		); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *eventRepo) QuizAttemptAnswers(ctx context.Context, attemptID string) ([]GradedAnswer, error) {
	query, args := builder().Select(
		"id", "sequence", "timestamp", "attempt_id", "position", "question",
		"user_answer", "correct_answer", "graded", "correct", "feedback",
	).
		From(entsql.Table(GradedAnswersTable.Name)).
		Where(entsql.EQ("attempt_id", attemptID)).
		OrderBy("position").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query graded answers: %w", err)
	}
	defer rows.Close()

	var answers []GradedAnswer
	for rows.Next() {
		var a GradedAnswer
		if err := rows.Scan(
			&a.ID, &a.Sequence, &a.Timestamp, &a.AttemptID, &a.Position, &a.Question,
			&a.UserAnswer, &a.CorrectAnswer, &a.Graded, &a.Correct, &a.Feedback,
		); err != nil {
			return nil, fmt.Errorf("scan graded answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
