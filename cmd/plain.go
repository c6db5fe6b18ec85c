package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/store"
)

// plainQuiz configures a line-oriented quiz run.
type plainQuiz struct {
	backend    backend.Backend
	events     store.EventRepo
	doc        backend.Document
	count      int
	difficulty quiz.Difficulty
	in         io.Reader
	out        io.Writer
}

var errInputClosed = errors.New("input closed before the quiz was finished")

// runPlainQuiz drives one quiz session over a reader and writer: generate,
// answer every question, grade, then record the attempt.
func runPlainQuiz(ctx context.Context, p plainQuiz) error {
	out := p.out
	scanner := bufio.NewScanner(p.in)
	sess := quiz.NewSession()

	fmt.Fprintf(out, "Document: %s\n", p.doc.Filename)
	fmt.Fprintf(out, "Generating %d %s questions...\n\n", p.count, p.difficulty)

	if err := sess.Generate(ctx, p.backend, p.doc.ID, p.count, p.difficulty); err != nil {
		return err
	}
	if sess.Len() < p.count {
		fmt.Fprintf(out, "(only %d questions could be generated)\n\n", sess.Len())
	}

	for pos := range sess.Len() {
		q, _ := sess.Question(pos)

		// Display question.
		fmt.Fprintf(out, "── Question %d/%d ──\n", pos+1, sess.Len())
		fmt.Fprintln(out, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}

		idx, err := readChoice(scanner, out, q)
		if err != nil {
			return err
		}
		if err := sess.RecordAnswer(pos, q.Options[idx]); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Grading...")
	ev := quiz.NewEvaluator(p.backend, quiz.WithProgress(func(pr quiz.Progress) {
		if pr.Err != nil {
			fmt.Fprintf(out, "  question %d could not be graded\n", pr.Position+1)
		}
	}))
	if err := sess.Evaluate(ctx, ev); err != nil {
		return err
	}

	printResults(out, sess)

	if err := backend.RecordAttempt(ctx, p.events, sess, p.doc.Filename); err != nil {
		logrus.WithError(err).Warn("quiz attempt not recorded")
		fmt.Fprintf(out, "\n(attempt not saved: %v)\n", err)
	}
	return nil
}

// readChoice prompts until the answer names an option by number, letter or
// text.
func readChoice(scanner *bufio.Scanner, out io.Writer, q quiz.Question) (int, error) {
	for {
		fmt.Fprintf(out, "\nYour answer (1-%d): ", len(q.Options))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errInputClosed
		}
		if idx, ok := parseChoice(strings.TrimSpace(scanner.Text()), q); ok {
			return idx, nil
		}
		fmt.Fprintf(out, "Enter a number from 1 to %d.", len(q.Options))
	}
}

func parseChoice(s string, q quiz.Question) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n - 1, n >= 1 && n <= len(q.Options)
	}
	if len(s) == 1 {
		if c := strings.ToLower(s)[0]; c >= 'a' && int(c-'a') < len(q.Options) {
			return int(c - 'a'), true
		}
	}
	if idx := q.OptionIndex(s); idx >= 0 {
		return idx, true
	}
	return 0, false
}

func printResults(out io.Writer, sess *quiz.Session) {
	fmt.Fprintln(out)
	for pos := range sess.Len() {
		q, _ := sess.Question(pos)
		answer, _ := sess.AnswerAt(pos)

		res, graded := sess.Result(pos)
		switch {
		case !graded:
			fmt.Fprintf(out, "? Q%d not graded. Your answer: %s\n", pos+1, answer)
		case res.IsCorrect:
			fmt.Fprintf(out, "\033[32m✓ Q%d %s\033[0m\n", pos+1, res.Feedback)
		default:
			fmt.Fprintf(out, "\033[31m✗ Q%d %s\033[0m\n", pos+1, res.Feedback)
		}
		if q.Explanation != "" {
			fmt.Fprintf(out, "  Explanation: %s\n", q.Explanation)
		}
	}

	score, _ := sess.Score()
	fmt.Fprintf(out, "\n── Score: %d/%d (%.1f%%) ──\n", score.CorrectCount, score.TotalQuestions, score.Percentage)
	if n := len(sess.Results().Ungraded(sess.Len())); n > 0 {
		fmt.Fprintf(out, "%d question(s) could not be graded and count as incorrect.\n", n)
	}
}
