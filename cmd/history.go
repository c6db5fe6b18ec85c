package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studykit/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		attemptID, _ := cmd.Flags().GetString("attempt")

		return withEventRepo(cmd, func(ctx context.Context, repo store.EventRepo) error {
			out := cmd.OutOrStdout()
			if attemptID != "" {
				return printAttemptAnswers(ctx, out, repo, attemptID)
			}

			attempts, err := repo.QueryQuizAttempts(ctx, store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query attempts: %w", err)
			}
			printAttempts(out, attempts)
			return nil
		})
	},
}

func printAttempts(out io.Writer, attempts []store.QuizAttempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(out, "No quiz attempts yet.")
		return
	}

	fmt.Fprintf(out, "%-36s  %-16s  %-24s  %-6s  %7s  %7s  %s\n",
		"Attempt", "Timestamp", "Document", "Level", "Score", "Pct", "Ungraded")
	fmt.Fprintln(out, strings.Repeat("─", 118))
	for _, a := range attempts {
		fmt.Fprintf(out, "%-36s  %-16s  %-24s  %-6s  %7s  %6.1f%%  %d\n",
			a.AttemptID,
			a.Timestamp.Local().Format("2006-01-02 15:04"),
			truncate(a.DocumentName, 24),
			a.Difficulty,
			fmt.Sprintf("%d/%d", a.CorrectCount, a.QuestionCount),
			a.Percentage,
			a.UngradedCount,
		)
	}
}

func printAttemptAnswers(ctx context.Context, out io.Writer, repo store.EventRepo, attemptID string) error {
	answers, err := repo.QuizAttemptAnswers(ctx, attemptID)
	if err != nil {
		return fmt.Errorf("query answers: %w", err)
	}
	if len(answers) == 0 {
		return fmt.Errorf("attempt %s not found", attemptID)
	}

	for _, a := range answers {
		mark := "✗"
		switch {
		case !a.Graded:
			mark = "?"
		case a.Correct:
			mark = "✓"
		}
		fmt.Fprintf(out, "%s Q%d  %s\n", mark, a.Position+1, a.Question)
		fmt.Fprintf(out, "    Your answer:    %s\n", a.UserAnswer)
		fmt.Fprintf(out, "    Correct answer: %s\n", a.CorrectAnswer)
		if a.Feedback != "" {
			fmt.Fprintf(out, "    %s\n", a.Feedback)
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	historyCmd.Flags().String("attempt", "", "Show the answers of one attempt")
}
