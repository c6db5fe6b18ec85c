package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studykit/internal/app"
	"github.com/abhisek/studykit/internal/quiz"
	quizscreen "github.com/abhisek/studykit/internal/screens/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <file>",
	Short: "Upload a document and take a quiz on it",
	Long: `Upload a PDF or image and start a multiple-choice quiz straight away.

With --plain the quiz runs line by line on stdin/stdout instead of the
full-screen interface, which suits scripts and dumb terminals.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().IntP("count", "n", quiz.DefaultQuestions, fmt.Sprintf("Number of questions (%d-%d)", quiz.MinQuestions, quiz.MaxQuestions))
	quizCmd.Flags().StringP("difficulty", "d", string(quiz.DifficultyMedium), "Difficulty: easy, medium or hard")
	quizCmd.Flags().Bool("plain", false, "Run a line-oriented quiz instead of the TUI")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	diffVal, _ := cmd.Flags().GetString("difficulty")
	plain, _ := cmd.Flags().GetBool("plain")

	difficulty, err := quiz.ParseDifficulty(diffVal)
	if err != nil {
		return err
	}
	if count < quiz.MinQuestions || count > quiz.MaxQuestions {
		return fmt.Errorf("invalid --count %d: must be between %d and %d", count, quiz.MinQuestions, quiz.MaxQuestions)
	}

	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	doc, err := d.uploadFile(ctx, args[0])
	if err != nil {
		return err
	}

	if plain {
		return runPlainQuiz(ctx, plainQuiz{
			backend:    d.backend,
			events:     d.env.Events,
			doc:        doc,
			count:      count,
			difficulty: difficulty,
			in:         os.Stdin,
			out:        cmd.OutOrStdout(),
		})
	}

	start := quizscreen.New(d.env, quizscreen.WithSettings(count, difficulty), quizscreen.AutoStart())
	return app.Run(d.env, start)
}
