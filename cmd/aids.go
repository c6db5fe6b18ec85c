package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studykit/internal/studyaids"
)

var notesCmd = &cobra.Command{
	Use:   "notes <file>",
	Short: "Upload a document and print study notes for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		styleVal, _ := cmd.Flags().GetString("style")
		style, err := studyaids.ParseStyle(styleVal)
		if err != nil {
			return err
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
		notes, err := d.backend.Notes(ctx, doc.ID, style)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), notes)
		return nil
	},
}

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards <file>",
	Short: "Upload a document and print flashcards for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		if count < studyaids.MinFlashcards || count > studyaids.MaxFlashcards {
			return fmt.Errorf("invalid --count %d: must be between %d and %d",
				count, studyaids.MinFlashcards, studyaids.MaxFlashcards)
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
		cards, err := d.backend.Flashcards(ctx, doc.ID, count)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, c := range cards {
			fmt.Fprintf(out, "── Card %d/%d ──\n", i+1, len(cards))
			fmt.Fprintf(out, "Q: %s\nA: %s\n\n", c.Front, c.Back)
		}
		return nil
	},
}

func init() {
	notesCmd.Flags().StringP("style", "s", string(studyaids.StyleConcise), "Notes style: concise or detailed")
	flashcardsCmd.Flags().IntP("count", "n", studyaids.DefaultFlashcards, "Number of flashcards")
}
