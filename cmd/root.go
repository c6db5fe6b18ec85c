package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/studykit/internal/logging"
	"github.com/abhisek/studykit/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studykit",
	Short: "AI study companion for your documents",
	Long:  "StudyKit: upload a PDF or image, then quiz yourself, review flashcards and read generated study notes.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(cmd); err != nil {
			return err
		}
		return setupLogging(cmd, logging.Options{})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYKIT_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "Base URL of a studykit server (overrides STUDYKIT_SERVER env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file to load; a missing file is ignored")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides STUDYKIT_LOG_LEVEL)")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then STUDYKIT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadEnvFile loads --env-file without overriding variables already set.
func loadEnvFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

var logCloser io.Closer

// setupLogging configures the standard logger. Without an explicit output
// it appends to the state-dir log file, since the TUI owns the terminal.
func setupLogging(cmd *cobra.Command, opts logging.Options) error {
	closeLog()

	opts.Level, _ = cmd.Flags().GetString("log-level")
	if opts.Level == "" {
		opts.Level = os.Getenv("STUDYKIT_LOG_LEVEL")
	}
	if opts.Output == nil && opts.File == "" {
		file, err := logging.DefaultLogFile()
		if err != nil {
			return err
		}
		opts.File = file
	}

	c, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	logCloser = c
	logrus.WithField("command", cmd.CommandPath()).Debug("starting")
	return nil
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}
