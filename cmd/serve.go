package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/studykit/internal/api"
	"github.com/abhisek/studykit/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload, study aid and quiz HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		format, _ := cmd.Flags().GetString("log-format")

		// The server has no TUI, so logs go to stderr.
		if err := setupLogging(cmd, logging.Options{Format: format, Output: os.Stderr}); err != nil {
			return err
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(d.backend, api.Config{MaxUploadBytes: d.env.MaxUploadBytes})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "Address to listen on")
	serveCmd.Flags().String("log-format", "json", "Log format: json or text")
}
