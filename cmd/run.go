package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/studykit/internal/app"
	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/docstore"
	"github.com/abhisek/studykit/internal/grading"
	"github.com/abhisek/studykit/internal/llm"
	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/quizgen"
	"github.com/abhisek/studykit/internal/remote"
	"github.com/abhisek/studykit/internal/screen"
	"github.com/abhisek/studykit/internal/store"
	"github.com/abhisek/studykit/internal/studyaids"
)

// deps holds what a command needs to run quizzes and study aids.
type deps struct {
	store   *store.Store
	backend backend.Backend
	env     *screen.Env
}

func (d *deps) Close() error {
	return d.store.Close()
}

// openDeps opens the event log and selects the backend: the server named by
// --server or STUDYKIT_SERVER when set, otherwise in-process collaborators
// built from the LLM provider configuration.
func openDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	maxUpload, err := maxUploadBytes()
	if err != nil {
		st.Close()
		return nil, err
	}

	b, err := newBackend(ctx, cmd, st.EventRepo(), maxUpload)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &deps{
		store:   st,
		backend: b,
		env: &screen.Env{
			Backend:        b,
			Events:         st.EventRepo(),
			MaxUploadBytes: maxUpload,
			Log:            logrus.StandardLogger(),
		},
	}, nil
}

func newBackend(ctx context.Context, cmd *cobra.Command, events store.EventRepo, maxUpload int64) (backend.Backend, error) {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = os.Getenv("STUDYKIT_SERVER")
	}
	if server != "" {
		logrus.WithField("server", server).Info("using remote backend")
		return remote.New(server), nil
	}

	provider, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w (set STUDYKIT_LLM_PROVIDER and an API key, or use --server)", err)
	}

	grader, err := newGrader(provider)
	if err != nil {
		return nil, err
	}

	docs := docstore.NewMemoryStore(docstore.Config{MaxBytes: maxUpload})
	return backend.NewLocal(
		docs,
		quizgen.New(provider, docs, quizgen.DefaultConfig()),
		grader,
		studyaids.NewService(provider, docs, studyaids.DefaultConfig()),
	), nil
}

// newGrader picks the grader named by STUDYKIT_GRADER.
func newGrader(provider llm.Provider) (quiz.Grader, error) {
	switch g := strings.ToLower(os.Getenv("STUDYKIT_GRADER")); g {
	case "", "exact":
		return grading.ExactGrader{}, nil
	case "llm":
		return grading.NewLLMGrader(provider, grading.DefaultLLMGraderConfig()), nil
	default:
		return nil, fmt.Errorf("unknown STUDYKIT_GRADER %q: must be exact or llm", g)
	}
}

// maxUploadBytes reads STUDYKIT_MAX_UPLOAD_MB, defaulting to the store limit.
func maxUploadBytes() (int64, error) {
	v := os.Getenv("STUDYKIT_MAX_UPLOAD_MB")
	if v == "" {
		return docstore.DefaultConfig().MaxBytes, nil
	}
	mb, err := strconv.Atoi(v)
	if err != nil || mb <= 0 {
		return 0, fmt.Errorf("invalid STUDYKIT_MAX_UPLOAD_MB %q", v)
	}
	return int64(mb) << 20, nil
}

// uploadFile reads path and uploads it, making it the current document.
func (d *deps) uploadFile(ctx context.Context, path string) (backend.Document, error) {
	path = backend.ExpandPath(path)
	data, err := backend.ReadFile(path, d.env.MaxUploadBytes)
	if err != nil {
		return backend.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := d.backend.Upload(ctx, filepath.Base(path), data)
	if err != nil {
		return backend.Document{}, fmt.Errorf("upload %s: %w", path, err)
	}
	d.env.Document = &doc
	logrus.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"size":        doc.Size,
	}).Info("document uploaded")
	return doc, nil
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()
	return app.Run(d.env, nil)
}
