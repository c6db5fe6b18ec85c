package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/docstore"
	"github.com/abhisek/studykit/internal/router"
	"github.com/abhisek/studykit/internal/screen"
	"github.com/abhisek/studykit/internal/ui/components"
	"github.com/abhisek/studykit/internal/ui/layout"
	"github.com/abhisek/studykit/internal/ui/theme"
)

type uploadedMsg struct {
	path string
	doc  backend.Document
	err  error
}

// UploadScreen asks for a local file path and uploads the file.
type UploadScreen struct {
	env    *screen.Env
	next   func() screen.Screen
	input  components.TextInput
	busy   bool
	cancel context.CancelFunc
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)
var _ screen.Closer = (*UploadScreen)(nil)

// New creates an upload screen. After a successful upload it replaces
// itself with next(), or returns to the previous screen when next is nil.
func New(env *screen.Env, next func() screen.Screen) *UploadScreen {
	return &UploadScreen{
		env:   env,
		next:  next,
		input: components.NewTextInput("~/Documents/notes.pdf", 48),
	}
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *UploadScreen) Title() string {
	return "Upload"
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Upload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UploadScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadedMsg:
		return s.handleUploaded(msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		if msg.String() == "enter" {
			return s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *UploadScreen) submit() (screen.Screen, tea.Cmd) {
	path := backend.ExpandPath(s.input.Value())
	if path == "" {
		s.input.SetError("Enter the path of a PDF, PNG or JPEG file.")
		return s, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), backend.DefaultTimeout)
	s.cancel = cancel
	s.busy = true

	b, limit := s.env.Backend, s.env.MaxUploadBytes
	return s, func() tea.Msg {
		defer cancel()
		data, err := backend.ReadFile(path, limit)
		if err != nil {
			return uploadedMsg{path: path, err: err}
		}
		doc, err := b.Upload(ctx, filepath.Base(path), data)
		return uploadedMsg{path: path, doc: doc, err: err}
	}
}

func (s *UploadScreen) handleUploaded(msg uploadedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	s.cancel = nil
	if msg.err != nil {
		s.env.Logger().WithError(msg.err).WithField("path", msg.path).Warn("upload failed")
		s.input.SetError(describe(msg.path, msg.err))
		return s, nil
	}

	doc := msg.doc
	s.env.Document = &doc
	s.env.Logger().WithField("document_id", doc.ID).WithField("filename", doc.Filename).Info("document uploaded")

	if s.next != nil {
		next := s.next()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, func() tea.Msg { return router.PopScreenMsg{} }
}

// describe turns an upload failure into a one-line message.
func describe(path string, err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("File not found: %s", path)
	case errors.Is(err, docstore.ErrEmpty):
		return "The file is empty."
	case errors.Is(err, docstore.ErrTooLarge):
		return "The file is too large."
	case errors.Is(err, docstore.ErrUnsupportedType):
		return "Unsupported file type. Use a PDF, PNG or JPEG."
	default:
		return err.Error()
	}
}

func (s *UploadScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	iw := cw - 8 // card border and padding

	var b []string
	b = append(b, layout.Centered(theme.Title, iw, "Upload a document"))
	b = append(b, layout.Centered(theme.Subtitle, iw, "PDF, PNG or JPEG"))
	b = append(b, "")
	b = append(b, lipgloss.NewStyle().Width(iw).Render("Path: "+s.input.View()))
	if s.busy {
		b = append(b, "", layout.Centered(theme.Hint, iw, "Uploading..."))
	}
	if cur := s.env.DocumentName(); cur != "" && !s.busy {
		b = append(b, "", layout.Centered(theme.Hint, iw, "Current: "+cur))
	}

	return components.Frame(components.Card(lipgloss.JoinVertical(lipgloss.Left, b...), cw), width, height)
}
