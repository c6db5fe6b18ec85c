package screen

import (
	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/store"
	"github.com/abhisek/studykit/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens holding in-flight work. The router calls
// Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// Env is shared by every screen of one program. It is only touched from
// Update, so it needs no locking.
type Env struct {
	Backend backend.Backend

	// Events records quiz attempts; nil disables history.
	Events store.EventRepo

	// Document is the current upload, nil until one succeeds.
	Document *backend.Document

	// MaxUploadBytes caps local files read for upload; 0 uses the default.
	MaxUploadBytes int64

	Log logrus.FieldLogger
}

// DocumentName returns the current document's filename, or "".
func (e *Env) DocumentName() string {
	if e == nil || e.Document == nil {
		return ""
	}
	return e.Document.Filename
}

// DocumentID returns the current document's id, or "".
func (e *Env) DocumentID() string {
	if e == nil || e.Document == nil {
		return ""
	}
	return e.Document.ID
}

// Logger returns Log, or the standard logger when unset.
func (e *Env) Logger() logrus.FieldLogger {
	if e == nil || e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}
