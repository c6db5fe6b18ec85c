package home

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studykit/internal/router"
	"github.com/abhisek/studykit/internal/screen"
	"github.com/abhisek/studykit/internal/screens/flashcards"
	"github.com/abhisek/studykit/internal/screens/history"
	"github.com/abhisek/studykit/internal/screens/notes"
	quizscreen "github.com/abhisek/studykit/internal/screens/quiz"
	"github.com/abhisek/studykit/internal/screens/upload"
	"github.com/abhisek/studykit/internal/ui/components"
	"github.com/abhisek/studykit/internal/ui/layout"
)

// Menu positions.
const (
	itemUpload = iota
	itemQuiz
	itemFlashcards
	itemNotes
	itemHistory
	itemQuit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}

	items := []components.MenuItem{
		itemUpload: {Label: "Upload document", Action: func() tea.Cmd {
			return push(upload.New(env, nil))
		}},
		itemQuiz: {Label: "Take quiz", Action: func() tea.Cmd {
			return h.withDocument(func() screen.Screen { return quizscreen.New(env) })
		}},
		itemFlashcards: {Label: "Flashcards", Action: func() tea.Cmd {
			return h.withDocument(func() screen.Screen { return flashcards.New(env, 0) })
		}},
		itemNotes: {Label: "Study notes", Action: func() tea.Cmd {
			return h.withDocument(func() screen.Screen { return notes.New(env, "") })
		}},
		itemHistory: {Label: "History", Action: func() tea.Cmd {
			return push(history.New(env.Events))
		}, Disabled: env.Events == nil},
		itemQuit: {Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// withDocument opens next directly when a document is loaded, otherwise
// routes through the upload screen first.
func (h *HomeScreen) withDocument(next func() screen.Screen) tea.Cmd {
	if h.env.Document != nil {
		return push(next())
	}
	return push(upload.New(h.env, next))
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "q" {
		return h, tea.Quit
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	return h.render(width, height)
}
