package notes

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/screen"
	"github.com/abhisek/studykit/internal/studyaids"
	"github.com/abhisek/studykit/internal/ui/components"
	"github.com/abhisek/studykit/internal/ui/layout"
	"github.com/abhisek/studykit/internal/ui/theme"
)

type notesLoadedMsg struct {
	request int
	notes   string
	err     error
}

// NotesScreen shows scrollable study notes for the current document.
type NotesScreen struct {
	env     *screen.Env
	style   studyaids.Style
	request int
	loading bool
	notes   string
	errMsg  string

	viewport viewport.Model
	wrapped  int
	spinner  spinner.Model
	cancel   context.CancelFunc
}

var _ screen.Screen = (*NotesScreen)(nil)
var _ screen.KeyHintProvider = (*NotesScreen)(nil)
var _ screen.Closer = (*NotesScreen)(nil)

// New creates a notes screen. An empty style means concise.
func New(env *screen.Env, style studyaids.Style) *NotesScreen {
	if style == "" {
		style = studyaids.StyleConcise
	}
	return &NotesScreen{
		env:      env,
		style:    style,
		viewport: viewport.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Selected)),
	}
}

func (s *NotesScreen) Init() tea.Cmd {
	return s.load()
}

func (s *NotesScreen) Title() string {
	return "Study Notes"
}

func (s *NotesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "s", Description: "Concise/Detailed"},
		{Key: "r", Description: "Regenerate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *NotesScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *NotesScreen) load() tea.Cmd {
	s.Close()
	s.request++
	s.loading = true
	s.errMsg = ""

	ctx, cancel := context.WithTimeout(context.Background(), backend.DefaultTimeout)
	s.cancel = cancel
	req, b, id, style := s.request, s.env.Backend, s.env.DocumentID(), s.style
	return tea.Batch(func() tea.Msg {
		defer cancel()
		notes, err := b.Notes(ctx, id, style)
		return notesLoadedMsg{request: req, notes: notes, err: err}
	}, s.spinner.Tick)
}

func (s *NotesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notesLoadedMsg:
		if msg.request != s.request {
			return s, nil
		}
		s.loading = false
		s.cancel = nil
		if msg.err != nil {
			s.env.Logger().WithError(msg.err).Warn("notes generation failed")
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.notes = msg.notes
		s.wrapped = 0
		s.viewport.GotoTop()
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			if s.style == studyaids.StyleConcise {
				s.style = studyaids.StyleDetailed
			} else {
				s.style = studyaids.StyleConcise
			}
			return s, s.load()
		case "r":
			return s, s.load()
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *NotesScreen) View(width, height int) string {
	cw := min(width-4, 96)
	header := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(layout.Truncate(s.env.DocumentName(), cw-20)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ·  "+string(s.style))

	var body string
	switch {
	case s.loading:
		body = s.spinner.View() + " " + theme.Hint.Render("Writing "+string(s.style)+" notes...")
	case s.errMsg != "":
		body = theme.ErrorText.Render("Error: "+s.errMsg) + "\n\n" + theme.Hint.Render("Press r to retry.")
	default:
		s.resize(cw, height-3)
		body = s.viewport.View()
		if !s.viewport.AtBottom() {
			body += "\n" + theme.Hint.Render(components.NewProgressBar("", s.viewport.ScrollPercent(), true, 24).View())
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(header+"\n\n"+body))
}

// resize fits the viewport to the area and rewraps the notes on width change.
func (s *NotesScreen) resize(width, height int) {
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(height-1, 1))
	if s.wrapped != width {
		s.viewport.SetContent(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(s.notes))
		s.wrapped = width
	}
}
