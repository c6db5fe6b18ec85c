package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studykit/internal/screen"
	"github.com/abhisek/studykit/internal/store"
	"github.com/abhisek/studykit/internal/ui/layout"
	"github.com/abhisek/studykit/internal/ui/theme"
)

// listLimit caps how many attempts the screen loads.
const listLimit = 50

type historyLoadedMsg struct {
	Attempts []store.QuizAttempt
	Err      error
}

type answersLoadedMsg struct {
	AttemptID string
	Answers   []store.GradedAnswer
	Err       error
}

// HistoryScreen displays past quiz attempts and their graded answers.
type HistoryScreen struct {
	eventRepo store.EventRepo
	attempts  []store.QuizAttempt
	answers   map[string][]store.GradedAnswer // attemptID → answers
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		answers:   make(map[string][]store.GradedAnswer),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		attempts, err := repo.QueryQuizAttempts(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.AttemptID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.attempts) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, s.loadAnswers(s.attempts[s.selected].AttemptID)
		}
	}
	return s, nil
}

// loadAnswers fetches an attempt's answers once.
func (s *HistoryScreen) loadAnswers(attemptID string) tea.Cmd {
	if _, ok := s.answers[attemptID]; ok {
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		answers, err := repo.QuizAttemptAnswers(context.Background(), attemptID)
		return answersLoadedMsg{AttemptID: attemptID, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Upload a document and take one!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		score := fmt.Sprintf("%d/%d  %.0f%%", a.CorrectCount, a.QuestionCount, a.Percentage)
		if a.UngradedCount > 0 {
			score += fmt.Sprintf("  (%d ungraded)", a.UngradedCount)
		}
		line := fmt.Sprintf("%s%s  %s  %-6s  %s",
			prefix, a.Timestamp.Local().Format("Jan 02, 2006 15:04"),
			layout.Truncate(a.DocumentName, 24), a.Difficulty, score)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(a.AttemptID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(attemptID string, width int) string {
	answers, ok := s.answers[attemptID]
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("    Loading answers...")) + "\n"
	}
	if len(answers) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("    No answers recorded")) + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		mark, style := "✗", theme.Incorrect
		switch {
		case !a.Graded:
			mark, style = "?", theme.Ungraded
		case a.Correct:
			mark, style = "✓", theme.Correct
		}
		line := fmt.Sprintf("    %s Q%d  %s  →  %s", mark, a.Position+1,
			layout.Truncate(a.Question, 40), layout.Truncate(a.UserAnswer, 24))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
