package flashcards

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/screen"
	"github.com/abhisek/studykit/internal/studyaids"
	"github.com/abhisek/studykit/internal/ui/components"
	"github.com/abhisek/studykit/internal/ui/layout"
	"github.com/abhisek/studykit/internal/ui/theme"
)

type cardsLoadedMsg struct {
	request int
	cards   []studyaids.Flashcard
	err     error
}

// FlashcardsScreen shows one card at a time; space flips it.
type FlashcardsScreen struct {
	env     *screen.Env
	count   int
	request int
	loading bool
	errMsg  string

	cards   []studyaids.Flashcard
	current int
	flipped bool

	spinner spinner.Model
	cancel  context.CancelFunc
}

var _ screen.Screen = (*FlashcardsScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardsScreen)(nil)
var _ screen.Closer = (*FlashcardsScreen)(nil)

// New creates a flashcards screen generating count cards (0 for the default).
func New(env *screen.Env, count int) *FlashcardsScreen {
	return &FlashcardsScreen{
		env:     env,
		count:   studyaids.ClampFlashcards(count),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Selected)),
	}
}

func (s *FlashcardsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *FlashcardsScreen) Title() string {
	return "Flashcards"
}

func (s *FlashcardsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "r", Description: "New deck"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FlashcardsScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *FlashcardsScreen) load() tea.Cmd {
	s.Close()
	s.request++
	s.loading = true
	s.errMsg = ""

	ctx, cancel := context.WithTimeout(context.Background(), backend.DefaultTimeout)
	s.cancel = cancel
	req, b, id, count := s.request, s.env.Backend, s.env.DocumentID(), s.count
	return tea.Batch(func() tea.Msg {
		defer cancel()
		cards, err := b.Flashcards(ctx, id, count)
		return cardsLoadedMsg{request: req, cards: cards, err: err}
	}, s.spinner.Tick)
}

func (s *FlashcardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cardsLoadedMsg:
		if msg.request != s.request {
			return s, nil
		}
		s.loading = false
		s.cancel = nil
		if msg.err != nil {
			s.env.Logger().WithError(msg.err).Warn("flashcard generation failed")
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.cards = msg.cards
		s.current = 0
		s.flipped = false
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
		case "space", "enter", "f":
			if len(s.cards) > 0 {
				s.flipped = !s.flipped
			}
		case "left", "h", "p":
			s.show(s.current - 1)
		case "right", "l", "n":
			s.show(s.current + 1)
		case "r":
			return s, s.load()
		}
	}
	return s, nil
}

// show moves to card i, clamped to the deck, face up.
func (s *FlashcardsScreen) show(i int) {
	if len(s.cards) == 0 {
		return
	}
	i = max(0, min(i, len(s.cards)-1))
	if i != s.current {
		s.current = i
		s.flipped = false
	}
}

func (s *FlashcardsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	switch {
	case s.loading:
		return components.Frame(s.spinner.View()+" "+theme.Hint.Render(fmt.Sprintf("Making %d flashcards...", s.count)), width, height)
	case s.errMsg != "":
		return components.Frame(theme.ErrorText.Render("Error: "+s.errMsg)+"\n\n"+theme.Hint.Render("Press r to retry."), width, height)
	case len(s.cards) == 0:
		return components.Frame(theme.Hint.Render("No flashcards were generated. Press r to try again."), width, height)
	}

	card := s.cards[s.current]
	side, text, color := "FRONT", card.Front, theme.Highlight
	if s.flipped {
		side, text, color = "BACK", card.Back, theme.Secondary
	}

	face := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(cw-2).
		Height(min(max(height/2, 7), 14)).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(1, 2).
		Render(lipgloss.NewStyle().Foreground(theme.Text).Bold(!s.flipped).Render(text))

	lines := []string{
		layout.Centered(lipgloss.NewStyle().Foreground(color).Bold(true), cw, side),
		face,
		layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), cw, fmt.Sprintf("Card %d of %d", s.current+1, len(s.cards))),
		layout.Centered(theme.Hint, cw, dots(s.current, len(s.cards))),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func dots(current, total int) string {
	var b strings.Builder
	for i := range total {
		if i == current {
			b.WriteString("●")
		} else {
			b.WriteString("·")
		}
	}
	return b.String()
}
