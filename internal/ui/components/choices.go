package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studykit/internal/ui/theme"
)

// Choices is a numbered option list. Cursor is the highlighted option and
// Chosen the recorded one (-1 for none). With Reveal set the list shows the
// correct option and a wrong pick instead of the cursor.
type Choices struct {
	Options      []string
	Cursor       int
	Chosen       int
	Reveal       bool
	CorrectIndex int
}

// NewChoices creates a list with the cursor on chosen, or the first option.
func NewChoices(options []string, chosen int) Choices {
	return Choices{Options: options, Cursor: max(chosen, 0), Chosen: chosen, CorrectIndex: -1}
}

// Update moves the cursor. Selection is left to the caller.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Reveal {
		return c, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	}
	return c, nil
}

// View renders the options.
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		marker := "  "
		if !c.Reveal && i == c.Cursor {
			marker = "▸ "
		}
		picked := " "
		if i == c.Chosen {
			picked = "●"
		}
		line := fmt.Sprintf("%s%s %d) %s", marker, picked, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Reveal && i == c.CorrectIndex:
			style = theme.Correct
		case c.Reveal && i == c.Chosen:
			style = theme.Incorrect
		case c.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
