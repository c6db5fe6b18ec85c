package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studykit/internal/ui/components"
	"github.com/abhisek/studykit/internal/ui/layout"
	"github.com/abhisek/studykit/internal/ui/theme"
)

const bannerArt = `┏━┓╺┳╸╻ ╻╺┳┓╻ ╻╻┏ ╻╺┳╸
┗━┓ ┃ ┃ ┃ ┃┃┗┳┛┣┻┓┃ ┃
┗━┛ ╹ ┗━┛╺┻┛ ╹ ╹ ╹╹ ╹ `

const bannerCompact = "S T U D Y K I T"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

func (h *HomeScreen) render(width, height int) string {
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	sections := []string{renderBanner(cw, compact), renderDocument(h.env.DocumentName(), h.env.Document != nil, cw)}
	if compact {
		sections = append(sections, h.menu.View())
	} else {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(h.menu.ButtonView(buttonWidth)))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func renderBanner(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	art := bannerArt
	if compact || cw < 30 {
		art = bannerCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art)) +
		"\n" + layout.Centered(theme.Subtitle, cw, "Quizzes, notes and flashcards from your documents")
}

func renderDocument(name string, loaded bool, cw int) string {
	if !loaded {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Width(cw - 2).
			Align(lipgloss.Center).
			Render(theme.Hint.Render("Upload a PDF, PNG or JPEG to begin"))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Render(fmt.Sprintf("%s %s",
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Studying"),
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(layout.Truncate(name, cw-14)),
		))
}
