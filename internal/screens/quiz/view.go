package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/ui/components"
	"github.com/abhisek/studykit/internal/ui/layout"
	"github.com/abhisek/studykit/internal/ui/theme"
)

func (s *QuizScreen) renderSetup(width, height int) string {
	cw := components.ContentWidth(width)
	iw := cw - 8 // card border and padding

	field := func(i int, label, value string) string {
		style := theme.Unselected
		marker := "  "
		if s.focus == i {
			style = theme.Selected
			marker = "▸ "
		}
		return style.Render(fmt.Sprintf("%s%-12s ◂ %s ▸", marker, label, value))
	}

	lines := []string{
		layout.Centered(theme.Title, iw, "New quiz"),
		layout.Centered(theme.Subtitle, iw, layout.Truncate(s.env.DocumentName(), iw)),
		"",
		field(fieldCount, "Questions", fmt.Sprintf("%2d", s.count)),
		field(fieldDifficulty, "Difficulty", string(s.difficulty)),
		"",
		lipgloss.PlaceHorizontal(iw, lipgloss.Center, components.NewButton("Generate quiz", s.focus == fieldGenerate).View()),
	}
	if s.notice != "" {
		lines = append(lines, "", layout.Centered(theme.Notice, iw, s.notice))
	}

	return components.Frame(components.Card(strings.Join(lines, "\n"), cw), width, height)
}

func (s *QuizScreen) renderGenerating(width, height int) string {
	req := fmt.Sprintf("%s Generating %d %s questions from %s...",
		s.spinner.View(), s.count, s.session.Difficulty(), layout.Truncate(s.env.DocumentName(), 30))
	return components.Frame(lipgloss.NewStyle().Foreground(theme.TextDim).Render(req), width, height)
}

func (s *QuizScreen) renderQuestion(width, height int) string {
	cw := components.ContentWidth(width)
	q, ok := s.session.Current()
	if !ok {
		return ""
	}

	var b strings.Builder

	info := fmt.Sprintf("Question %d of %d", s.session.Cursor()+1, s.session.Len())
	status := fmt.Sprintf("%s  ·  answered %d/%d", s.session.Difficulty(), s.session.Answered(), s.session.Len())
	gap := max(cw-lipgloss.Width(info)-lipgloss.Width(status), 1)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info))
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(status))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choices.View())
	b.WriteString("\n")
	b.WriteString(s.renderStrip(cw))

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Notice, cw, s.notice))
	} else if s.session.IsComplete() {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Hint, cw, "All questions answered. Press s to submit."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderStrip renders one marker per question: answered, unanswered, or
// after evaluation correct, incorrect and ungraded. The cursor is bracketed.
func (s *QuizScreen) renderStrip(cw int) string {
	completed := s.session.State() == qz.StateCompleted
	marks := make([]string, s.session.Len())
	for pos := range marks {
		mark, style := "○", lipgloss.NewStyle().Foreground(theme.TextDim)
		if _, ok := s.session.AnswerAt(pos); ok {
			mark, style = "●", lipgloss.NewStyle().Foreground(theme.Text)
		}
		if completed {
			res, graded := s.session.Result(pos)
			switch {
			case !graded:
				mark, style = "?", theme.Ungraded
			case res.IsCorrect:
				mark, style = "✓", theme.Correct
			default:
				mark, style = "✗", theme.Incorrect
			}
		}
		label := fmt.Sprintf(" %s ", mark)
		if pos == s.session.Cursor() {
			label = fmt.Sprintf("[%s]", mark)
		}
		marks[pos] = style.Render(label)
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(marks, ""))
}

func (s *QuizScreen) renderEvaluating(width, height int) string {
	cw := components.ContentWidth(width)
	lines := []string{
		layout.Centered(theme.Title, cw, s.spinner.View()+" Grading your answers"),
		"",
		components.NewCountBar(s.attempted, s.total, cw).View(),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func (s *QuizScreen) renderResults(width, height int) string {
	cw := components.ContentWidth(width)
	score, _ := s.session.Score()

	scoreStyle := theme.Correct
	switch {
	case score.Percentage < 50:
		scoreStyle = theme.Incorrect
	case score.Percentage < 80:
		scoreStyle = theme.Ungraded
	}
	card := []string{
		scoreStyle.Render(fmt.Sprintf("%d / %d correct", score.CorrectCount, score.TotalQuestions)),
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%.1f%%", score.Percentage)),
	}
	if n := len(s.session.Results().Ungraded(s.session.Len())); n > 0 {
		card = append(card, theme.Ungraded.Render(fmt.Sprintf("%d %s could not be graded", n, plural(n, "question", "questions"))))
	}
	if s.recordErr != nil {
		card = append(card, theme.Hint.Render("Attempt not saved to history"))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Highlight).
		Width(cw - 2).
		Align(lipgloss.Center).
		Render(strings.Join(card, "\n")))
	b.WriteString("\n\n")
	b.WriteString(s.renderStrip(cw))
	b.WriteString("\n\n")
	b.WriteString(s.renderReview(cw))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderReview shows the question under the cursor with its outcome.
func (s *QuizScreen) renderReview(cw int) string {
	q, ok := s.session.Current()
	if !ok {
		return ""
	}
	pos := s.session.Cursor()

	choices := s.choices
	choices.Reveal = true
	choices.CorrectIndex = q.CorrectIndex

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", pos+1, s.session.Len())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(choices.View())
	b.WriteString("\n")

	res, graded := s.session.Result(pos)
	switch {
	case !graded:
		b.WriteString(theme.Ungraded.Render("? Not graded"))
	case res.IsCorrect:
		b.WriteString(theme.Correct.Render("✓ " + res.Feedback))
	default:
		b.WriteString(theme.Incorrect.Render("✗ " + res.Feedback))
	}
	if q.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(q.Explanation))
	}
	return b.String()
}

func (s *QuizScreen) renderError(width, height int) string {
	cw := components.ContentWidth(width)
	msg := "Something went wrong."
	if err := s.session.Err(); err != nil {
		msg = err.Error()
	}
	lines := []string{
		layout.Centered(theme.Incorrect, cw, "Quiz generation failed"),
		"",
		layout.Centered(lipgloss.NewStyle().Foreground(theme.Text), cw, msg),
		"",
		layout.Centered(theme.Hint, cw, "Press r to retry or Enter to change settings."),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
