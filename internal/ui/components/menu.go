package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studykit/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu. Disabled items
// are skipped by cursor movement.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// SetDisabled toggles an item. If the selected item becomes disabled the
// cursor moves to the nearest enabled item below, then above.
func (m *Menu) SetDisabled(i int, disabled bool) {
	if i < 0 || i >= len(m.Items) {
		return
	}
	m.Items[i].Disabled = disabled
	if m.Items[m.Selected].Disabled {
		if !m.move(1) {
			m.move(-1)
		}
	}
}

func (m *Menu) move(step int) bool {
	for i := m.Selected + step; i >= 0 && i < len(m.Items); i += step {
		if !m.Items[i].Disabled {
			m.Selected = i
			return true
		}
	}
	return false
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu as plain lines.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Hint.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ButtonView renders the menu as bordered buttons of the given width.
func (m Menu) ButtonView(width int) string {
	buttons := make([]string, len(m.Items))
	for i, item := range m.Items {
		buttons[i] = MenuButton(item.Label, i == m.Selected, item.Disabled, width)
	}
	return strings.Join(buttons, "\n")
}
