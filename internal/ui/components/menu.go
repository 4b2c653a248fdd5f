package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/ui/theme"
)

// MenuItem is one entry in a Menu. Hint is shown under the menu while
// the item is selected.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of buttons. Up/down (or k/j) move and wrap,
// skipping disabled items; enter or the item's number activates it.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	return m
}

// move steps the selection by dir, wrapping and skipping disabled items.
// The selection stays put when nothing else is enabled.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Items) && !m.Items[n-1].Disabled {
			m.Selected = n - 1
			return m, m.activate(m.Selected)
		}
	}
	return m, nil
}

// View centres the buttons in cw, followed by the selected item's hint.
func (m Menu) View(cw int) string {
	rows := make([]string, 0, len(m.Items)+1)
	for i, item := range m.Items {
		label := item.Label
		if item.Disabled {
			label = lipgloss.NewStyle().Foreground(theme.TextDim).Strikethrough(true).Render(label)
		}
		rows = append(rows, MenuButton(label, i == m.Selected))
	}
	if m.Selected >= 0 && m.Items[m.Selected].Hint != "" {
		rows = append(rows, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(m.Items[m.Selected].Hint))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}
