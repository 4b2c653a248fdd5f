package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/ui/theme"
)

// NameInput wraps bubbles/textinput for entering a player name. Only
// letters, digits, '-' and '_' are accepted, so the name is always a
// valid progress key.
type NameInput struct {
	Model textinput.Model
}

// NewNameInput creates a focused input prefilled with value.
func NewNameInput(value string, maxWidth int) NameInput {
	ti := textinput.New()
	ti.Placeholder = "player name"
	ti.SetValue(value)
	ti.Focus()
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return NameInput{Model: ti}
}

// Init returns the initial command.
func (n NameInput) Init() tea.Cmd {
	return n.Model.Focus()
}

// Update filters key presses and forwards the rest to the input.
func (n NameInput) Update(msg tea.Msg) (NameInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if key == "space" || len(key) == 1 && !validNameChar(key[0]) {
			return n, nil
		}
	}
	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

// View renders the input.
func (n NameInput) View() string {
	return lipgloss.NewStyle().Foreground(theme.Text).Render(n.Model.View())
}

// Value returns the current input value.
func (n NameInput) Value() string {
	return n.Model.Value()
}

func validNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}
