package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learncricket/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice is a four-option answer picker. It only tracks the cursor;
// whether an answer is right is decided by the session.
type MultiChoice struct {
	Prompt   string
	Options  []string
	Selected int
}

// NewMultiChoice creates a picker with the first option selected.
func NewMultiChoice(prompt string, options []string) MultiChoice {
	return MultiChoice{Prompt: prompt, Options: options}
}

// Move shifts the cursor by delta, clamped to the options.
func (m MultiChoice) Move(delta int) MultiChoice {
	m.Selected = min(max(m.Selected+delta, 0), len(m.Options)-1)
	return m
}

// ChoiceForKey maps "1".."4" and "a".."d" to an option index.
func (m MultiChoice) ChoiceForKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var idx int
	switch {
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		idx = int(c - 'A')
	default:
		return 0, false
	}
	if idx >= len(m.Options) {
		return 0, false
	}
	return idx, true
}

// View renders the prompt and options, width-wrapped.
func (m MultiChoice) View(width int) string {
	var b strings.Builder

	prompt := lipgloss.NewStyle().
		Width(min(width-4, 72)).
		Foreground(theme.Text).
		Bold(true).
		Render(m.Prompt)
	b.WriteString(prompt)
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == m.Selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s)  %s", prefix, label, opt)))
		b.WriteString("\n")
	}
	return b.String()
}
