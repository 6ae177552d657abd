package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// Button renders a labelled button. A disabled button ignores focus.
func Button(label string, disabled, focused bool) string {
	switch {
	case disabled:
		return buttonDisabledStyle.Render(label)
	case focused:
		return buttonFocusedStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}

// NewInput returns a text input styled for the console. The caller owns its
// value and pushes every edit to the page controller.
func NewInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 32
	ti.Prompt = "› "
	ti.TextStyle = InputStyle
	ti.PlaceholderStyle = MutedStyle
	return ti
}

func Input(ti textinput.Model) string {
	return ti.View()
}
