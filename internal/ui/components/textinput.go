package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akarpov/flashka/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a list filter box.
type FilterInput struct {
	Model   textinput.Model
	focused bool
}

// NewFilterInput creates a styled filter input with the given placeholder.
func NewFilterInput(placeholder string) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 40
	return FilterInput{Model: ti}
}

// Init returns nil; the input starts blurred until Focus is called.
func (f FilterInput) Init() tea.Cmd {
	return nil
}

// Focus gives the input keyboard focus.
func (f *FilterInput) Focus() tea.Cmd {
	f.focused = true
	return f.Model.Focus()
}

// Blur removes keyboard focus.
func (f *FilterInput) Blur() {
	f.focused = false
	f.Model.Blur()
}

// Focused reports whether the input has keyboard focus.
func (f FilterInput) Focused() bool {
	return f.focused
}

// Update forwards messages to the underlying input while focused.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	if !f.focused {
		return f, nil
	}
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the filter input with a search prefix.
func (f FilterInput) View() string {
	prefix := lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ ")
	return prefix + f.Model.View()
}

// Value returns the current filter text.
func (f FilterInput) Value() string {
	return f.Model.Value()
}

// Reset clears the filter text.
func (f *FilterInput) Reset() {
	f.Model.SetValue("")
}
