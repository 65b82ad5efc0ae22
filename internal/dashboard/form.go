package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// entryForm binds a text input and a type selector for adding one phone or
// email entry. T is contact.PhoneType or contact.EmailType.
type entryForm[T ~string] struct {
	input      textinput.Model
	types      []T
	typeIdx    int
	defaultIdx int
}

// newEntryForm creates a form whose selector starts at def (or the first
// type when def is not in types). The input has no length limit so that
// over-long values reach validation instead of being cut short.
func newEntryForm[T ~string](placeholder string, types []T, def T) entryForm[T] {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Width = 30

	idx := 0
	for i, t := range types {
		if t == def {
			idx = i
			break
		}
	}
	return entryForm[T]{input: ti, types: types, typeIdx: idx, defaultIdx: idx}
}

// Type returns the selected type.
func (f entryForm[T]) Type() T {
	if len(f.types) == 0 {
		return ""
	}
	return f.types[f.typeIdx]
}

// Value returns the text typed so far.
func (f entryForm[T]) Value() string {
	return f.input.Value()
}

// Open focuses the input.
func (f entryForm[T]) Open() (entryForm[T], tea.Cmd) {
	cmd := f.input.Focus()
	return f, cmd
}

// Close blurs the input, keeping its value.
func (f entryForm[T]) Close() entryForm[T] {
	f.input.Blur()
	return f
}

// Reset clears the input and restores the default type.
func (f entryForm[T]) Reset() entryForm[T] {
	f.input.Reset()
	f.input.Blur()
	f.typeIdx = f.defaultIdx
	return f
}

// CycleType moves the selector by delta, wrapping around.
func (f entryForm[T]) CycleType(delta int) entryForm[T] {
	n := len(f.types)
	if n == 0 {
		return f
	}
	f.typeIdx = ((f.typeIdx+delta)%n + n) % n
	return f
}

// Update forwards a message to the text input.
func (f entryForm[T]) Update(msg tea.Msg) (entryForm[T], tea.Cmd) {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the type selector followed by the input.
func (f entryForm[T]) View() string {
	return fmt.Sprintf("%s %s", typeText.Render("‹ "+string(f.Type())+" ›"), f.input.View())
}
