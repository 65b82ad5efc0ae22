package dashboard

import "github.com/charmbracelet/bubbles/key"

// listKeys holds key bindings for browsing the contact list.
type listKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	New    key.Binding
	Delete key.Binding
	Phone  key.Binding
	Email  key.Binding
	Tab    key.Binding
	Stats  key.Binding
	Quit   key.Binding
}

// ShortHelp returns the list bindings for the help bar.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.New, k.Delete, k.Phone, k.Email, k.Tab, k.Stats, k.Quit}
}

// FullHelp returns the list bindings grouped for expanded help.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.New, k.Delete, k.Phone, k.Email},
		{k.Tab, k.Stats, k.Quit},
	}
}

// detailKeys holds key bindings for browsing the selected contact's entries.
type detailKeys struct {
	Up     key.Binding
	Down   key.Binding
	Delete key.Binding
	Phone  key.Binding
	Email  key.Binding
	Tab    key.Binding
	Stats  key.Binding
	Quit   key.Binding
}

// ShortHelp returns the detail bindings for the help bar.
func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Phone, k.Email, k.Tab, k.Stats, k.Quit}
}

// FullHelp returns the detail bindings grouped for expanded help.
func (k detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Delete},
		{k.Phone, k.Email},
		{k.Tab, k.Stats, k.Quit},
	}
}

// formKeys holds key bindings for text entry.
type formKeys struct {
	Type   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns the form bindings for the help bar.
func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Type, k.Submit, k.Cancel}
}

// FullHelp returns the form bindings grouped for expanded help.
func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Type, k.Submit, k.Cancel}}
}

// confirmKeys holds key bindings for the delete confirmation.
type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

// ShortHelp returns the confirmation bindings for the help bar.
func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

// FullHelp returns the confirmation bindings grouped for expanded help.
func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Yes, k.No}}
}

// ListKeyMap returns the key bindings for the contact list.
func ListKeyMap() listKeys {
	return listKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open/close"),
		),
		New: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new contact"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Phone: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "add phone"),
		),
		Email: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "add email"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "statistics"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DetailKeyMap returns the key bindings for the detail pane.
func DetailKeyMap() detailKeys {
	return detailKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete entry"),
		),
		Phone: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "add phone"),
		),
		Email: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "add email"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "statistics"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// FormKeyMap returns the key bindings for text entry. withType adds the
// type selector binding used by the phone and email forms.
func FormKeyMap(withType bool) formKeys {
	k := formKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
	if withType {
		k.Type = key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "type"),
		)
	}
	return k
}

// ConfirmKeyMap returns the key bindings for the delete confirmation.
func ConfirmKeyMap() confirmKeys {
	return confirmKeys{
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "delete"),
		),
		// "any" is a display-only key for the help bar; any other key cancels.
		No: key.NewBinding(
			key.WithKeys("any"),
			key.WithHelp("any key", "cancel"),
		),
	}
}
