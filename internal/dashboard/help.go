package dashboard

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// HelpBindings returns the help.KeyMap for the given mode and focus,
// providing context-aware help bar content.
func HelpBindings(mode Mode, focus Focus, showStats bool) help.KeyMap {
	switch mode {
	case ModeNewContact:
		return FormKeyMap(false)
	case ModePhoneForm, ModeEmailForm:
		return FormKeyMap(true)
	case ModeConfirmDelete:
		return ConfirmKeyMap()
	}

	if focus == PaneRight {
		km := DetailKeyMap()
		if showStats {
			km.Stats = statsVisibleBinding()
		}
		return km
	}
	km := ListKeyMap()
	if showStats {
		km.Stats = statsVisibleBinding()
	}
	return km
}

// statsVisibleBinding replaces the statistics hint while the panel is open.
func statsVisibleBinding() key.Binding {
	return key.NewBinding(
		key.WithKeys("s", "r"),
		key.WithHelp("s/r", "hide/refresh stats"),
	)
}
