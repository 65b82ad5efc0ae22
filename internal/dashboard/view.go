package dashboard

import (
	"fmt"
	"strings"

	"github.com/smileynet/clientele/internal/contact"
	"github.com/smileynet/clientele/internal/render"
)

// viewList renders the contact list with the cursor and the expanded marker.
func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(headingText.Render("Contacts"))
	b.WriteString("\n\n")

	if len(m.contacts) == 0 {
		b.WriteString(mutedText.Render("No contacts yet. Press a to add one."))
	}
	for i, c := range m.contacts {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		arrow := "▸ "
		if m.selection.Is(c.ID) {
			arrow = "▾ "
		}
		line := marker + arrow + c.Name
		if i == m.cursor && m.focus == PaneLeft {
			line = selectedText.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.mode == ModeNewContact {
		b.WriteString("\n")
		b.WriteString(headingText.Render("New contact"))
		b.WriteString("\n")
		b.WriteString(m.nameInput.View())
	}
	return b.String()
}

// viewDetail renders the selected contact's phones and emails, the open
// form, and the per-section validation messages.
func (m Model) viewDetail() string {
	if !m.detail.Open {
		return mutedText.Render("Select a contact to see details.")
	}

	var b strings.Builder
	b.WriteString(headingText.Render(m.detail.Name))
	b.WriteString("\n\n")

	b.WriteString(headingText.Render("Phones"))
	b.WriteString("\n")
	if len(m.detail.Phones) == 0 {
		b.WriteString(mutedText.Render("  none"))
		b.WriteString("\n")
	}
	for i, p := range m.detail.Phones {
		b.WriteString(m.entryLine(i, string(p.Type), p.Number))
	}
	if m.mode == ModePhoneForm {
		b.WriteString(m.phoneForm.View())
		b.WriteString("\n")
	}
	if m.phoneErr != "" {
		b.WriteString(errorBadge.Render(m.phoneErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headingText.Render("Emails"))
	b.WriteString("\n")
	if len(m.detail.Emails) == 0 {
		b.WriteString(mutedText.Render("  none"))
		b.WriteString("\n")
	}
	for i, e := range m.detail.Emails {
		b.WriteString(m.entryLine(len(m.detail.Phones)+i, string(e.Type), e.Address))
	}
	if m.mode == ModeEmailForm {
		b.WriteString(m.emailForm.View())
		b.WriteString("\n")
	}
	if m.emailErr != "" {
		b.WriteString(errorBadge.Render(m.emailErr))
		b.WriteString("\n")
	}
	return b.String()
}

// entryLine renders one phone or email row; idx counts phones first.
func (m Model) entryLine(idx int, typ, value string) string {
	marker := "  "
	focused := m.focus == PaneRight && idx == m.entryCursor
	if focused {
		marker = "> "
	}
	line := fmt.Sprintf("%s%s: %s", marker, typeText.Render(typ), value)
	if focused {
		line = selectedText.Render(line)
	}
	return line + "\n"
}

// statsPanelHeight is the statistics panel's rendered height: heading,
// one line per figure, and the border.
func statsPanelHeight() int {
	return 1 + len(render.StatsLines(contact.Stats{})) + borderChrome
}

// viewStats renders the statistics panel body.
func viewStats(st contact.Stats) string {
	var b strings.Builder
	b.WriteString(headingText.Render("Statistics"))
	for _, kv := range render.StatsLines(st) {
		fmt.Fprintf(&b, "\n%s: %s", mutedText.Render(kv[0]), kv[1])
	}
	return b.String()
}

// viewConfirm renders the delete confirmation for c.
func viewConfirm(c contact.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Delete %s?\n", headingText.Render(c.Name))
	fmt.Fprintf(&b, "\n  %d phones, %d emails will be removed.", len(c.Phones), len(c.Emails))
	b.WriteString("\n\n  [y] Delete   [any key] Cancel")
	return b.String()
}
