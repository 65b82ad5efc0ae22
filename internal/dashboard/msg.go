// Package dashboard implements a two-pane TUI for managing contacts: the
// contact list on the left, the selected contact's phones and emails on the
// right, with an optional statistics panel below.
package dashboard

import (
	"context"

	"github.com/smileynet/clientele/internal/contact"
)

// Mode represents the current dashboard input mode.
type Mode int

const (
	ModeBrowse        Mode = iota // Navigating the list or the detail entries.
	ModeNewContact                // Typing a new contact name.
	ModePhoneForm                 // Typing a phone number for the selected contact.
	ModeEmailForm                 // Typing an email address for the selected contact.
	ModeConfirmDelete             // Waiting for y/n on a contact deletion.
)

// Focus represents which pane has keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Contact list has focus.
	PaneRight              // Detail entries have focus.
)

// --- Consumer-side interfaces ---

// ContactBook is the contact store the dashboard edits. Every mutating call
// is persisted before it returns.
type ContactBook interface {
	Contacts() []contact.Contact
	AddContact(ctx context.Context, name string) (contact.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
	AddPhone(ctx context.Context, contactID int64, typ contact.PhoneType, number string) (contact.PhoneEntry, error)
	DeletePhone(ctx context.Context, contactID, phoneID int64) error
	AddEmail(ctx context.Context, contactID int64, typ contact.EmailType, address string) (contact.EmailEntry, error)
	DeleteEmail(ctx context.Context, contactID, emailID int64) error
}
