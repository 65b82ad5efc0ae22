// Package book binds the contact mutators to a store: each operation
// computes the new list and writes it through before returning.
package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/smileynet/clientele/internal/contact"
	"github.com/smileynet/clientele/internal/store"
)

// ErrContactNotFound is returned by lookups for an ID that is not in the list.
var ErrContactNotFound = errors.New("book: contact not found")

// Book is the mutable contact book used by the CLI and the dashboard.
type Book struct {
	store *store.Store
	ids   contact.IDSource
}

// New creates a Book over a loaded store. ids issues entity IDs.
func New(s *store.Store, ids contact.IDSource) *Book {
	if ids == nil {
		ids = contact.NewClock()
	}
	return &Book{store: s, ids: ids}
}

// Contacts returns a copy of the current list.
func (b *Book) Contacts() []contact.Contact {
	return b.store.Contacts()
}

// Get returns the contact with the given ID.
func (b *Book) Get(id int64) (contact.Contact, error) {
	c, ok := contact.Find(b.store.Contacts(), id)
	if !ok {
		return contact.Contact{}, fmt.Errorf("%w: %d", ErrContactNotFound, id)
	}
	return c, nil
}

// Stats computes statistics over the current list.
func (b *Book) Stats() contact.Stats {
	return contact.ComputeStats(b.store.Contacts())
}

// AddContact creates a contact named name.
func (b *Book) AddContact(ctx context.Context, name string) (contact.Contact, error) {
	id := b.ids.NextID()
	list := contact.AddContact(b.store.Contacts(), name, id)
	if err := b.replace(ctx, list); err != nil {
		return contact.Contact{}, err
	}
	return list[len(list)-1], nil
}

// DeleteContact removes the contact with the given ID, if present.
func (b *Book) DeleteContact(ctx context.Context, id int64) error {
	return b.replace(ctx, contact.DeleteContact(b.store.Contacts(), id))
}

// AddPhone attaches a phone number to a contact. An unknown contact returns
// ErrContactNotFound; invalid numbers return a *contact.ValidationError. In
// both cases nothing is written.
func (b *Book) AddPhone(ctx context.Context, contactID int64, typ contact.PhoneType, number string) (contact.PhoneEntry, error) {
	if _, err := b.Get(contactID); err != nil {
		return contact.PhoneEntry{}, err
	}
	entry := contact.PhoneEntry{ID: b.ids.NextID(), Type: typ, Number: number}
	list, err := contact.AddPhone(b.store.Contacts(), contactID, typ, number, entry.ID)
	if err != nil {
		return contact.PhoneEntry{}, err
	}
	if err := b.replace(ctx, list); err != nil {
		return contact.PhoneEntry{}, err
	}
	return entry, nil
}

// DeletePhone removes a phone entry from a contact, if both exist.
func (b *Book) DeletePhone(ctx context.Context, contactID, phoneID int64) error {
	return b.replace(ctx, contact.DeletePhone(b.store.Contacts(), contactID, phoneID))
}

// AddEmail attaches an email address to a contact. An unknown contact returns
// ErrContactNotFound; invalid addresses return a *contact.ValidationError. In
// both cases nothing is written.
func (b *Book) AddEmail(ctx context.Context, contactID int64, typ contact.EmailType, address string) (contact.EmailEntry, error) {
	if _, err := b.Get(contactID); err != nil {
		return contact.EmailEntry{}, err
	}
	entry := contact.EmailEntry{ID: b.ids.NextID(), Type: typ, Address: address}
	list, err := contact.AddEmail(b.store.Contacts(), contactID, typ, address, entry.ID)
	if err != nil {
		return contact.EmailEntry{}, err
	}
	if err := b.replace(ctx, list); err != nil {
		return contact.EmailEntry{}, err
	}
	return entry, nil
}

// DeleteEmail removes an email entry from a contact, if both exist.
func (b *Book) DeleteEmail(ctx context.Context, contactID, emailID int64) error {
	return b.replace(ctx, contact.DeleteEmail(b.store.Contacts(), contactID, emailID))
}

func (b *Book) replace(ctx context.Context, list []contact.Contact) error {
	if err := b.store.Replace(ctx, list); err != nil {
		return fmt.Errorf("book: %w", err)
	}
	return nil
}
