package book

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/smileynet/clientele/internal/contact"
	"github.com/smileynet/clientele/internal/store"
)

// seqIDs issues 1, 2, 3, ...
type seqIDs struct{ next int64 }

func (s *seqIDs) NextID() int64 {
	s.next++
	return s.next
}

func newBook(t *testing.T) (*Book, *store.MemoryBackend) {
	t.Helper()
	backend := store.NewMemoryBackend()
	s := store.New(backend)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return New(s, &seqIDs{}), backend
}

// assertPersisted checks that the backend holds exactly the book's list.
func assertPersisted(t *testing.T, b *Book, backend *store.MemoryBackend) {
	t.Helper()
	data, found, err := backend.Get(context.Background(), store.DefaultKey)
	if err != nil || !found {
		t.Fatalf("backend Get: found=%v err=%v", found, err)
	}
	var got []contact.Contact
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if want := b.Contacts(); !reflect.DeepEqual(got, want) {
		t.Fatalf("persisted %+v != in-memory %+v", got, want)
	}
}

func TestBook_Scenario(t *testing.T) {
	ctx := context.Background()
	b, backend := newBook(t)

	ada, err := b.AddContact(ctx, "Ada")
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	assertPersisted(t, b, backend)
	if st := b.Stats(); st.NumberOfContacts != 1 || st.NumberOfPhones != 0 || st.NumberOfEmails != 0 {
		t.Fatalf("stats after create = %+v", st)
	}

	phone, err := b.AddPhone(ctx, ada.ID, contact.PhoneCell, "5551234567")
	if err != nil {
		t.Fatalf("AddPhone: %v", err)
	}
	assertPersisted(t, b, backend)

	_, err = b.AddPhone(ctx, ada.ID, contact.PhoneCell, "555123")
	if !errors.Is(err, contact.ErrInvalidPhone) {
		t.Fatalf("AddPhone(6 digits) error = %v, want ErrInvalidPhone", err)
	}
	if got, _ := b.Get(ada.ID); len(got.Phones) != 1 {
		t.Fatalf("phones after rejection = %d, want 1", len(got.Phones))
	}

	if _, err := b.AddEmail(ctx, ada.ID, contact.EmailPersonal, "ada@example.com"); err != nil {
		t.Fatalf("AddEmail: %v", err)
	}
	assertPersisted(t, b, backend)

	if err := b.DeletePhone(ctx, ada.ID, phone.ID); err != nil {
		t.Fatalf("DeletePhone: %v", err)
	}
	assertPersisted(t, b, backend)
	got, _ := b.Get(ada.ID)
	if len(got.Phones) != 0 || len(got.Emails) != 1 {
		t.Fatalf("after phone delete: %+v", got)
	}

	if err := b.DeleteContact(ctx, ada.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	assertPersisted(t, b, backend)
	if n := len(b.Contacts()); n != 0 {
		t.Fatalf("contacts = %d, want 0", n)
	}
}

func TestBook_AddEmailRejected(t *testing.T) {
	ctx := context.Background()
	b, _ := newBook(t)
	ada, _ := b.AddContact(ctx, "Ada")

	_, err := b.AddEmail(ctx, ada.ID, contact.EmailWork, "   ")

	var ve *contact.ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("error = %v, want email ValidationError", err)
	}
	if got, _ := b.Get(ada.ID); len(got.Emails) != 0 {
		t.Errorf("emails = %+v, want none", got.Emails)
	}
}

func TestBook_DeleteEmail(t *testing.T) {
	ctx := context.Background()
	b, backend := newBook(t)
	ada, _ := b.AddContact(ctx, "Ada")
	grace, _ := b.AddContact(ctx, "Grace")
	e1, _ := b.AddEmail(ctx, ada.ID, contact.EmailWork, "ada@work.example")
	_, _ = b.AddEmail(ctx, grace.ID, contact.EmailWork, "grace@work.example")

	if err := b.DeleteEmail(ctx, ada.ID, e1.ID); err != nil {
		t.Fatal(err)
	}

	assertPersisted(t, b, backend)
	if got, _ := b.Get(ada.ID); len(got.Emails) != 0 {
		t.Errorf("Ada emails = %+v", got.Emails)
	}
	if got, _ := b.Get(grace.ID); len(got.Emails) != 1 {
		t.Errorf("Grace emails = %+v", got.Emails)
	}
}

func TestBook_GetMissing(t *testing.T) {
	b, _ := newBook(t)

	if _, err := b.Get(42); !errors.Is(err, ErrContactNotFound) {
		t.Errorf("Get(42) error = %v, want ErrContactNotFound", err)
	}
}

func TestBook_AddEntryToMissingContact(t *testing.T) {
	// Given: a book with one contact and a known persisted state
	ctx := context.Background()
	b, backend := newBook(t)
	if _, err := b.AddContact(ctx, "Ada"); err != nil {
		t.Fatal(err)
	}
	before, _, _ := backend.Get(ctx, store.DefaultKey)

	// When: entries are added to an ID that is not in the list
	p, perr := b.AddPhone(ctx, 999, contact.PhoneCell, "5551234567")
	e, eerr := b.AddEmail(ctx, 999, contact.EmailWork, "ada@example.com")

	// Then: both report the missing contact, return no entry, and write nothing
	if !errors.Is(perr, ErrContactNotFound) {
		t.Errorf("AddPhone error = %v, want ErrContactNotFound", perr)
	}
	if !errors.Is(eerr, ErrContactNotFound) {
		t.Errorf("AddEmail error = %v, want ErrContactNotFound", eerr)
	}
	if p != (contact.PhoneEntry{}) || e != (contact.EmailEntry{}) {
		t.Errorf("entries = %+v, %+v, want zero values", p, e)
	}
	after, _, _ := backend.Get(ctx, store.DefaultKey)
	if string(after) != string(before) {
		t.Errorf("persisted data changed: %s -> %s", before, after)
	}
}

func TestBook_IDsAreDistinct(t *testing.T) {
	ctx := context.Background()
	b, _ := newBook(t)

	a, _ := b.AddContact(ctx, "a")
	c, _ := b.AddContact(ctx, "c")
	p, _ := b.AddPhone(ctx, a.ID, contact.PhoneHome, "1234567890")

	if a.ID == c.ID || p.ID == a.ID || p.ID == c.ID {
		t.Errorf("IDs collide: contact %d, contact %d, phone %d", a.ID, c.ID, p.ID)
	}
}
