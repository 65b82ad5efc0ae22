package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smileynet/clientele/internal/book"
	"github.com/smileynet/clientele/internal/contact"
	"github.com/smileynet/clientele/internal/store"
)

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(newTestBook(t))
	if m.mode != ModeBrowse {
		t.Errorf("mode = %d, want ModeBrowse (%d)", m.mode, ModeBrowse)
	}
	if m.focus != PaneLeft {
		t.Errorf("focus = %d, want PaneLeft (%d)", m.focus, PaneLeft)
	}
	if m.detail.Open {
		t.Error("detail should be closed with no selection")
	}
	if m.phoneForm.Type() != contact.PhoneCell {
		t.Errorf("phone type = %q, want %q", m.phoneForm.Type(), contact.PhoneCell)
	}
	if m.emailForm.Type() != contact.EmailPersonal {
		t.Errorf("email type = %q, want %q", m.emailForm.Type(), contact.EmailPersonal)
	}
}

func TestNewModel_DefaultTypeOptions(t *testing.T) {
	m := NewModel(newTestBook(t),
		WithDefaultPhoneType(contact.PhoneWork),
		WithDefaultEmailType(contact.EmailWork),
		WithContext(context.Background()),
	)
	if m.phoneForm.Type() != contact.PhoneWork {
		t.Errorf("phone type = %q, want %q", m.phoneForm.Type(), contact.PhoneWork)
	}
	if m.emailForm.Type() != contact.EmailWork {
		t.Errorf("email type = %q, want %q", m.emailForm.Type(), contact.EmailWork)
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := NewModel(newTestBook(t))
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestModel_QuitInBrowseMode(t *testing.T) {
	m := newTestModel(t, newTestBook(t))

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q in browse mode should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q command should produce tea.QuitMsg")
	}
}

func TestModel_QDoesNotQuitWhileTyping(t *testing.T) {
	// Given: the name input is open
	m := newTestModel(t, newTestBook(t))
	m = press(m, runeKey('a'))

	// When: q is pressed
	m = press(m, runeKey('q'))

	// Then: the letter lands in the input
	if m.mode != ModeNewContact {
		t.Errorf("mode = %d, want ModeNewContact", m.mode)
	}
	if m.nameInput.Value() != "q" {
		t.Errorf("input = %q, want %q", m.nameInput.Value(), "q")
	}
}

func TestModel_CtrlCQuitsFromForm(t *testing.T) {
	m := newTestModel(t, newTestBook(t))
	m = press(m, runeKey('a'))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c command should produce tea.QuitMsg")
	}
}

func TestModel_AddContact(t *testing.T) {
	// Given: an empty book
	b := newTestBook(t)
	m := newTestModel(t, b)

	// When: a name is entered
	m = press(m, runeKey('a'))
	if m.mode != ModeNewContact {
		t.Fatalf("mode = %d, want ModeNewContact", m.mode)
	}
	m = press(m, typeKeys("Ada Lovelace")...)
	m = press(m, enterKey)

	// Then: the contact is listed and persisted
	if m.mode != ModeBrowse {
		t.Errorf("mode = %d, want ModeBrowse", m.mode)
	}
	if len(m.contacts) != 1 || m.contacts[0].Name != "Ada Lovelace" {
		t.Fatalf("contacts = %+v, want one named Ada Lovelace", m.contacts)
	}
	if got := b.Contacts(); len(got) != 1 {
		t.Errorf("book has %d contacts, want 1", len(got))
	}
	if m.nameInput.Value() != "" {
		t.Errorf("input = %q, want cleared", m.nameInput.Value())
	}
	if !containsPlainText(m.View(), "Ada Lovelace") {
		t.Error("view should list the new contact")
	}
}

func TestModel_AddContactBlankIgnored(t *testing.T) {
	m := newTestModel(t, newTestBook(t))
	m = press(m, runeKey('a'))
	m = press(m, typeKeys("   ")...)
	m = press(m, enterKey)

	if len(m.contacts) != 0 {
		t.Errorf("contacts = %d, want 0", len(m.contacts))
	}
	if m.mode != ModeNewContact {
		t.Errorf("mode = %d, want ModeNewContact (input stays open)", m.mode)
	}
}

func TestModel_AddContactEscCancels(t *testing.T) {
	m := newTestModel(t, newTestBook(t))
	m = press(m, runeKey('a'))
	m = press(m, typeKeys("Bob")...)
	m = press(m, escKey)

	if m.mode != ModeBrowse {
		t.Errorf("mode = %d, want ModeBrowse", m.mode)
	}
	if len(m.contacts) != 0 {
		t.Errorf("contacts = %d, want 0", len(m.contacts))
	}
}

func TestModel_ToggleSelection(t *testing.T) {
	// Given: one contact, collapsed
	m := newTestModel(t, newTestBook(t))
	m = press(m, runeKey('a'))
	m = press(m, typeKeys("Ada")...)
	m = press(m, enterKey)

	// When: enter is pressed on it
	m = press(m, enterKey)

	// Then: the detail opens
	if !m.detail.Open || m.detail.Name != "Ada" {
		t.Fatalf("detail = %+v, want Ada open", m.detail)
	}
	if _, ok := m.Selected(); !ok {
		t.Error("Selected() should report the contact")
	}
	if !containsPlainText(m.View(), "Phones") {
		t.Error("view should show the phone section")
	}

	// When: space is pressed on it again
	m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	// Then: the detail closes
	if m.detail.Open {
		t.Error("second toggle should close the detail")
	}
	if !containsPlainText(m.View(), "Select a contact") {
		t.Error("view should show the empty detail hint")
	}
}

func TestModel_CursorWraps(t *testing.T) {
	m := newTestModel(t, newTestBook(t))
	for _, name := range []string{"A", "B", "C"} {
		m = press(m, runeKey('a'))
		m = press(m, typeKeys(name)...)
		m = press(m, enterKey)
	}
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (new contact)", m.cursor)
	}

	m = press(m, downKey)
	if m.cursor != 0 {
		t.Errorf("down from last: cursor = %d, want 0", m.cursor)
	}
	m = press(m, upKey)
	if m.cursor != 2 {
		t.Errorf("up from first: cursor = %d, want 2", m.cursor)
	}
}

func TestModel_TabNeedsOpenDetail(t *testing.T) {
	m := newTestModel(t, newTestBook(t))
	m = press(m, tabKey)
	if m.focus != PaneLeft {
		t.Error("tab without a selection should keep focus left")
	}

	m = withContact(m, "Ada")
	m = press(m, tabKey)
	if m.focus != PaneRight {
		t.Errorf("focus = %d, want PaneRight", m.focus)
	}
	m = press(m, tabKey)
	if m.focus != PaneLeft {
		t.Errorf("focus = %d, want PaneLeft", m.focus)
	}
}

func TestModel_AddPhone(t *testing.T) {
	// Given: an expanded contact
	b := newTestBook(t)
	m := withContact(newTestModel(t, b), "Ada")

	// When: a valid number is submitted with the second type
	m = press(m, runeKey('p'))
	if m.mode != ModePhoneForm {
		t.Fatalf("mode = %d, want ModePhoneForm", m.mode)
	}
	m = press(m, downKey)
	m = press(m, typeKeys("5551234567")...)
	m = press(m, enterKey)

	// Then: the phone is stored with that type and the form resets
	if len(m.detail.Phones) != 1 {
		t.Fatalf("phones = %d, want 1", len(m.detail.Phones))
	}
	p := m.detail.Phones[0]
	if p.Number != "5551234567" || p.Type != contact.PhoneWhatsApp {
		t.Errorf("phone = %+v, want 5551234567 What's App", p)
	}
	if m.mode != ModeBrowse {
		t.Errorf("mode = %d, want ModeBrowse", m.mode)
	}
	if m.phoneForm.Type() != contact.PhoneCell || m.phoneForm.Value() != "" {
		t.Errorf("form = %q/%q, want reset to Cell/empty", m.phoneForm.Type(), m.phoneForm.Value())
	}
	if got := b.Contacts()[0].Phones; len(got) != 1 {
		t.Errorf("persisted phones = %d, want 1", len(got))
	}
}

func TestModel_AddPhoneRequiresSelection(t *testing.T) {
	m := newTestModel(t, newTestBook(t))
	m = press(m, runeKey('p'))
	if m.mode != ModeBrowse {
		t.Errorf("mode = %d, want ModeBrowse without a selection", m.mode)
	}
}

func TestModel_AddPhoneInvalid(t *testing.T) {
	// Given: an expanded contact
	m := withContact(newTestModel(t, newTestBook(t)), "Ada")

	// When: a short number is submitted
	m = press(m, runeKey('p'))
	m = press(m, typeKeys("12345")...)
	m = press(m, enterKey)

	// Then: the message shows, the form stays open with its input
	if m.phoneErr != "Phone number must be exactly 10 digits." {
		t.Errorf("phoneErr = %q", m.phoneErr)
	}
	if m.emailErr != "" {
		t.Errorf("emailErr = %q, want empty", m.emailErr)
	}
	if m.mode != ModePhoneForm {
		t.Errorf("mode = %d, want ModePhoneForm", m.mode)
	}
	if m.phoneForm.Value() != "12345" {
		t.Errorf("input = %q, want kept", m.phoneForm.Value())
	}
	if len(m.detail.Phones) != 0 {
		t.Errorf("phones = %d, want 0", len(m.detail.Phones))
	}
	if !containsPlainText(m.View(), "Phone number must be exactly 10 digits.") {
		t.Error("view should show the phone error")
	}
}

func TestModel_AddPhoneTooLongRejected(t *testing.T) {
	// Given: an expanded contact
	b := newTestBook(t)
	m := withContact(newTestModel(t, b), "Ada")

	// When: an eleven-digit number is typed and submitted
	m = press(m, runeKey('p'))
	m = press(m, typeKeys("55512345678")...)
	m = press(m, enterKey)

	// Then: the whole input reached validation and nothing was stored
	if m.phoneErr != "Phone number must be exactly 10 digits." {
		t.Errorf("phoneErr = %q, want the length message", m.phoneErr)
	}
	if m.phoneForm.Value() != "55512345678" {
		t.Errorf("input = %q, want all eleven digits kept", m.phoneForm.Value())
	}
	if got := b.Contacts()[0].Phones; len(got) != 0 {
		t.Errorf("persisted phones = %+v, want none", got)
	}
}

func TestModel_LongInputsNotTruncated(t *testing.T) {
	b := newTestBook(t)
	name := strings.Repeat("n", 120)
	m := withContact(newTestModel(t, b), name)

	address := strings.Repeat("a", 300) + "@example.com"
	m = press(m, runeKey('e'))
	m = press(m, typeKeys(address)...)
	m = press(m, enterKey)

	c := b.Contacts()[0]
	if c.Name != name {
		t.Errorf("name length = %d, want %d", len(c.Name), len(name))
	}
	if len(c.Emails) != 1 || c.Emails[0].Address != address {
		t.Errorf("emails = %+v, want the full address", c.Emails)
	}
}

func TestModel_AddPhoneErrorClearedOnSuccess(t *testing.T) {
	m := withContact(newTestModel(t, newTestBook(t)), "Ada")
	m = press(m, runeKey('p'))
	m = press(m, typeKeys("abc")...)
	m = press(m, enterKey)
	if m.phoneErr == "" {
		t.Fatal("expected a phone error")
	}

	// Clear the input and retry with a valid number.
	for range 3 {
		m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = press(m, typeKeys("0123456789")...)
	m = press(m, enterKey)

	if m.phoneErr != "" {
		t.Errorf("phoneErr = %q, want cleared", m.phoneErr)
	}
	if len(m.detail.Phones) != 1 {
		t.Errorf("phones = %d, want 1", len(m.detail.Phones))
	}
}

func TestModel_AddEmail(t *testing.T) {
	m := withContact(newTestModel(t, newTestBook(t)), "Ada")

	m = press(m, runeKey('e'))
	m = press(m, upKey)
	m = press(m, typeKeys("ada@example.com")...)
	m = press(m, enterKey)

	if len(m.detail.Emails) != 1 {
		t.Fatalf("emails = %d, want 1", len(m.detail.Emails))
	}
	e := m.detail.Emails[0]
	if e.Address != "ada@example.com" || e.Type != contact.EmailPrivate {
		t.Errorf("email = %+v, want ada@example.com Private", e)
	}
	if m.emailForm.Type() != contact.EmailPersonal {
		t.Errorf("email type = %q, want reset to Personal", m.emailForm.Type())
	}
}

func TestModel_AddEmailInvalid(t *testing.T) {
	m := withContact(newTestModel(t, newTestBook(t)), "Ada")

	m = press(m, runeKey('e'))
	m = press(m, typeKeys("not-an-email")...)
	m = press(m, enterKey)

	if m.emailErr != "Invalid email address." {
		t.Errorf("emailErr = %q", m.emailErr)
	}
	if m.phoneErr != "" {
		t.Errorf("phoneErr = %q, want empty", m.phoneErr)
	}
	if len(m.detail.Emails) != 0 {
		t.Errorf("emails = %d, want 0", len(m.detail.Emails))
	}
}

func TestModel_ErrorsClearedOnSelectionChange(t *testing.T) {
	m := withContact(newTestModel(t, newTestBook(t)), "Ada")
	m = press(m, runeKey('e'))
	m = press(m, typeKeys("nope")...)
	m = press(m, enterKey, escKey)
	if m.emailErr == "" {
		t.Fatal("expected an email error")
	}

	m = press(m, enterKey)
	if m.emailErr != "" {
		t.Errorf("emailErr = %q, want cleared on collapse", m.emailErr)
	}
}

func TestModel_DeleteContactConfirm(t *testing.T) {
	tests := []struct {
		name      string
		answer    tea.KeyMsg
		wantCount int
	}{
		{"y deletes", runeKey('y'), 0},
		{"n cancels", runeKey('n'), 1},
		{"esc cancels", escKey, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: one expanded contact
			b := newTestBook(t)
			m := withContact(newTestModel(t, b), "Ada")

			// When: d then the answer
			m = press(m, runeKey('d'))
			if m.mode != ModeConfirmDelete {
				t.Fatalf("mode = %d, want ModeConfirmDelete", m.mode)
			}
			if !containsPlainText(m.View(), "Delete Ada?") {
				t.Error("view should show the confirmation")
			}
			m = press(m, tt.answer)

			// Then
			if m.mode != ModeBrowse {
				t.Errorf("mode = %d, want ModeBrowse", m.mode)
			}
			if got := len(b.Contacts()); got != tt.wantCount {
				t.Errorf("contacts = %d, want %d", got, tt.wantCount)
			}
			if tt.wantCount == 0 && m.detail.Open {
				t.Error("detail should close when its contact is deleted")
			}
		})
	}
}

func TestModel_DeleteEntryFromDetail(t *testing.T) {
	// Given: a contact with two phones and one email, right pane focused
	b := newTestBook(t)
	m := withContact(newTestModel(t, b), "Ada")
	for _, n := range []string{"1111111111", "2222222222"} {
		m = press(m, runeKey('p'))
		m = press(m, typeKeys(n)...)
		m = press(m, enterKey)
	}
	m = press(m, runeKey('e'))
	m = press(m, typeKeys("a@b.c")...)
	m = press(m, enterKey, tabKey)

	// When: the cursor moves to the second phone and d is pressed
	m = press(m, downKey, runeKey('d'))

	// Then: only that phone is gone
	if len(m.detail.Phones) != 1 || m.detail.Phones[0].Number != "1111111111" {
		t.Errorf("phones = %+v, want only 1111111111", m.detail.Phones)
	}

	// When: d is pressed again, the cursor now on the email
	m = press(m, runeKey('d'))

	// Then: the email is gone and the persisted list agrees
	if len(m.detail.Emails) != 0 {
		t.Errorf("emails = %d, want 0", len(m.detail.Emails))
	}
	c := b.Contacts()[0]
	if len(c.Phones) != 1 || len(c.Emails) != 0 {
		t.Errorf("persisted = %d phones %d emails, want 1/0", len(c.Phones), len(c.Emails))
	}
	if m.entryCursor != 0 {
		t.Errorf("entryCursor = %d, want clamped to 0", m.entryCursor)
	}
}

func TestModel_DeleteEntryFailureNotLogged(t *testing.T) {
	// Given: a contact with one phone, right pane focused, writes now failing
	backend := &switchBackend{MemoryBackend: store.NewMemoryBackend()}
	s := store.New(backend)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	b := book.New(s, &seqIDs{next: 1_700_000_000_000})
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewModel(b, WithLogger(zap.New(core)))
	m = press(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = withContact(m, "Ada")
	m = press(m, runeKey('p'))
	m = press(m, typeKeys("5551234567")...)
	m = press(m, enterKey, tabKey)
	backend.failing = true

	// When: the phone is deleted
	m = press(m, runeKey('d'))

	// Then: the failure is reported, the phone stays, and no deletion is logged
	if m.statusErr == "" {
		t.Error("statusErr should be set")
	}
	if len(m.detail.Phones) != 1 {
		t.Errorf("phones = %d, want 1", len(m.detail.Phones))
	}
	if n := logs.FilterMessage("deleted phone").Len(); n != 0 {
		t.Errorf("logged %d deletions, want 0", n)
	}
	if n := logs.FilterMessage("saving contacts failed").Len(); n != 1 {
		t.Errorf("logged %d save failures, want 1", n)
	}
}

func TestModel_StatsPanel(t *testing.T) {
	// Given: an empty book with stats shown
	m := newTestModel(t, newTestBook(t))
	m = press(m, runeKey('s'))
	if !m.showStats {
		t.Fatal("s should show stats")
	}
	view := m.View()
	if !containsPlainText(view, "Number of Contacts: 0") {
		t.Error("stats should show zero contacts")
	}
	if !containsPlainText(view, "Newest Contact Timestamp: n/a") {
		t.Error("empty stats should print n/a")
	}

	// When: a contact is added
	m = withContact(m, "Ada")

	// Then: the panel follows the list
	if m.stats.NumberOfContacts != 1 {
		t.Errorf("NumberOfContacts = %d, want 1", m.stats.NumberOfContacts)
	}
	if !containsPlainText(m.View(), "Number of Contacts: 1") {
		t.Error("stats should show one contact")
	}

	m = press(m, runeKey('r'), runeKey('s'))
	if m.showStats {
		t.Error("second s should hide stats")
	}
}

func TestModel_StoreFailureKeepsList(t *testing.T) {
	// Given: a book whose backend rejects writes
	s := store.New(brokenBackend{})
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := newTestModel(t, book.New(s, &seqIDs{}))

	// When: a contact is added
	m = press(m, runeKey('a'))
	m = press(m, typeKeys("Ada")...)
	m = press(m, enterKey)

	// Then: the status line reports it and nothing is listed
	if m.statusErr == "" {
		t.Error("statusErr should be set")
	}
	if len(m.contacts) != 0 {
		t.Errorf("contacts = %d, want 0", len(m.contacts))
	}
	if !containsPlainText(m.View(), "Error:") {
		t.Error("view should show the status error")
	}
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(t, newTestBook(t))
	m = press(m, tea.WindowSizeMsg{Width: 120, Height: 50})
	if m.width != 120 || m.height != 50 {
		t.Errorf("size = %dx%d, want 120x50", m.width, m.height)
	}
	if m.contentHeight() != 50-borderChrome-helpBarHeight-statusBarHeight {
		t.Errorf("contentHeight = %d", m.contentHeight())
	}
}

// TestModel_Teatest_Session drives a full program: add a contact, give it a
// phone and an email, then quit.
func TestModel_Teatest_Session(t *testing.T) {
	b := newTestBook(t)
	m := NewModel(b, WithLogger(zaptest.NewLogger(t)))

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	tm.Send(runeKey('a'))
	tm.Type("Grace")
	tm.Send(enterKey)
	tm.Send(enterKey)
	tm.Send(runeKey('p'))
	tm.Type("5550001111")
	tm.Send(enterKey)
	tm.Send(runeKey('e'))
	tm.Type("grace@navy.mil")
	tm.Send(enterKey)
	tm.Send(runeKey('q'))

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if len(final.contacts) != 1 {
		t.Fatalf("contacts = %d, want 1", len(final.contacts))
	}
	got := b.Contacts()[0]
	if got.Name != "Grace" || len(got.Phones) != 1 || len(got.Emails) != 1 {
		t.Errorf("persisted = %+v, want Grace with one phone and one email", got)
	}
}
