package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/smileynet/clientele/internal/contact"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// statusBarHeight is the line above the help bar used for store errors.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the contact dashboard.
// All UI state lives here as explicit fields; forms are bound to
// textinput models rather than looked up by name.
type Model struct {
	book ContactBook
	ctx  context.Context
	log  *zap.Logger

	mode   Mode
	focus  Focus
	width  int
	height int
	help   help.Model

	contacts    []contact.Contact
	cursor      int
	selection   contact.Selection
	detail      contact.Detail
	entryCursor int

	nameInput textinput.Model
	phoneForm entryForm[contact.PhoneType]
	emailForm entryForm[contact.EmailType]
	phoneErr  string
	emailErr  string
	statusErr string

	pendingDelete contact.Contact

	showStats bool
	stats     contact.Stats
}

// ModelOption configures a Model.
type ModelOption func(*modelConfig)

type modelConfig struct {
	ctx       context.Context
	log       *zap.Logger
	phoneType contact.PhoneType
	emailType contact.EmailType
}

// WithContext sets the context passed to store calls.
func WithContext(ctx context.Context) ModelOption {
	return func(c *modelConfig) { c.ctx = ctx }
}

// WithLogger sets the logger for store failures and user actions.
func WithLogger(log *zap.Logger) ModelOption {
	return func(c *modelConfig) { c.log = log }
}

// WithDefaultPhoneType sets the phone form's initial type.
func WithDefaultPhoneType(t contact.PhoneType) ModelOption {
	return func(c *modelConfig) { c.phoneType = t }
}

// WithDefaultEmailType sets the email form's initial type.
func WithDefaultEmailType(t contact.EmailType) ModelOption {
	return func(c *modelConfig) { c.emailType = t }
}

// NewModel creates a dashboard Model in browse mode with left-pane focus,
// showing the book's current contacts.
func NewModel(book ContactBook, opts ...ModelOption) Model {
	cfg := modelConfig{
		ctx:       context.Background(),
		log:       zap.NewNop(),
		phoneType: contact.PhoneCell,
		emailType: contact.EmailPersonal,
	}
	for _, o := range opts {
		o(&cfg)
	}

	name := textinput.New()
	name.Placeholder = "Enter contact name"
	name.Prompt = "> "
	name.CharLimit = 0
	name.Width = MinLeftWidth - 6

	m := Model{
		book:      book,
		ctx:       cfg.ctx,
		log:       cfg.log,
		mode:      ModeBrowse,
		focus:     PaneLeft,
		help:      help.New(),
		nameInput: name,
		phoneForm: newEntryForm("Phone number", contact.PhoneTypes(), cfg.phoneType),
		emailForm: newEntryForm("Email address", contact.EmailTypes(), cfg.emailType),
	}
	return m.refresh()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

// updateInputs forwards non-key messages (cursor blink) to the active input.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case ModeNewContact:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case ModePhoneForm:
		m.phoneForm, cmd = m.phoneForm.Update(msg)
	case ModeEmailForm:
		m.emailForm, cmd = m.emailForm.Update(msg)
	}
	return m, cmd
}

// handleKey processes key messages with global and mode-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeNewContact:
		return m.handleNameKey(msg)
	case ModePhoneForm:
		return m.handlePhoneKey(msg)
	case ModeEmailForm:
		return m.handleEmailKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.focus == PaneLeft && m.detail.Open {
			m.focus = PaneRight
		} else {
			m.focus = PaneLeft
		}
		return m, nil
	case "s":
		m.showStats = !m.showStats
		m.stats = contact.ComputeStats(m.contacts)
		return m, nil
	case "r":
		m.stats = contact.ComputeStats(m.book.Contacts())
		return m, nil
	case "a":
		m.mode = ModeNewContact
		m.focus = PaneLeft
		return m, m.nameInput.Focus()
	case "p":
		if !m.detail.Open {
			return m, nil
		}
		m.mode = ModePhoneForm
		var cmd tea.Cmd
		m.phoneForm, cmd = m.phoneForm.Open()
		return m, cmd
	case "e":
		if !m.detail.Open {
			return m, nil
		}
		m.mode = ModeEmailForm
		var cmd tea.Cmd
		m.emailForm, cmd = m.emailForm.Open()
		return m, cmd
	}

	if m.focus == PaneRight {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if len(m.contacts) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.contacts) - 1
			}
		}
	case "down", "j":
		if len(m.contacts) > 0 {
			m.cursor++
			if m.cursor >= len(m.contacts) {
				m.cursor = 0
			}
		}
	case "enter", " ":
		if id, ok := m.cursorID(); ok {
			return m.toggle(id), nil
		}
	case "d":
		if len(m.contacts) > 0 {
			m.pendingDelete = m.contacts[m.cursor]
			m.mode = ModeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.detail.Phones) + len(m.detail.Emails)
	switch msg.String() {
	case "up", "k":
		if n > 0 {
			m.entryCursor = (m.entryCursor - 1 + n) % n
		}
	case "down", "j":
		if n > 0 {
			m.entryCursor = (m.entryCursor + 1) % n
		}
	case "d":
		if n == 0 {
			return m, nil
		}
		cid := m.detail.ContactID
		var err error
		if m.entryCursor < len(m.detail.Phones) {
			p := m.detail.Phones[m.entryCursor]
			if err = m.book.DeletePhone(m.ctx, cid, p.ID); err == nil {
				m.log.Info("deleted phone", zap.Int64("contact", cid), zap.Int64("phone", p.ID))
			}
		} else {
			e := m.detail.Emails[m.entryCursor-len(m.detail.Phones)]
			if err = m.book.DeleteEmail(m.ctx, cid, e.ID); err == nil {
				m.log.Info("deleted email", zap.Int64("contact", cid), zap.Int64("email", e.ID))
			}
		}
		return m.afterMutation(err), nil
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.nameInput.Reset()
		m.nameInput.Blur()
		m.mode = ModeBrowse
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return m, nil
		}
		c, err := m.book.AddContact(m.ctx, name)
		if err != nil {
			return m.afterMutation(err), nil
		}
		m.log.Info("added contact", zap.Int64("id", c.ID))
		m.nameInput.Reset()
		m.nameInput.Blur()
		m.mode = ModeBrowse
		m = m.afterMutation(nil)
		m.cursor = m.indexOf(c.ID)
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) handlePhoneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phoneForm = m.phoneForm.Close()
		m.mode = ModeBrowse
		return m, nil
	case "up":
		m.phoneForm = m.phoneForm.CycleType(-1)
		return m, nil
	case "down":
		m.phoneForm = m.phoneForm.CycleType(1)
		return m, nil
	case "enter":
		_, err := m.book.AddPhone(m.ctx, m.detail.ContactID, m.phoneForm.Type(), m.phoneForm.Value())
		var ve *contact.ValidationError
		if errors.As(err, &ve) {
			m.phoneErr = ve.Message
			return m, nil
		}
		if err == nil {
			m.log.Info("added phone", zap.Int64("contact", m.detail.ContactID))
			m.phoneErr = ""
			m.phoneForm = m.phoneForm.Reset()
			m.mode = ModeBrowse
		}
		return m.afterMutation(err), nil
	}
	var cmd tea.Cmd
	m.phoneForm, cmd = m.phoneForm.Update(msg)
	return m, cmd
}

func (m Model) handleEmailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.emailForm = m.emailForm.Close()
		m.mode = ModeBrowse
		return m, nil
	case "up":
		m.emailForm = m.emailForm.CycleType(-1)
		return m, nil
	case "down":
		m.emailForm = m.emailForm.CycleType(1)
		return m, nil
	case "enter":
		_, err := m.book.AddEmail(m.ctx, m.detail.ContactID, m.emailForm.Type(), m.emailForm.Value())
		var ve *contact.ValidationError
		if errors.As(err, &ve) {
			m.emailErr = ve.Message
			return m, nil
		}
		if err == nil {
			m.log.Info("added email", zap.Int64("contact", m.detail.ContactID))
			m.emailErr = ""
			m.emailForm = m.emailForm.Reset()
			m.mode = ModeBrowse
		}
		return m.afterMutation(err), nil
	}
	var cmd tea.Cmd
	m.emailForm, cmd = m.emailForm.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := m.pendingDelete
	m.pendingDelete = contact.Contact{}
	m.mode = ModeBrowse
	if msg.String() != "y" {
		return m, nil
	}
	err := m.book.DeleteContact(m.ctx, target.ID)
	if err == nil {
		m.log.Info("deleted contact", zap.Int64("id", target.ID))
		if m.selection.Is(target.ID) {
			m.selection = contact.Selection{}
		}
	}
	return m.afterMutation(err), nil
}

// toggle expands id's detail, or collapses it when already expanded.
func (m Model) toggle(id int64) Model {
	m.selection = m.selection.Toggle(id)
	m.entryCursor = 0
	m.phoneErr = ""
	m.emailErr = ""
	m.phoneForm = m.phoneForm.Reset()
	m.emailForm = m.emailForm.Reset()
	return m.refresh()
}

// afterMutation records a store error (if any) and re-projects view state
// from the book.
func (m Model) afterMutation(err error) Model {
	if err != nil {
		m.log.Error("saving contacts failed", zap.Error(err))
		m.statusErr = err.Error()
	} else {
		m.statusErr = ""
	}
	return m.refresh()
}

// refresh re-reads the list and recomputes the detail view and statistics.
func (m Model) refresh() Model {
	m.contacts = m.book.Contacts()
	if m.cursor >= len(m.contacts) {
		m.cursor = len(m.contacts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	m.detail = contact.DetailFor(m.contacts, m.selection)
	if !m.detail.Open {
		m.selection = contact.Selection{}
		m.focus = PaneLeft
	}
	n := len(m.detail.Phones) + len(m.detail.Emails)
	if m.entryCursor >= n {
		m.entryCursor = n - 1
	}
	if m.entryCursor < 0 {
		m.entryCursor = 0
	}

	m.stats = contact.ComputeStats(m.contacts)
	return m
}

// cursorID returns the ID of the contact under the cursor.
func (m Model) cursorID() (int64, bool) {
	if len(m.contacts) == 0 || m.cursor < 0 || m.cursor >= len(m.contacts) {
		return 0, false
	}
	return m.contacts[m.cursor].ID, true
}

func (m Model) indexOf(id int64) int {
	for i, c := range m.contacts {
		if c.ID == id {
			return i
		}
	}
	return m.cursor
}

// Selected returns the expanded contact ID, if any.
func (m Model) Selected() (int64, bool) {
	return m.selection.ID()
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line, the help bar, and the
// statistics panel when shown.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight - statusBarHeight
	if m.showStats {
		h -= statsPanelHeight()
	}
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout, statistics, status line, and help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.viewList())
	rightPane := rightStyle.Render(m.viewRight())
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)}

	if m.showStats {
		rows = append(rows, UnfocusedBorder().Width(m.width-borderChrome).Render(viewStats(m.stats)))
	}

	status := ""
	if m.statusErr != "" {
		status = statusErrText.Render("Error: " + m.statusErr)
	}
	rows = append(rows, status, m.help.View(HelpBindings(m.mode, m.focus, m.showStats)))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// viewRight renders the right pane content based on mode.
func (m Model) viewRight() string {
	if m.mode == ModeConfirmDelete {
		return viewConfirm(m.pendingDelete)
	}
	return m.viewDetail()
}
