package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/smileynet/clientele/internal/book"
	"github.com/smileynet/clientele/internal/store"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// seqIDs hands out increasing IDs starting at next.
type seqIDs struct{ next int64 }

func (s *seqIDs) NextID() int64 {
	s.next++
	return s.next
}

// brokenBackend reads as empty and refuses every write.
type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (brokenBackend) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

// switchBackend wraps a memory backend whose writes fail once failing is set.
type switchBackend struct {
	*store.MemoryBackend
	failing bool
}

func (b *switchBackend) Set(ctx context.Context, key string, data []byte) error {
	if b.failing {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Set(ctx, key, data)
}

// newTestBook returns an empty book over an in-memory backend.
func newTestBook(t *testing.T) *book.Book {
	t.Helper()
	s := store.New(store.NewMemoryBackend(), store.WithLogger(zaptest.NewLogger(t)))
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return book.New(s, &seqIDs{next: 1_700_000_000_000})
}

// newTestModel returns a sized model over b.
func newTestModel(t *testing.T, b ContactBook) Model {
	t.Helper()
	m := NewModel(b, WithLogger(zaptest.NewLogger(t)))
	return press(m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

// press feeds msgs to m in order and returns the resulting model.
func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// typeKeys returns one key message per rune of s.
func typeKeys(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, runeKey(r))
	}
	return msgs
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	upKey    = tea.KeyMsg{Type: tea.KeyUp}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

// withContact adds a contact named name through the UI and expands it.
func withContact(m Model, name string) Model {
	m = press(m, runeKey('a'))
	m = press(m, typeKeys(name)...)
	m = press(m, enterKey)
	return press(m, enterKey)
}
