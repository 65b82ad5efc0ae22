// Package render prints contacts and statistics for the non-interactive
// commands: styled when writing to a terminal, plain text otherwise.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/clientele/internal/contact"
)

// Printer writes human-readable views of the contact list.
type Printer interface {
	Contacts(list []contact.Contact) error
	Contact(c contact.Contact) error
	Stats(st contact.Stats) error
}

// Options configures printer creation.
type Options struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force plain text even if TTY.
}

// New returns a styled printer when the writer is a TTY, or a plain text
// printer otherwise. ForcePlain overrides TTY detection.
func New(opts Options) Printer {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainPrinter{w: opts.Writer}
	}
	return &StyledPrinter{w: opts.Writer}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FormatTimestamp renders a contact ID as its creation time, or "n/a" for
// the empty-list sentinel.
func FormatTimestamp(id int64) string {
	if id == contact.NoTimestamp {
		return "n/a"
	}
	return fmt.Sprintf("%d (%s)", id, contact.Timestamp(id).UTC().Format(time.RFC3339))
}

// PlainPrinter renders unstyled, line-oriented text.
type PlainPrinter struct {
	w io.Writer
}

// NewPlain returns a PlainPrinter writing to w.
func NewPlain(w io.Writer) *PlainPrinter {
	return &PlainPrinter{w: w}
}

// Contacts prints one line per contact with entry counts.
func (p *PlainPrinter) Contacts(list []contact.Contact) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(p.w, "No contacts")
		return err
	}
	for _, c := range list {
		if _, err := fmt.Fprintf(p.w, "%d\t%s\t%d phones\t%d emails\n",
			c.ID, c.Name, len(c.Phones), len(c.Emails)); err != nil {
			return err
		}
	}
	return nil
}

// Contact prints a contact with every phone and email.
func (p *PlainPrinter) Contact(c contact.Contact) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", c.Name, c.ID)
	writeEntries(&b, c, func(s string) string { return s })
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Stats prints the statistics block.
func (p *PlainPrinter) Stats(st contact.Stats) error {
	_, err := io.WriteString(p.w, statsText(st, func(s string) string { return s }))
	return err
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
)

// StyledPrinter renders with lipgloss colors for terminals.
type StyledPrinter struct {
	w io.Writer
}

// Contacts prints one line per contact with entry counts.
func (p *StyledPrinter) Contacts(list []contact.Contact) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(p.w, mutedStyle.Render("No contacts"))
		return err
	}
	for _, c := range list {
		counts := fmt.Sprintf("%d phones, %d emails", len(c.Phones), len(c.Emails))
		if _, err := fmt.Fprintf(p.w, "%s  %s  %s\n",
			mutedStyle.Render(fmt.Sprint(c.ID)), titleStyle.Render(c.Name), mutedStyle.Render(counts)); err != nil {
			return err
		}
	}
	return nil
}

// Contact prints a contact with every phone and email.
func (p *StyledPrinter) Contact(c contact.Contact) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(c.Name), mutedStyle.Render(fmt.Sprintf("(%d)", c.ID)))
	writeEntries(&b, c, func(s string) string { return labelStyle.Render(s) })
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Stats prints the statistics block.
func (p *StyledPrinter) Stats(st contact.Stats) error {
	_, err := io.WriteString(p.w, titleStyle.Render("Statistics")+"\n"+statsText(st, func(s string) string { return labelStyle.Render(s) }))
	return err
}

func writeEntries(b *strings.Builder, c contact.Contact, label func(string) string) {
	if len(c.Phones) == 0 && len(c.Emails) == 0 {
		b.WriteString("  no phones or emails\n")
		return
	}
	for _, ph := range c.Phones {
		fmt.Fprintf(b, "  %s: %s  [phone %d]\n", label(string(ph.Type)), ph.Number, ph.ID)
	}
	for _, em := range c.Emails {
		fmt.Fprintf(b, "  %s: %s  [email %d]\n", label(string(em.Type)), em.Address, em.ID)
	}
}

// StatsLines returns label/value pairs for the statistics block.
func StatsLines(st contact.Stats) [][2]string {
	return [][2]string{
		{"Number of Contacts", fmt.Sprint(st.NumberOfContacts)},
		{"Number of Phones", fmt.Sprint(st.NumberOfPhones)},
		{"Number of Emails", fmt.Sprint(st.NumberOfEmails)},
		{"Newest Contact Timestamp", FormatTimestamp(st.NewestContactTimestamp)},
		{"Oldest Contact Timestamp", FormatTimestamp(st.OldestContactTimestamp)},
	}
}

func statsText(st contact.Stats, label func(string) string) string {
	var b strings.Builder
	for _, kv := range StatsLines(st) {
		fmt.Fprintf(&b, "%s: %s\n", label(kv[0]), kv[1])
	}
	return b.String()
}
