package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/smileynet/clientele"
	"github.com/smileynet/clientele/internal/book"
	"github.com/smileynet/clientele/internal/config"
	"github.com/smileynet/clientele/internal/contact"
	"github.com/smileynet/clientele/internal/dashboard"
	"github.com/smileynet/clientele/internal/logging"
	"github.com/smileynet/clientele/internal/render"
	"github.com/smileynet/clientele/internal/store"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	exitSuccess    = 0
	exitValidation = 1
	exitSetup      = 2
)

// Project-local paths.
const (
	projectConfigPath = ".clientele/config.yaml"
	projectEnvPath    = ".clientele/.env"
	userConfigPath    = "$HOME/.config/clientele/config.yaml"
	userTemplatesDir  = "$HOME/.config/clientele/templates"
)

// Globals are flags shared by every command.
type Globals struct {
	Storage string `help:"Storage backend (file, redis, memory)."`
	DataDir string `help:"Directory for the file backend." type:"path"`
	NoColor bool   `help:"Force plain text output even if stdout is a TTY."`
}

// CLI is the top-level command structure for clientele.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	UI      UICmd            `cmd:"" help:"Open the interactive contact dashboard."`
	Add     AddCmd           `cmd:"" help:"Add a contact."`
	Rm      RmCmd            `cmd:"" help:"Delete a contact."`
	List    ListCmd          `cmd:"" help:"List contacts."`
	Show    ShowCmd          `cmd:"" help:"Show a contact's phones and emails."`
	Phone   PhoneCmd         `cmd:"" help:"Manage phone numbers."`
	Email   EmailCmd         `cmd:"" help:"Manage email addresses."`
	Stats   StatsCmd         `cmd:"" help:"Show contact statistics."`
	Init    InitCmd          `cmd:"" help:"Write the default config to .clientele/config.yaml."`
}

// loadConfig loads layered config from user and project paths, then
// applies .env, environment, and flag overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	if err := config.LoadDotEnv(projectEnvPath); err != nil {
		return nil, err
	}
	cfg, err := config.LoadLayered(
		os.ExpandEnv(userConfigPath),
		projectConfigPath,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	// Apply CLI flag overrides.
	if g.Storage != "" {
		cfg.Storage.Backend = g.Storage
	}
	if g.DataDir != "" {
		cfg.Storage.Dir = g.DataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// env is the wired set of dependencies a command runs against.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	book    *book.Book
	closers []io.Closer
}

// Close releases the backend and the log file.
func (e *env) Close() {
	_ = e.log.Sync()
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// open loads config, builds the logger and backend, and loads the store once.
func (g *Globals) open(ctx context.Context) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	log, logCloser, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Path:   cfg.Log.Path,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	backend, closer, err := openBackend(ctx, cfg)
	if err != nil {
		e.Close()
		return nil, err
	}
	if closer != nil {
		e.closers = append(e.closers, closer)
	}

	s := store.New(backend,
		store.WithKey(cfg.Storage.Key),
		store.WithLogger(log.Named("store")),
	)
	if _, err := s.Load(ctx); err != nil {
		e.Close()
		return nil, err
	}
	e.book = book.New(s, contact.NewClock())
	log.Debug("opened contact book",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("key", cfg.Storage.Key),
	)
	return e, nil
}

// openBackend builds the configured key-value backend. The closer is nil
// when the backend holds no resources.
func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		rb, err := store.NewRedisBackend(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return rb, rb, nil
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil, nil
	default:
		return store.NewFileBackend(cfg.Storage.Dir), nil, nil
	}
}

// printer returns the output printer for w honoring --no-color.
func (g *Globals) printer(w io.Writer) render.Printer {
	return render.New(render.Options{Writer: w, ForcePlain: g.NoColor})
}

// withEnv opens the environment under an interrupt-aware context and runs fn.
func (g *Globals) withEnv(fn func(ctx context.Context, e *env) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// UICmd opens the dashboard.
type UICmd struct{}

// Run launches the dashboard TUI.
func (c *UICmd) Run(g *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("ui: requires a terminal (TTY)")
	}
	return g.withEnv(func(ctx context.Context, e *env) error {
		phoneType, err := contact.ParsePhoneType(e.cfg.UI.PhoneType)
		if err != nil {
			return fmt.Errorf("ui: %w", err)
		}
		emailType, err := contact.ParseEmailType(e.cfg.UI.EmailType)
		if err != nil {
			return fmt.Errorf("ui: %w", err)
		}
		m := dashboard.NewModel(e.book,
			dashboard.WithContext(ctx),
			dashboard.WithLogger(e.log.Named("dashboard")),
			dashboard.WithDefaultPhoneType(phoneType),
			dashboard.WithDefaultEmailType(emailType),
		)
		prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		return c.run(true, prog)
	})
}

func (c *UICmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("ui: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// AddCmd creates a contact.
type AddCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals) error {
	return g.withEnv(func(ctx context.Context, e *env) error {
		return c.run(ctx, os.Stdout, e.book)
	})
}

func (c *AddCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	created, err := b.AddContact(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	fmt.Fprintf(w, "Added contact %d (%s)\n", created.ID, created.Name)
	return nil
}

// RmCmd deletes a contact.
type RmCmd struct {
	ContactID int64 `arg:"" name:"contact-id" help:"Contact ID."`
}

// Run executes the rm command.
func (c *RmCmd) Run(g *Globals) error {
	return g.withEnv(func(ctx context.Context, e *env) error {
		return c.run(ctx, os.Stdout, e.book)
	})
}

func (c *RmCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	target, err := b.Get(c.ContactID)
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	if err := b.DeleteContact(ctx, c.ContactID); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	fmt.Fprintf(w, "Deleted contact %d (%s)\n", target.ID, target.Name)
	return nil
}

// ListCmd prints every contact.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	return g.withEnv(func(_ context.Context, e *env) error {
		return c.run(g.printer(os.Stdout), e.book)
	})
}

func (c *ListCmd) run(p render.Printer, b *book.Book) error {
	return p.Contacts(b.Contacts())
}

// ShowCmd prints one contact's entries.
type ShowCmd struct {
	ContactID int64 `arg:"" name:"contact-id" help:"Contact ID."`
}

// Run executes the show command.
func (c *ShowCmd) Run(g *Globals) error {
	return g.withEnv(func(_ context.Context, e *env) error {
		return c.run(g.printer(os.Stdout), e.book)
	})
}

func (c *ShowCmd) run(p render.Printer, b *book.Book) error {
	found, err := b.Get(c.ContactID)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return p.Contact(found)
}

// PhoneCmd groups the phone subcommands.
type PhoneCmd struct {
	Add PhoneAddCmd `cmd:"" help:"Add a phone number to a contact."`
	Rm  PhoneRmCmd  `cmd:"" help:"Delete a phone number from a contact."`
}

// PhoneAddCmd attaches a phone number.
type PhoneAddCmd struct {
	ContactID int64  `arg:"" name:"contact-id" help:"Contact ID."`
	Number    string `arg:"" help:"Ten-digit phone number."`
	Type      string `help:"Phone type (Cell, What's App, Work, Home, Main, Work fax, Home fax, Pager, Phone Other, Phone Custom). Defaults to ui.phone_type."`
}

// Run executes the phone add command.
func (c *PhoneAddCmd) Run(g *Globals) error {
	return g.withEnv(func(ctx context.Context, e *env) error {
		if c.Type == "" {
			c.Type = e.cfg.UI.PhoneType
		}
		return c.run(ctx, os.Stdout, e.book)
	})
}

func (c *PhoneAddCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	typ, err := contact.ParsePhoneType(c.Type)
	if err != nil {
		return fmt.Errorf("phone add: %w", err)
	}
	entry, err := b.AddPhone(ctx, c.ContactID, typ, c.Number)
	if err != nil {
		return fmt.Errorf("phone add: %w", err)
	}
	fmt.Fprintf(w, "Added phone %d (%s: %s) to contact %d\n", entry.ID, entry.Type, entry.Number, c.ContactID)
	return nil
}

// PhoneRmCmd deletes a phone number.
type PhoneRmCmd struct {
	ContactID int64 `arg:"" name:"contact-id" help:"Contact ID."`
	PhoneID   int64 `arg:"" name:"phone-id" help:"Phone entry ID."`
}

// Run executes the phone rm command.
func (c *PhoneRmCmd) Run(g *Globals) error {
	return g.withEnv(func(ctx context.Context, e *env) error {
		return c.run(ctx, os.Stdout, e.book)
	})
}

func (c *PhoneRmCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	if err := b.DeletePhone(ctx, c.ContactID, c.PhoneID); err != nil {
		return fmt.Errorf("phone rm: %w", err)
	}
	fmt.Fprintf(w, "Deleted phone %d from contact %d\n", c.PhoneID, c.ContactID)
	return nil
}

// EmailCmd groups the email subcommands.
type EmailCmd struct {
	Add EmailAddCmd `cmd:"" help:"Add an email address to a contact."`
	Rm  EmailRmCmd  `cmd:"" help:"Delete an email address from a contact."`
}

// EmailAddCmd attaches an email address.
type EmailAddCmd struct {
	ContactID int64  `arg:"" name:"contact-id" help:"Contact ID."`
	Address   string `arg:"" help:"Email address."`
	Type      string `help:"Email type (Personal, Work, Other, Private). Defaults to ui.email_type."`
}

// Run executes the email add command.
func (c *EmailAddCmd) Run(g *Globals) error {
	return g.withEnv(func(ctx context.Context, e *env) error {
		if c.Type == "" {
			c.Type = e.cfg.UI.EmailType
		}
		return c.run(ctx, os.Stdout, e.book)
	})
}

func (c *EmailAddCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	typ, err := contact.ParseEmailType(c.Type)
	if err != nil {
		return fmt.Errorf("email add: %w", err)
	}
	entry, err := b.AddEmail(ctx, c.ContactID, typ, c.Address)
	if err != nil {
		return fmt.Errorf("email add: %w", err)
	}
	fmt.Fprintf(w, "Added email %d (%s: %s) to contact %d\n", entry.ID, entry.Type, entry.Address, c.ContactID)
	return nil
}

// EmailRmCmd deletes an email address.
type EmailRmCmd struct {
	ContactID int64 `arg:"" name:"contact-id" help:"Contact ID."`
	EmailID   int64 `arg:"" name:"email-id" help:"Email entry ID."`
}

// Run executes the email rm command.
func (c *EmailRmCmd) Run(g *Globals) error {
	return g.withEnv(func(ctx context.Context, e *env) error {
		return c.run(ctx, os.Stdout, e.book)
	})
}

func (c *EmailRmCmd) run(ctx context.Context, w io.Writer, b *book.Book) error {
	if err := b.DeleteEmail(ctx, c.ContactID, c.EmailID); err != nil {
		return fmt.Errorf("email rm: %w", err)
	}
	fmt.Fprintf(w, "Deleted email %d from contact %d\n", c.EmailID, c.ContactID)
	return nil
}

// StatsCmd prints contact statistics.
type StatsCmd struct {
	JSON bool `help:"Print statistics as JSON." name:"json"`
}

// Run executes the stats command.
func (c *StatsCmd) Run(g *Globals) error {
	return g.withEnv(func(_ context.Context, e *env) error {
		return c.run(os.Stdout, g.printer(os.Stdout), e.book)
	})
}

func (c *StatsCmd) run(w io.Writer, p render.Printer, b *book.Book) error {
	st := b.Stats()
	if !c.JSON {
		return p.Stats(st)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return nil
}

// InitCmd writes the default config file.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

// Run executes the init command.
func (c *InitCmd) Run() error {
	templates := clientele.OverlayFS(os.ExpandEnv(userTemplatesDir), clientele.Templates)
	return c.run(os.Stdout, templates, projectConfigPath)
}

func (c *InitCmd) run(w io.Writer, templates fs.FS, path string) error {
	if !c.Force {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "%s already exists, leaving it unchanged\n", path)
			return nil
		}
	}
	data, err := fs.ReadFile(templates, clientele.ConfigTemplate)
	if err != nil {
		return fmt.Errorf("init: reading template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("init: wrote %s but it does not load: %w", path, err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	switch {
	case errors.Is(err, contact.ErrInvalidPhone),
		errors.Is(err, contact.ErrInvalidEmail),
		errors.Is(err, contact.ErrUnknownType),
		errors.Is(err, book.ErrContactNotFound):
		return exitValidation
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("clientele"),
		kong.Description("A terminal contact manager."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
