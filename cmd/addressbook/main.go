package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/smileynet/addressbook/internal/command"
	"github.com/smileynet/addressbook/internal/config"
	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/logger"
	"github.com/smileynet/addressbook/internal/session"
	"github.com/smileynet/addressbook/internal/store"
	"github.com/smileynet/addressbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	File   string `help:"Address book file (overrides config)." short:"f"`
	Config string `help:"Extra config file, applied after user and project config."`
}

// CLI is the top-level command structure for addressbook.
type CLI struct {
	Globals

	Version   kong.VersionFlag `help:"Show version." short:"V"`
	Repl      ReplCmd          `cmd:"" default:"1" help:"Start the interactive assistant (default)."`
	Exec      ExecCmd          `cmd:"" help:"Run a single assistant command and exit."`
	Birthdays BirthdaysCmd     `cmd:"" help:"List contacts with upcoming birthdays."`
}

// errCommandFailed is returned by exec when the command reported a failure.
var errCommandFailed = errors.New("command failed")

// app holds the dependencies built from configuration.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.FileStore
	book  *contact.AddressBook
}

// loadConfig loads layered config from user and project paths with env and flag overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/addressbook/config.yaml"),
		".addressbook/config.yaml",
	}
	if g.Config != "" {
		paths = append(paths, g.Config)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if g.File != "" {
		cfg.Storage.Path = g.File
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config, builds the logger and loads the address book.
func setup(g *Globals) (*app, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	st := store.NewFileStore(cfg.Storage.Path)
	log = log.With("path", st.Path())
	book, err := st.Load()
	if err != nil {
		log.Error("loading address book", "error", err)
		log.Sync()
		return nil, err
	}
	log.Info("address book loaded", "records", book.Len())

	return &app{cfg: cfg, log: log, store: st, book: book}, nil
}

func (a *app) newSession() *session.Session {
	return session.New(a.book, a.store,
		session.WithWindowDays(a.cfg.Birthdays.WindowDays),
		session.WithLogger(a.log),
	)
}

// ReplCmd runs the interactive command loop.
type ReplCmd struct {
	Plain bool `help:"Force plain line output even if stdout is a TTY." default:"false"`
}

// Run executes the repl command.
func (r *ReplCmd) Run(g *Globals) error {
	a, err := setup(g)
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer a.log.Sync()

	console := tui.NewConsole(tui.ConsoleOptions{
		Session:    a.newSession(),
		ForcePlain: r.Plain || a.cfg.Display.Plain,
		Prompt:     a.cfg.Display.Prompt,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return r.run(ctx, console)
}

// run drives the console, enabling testable wiring.
func (r *ReplCmd) run(ctx context.Context, console tui.Console) error {
	err := console.Run(ctx)
	// Every command is saved as it runs, so an interrupt loses nothing.
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	return nil
}

// ExecCmd runs one assistant command, saves and exits.
type ExecCmd struct {
	Args []string `arg:"" passthrough:"" help:"Command and its arguments, e.g. add Ann 1234567890."`
}

// Run executes the exec command.
func (e *ExecCmd) Run(g *Globals) error {
	a, err := setup(g)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	defer a.log.Sync()

	return e.run(os.Stdout, a.newSession())
}

// run executes the command line on exec, enabling testable wiring.
func (e *ExecCmd) run(w io.Writer, exec tui.Executor) error {
	res, err := exec.Execute(strings.Join(e.Args, " "))
	_, _ = fmt.Fprintln(w, res.String())
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if res.Failed() {
		return fmt.Errorf("exec: %w", errCommandFailed)
	}
	return nil
}

// BirthdaysCmd prints upcoming birthdays without starting the assistant.
type BirthdaysCmd struct {
	Days int `help:"Window length in days (0 uses config)." default:"0"`
}

// Run executes the birthdays command.
func (b *BirthdaysCmd) Run(g *Globals) error {
	a, err := setup(g)
	if err != nil {
		return fmt.Errorf("birthdays: %w", err)
	}
	defer a.log.Sync()

	days := a.cfg.Birthdays.WindowDays
	if b.Days > 0 {
		days = b.Days
	}
	return b.run(os.Stdout, a.book, days, time.Now)
}

// run prints the upcoming birthdays, enabling testable wiring.
func (b *BirthdaysCmd) run(w io.Writer, book *contact.AddressBook, days int, now func() time.Time) error {
	res := command.Birthdays(nil, &command.Env{Book: book, Now: now, WindowDays: days})
	_, _ = fmt.Fprintln(w, res.String())
	return nil
}

// Exit codes.
const (
	exitSuccess     = 0
	exitPersistence = 1
	exitSetup       = 2
	exitCommand     = 3
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var pe *store.PersistenceError
	if errors.As(err, &pe) {
		return exitPersistence
	}
	if errors.Is(err, errCommandFailed) {
		return exitCommand
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("addressbook"),
		kong.Description("A console assistant for contacts, phone numbers and birthdays."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil && !errors.Is(err, errCommandFailed) {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	}
	os.Exit(exitCode(err))
}
