// Package tui renders the address book session on the console, as an
// interactive Bubble Tea prompt on a terminal or as plain lines otherwise.
package tui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Session is the command loop a Console drives.
type Session interface {
	Executor
	Run(ctx context.Context, in io.Reader, out io.Writer, prompt string) error
}

// Console runs a session until the user quits.
type Console interface {
	Run(ctx context.Context) error
}

// ConsoleOptions configures console creation.
type ConsoleOptions struct {
	Session    Session
	In         io.Reader // Input source (default: os.Stdin).
	Out        io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force plain text even if TTY.
	Prompt     string
}

// NewConsole returns a TUI console when Out is a TTY, or a plain line console
// otherwise. ForcePlain overrides TTY detection.
func NewConsole(opts ConsoleOptions) Console {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	plain := &PlainConsole{session: opts.Session, in: opts.In, out: opts.Out, prompt: opts.Prompt}
	if opts.ForcePlain || !isTTY(opts.Out) {
		return plain
	}
	return &TUIConsole{plain: plain}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainConsole reads one command per line and prints each result.
type PlainConsole struct {
	session Session
	in      io.Reader
	out     io.Writer
	prompt  string
}

// Run drives the session's line loop.
func (c *PlainConsole) Run(ctx context.Context) error {
	return c.session.Run(ctx, c.in, c.out, c.prompt)
}

// TUIConsole runs the session through a Bubble Tea program.
// Falls back to PlainConsole if the program fails to start.
type TUIConsole struct {
	plain *PlainConsole
}

// Run starts the Bubble Tea program and returns the persistence error that
// ended it, if any.
func (c *TUIConsole) Run(ctx context.Context) error {
	model := NewModel(c.plain.session, c.plain.prompt)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(c.plain.in),
		tea.WithOutput(c.plain.out),
	)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return c.plain.Run(ctx)
	}

	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
