// Package session runs the read-dispatch-save loop over an address book.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/smileynet/addressbook/internal/command"
	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/logger"
)

// Saver persists the address book.
type Saver interface {
	Save(book *contact.AddressBook) error
}

// Session owns the address book for the lifetime of one console run.
// Every executed line is followed by a save.
type Session struct {
	env   *command.Env
	reg   *command.Registry
	saver Saver
	log   *logger.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRegistry replaces the default command registry.
func WithRegistry(reg *command.Registry) Option {
	return func(s *Session) { s.reg = reg }
}

// WithClock sets the function used as "today" for birthday queries.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.env.Now = now }
}

// WithWindowDays sets the upcoming-birthday window.
func WithWindowDays(days int) Option {
	return func(s *Session) { s.env.WindowDays = days }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New creates a Session over book that saves through saver.
func New(book *contact.AddressBook, saver Saver, opts ...Option) *Session {
	s := &Session{
		env: &command.Env{
			Book:       book,
			Now:        time.Now,
			WindowDays: contact.DefaultWindowDays,
		},
		reg:   command.NewDefaultRegistry(),
		saver: saver,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book returns the session's address book.
func (s *Session) Book() *contact.AddressBook { return s.env.Book }

// Execute runs one command line and saves the book.
// The returned error is a persistence failure; command failures are
// reported in the Result.
func (s *Session) Execute(line string) (command.Result, error) {
	tokens := command.Parse(line)
	res := s.reg.Dispatch(tokens, s.env)

	if len(tokens) > 0 {
		s.log.Debug("command executed", "command", tokens[0], "failed", res.Failed())
	}
	if res.Failed() {
		s.log.Info("command failed", "error", res.Err)
	}

	if err := s.saver.Save(s.env.Book); err != nil {
		s.log.Error("saving address book", "error", err)
		return res, err
	}
	s.log.Debug("address book saved", "records", s.env.Book.Len())
	return res, nil
}

// Run reads commands from in line by line, writing prompt before each one and
// the result after it. It returns nil when a quit command runs or in is
// exhausted, ctx's error once ctx is done, and the first persistence or read
// error otherwise. A line that arrives after ctx is done is not executed.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer, prompt string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	_, _ = fmt.Fprintln(out, "Welcome to the assistant bot!")

	lines, readErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprint(out, prompt)

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out)
				if err := <-readErr; err != nil {
					s.log.Warn("reading input", "error", err)
					return err
				}
				return nil
			}
			line = l
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := s.Execute(line)
		_, _ = fmt.Fprintln(out, res.String())
		if err != nil {
			return err
		}
		if res.Quit {
			return nil
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never delays
// cancellation. The goroutine stops after its current read once ctx is done;
// the error channel is only written when in is exhausted.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
