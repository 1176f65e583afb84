// Package command maps parsed command lines onto address book operations.
// Every handler returns a Result; domain failures become Result errors and
// never escape as panics or unhandled errors.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smileynet/addressbook/internal/contact"
)

var (
	// ErrUsage indicates a command was called with too few arguments.
	ErrUsage = errors.New("usage")
	// ErrNotFound indicates the named contact or phone does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCommand indicates the command word is not registered.
	ErrUnknownCommand = errors.New("unknown command")
)

// Result is the outcome of one command. Message is the text shown to the
// user; Err classifies a failure for errors.Is.
type Result struct {
	Message string
	Err     error
	Quit    bool // the session should end after printing
}

// OK returns a successful Result.
func OK(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// Fail returns a failed Result shown as err's text.
func Fail(err error) Result {
	return Result{Err: err}
}

// Failf returns a failed Result classified by err and shown as the
// formatted message.
func Failf(err error, format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...), Err: err}
}

// Failed reports whether the command failed.
func (r Result) Failed() bool { return r.Err != nil }

// String renders the message, falling back to the error text for failed
// results without one.
func (r Result) String() string {
	if r.Message == "" && r.Err != nil {
		return r.Err.Error()
	}
	return r.Message
}

// Env is the state shared by all handlers for a session.
type Env struct {
	Book       *contact.AddressBook
	Now        func() time.Time
	WindowDays int
}

func (e *Env) today() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) window() int {
	if e.WindowDays <= 0 {
		return contact.DefaultWindowDays
	}
	return e.WindowDays
}

// Handler runs one command with the tokens that followed the command word.
type Handler func(args []string, env *Env) Result

// Registry maps command words to handlers.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under name. Overwrites if name already exists.
// Panics if name is empty or h is nil (programmer error).
func (r *Registry) Register(name string, h Handler) {
	if name == "" {
		panic("command: Register called with empty name")
	}
	if h == nil {
		panic("command: Register called with nil handler")
	}
	r.handlers[name] = h
}

// Names returns registered command words in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler named by tokens[0]. Command words are matched
// case-insensitively; arguments are passed through unchanged.
func (r *Registry) Dispatch(tokens []string, env *Env) Result {
	if len(tokens) == 0 {
		return invalidCommand()
	}
	h, ok := r.handlers[strings.ToLower(tokens[0])]
	if !ok {
		return invalidCommand()
	}
	return h(tokens[1:], env)
}

// Parse splits a command line into whitespace-separated tokens.
func Parse(line string) []string {
	return strings.Fields(line)
}

func invalidCommand() Result {
	return Failf(ErrUnknownCommand, "Invalid command.")
}
