package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smileynet/addressbook/internal/command"
	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/logger"
	"github.com/smileynet/addressbook/internal/store"
)

// mockSaver records saves and optionally fails.
type mockSaver struct {
	saves int
	lens  []int
	err   error
}

func (m *mockSaver) Save(book *contact.AddressBook) error {
	m.saves++
	m.lens = append(m.lens, book.Len())
	return m.err
}

func fixedClock() time.Time {
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func TestSession_ExecuteSavesEveryCommand(t *testing.T) {
	// Given a session over an empty book
	saver := &mockSaver{}
	s := New(contact.NewAddressBook(), saver)

	// When two commands run, one of them failing
	if res, err := s.Execute("add Ann 1234567890"); err != nil || res.Failed() {
		t.Fatalf("Execute(add) = %+v, %v", res, err)
	}
	if res, err := s.Execute("phone Bob"); err != nil || !res.Failed() {
		t.Fatalf("Execute(phone Bob) = %+v, %v; want failed result", res, err)
	}

	// Then the book is saved after each one
	if saver.saves != 2 {
		t.Errorf("saves = %d, want 2", saver.saves)
	}
	if saver.lens[0] != 1 {
		t.Errorf("first save saw %d records, want 1", saver.lens[0])
	}
}

func TestSession_ExecuteReturnsSaveError(t *testing.T) {
	saveErr := errors.New("disk full")
	s := New(contact.NewAddressBook(), &mockSaver{err: saveErr})

	res, err := s.Execute("add Ann 1234567890")

	if !errors.Is(err, saveErr) {
		t.Fatalf("Execute() error = %v, want %v", err, saveErr)
	}
	if res.String() != "Contact added." {
		t.Errorf("result = %q, want command result despite save failure", res.String())
	}
}

func TestSession_WithOptions(t *testing.T) {
	book := contact.NewAddressBook()
	r, _ := contact.NewRecord("Ann")
	_ = r.AddBirthday("24.10.1990")
	book.AddRecord(r)

	reg := command.NewDefaultRegistry()
	s := New(book, &mockSaver{},
		WithRegistry(reg),
		WithClock(fixedClock),
		WithWindowDays(10),
	)

	res, err := s.Execute("birthdays")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.String(), "Ann") {
		t.Errorf("birthdays = %q, want Ann within a 10-day window", res.String())
	}
}

func TestSession_Run(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantSaves int
		wantOut   []string
	}{
		{
			name:      "exit ends the loop",
			input:     "hello\nexit\nadd Ann 1234567890\n",
			wantSaves: 2,
			wantOut:   []string{"Welcome to the assistant bot!", "How can I help you?", "Good bye!"},
		},
		{
			name:      "end of input ends the loop",
			input:     "add Ann 1234567890\nphone Ann",
			wantSaves: 2,
			wantOut:   []string{"Contact added.", "Phones for Ann: 1234567890"},
		},
		{
			name:      "blank and unknown lines are invalid commands",
			input:     "\nfly\nclose\n",
			wantSaves: 3,
			wantOut:   []string{"Invalid command.", "Good bye!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &mockSaver{}
			s := New(contact.NewAddressBook(), saver)
			var out bytes.Buffer

			err := s.Run(context.Background(), strings.NewReader(tt.input), &out, "> ")

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if saver.saves != tt.wantSaves {
				t.Errorf("saves = %d, want %d", saver.saves, tt.wantSaves)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestSession_Run_StopsOnSaveError(t *testing.T) {
	saveErr := errors.New("read-only filesystem")
	saver := &mockSaver{err: saveErr}
	s := New(contact.NewAddressBook(), saver)

	err := s.Run(context.Background(), strings.NewReader("hello\nhello\n"), &bytes.Buffer{}, "> ")

	if !errors.Is(err, saveErr) {
		t.Fatalf("Run() error = %v, want %v", err, saveErr)
	}
	if saver.saves != 1 {
		t.Errorf("saves = %d, want 1 (loop stops at the first failure)", saver.saves)
	}
}

func TestSession_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(contact.NewAddressBook(), &mockSaver{}).Run(ctx, strings.NewReader("hello\n"), &bytes.Buffer{}, "> ")

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestSession_Run_CancelWhileWaitingForInput(t *testing.T) {
	// Given a session blocked reading a pipe nobody has written to
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	saver := &mockSaver{}
	book := contact.NewAddressBook()
	s := New(book, saver)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, pr, io.Discard, "> ") }()
	time.Sleep(50 * time.Millisecond)

	// When the context is cancelled
	cancel()

	// Then Run returns without waiting for another line
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() still blocked after cancel")
	}

	// And a line typed afterwards is never executed
	if _, err := pw.Write([]byte("add Ann 1234567890\n")); err != nil {
		t.Fatal(err)
	}
	if saver.saves != 0 || book.Len() != 0 {
		t.Errorf("saves = %d, records = %d after cancel, want 0 and 0", saver.saves, book.Len())
	}
}

func TestSession_Run_ReadErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	readErr := errors.New("stdin closed")
	s := New(contact.NewAddressBook(), &mockSaver{}, WithLogger(log))

	err := s.Run(context.Background(), iotest.ErrReader(readErr), &bytes.Buffer{}, "> ")

	if !errors.Is(err, readErr) {
		t.Fatalf("Run() error = %v, want %v", err, readErr)
	}
	if got := logs.FilterMessage("reading input").Len(); got != 1 {
		t.Errorf("warn entries = %d, want 1", got)
	}
}

func TestSession_PersistsAcrossRuns(t *testing.T) {
	// Given a file-backed session that adds a contact
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "addressbook.json"))
	first := New(contact.NewAddressBook(), fs)
	if err := first.Run(context.Background(), strings.NewReader("add Ann 1234567890\nadd-birthday Ann 15.03.1990\nexit\n"), &bytes.Buffer{}, ""); err != nil {
		t.Fatal(err)
	}

	// When a new session loads the saved book
	book, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second := New(book, fs)

	// Then the contact is still there
	res, err := second.Execute("show-birthday Ann")
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != "15.03.1990" {
		t.Errorf("show-birthday = %q, want %q", res.String(), "15.03.1990")
	}
}
