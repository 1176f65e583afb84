// Package store implements address book persistence to the filesystem.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smileynet/addressbook/internal/contact"
)

// FormatVersion is the document version written by Save.
const FormatVersion = 1

// dateLayout is the on-disk birthday format.
const dateLayout = "2006-01-02"

// PersistenceError reports a store that could not be read or written.
// Load never returns it for a missing file.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrUnsupportedVersion indicates a document written by an incompatible version.
var ErrUnsupportedVersion = errors.New("unsupported format version")

// document is the serialized form of an AddressBook.
type document struct {
	Version  int         `json:"version"`
	Contacts []contactV1 `json:"contacts"`
}

type contactV1 struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday,omitempty"`
}

// FileStore persists an AddressBook as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore that reads and writes path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

// Save writes the whole book, replacing any previous content.
// The file is written to a temporary sibling and renamed into place, so a
// failed save leaves the previous file intact.
func (s *FileStore) Save(book *contact.AddressBook) error {
	data, err := json.MarshalIndent(encode(book), "", "  ")
	if err != nil {
		return s.fail("save", fmt.Errorf("marshaling: %w", err))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return s.fail("save", fmt.Errorf("creating directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.fail("save", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return s.fail("save", err)
	}
	if err := tmp.Close(); err != nil {
		return s.fail("save", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return s.fail("save", err)
	}
	return nil
}

// Load reads the book from disk. A missing file yields an empty book.
// Corrupt or unreadable files return *PersistenceError.
func (s *FileStore) Load() (*contact.AddressBook, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return contact.NewAddressBook(), nil
		}
		return nil, s.fail("load", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, s.fail("load", fmt.Errorf("parsing: %w", err))
	}
	if doc.Version != FormatVersion {
		return nil, s.fail("load", fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version))
	}

	book, err := decode(doc)
	if err != nil {
		return nil, s.fail("load", err)
	}
	return book, nil
}

func (s *FileStore) fail(op string, err error) error {
	return &PersistenceError{Op: op, Path: s.path, Err: err}
}

func encode(book *contact.AddressBook) document {
	records := book.Records()
	doc := document{Version: FormatVersion, Contacts: make([]contactV1, len(records))}
	for i, r := range records {
		phones := r.Phones()
		c := contactV1{Name: r.Name().String(), Phones: make([]string, len(phones))}
		for j, p := range phones {
			c.Phones[j] = p.String()
		}
		if b, ok := r.Birthday(); ok {
			c.Birthday = b.Date().Format(dateLayout)
		}
		doc.Contacts[i] = c
	}
	return doc
}

// decode rebuilds the book through the field constructors so invariants hold
// for data edited by hand.
func decode(doc document) (*contact.AddressBook, error) {
	book := contact.NewAddressBook()
	for _, c := range doc.Contacts {
		if _, exists := book.Find(c.Name); exists {
			return nil, fmt.Errorf("duplicate contact %q", c.Name)
		}
		r, err := contact.NewRecord(c.Name)
		if err != nil {
			return nil, fmt.Errorf("contact %q: %w", c.Name, err)
		}
		for _, p := range c.Phones {
			if err := r.AddPhone(p); err != nil {
				return nil, fmt.Errorf("contact %q: %w", c.Name, err)
			}
		}
		if c.Birthday != "" {
			d, err := time.Parse(dateLayout, c.Birthday)
			if err != nil {
				return nil, fmt.Errorf("contact %q: birthday %q: %w", c.Name, c.Birthday, err)
			}
			b := contact.NewBirthday(d.Year(), d.Month(), d.Day())
			if err := r.AddBirthday(b.String()); err != nil {
				return nil, fmt.Errorf("contact %q: %w", c.Name, err)
			}
		}
		book.AddRecord(r)
	}
	return book, nil
}
