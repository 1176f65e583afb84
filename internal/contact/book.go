package contact

import (
	"sort"
	"strings"
	"time"
)

// DefaultWindowDays is the default length of the upcoming-birthday window.
const DefaultWindowDays = 7

// AddressBook maps contact names to their records.
// Every key equals the name of the record stored under it.
type AddressBook struct {
	records map[string]*Record
}

// NewAddressBook returns an empty AddressBook.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// AddRecord stores r under its name, replacing any record with the same name.
func (b *AddressBook) AddRecord(r *Record) {
	b.records[r.name.value] = r
}

// Find returns the record stored under name.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name and reports whether it existed.
func (b *AddressBook) Delete(name string) bool {
	if _, ok := b.records[name]; !ok {
		return false
	}
	delete(b.records, name)
	return true
}

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.records) }

// Records returns all records sorted by name.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r)
	}
	sortByName(out)
	return out
}

// UpcomingBirthdays returns the records whose birthday, moved into today's
// year, falls within [today, today+windowDays). Birthdays that already passed
// this year are not wrapped into next year, so late-December windows never
// include early-January birthdays.
func (b *AddressBook) UpcomingBirthdays(today time.Time, windowDays int) []*Record {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var out []*Record
	for _, r := range b.records {
		if r.birthday == nil {
			continue
		}
		days := daysBetween(start, r.birthday.In(start.Year()))
		if days >= 0 && days < windowDays {
			out = append(out, r)
		}
	}
	sortByName(out)
	return out
}

// daysBetween returns the whole number of days from a to b. Both must be
// midnight UTC.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// String lists every record on its own line, or "No records" when empty.
func (b *AddressBook) String() string {
	if len(b.records) == 0 {
		return "No records"
	}
	records := b.Records()
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

func sortByName(rs []*Record) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].name.value < rs[j].name.value })
}
