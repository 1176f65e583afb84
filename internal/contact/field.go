// Package contact implements the address book data model: validated fields,
// contact records and the keyed book that owns them.
package contact

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// MinNameLength is the minimum number of characters in a contact name.
const MinNameLength = 3

// PhoneLength is the exact number of digits in a phone number.
const PhoneLength = 10

// BirthdayLayout is the textual form of a birthday (DD.MM.YYYY).
const BirthdayLayout = "02.01.2006"

// ValidationError reports a raw value rejected by a field constructor.
type ValidationError struct {
	Field  string // "name", "phone" or "birthday"
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Name is a validated contact name.
type Name struct {
	value string
}

// NewName validates raw and returns it as a Name.
func NewName(raw string) (Name, error) {
	if utf8.RuneCountInString(raw) < MinNameLength {
		return Name{}, &ValidationError{
			Field:  "name",
			Value:  raw,
			Reason: fmt.Sprintf("name %q must be at least %d characters long", raw, MinNameLength),
		}
	}
	return Name{value: raw}, nil
}

// String returns the name as given.
func (n Name) String() string { return n.value }

// Phone is a validated ten-digit phone number.
type Phone struct {
	value string
}

// NewPhone validates raw and returns it as a Phone.
func NewPhone(raw string) (Phone, error) {
	if !isPhone(raw) {
		return Phone{}, &ValidationError{
			Field:  "phone",
			Value:  raw,
			Reason: fmt.Sprintf("phone %q must be exactly %d digits", raw, PhoneLength),
		}
	}
	return Phone{value: raw}, nil
}

func isPhone(s string) bool {
	if len(s) != PhoneLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String returns the digits.
func (p Phone) String() string { return p.value }

// Birthday is a calendar date with no time-of-day component.
type Birthday struct {
	date time.Time // midnight UTC
}

// ParseBirthday parses raw in DD.MM.YYYY form.
// Dates that do not exist on the calendar (31.02.2000) are rejected.
func ParseBirthday(raw string) (Birthday, error) {
	t, err := time.Parse(BirthdayLayout, raw)
	if err != nil {
		return Birthday{}, invalidBirthday(raw)
	}
	return Birthday{date: t}, nil
}

// NewBirthday returns the Birthday for the given calendar date.
func NewBirthday(year int, month time.Month, day int) Birthday {
	return Birthday{date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func invalidBirthday(raw string) error {
	return &ValidationError{
		Field:  "birthday",
		Value:  raw,
		Reason: fmt.Sprintf("invalid date format %q, use DD.MM.YYYY", raw),
	}
}

// Date returns the birthday as midnight UTC.
func (b Birthday) Date() time.Time { return b.date }

// String formats the birthday as DD.MM.YYYY.
func (b Birthday) String() string { return b.date.Format(BirthdayLayout) }

// In returns this birthday's anniversary in the given year.
// A 29 February birthday falls on 28 February in non-leap years.
func (b Birthday) In(year int) time.Time {
	month, day := b.date.Month(), b.date.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
