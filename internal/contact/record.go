package contact

import (
	"fmt"
	"strings"
)

// DuplicateBirthdayError is returned when a birthday is set on a record that
// already has one. Birthdays are never overwritten.
type DuplicateBirthdayError struct {
	Name     string
	Existing Birthday
}

func (e *DuplicateBirthdayError) Error() string {
	return fmt.Sprintf("a birthday is already set for %s. Current birthday: %s", e.Name, e.Existing)
}

// Record is one contact: a name, an ordered list of phones and an optional birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a Record with a validated name and no phones.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the contact's name.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phones in insertion order.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// AddPhone validates raw and appends it. Duplicates are allowed.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// EditPhone replaces the first phone equal to oldValue with newValue.
// It returns false with a nil error when oldValue is not present. If newValue
// is invalid the record is left unchanged.
func (r *Record) EditPhone(oldValue, newValue string) (bool, error) {
	i := r.indexOf(oldValue)
	if i < 0 {
		return false, nil
	}
	p, err := NewPhone(newValue)
	if err != nil {
		return false, err
	}
	r.phones[i] = p
	return true, nil
}

// FindPhone returns the first phone equal to value.
func (r *Record) FindPhone(value string) (Phone, bool) {
	i := r.indexOf(value)
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

// RemovePhone removes the first phone equal to value and reports whether one was removed.
func (r *Record) RemovePhone(value string) bool {
	i := r.indexOf(value)
	if i < 0 {
		return false
	}
	r.phones = append(r.phones[:i], r.phones[i+1:]...)
	return true
}

func (r *Record) indexOf(value string) int {
	for i, p := range r.phones {
		if p.value == value {
			return i
		}
	}
	return -1
}

// AddBirthday parses raw and sets it as the birthday.
// Returns *DuplicateBirthdayError if a birthday is already set, whatever raw is.
func (r *Record) AddBirthday(raw string) error {
	if r.birthday != nil {
		return &DuplicateBirthdayError{Name: r.name.value, Existing: *r.birthday}
	}
	b, err := ParseBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// ShowBirthday returns the formatted birthday, or a notice when none is set.
func (r *Record) ShowBirthday() string {
	if r.birthday == nil {
		return "No birthday set for " + r.name.value
	}
	return r.birthday.String()
}

// PhoneList joins the phones with "; " in insertion order.
func (r *Record) PhoneList() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.value
	}
	return strings.Join(values, "; ")
}

// String describes the record on a single line.
func (r *Record) String() string {
	s := fmt.Sprintf("Contact name: %s, phones: %s", r.name.value, r.PhoneList())
	if r.birthday != nil {
		s += ", birthday: " + r.birthday.String()
	}
	return s
}
