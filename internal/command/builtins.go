package command

import (
	"fmt"
	"strings"

	"github.com/smileynet/addressbook/internal/contact"
)

// RegisterBuiltins registers the standard address book commands on reg.
func RegisterBuiltins(reg *Registry) {
	reg.Register("hello", Hello)
	reg.Register("add", AddContact)
	reg.Register("change", ChangePhone)
	reg.Register("phone", ShowPhone)
	reg.Register("all", ShowAll)
	reg.Register("add-birthday", AddBirthday)
	reg.Register("show-birthday", ShowBirthday)
	reg.Register("birthdays", Birthdays)
	reg.Register("delete", DeleteContact)
	reg.Register("remove-phone", RemovePhone)
	reg.Register("close", Exit)
	reg.Register("exit", Exit)
	reg.Register("help", func(_ []string, _ *Env) Result {
		return OK("Available commands: %s", strings.Join(reg.Names(), ", "))
	})
}

// NewDefaultRegistry returns a Registry with the built-in commands.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	RegisterBuiltins(reg)
	return reg
}

func usage(cmd, args string) Result {
	return Fail(fmt.Errorf("%w: %s %s", ErrUsage, cmd, args))
}

func contactNotFound(name string) Result {
	return Failf(fmt.Errorf("contact %s: %w", name, ErrNotFound), "Contact %s not found.", name)
}

func phoneNotFound(name, phone string) Result {
	return Failf(fmt.Errorf("phone %s of %s: %w", phone, name, ErrNotFound), "Phone %s not found for %s.", phone, name)
}

// Hello greets the user.
func Hello(_ []string, _ *Env) Result {
	return OK("How can I help you?")
}

// Exit ends the session.
func Exit(_ []string, _ *Env) Result {
	return Result{Message: "Good bye!", Quit: true}
}

// AddContact adds a phone to a contact, creating the contact if needed.
// A new contact is only stored once its first phone validates.
func AddContact(args []string, env *Env) Result {
	if len(args) < 2 {
		return usage("add", "<name> <phone>")
	}
	name, phone := args[0], args[1]

	if r, ok := env.Book.Find(name); ok {
		if err := r.AddPhone(phone); err != nil {
			return Fail(err)
		}
		return OK("Contact updated.")
	}

	r, err := contact.NewRecord(name)
	if err != nil {
		return Fail(err)
	}
	if err := r.AddPhone(phone); err != nil {
		return Fail(err)
	}
	env.Book.AddRecord(r)
	return OK("Contact added.")
}

// ChangePhone replaces one of a contact's phones.
func ChangePhone(args []string, env *Env) Result {
	if len(args) < 3 {
		return usage("change", "<name> <old-phone> <new-phone>")
	}
	name, oldPhone, newPhone := args[0], args[1], args[2]

	r, ok := env.Book.Find(name)
	if !ok {
		return contactNotFound(name)
	}
	updated, err := r.EditPhone(oldPhone, newPhone)
	if err != nil {
		return Fail(err)
	}
	if !updated {
		return phoneNotFound(name, oldPhone)
	}
	return OK("Phone number updated for %s.", name)
}

// ShowPhone lists a contact's phones.
func ShowPhone(args []string, env *Env) Result {
	if len(args) < 1 {
		return usage("phone", "<name>")
	}
	name := args[0]

	r, ok := env.Book.Find(name)
	if !ok {
		return contactNotFound(name)
	}
	return OK("Phones for %s: %s", name, r.PhoneList())
}

// ShowAll describes every contact.
func ShowAll(_ []string, env *Env) Result {
	return OK("%s", env.Book.String())
}

// AddBirthday sets a contact's birthday. Birthdays can only be set once.
func AddBirthday(args []string, env *Env) Result {
	if len(args) < 2 {
		return usage("add-birthday", "<name> <DD.MM.YYYY>")
	}
	name, raw := args[0], args[1]

	r, ok := env.Book.Find(name)
	if !ok {
		return contactNotFound(name)
	}
	if err := r.AddBirthday(raw); err != nil {
		return Fail(err)
	}
	return OK("Birthday added for %s.", name)
}

// ShowBirthday prints a contact's birthday.
func ShowBirthday(args []string, env *Env) Result {
	if len(args) < 1 {
		return usage("show-birthday", "<name>")
	}
	name := args[0]

	r, ok := env.Book.Find(name)
	if !ok {
		return contactNotFound(name)
	}
	return OK("%s", r.ShowBirthday())
}

// Birthdays lists the contacts with a birthday in the upcoming window.
func Birthdays(_ []string, env *Env) Result {
	upcoming := env.Book.UpcomingBirthdays(env.today(), env.window())
	if len(upcoming) == 0 {
		return OK("No upcoming birthdays.")
	}
	lines := make([]string, len(upcoming))
	for i, r := range upcoming {
		lines[i] = r.String()
	}
	return OK("%s", strings.Join(lines, "\n"))
}

// DeleteContact removes a contact.
func DeleteContact(args []string, env *Env) Result {
	if len(args) < 1 {
		return usage("delete", "<name>")
	}
	name := args[0]

	if !env.Book.Delete(name) {
		return contactNotFound(name)
	}
	return OK("Contact %s deleted.", name)
}

// RemovePhone removes one phone from a contact.
func RemovePhone(args []string, env *Env) Result {
	if len(args) < 2 {
		return usage("remove-phone", "<name> <phone>")
	}
	name, phone := args[0], args[1]

	r, ok := env.Book.Find(name)
	if !ok {
		return contactNotFound(name)
	}
	if !r.RemovePhone(phone) {
		return phoneNotFound(name, phone)
	}
	return OK("Phone %s removed for %s.", phone, name)
}
