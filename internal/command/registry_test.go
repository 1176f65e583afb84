package command

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("dispatch runs registered handler with remaining args", func(t *testing.T) {
		r := NewRegistry()
		var gotArgs []string
		r.Register("echo", func(args []string, _ *Env) Result {
			gotArgs = args
			return OK("ok")
		})

		res := r.Dispatch([]string{"echo", "a", "b"}, newEnv())

		if res.String() != "ok" {
			t.Errorf("result = %q, want %q", res.String(), "ok")
		}
		if len(gotArgs) != 2 || gotArgs[0] != "a" || gotArgs[1] != "b" {
			t.Errorf("args = %v, want [a b]", gotArgs)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		r := NewRegistry()

		res := r.Dispatch([]string{"nope"}, newEnv())

		if !errors.Is(res.Err, ErrUnknownCommand) {
			t.Errorf("err = %v, want ErrUnknownCommand", res.Err)
		}
		if res.String() != "Invalid command." {
			t.Errorf("result = %q, want %q", res.String(), "Invalid command.")
		}
	})

	t.Run("empty line", func(t *testing.T) {
		res := NewDefaultRegistry().Dispatch(Parse("   "), newEnv())
		if !errors.Is(res.Err, ErrUnknownCommand) {
			t.Errorf("err = %v, want ErrUnknownCommand", res.Err)
		}
	})

	t.Run("names are sorted", func(t *testing.T) {
		r := NewRegistry()
		r.Register("zeta", Hello)
		r.Register("alpha", Hello)

		got := r.Names()
		if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
			t.Errorf("Names() = %v, want [alpha zeta]", got)
		}
	})

	t.Run("register panics on empty name", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewRegistry().Register("", Hello)
	})

	t.Run("register panics on nil handler", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewRegistry().Register("x", nil)
	})
}

func TestParse(t *testing.T) {
	got := Parse("  add   Ann\t1234567890 \n")
	want := []string{"add", "Ann", "1234567890"}
	if len(got) != len(want) {
		t.Fatalf("Parse() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Parse()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResult_String(t *testing.T) {
	if got := OK("hi %s", "there").String(); got != "hi there" {
		t.Errorf("OK().String() = %q", got)
	}
	res := Fail(errors.New("boom"))
	if !res.Failed() || res.String() != "boom" {
		t.Errorf("Fail() = %+v", res)
	}
}

func TestResult_FailfKeepsErrorAndMessageApart(t *testing.T) {
	tests := []struct {
		name    string
		res     Result
		wantIs  error
		wantMsg string
		wantErr string
	}{
		{
			name:    "unknown command",
			res:     NewRegistry().Dispatch([]string{"fly"}, newEnv()),
			wantIs:  ErrUnknownCommand,
			wantMsg: "Invalid command.",
			wantErr: "unknown command",
		},
		{
			name:    "missing contact",
			res:     NewDefaultRegistry().Dispatch([]string{"phone", "Bob"}, newEnv()),
			wantIs:  ErrNotFound,
			wantMsg: "Contact Bob not found.",
			wantErr: "contact Bob: not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.res.Err, tt.wantIs) {
				t.Errorf("Err = %v, want %v", tt.res.Err, tt.wantIs)
			}
			if tt.res.String() != tt.wantMsg {
				t.Errorf("String() = %q, want %q", tt.res.String(), tt.wantMsg)
			}
			if tt.res.Err.Error() != tt.wantErr {
				t.Errorf("Err.Error() = %q, want %q", tt.res.Err.Error(), tt.wantErr)
			}
		})
	}
}
