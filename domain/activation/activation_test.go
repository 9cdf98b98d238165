package activation

import (
	"errors"
	"testing"

	"github.com/pranitsh/keyflare/domain/action"
)

func TestParseHotkey(t *testing.T) {
	cases := []struct {
		in   string
		want Hotkey
	}{
		{"alt+z", Hotkey{Mods: ModAlt, Key: "z"}},
		{"Alt+Shift+Z", Hotkey{Mods: ModAlt | ModShift, Key: "z"}},
		{" ctrl + F3 ", Hotkey{Mods: ModCtrl, Key: "f3"}},
		{"win+space", Hotkey{Mods: ModSuper, Key: "space"}},
		{"f12", Hotkey{Key: "f12"}},
		{"control+7", Hotkey{Mods: ModCtrl, Key: "7"}},
	}
	for _, c := range cases {
		got, err := ParseHotkey(c.in)
		if err != nil {
			t.Fatalf("ParseHotkey(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseHotkey(%q)=%+v want %+v", c.in, got, c.want)
		}
	}
}

func TestParseHotkey_Invalid(t *testing.T) {
	for _, in := range []string{"", "alt", "alt+", "alt+z+x", "ctrl+f13", "alt+tab", "f0"} {
		if _, err := ParseHotkey(in); err == nil {
			t.Fatalf("ParseHotkey(%q) should fail", in)
		}
	}
}

func TestHotkey_String(t *testing.T) {
	h, _ := ParseHotkey("shift+alt+ctrl+q")
	if got := h.String(); got != "ctrl+alt+shift+q" {
		t.Fatalf("String()=%q", got)
	}
}

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding("alt+shift+z", 2, "primary")
	if err != nil {
		t.Fatalf("ParseBinding: %v", err)
	}
	if b.Trigger.Clicks != 2 || b.Trigger.Button != action.ButtonPrimary {
		t.Fatalf("unexpected trigger %+v", b.Trigger)
	}
	b, _ = ParseBinding("alt+x", 0, "right")
	if b.Trigger.Clicks != 1 || b.Trigger.Button != action.ButtonSecondary {
		t.Fatalf("unexpected trigger %+v", b.Trigger)
	}
	if _, err := ParseBinding("alt+x", 1, "middle"); err == nil {
		t.Fatalf("expected button error")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrNoBindings) {
		t.Fatalf("expected ErrNoBindings, got %v", err)
	}
	a, _ := ParseBinding("alt+z", 1, "")
	b, _ := ParseBinding("Alt+Z", 2, "")
	if err := Validate([]Binding{a, b}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	c, _ := ParseBinding("alt+shift+z", 2, "")
	if err := Validate([]Binding{a, c}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestKeysym(t *testing.T) {
	cases := map[string]uint32{"a": 0x61, "z": 0x7a, "0": 0x30, "f1": 0xffbe, "f12": 0xffc9, "space": 0x20, "escape": 0xff1b, "tab": 0}
	for k, want := range cases {
		if got := keysym(k); got != want {
			t.Fatalf("keysym(%q)=%#x want %#x", k, got, want)
		}
	}
}
