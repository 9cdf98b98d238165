package activation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pranitsh/keyflare/domain/action"
)

var (
	// ErrUnsupported is returned where no global hotkey backend exists.
	ErrUnsupported = errors.New("global hotkeys not supported on this platform")
	ErrNoBindings  = errors.New("activation: no bindings")
)

// Modifier is a bit set of hotkey modifiers.
type Modifier uint8

const (
	ModAlt Modifier = 1 << iota
	ModCtrl
	ModShift
	ModSuper
)

var modifierNames = map[string]Modifier{
	"alt": ModAlt, "option": ModAlt,
	"ctrl": ModCtrl, "control": ModCtrl,
	"shift": ModShift,
	"super": ModSuper, "win": ModSuper, "cmd": ModSuper,
}

func (m Modifier) String() string {
	var parts []string
	for _, n := range []struct {
		mod  Modifier
		name string
	}{{ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModShift, "shift"}, {ModSuper, "super"}} {
		if m&n.mod != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// Hotkey is a modifier set plus one non-modifier key. Key is lower case:
// a letter, a digit, f1..f12, "space" or "escape".
type Hotkey struct {
	Mods Modifier
	Key  string
}

func (h Hotkey) String() string {
	if h.Mods == 0 {
		return h.Key
	}
	return h.Mods.String() + "+" + h.Key
}

// ParseHotkey parses strings such as "alt+shift+z" or "Ctrl+F3".
func ParseHotkey(s string) (Hotkey, error) {
	var h Hotkey
	for _, tok := range strings.Split(s, "+") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			return Hotkey{}, fmt.Errorf("hotkey %q: empty token", s)
		}
		if m, ok := modifierNames[tok]; ok {
			h.Mods |= m
			continue
		}
		if h.Key != "" {
			return Hotkey{}, fmt.Errorf("hotkey %q: more than one key", s)
		}
		if !validKey(tok) {
			return Hotkey{}, fmt.Errorf("hotkey %q: unknown key %q", s, tok)
		}
		h.Key = tok
	}
	if h.Key == "" {
		return Hotkey{}, fmt.Errorf("hotkey %q: no key", s)
	}
	return h, nil
}

func validKey(k string) bool {
	if len(k) == 1 {
		c := k[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if n, ok := functionKey(k); ok {
		return n >= 1 && n <= 12
	}
	return k == "space" || k == "escape"
}

// functionKey returns n for "fN".
func functionKey(k string) (int, bool) {
	if len(k) < 2 || len(k) > 3 || k[0] != 'f' {
		return 0, false
	}
	n := 0
	for _, c := range k[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Trigger asks for one pipeline run ending in clicks presses of Button.
type Trigger struct {
	Clicks int
	Button action.Button
}

// Binding ties a hotkey to a trigger.
type Binding struct {
	Hotkey  Hotkey
	Trigger Trigger
}

// ParseBinding builds a Binding from its configured parts.
func ParseBinding(keys string, clicks int, button string) (Binding, error) {
	h, err := ParseHotkey(keys)
	if err != nil {
		return Binding{}, err
	}
	b, err := action.ParseButton(button)
	if err != nil {
		return Binding{}, fmt.Errorf("hotkey %q: %w", keys, err)
	}
	if clicks < 1 {
		clicks = 1
	}
	return Binding{Hotkey: h, Trigger: Trigger{Clicks: clicks, Button: b}}, nil
}

// Validate rejects empty and conflicting binding sets.
func Validate(bindings []Binding) error {
	if len(bindings) == 0 {
		return ErrNoBindings
	}
	seen := make(map[Hotkey]bool, len(bindings))
	var dup []string
	for _, b := range bindings {
		if seen[b.Hotkey] {
			dup = append(dup, b.Hotkey.String())
		}
		seen[b.Hotkey] = true
	}
	if len(dup) > 0 {
		sort.Strings(dup)
		return fmt.Errorf("activation: duplicate hotkeys %s", strings.Join(dup, ", "))
	}
	return nil
}

// Listener delivers a Trigger for every press of a bound hotkey until ctx
// ends. fire is called from the listener goroutine and must not block.
type Listener interface {
	Listen(ctx context.Context, bindings []Binding, fire func(Trigger)) error
}
