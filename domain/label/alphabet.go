package label

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlphabetTooSmall = errors.New("alphabet needs at least two symbols")
	ErrDuplicateSymbol  = errors.New("alphabet symbols must be distinct")
	ErrUntypeableSymbol = errors.New("alphabet symbols must be ASCII letters or digits")
)

// Alphabet is the ordered digit set codes are built from. Symbols are lower-case.
type Alphabet []rune

// Letters is the plain a-z ordering.
const Letters = "abcdefghijklmnopqrstuvwxyz"

// Frequency orders the letters by English usage so the first codes are the
// easiest to reach.
const Frequency = "etaoinsrhlcdumfpwybgvkxjqz"

// ParseAlphabet lower-cases s and checks that the symbols are distinct
// ASCII letters or digits, the keys that arrive as single-character keysyms.
func ParseAlphabet(s string) (Alphabet, error) {
	a := Alphabet([]rune(strings.ToLower(strings.TrimSpace(s))))
	if len(a) < 2 {
		return nil, ErrAlphabetTooSmall
	}
	seen := make(map[rune]struct{}, len(a))
	for _, r := range a {
		if !typeable(r) {
			return nil, fmt.Errorf("alphabet %q: %w (%q)", s, ErrUntypeableSymbol, r)
		}
		if _, dup := seen[r]; dup {
			return nil, fmt.Errorf("alphabet %q: %w (%q)", s, ErrDuplicateSymbol, r)
		}
		seen[r] = struct{}{}
	}
	return a, nil
}

func typeable(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// MustAlphabet is ParseAlphabet for constants.
func MustAlphabet(s string) Alphabet {
	a, err := ParseAlphabet(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Alphabet) String() string { return string(a) }
