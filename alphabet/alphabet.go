// Package alphabet defines the ordered cyclic set of symbols a group of flaps
// can display.
package alphabet

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default is the character set of a classic departure board.
const Default = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-+.?! "

// Space is the symbol used for padding.
const Space = ' '

var ErrInvalidAlphabet = errors.New("invalid alphabet")

// Alphabet is immutable once created. Index arithmetic is modulo Len().
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// New validates characters and builds lookup index. Characters must be valid
// UTF-8, non empty and must not repeat.
func New(chars string) (*Alphabet, error) {
	if len(chars) == 0 {
		return nil, fmt.Errorf("%w: no characters", ErrInvalidAlphabet)
	}
	if !utf8.ValidString(chars) {
		return nil, fmt.Errorf("%w: characters are not valid UTF-8", ErrInvalidAlphabet)
	}

	a := &Alphabet{
		symbols: []rune(chars),
		index:   make(map[rune]int, utf8.RuneCountInString(chars)),
	}
	for i, r := range a.symbols {
		if r == '\n' || r == '\r' {
			return nil, fmt.Errorf("%w: line breaks are not displayable", ErrInvalidAlphabet)
		}
		if prev, exists := a.index[r]; exists {
			return nil, fmt.Errorf("%w: symbol %q repeats at positions %d and %d", ErrInvalidAlphabet, r, prev, i)
		}
		a.index[r] = i
	}
	return a, nil
}

// MustNew is New for known good literals.
func MustNew(chars string) *Alphabet {
	a, err := New(chars)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// Index returns position of r, O(1).
func (a *Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// At returns symbol at position i, wrapping around in both directions.
func (a *Alphabet) At(i int) rune {
	n := len(a.symbols)
	return a.symbols[((i%n)+n)%n]
}

// First is the symbol every flap shows after reset.
func (a *Alphabet) First() rune {
	return a.symbols[0]
}

func (a *Alphabet) HasSpace() bool {
	return a.Contains(Space)
}

// Substitute maps r to a displayable symbol: r itself or r in the opposite
// letter case. Case mappings producing more than one rune (like 'ß') are not
// considered.
func (a *Alphabet) Substitute(r rune) (rune, bool) {
	if a.Contains(r) {
		return r, true
	}
	if !unicode.IsLetter(r) {
		return 0, false
	}
	// casers are stateful and cannot be shared
	for _, c := range [...]cases.Caser{cases.Lower(language.Und), cases.Upper(language.Und)} {
		alt := []rune(c.String(string(r)))
		if len(alt) == 1 && alt[0] != r && a.Contains(alt[0]) {
			return alt[0], true
		}
	}
	return 0, false
}

// Repeat returns string of n copies of the first symbol.
func (a *Alphabet) Repeat(n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = a.symbols[0]
	}
	return string(out)
}

// Runes returns a copy of symbols in order.
func (a *Alphabet) Runes() []rune {
	out := make([]rune, len(a.symbols))
	copy(out, a.symbols)
	return out
}

func (a *Alphabet) String() string {
	return string(a.symbols)
}
