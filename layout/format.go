// Package layout turns free-form input into strings a flap board can show:
// Formatter restricts text to an alphabet, Resolve fits it to the board.
package layout

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"splitflap/alphabet"
	"splitflap/common"
)

var ErrInvalidCharacter = errors.New("invalid character")

// InvalidCharacterError reports the first input character which could not be
// mapped to the alphabet. Position is counted in runes of normalized input.
type InvalidCharacterError struct {
	Char     rune
	Position int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("character %q at position %d is not available", e.Char, e.Position)
}

func (e *InvalidCharacterError) Unwrap() error {
	return ErrInvalidCharacter
}

// Formatter is bound to the alphabet and geometry of a single flap group.
type Formatter struct {
	alpha *alphabet.Alphabet
	rows  int
	cols  int
	mode  common.UnmappedMode
}

func NewFormatter(a *alphabet.Alphabet, rows, cols int, mode common.UnmappedMode) *Formatter {
	return &Formatter{alpha: a, rows: rows, cols: cols, mode: mode}
}

// Format normalizes raw text into a string restricted to the alphabet.
// Result length (in runes) may differ from input length.
func (f *Formatter) Format(raw string) (string, error) {
	text := norm.NFC.String(strings.ReplaceAll(raw, "\r", ""))

	fillRows := f.rows > 1 && f.cols > 0 && f.alpha.HasSpace()

	var (
		out []rune
		pos int
	)
	lines := strings.Split(text, "\n")
	for n, line := range lines {
		start := len(out)
		for _, r := range line {
			pos++
			if s, ok := f.alpha.Substitute(r); ok {
				out = append(out, s)
				continue
			}
			if f.alpha.HasSpace() {
				out = append(out, alphabet.Space)
				continue
			}
			if f.mode == common.UnmappedModeReject {
				return "", &InvalidCharacterError{Char: r, Position: pos - 1}
			}
		}
		pos++ // line break
		if !fillRows || n == len(lines)-1 {
			continue
		}
		// complete the row; a line ending on row boundary (or an empty one)
		// is followed by a whole blank row
		pad := f.cols - (len(out)-start)%f.cols
		for range pad {
			out = append(out, alphabet.Space)
		}
	}
	return string(out), nil
}
