package alphabet

import (
	"errors"
	"fmt"
)

var ErrLookupFailure = errors.New("symbol lookup failure")

// LookupError means a string was never restricted to the alphabet, this is a
// logic error of the caller.
type LookupError struct {
	Char rune
	Flap int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("symbol %q of flap %d is not in alphabet", e.Char, e.Flap)
}

func (e *LookupError) Unwrap() error {
	return ErrLookupFailure
}

// Distance returns number of forward steps needed to rotate a flap from one
// symbol to another, always in [0, Len()).
func (a *Alphabet) Distance(from, to rune) (int, error) {
	fi, ok := a.index[from]
	if !ok {
		return 0, &LookupError{Char: from, Flap: -1}
	}
	ti, ok := a.index[to]
	if !ok {
		return 0, &LookupError{Char: to, Flap: -1}
	}
	if ti >= fi {
		return ti - fi, nil
	}
	return ti + len(a.symbols) - fi, nil
}

// MaxDistance returns the largest Distance over all flap positions of two
// strings of equal length. Board needs MaxDistance*flapTime seconds to go
// from one string to the other.
func (a *Alphabet) MaxDistance(from, to string) (int, error) {
	f, t := []rune(from), []rune(to)
	if len(f) != len(t) {
		return 0, fmt.Errorf("strings differ in length: %d and %d", len(f), len(t))
	}
	var steps int
	for i := range f {
		d, err := a.Distance(f[i], t[i])
		if err != nil {
			var le *LookupError
			if errors.As(err, &le) {
				le.Flap = i
			}
			return 0, err
		}
		steps = max(steps, d)
	}
	return steps, nil
}
