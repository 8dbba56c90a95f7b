package timeline

import (
	"errors"
	"fmt"

	"splitflap/common"
)

var (
	ErrDuplicateEntry   = errors.New("duplicate timeline entry")
	ErrInfeasibleTiming = errors.New("infeasible timing")
	ErrInvalidEntry     = errors.New("invalid timeline entry")
	ErrUnknownEntry     = errors.New("unknown timeline entry")
	ErrResolution       = errors.New("unable to resolve final string")
)

// InfeasibleError reports that there is not enough time between an entry and
// its neighbour for every flap to complete rotation. Margin is negative and
// holds the exact deficit in seconds.
type InfeasibleError struct {
	Direction common.Direction
	KeyTime   float64
	Margin    float64
}

func (e *InfeasibleError) Error() string {
	switch e.Direction {
	case common.DirectionPrevious:
		return fmt.Sprintf("not enough time to flap from the previous text to the entry at %.2fs, time difference amounts to %.2fs", e.KeyTime, e.Margin)
	default:
		return fmt.Sprintf("not enough time to flap from the entry at %.2fs to the next text, time difference amounts to %.2fs", e.KeyTime, e.Margin)
	}
}

func (e *InfeasibleError) Unwrap() error {
	return ErrInfeasibleTiming
}

// Violation describes infeasible transition between two consecutive entries.
// From is empty when transition starts from the initial board state.
type Violation struct {
	From   string
	To     string
	At     float64
	Margin float64
}

func (v Violation) String() string {
	from := v.From
	if len(from) == 0 {
		from = "<initial>"
	}
	return fmt.Sprintf("%s -> %s at %.2fs short by %.2fs", from, v.To, v.At, -v.Margin)
}
