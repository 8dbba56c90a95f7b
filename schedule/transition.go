// Package schedule turns timeline of a flap group into per flap rotation
// keyframes.
package schedule

import (
	"errors"
	"fmt"
	"math"

	"splitflap/alphabet"
)

var ErrLookupFailure = alphabet.ErrLookupFailure

// CyclicDistance is number of forward single steps needed for a flap to get
// from one symbol to another.
func CyclicDistance(from, to rune, a *alphabet.Alphabet) (int, error) {
	return a.Distance(from, to)
}

// MaxSteps returns the largest cyclic distance over all flap positions.
func MaxSteps(from, to string, a *alphabet.Alphabet) (int, error) {
	return a.MaxDistance(from, to)
}

// PlanTransition computes rotation of every flap which shows different
// symbol in from and to. Accumulated angles are advanced in place, angles
// must have an element per flap. On lookup failure moves planned so far are
// returned together with the error.
func PlanTransition(from, to string, a *alphabet.Alphabet, flapTime, startTime, fps float64, angles []float64) ([]Move, error) {
	src, dst := []rune(from), []rune(to)
	if len(src) != len(dst) {
		return nil, fmt.Errorf("unable to plan transition between strings of different length %d and %d", len(src), len(dst))
	}
	if len(angles) < len(src) {
		return nil, fmt.Errorf("angles for %d flaps are required, got %d", len(src), len(angles))
	}

	startFrame := int(math.Round(fps * startTime))
	var moves []Move
	for i := range src {
		if src[i] == dst[i] {
			continue
		}
		steps, err := a.Distance(src[i], dst[i])
		if err != nil {
			var le *alphabet.LookupError
			if errors.As(err, &le) {
				le.Flap = i
			}
			return moves, err
		}
		delta := 2 * math.Pi * float64(steps) / float64(a.Len())
		m := Move{
			Flap:       i,
			Steps:      steps,
			StartFrame: startFrame,
			EndFrame:   startFrame + int(math.Round(fps*float64(steps)*flapTime)),
			StartAngle: angles[i],
			EndAngle:   angles[i] + delta,
			From:       string(src[i]),
			To:         string(dst[i]),
		}
		angles[i] = m.EndAngle
		moves = append(moves, m)
	}
	return moves, nil
}
