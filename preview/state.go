// Package preview shows what the board looks like at a moment of a plan, as
// SVG, PNG or animated GIF.
package preview

import (
	"math"

	"splitflap/registry"
	"splitflap/schedule"
)

// StateAt returns string displayed by the group at time t according to plan.
// Flap angles are linearly interpolated between keyframes the way animation
// host does it.
func StateAt(plan *schedule.Plan, g *registry.Group, t float64) string {
	frame := t * plan.FPS
	step := 2 * math.Pi / float64(g.Alphabet.Len())

	out := make([]rune, g.FlapCount())
	for i := range out {
		angle := angleAt(plan.FlapKeyframes(i), frame)
		// tolerate rounding of accumulated angles
		out[i] = g.Alphabet.At(int(math.Floor(angle/step + 1e-9)))
	}
	return string(out)
}

func angleAt(keys []schedule.Keyframe, frame float64) float64 {
	if len(keys) == 0 || frame < float64(keys[0].Frame) {
		return 0
	}
	for i := 1; i < len(keys); i++ {
		prev, next := keys[i-1], keys[i]
		if frame >= float64(next.Frame) {
			continue
		}
		if next.Frame == prev.Frame {
			return next.Angle
		}
		k := (frame - float64(prev.Frame)) / float64(next.Frame-prev.Frame)
		return prev.Angle + k*(next.Angle-prev.Angle)
	}
	return keys[len(keys)-1].Angle
}
