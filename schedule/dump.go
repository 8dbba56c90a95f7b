package schedule

import (
	"splitflap/utils/debug"
)

// Dump renders plan as indented text for debug reports.
func (p *Plan) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Fields(0, "plan", "group", p.GroupID, "fps", p.FPS, "flap_time", p.FlapTime, "last_frame", p.LastFrame())
	tw.TextBlock(1, "characters", p.Characters)
	for i, t := range p.Transitions {
		tw.Fields(1, "transition", "n", i, "entry", t.EntryID, "time", t.KeyTime, "moves", len(t.Moves))
		tw.TextBlock(2, "from", t.From)
		tw.TextBlock(2, "to", t.To)
		for _, m := range t.Moves {
			tw.Line(2, "flap %d %q->%q steps=%d frames=%d..%d angle=%.4f..%.4f instant=%t",
				m.Flap, m.From, m.To, m.Steps, m.StartFrame, m.EndFrame, m.StartAngle, m.EndAngle, m.Instant)
		}
	}
	return tw.String()
}
