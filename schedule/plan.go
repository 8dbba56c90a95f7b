package schedule

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"splitflap/common"
)

// Keyframe is rotation angle of a single flap at a frame.
type Keyframe struct {
	Flap  int     `yaml:"flap" json:"flap"`
	Frame int     `yaml:"frame" json:"frame"`
	Angle float64 `yaml:"angle" json:"angle"`
}

// Move is rotation of one flap during one transition. StartAngle is the
// accumulated angle of the flap before rotation.
type Move struct {
	Flap       int     `yaml:"flap" json:"flap"`
	Steps      int     `yaml:"steps" json:"steps"`
	StartFrame int     `yaml:"start_frame" json:"start_frame"`
	EndFrame   int     `yaml:"end_frame" json:"end_frame"`
	StartAngle float64 `yaml:"start_angle" json:"start_angle"`
	EndAngle   float64 `yaml:"end_angle" json:"end_angle"`
	From       string  `yaml:"from" json:"from"`
	To         string  `yaml:"to" json:"to"`
	// Instant moves initialize display and have no start keyframe.
	Instant bool `yaml:"instant,omitempty" json:"instant,omitempty"`
}

// Keyframes returns keyframes of the move in emission order.
func (m Move) Keyframes() []Keyframe {
	if m.Instant {
		return []Keyframe{{Flap: m.Flap, Frame: m.StartFrame, Angle: m.EndAngle}}
	}
	return []Keyframe{
		{Flap: m.Flap, Frame: m.StartFrame, Angle: m.StartAngle},
		{Flap: m.Flap, Frame: m.EndFrame, Angle: m.EndAngle},
	}
}

// Transition is change of the whole board from one final string to the next.
type Transition struct {
	EntryID string  `yaml:"entry" json:"entry"`
	KeyTime float64 `yaml:"time" json:"time"`
	From    string  `yaml:"from" json:"from"`
	To      string  `yaml:"to" json:"to"`
	Moves   []Move  `yaml:"moves" json:"moves"`
}

// Plan is result of applying complete timeline to a group.
type Plan struct {
	GroupID     string       `yaml:"group" json:"group"`
	FPS         float64      `yaml:"fps" json:"fps"`
	FlapTime    float64      `yaml:"flap_time" json:"flap_time"`
	Characters  string       `yaml:"characters" json:"characters"`
	Transitions []Transition `yaml:"transitions" json:"transitions"`
}

// Keyframes returns all keyframes of the plan in emission order.
func (p *Plan) Keyframes() []Keyframe {
	var out []Keyframe
	for _, t := range p.Transitions {
		for _, m := range t.Moves {
			out = append(out, m.Keyframes()...)
		}
	}
	return out
}

// FlapKeyframes returns keyframes of a single flap ordered by frame.
func (p *Plan) FlapKeyframes(flap int) []Keyframe {
	var out []Keyframe
	for _, t := range p.Transitions {
		for _, m := range t.Moves {
			if m.Flap == flap {
				out = append(out, m.Keyframes()...)
			}
		}
	}
	return out
}

// LastFrame returns the largest frame number referenced by the plan.
func (p *Plan) LastFrame() int {
	last := 0
	for _, t := range p.Transitions {
		for _, m := range t.Moves {
			last = max(last, m.EndFrame, m.StartFrame)
		}
	}
	return last
}

// Write serializes plan in requested format. For JSON lines every transition
// occupies its own line after a header line.
func (p *Plan) Write(w io.Writer, format common.PlanFormat) error {
	switch format {
	case common.PlanFormatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("unable to encode plan: %w", err)
		}
		return enc.Close()
	case common.PlanFormatJsonl:
		enc := json.NewEncoder(w)
		header := *p
		header.Transitions = nil
		if err := enc.Encode(header); err != nil {
			return fmt.Errorf("unable to encode plan header: %w", err)
		}
		for _, t := range p.Transitions {
			if err := enc.Encode(t); err != nil {
				return fmt.Errorf("unable to encode transition %s: %w", t.EntryID, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported plan format %v", format)
	}
}

// ReadPlan reads plan written with Write in YAML format.
func ReadPlan(r io.Reader) (*Plan, error) {
	var p Plan
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("unable to decode plan: %w", err)
	}
	return &p, nil
}
