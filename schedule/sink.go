package schedule

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"splitflap/common"
	"splitflap/registry"
)

// Sink receives keyframes produced by Scheduler. It is the only thing the
// scheduler knows about whatever actually animates flaps.
type Sink interface {
	Begin(g *registry.Group) error
	Keyframe(groupID string, k Keyframe) error
	End(groupID string) error
}

// Collector keeps keyframes in memory.
type Collector struct {
	Keyframes map[string][]Keyframe
}

func NewCollector() *Collector {
	return &Collector{Keyframes: make(map[string][]Keyframe)}
}

func (c *Collector) Begin(g *registry.Group) error {
	// replay always starts from scratch
	c.Keyframes[g.ID] = nil
	return nil
}

func (c *Collector) Keyframe(groupID string, k Keyframe) error {
	c.Keyframes[groupID] = append(c.Keyframes[groupID], k)
	return nil
}

func (c *Collector) End(string) error {
	return nil
}

type keyframeDocument struct {
	Group      string     `yaml:"group" json:"group"`
	FlapTime   float64    `yaml:"flap_time" json:"flap_time"`
	Characters string     `yaml:"characters" json:"characters"`
	Flaps      int        `yaml:"flaps" json:"flaps"`
	Keyframes  []Keyframe `yaml:"keyframes,omitempty" json:"keyframes,omitempty"`
}

// WriterSink streams keyframes to writer. JSON lines are written
// immediately, YAML document is written when group is finished.
type WriterSink struct {
	w      io.Writer
	format common.PlanFormat
	doc    *keyframeDocument
}

func NewWriterSink(w io.Writer, format common.PlanFormat) *WriterSink {
	return &WriterSink{w: w, format: format}
}

func (s *WriterSink) Begin(g *registry.Group) error {
	s.doc = &keyframeDocument{
		Group:      g.ID,
		FlapTime:   g.FlapTime,
		Characters: g.Alphabet.String(),
		Flaps:      g.FlapCount(),
	}
	if s.format == common.PlanFormatJsonl {
		return json.NewEncoder(s.w).Encode(s.doc)
	}
	return nil
}

func (s *WriterSink) Keyframe(groupID string, k Keyframe) error {
	if s.doc == nil || s.doc.Group != groupID {
		return fmt.Errorf("keyframe for group %s received outside of Begin/End", groupID)
	}
	if s.format == common.PlanFormatJsonl {
		return json.NewEncoder(s.w).Encode(k)
	}
	s.doc.Keyframes = append(s.doc.Keyframes, k)
	return nil
}

func (s *WriterSink) End(groupID string) error {
	if s.doc == nil || s.doc.Group != groupID {
		return fmt.Errorf("group %s was never started", groupID)
	}
	defer func() { s.doc = nil }()

	switch s.format {
	case common.PlanFormatJsonl:
		return nil
	case common.PlanFormatYaml:
		enc := yaml.NewEncoder(s.w)
		enc.SetIndent(2)
		if err := enc.Encode(s.doc); err != nil {
			return fmt.Errorf("unable to encode keyframes: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported keyframe format %v", s.format)
	}
}

// Tee passes keyframes to every sink in order.
type Tee []Sink

func (t Tee) Begin(g *registry.Group) error {
	for _, s := range t {
		if err := s.Begin(g); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Keyframe(groupID string, k Keyframe) error {
	for _, s := range t {
		if err := s.Keyframe(groupID, k); err != nil {
			return err
		}
	}
	return nil
}

// End finishes all sinks even when some of them fail.
func (t Tee) End(groupID string) (err error) {
	for _, s := range t {
		err = multierr.Append(err, s.End(groupID))
	}
	return err
}
