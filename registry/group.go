// Package registry keeps flap groups: physical grids of flaps sharing an
// alphabet and rotation timing.
package registry

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"splitflap/alphabet"
)

var (
	ErrUnknownGroup   = errors.New("unknown flap group")
	ErrDuplicateGroup = errors.New("duplicate flap group")
	ErrInvalidGroup   = errors.New("invalid flap group")
)

// Metadata is persisted with every group and is all the scheduling core needs
// to replay a timeline.
type Metadata struct {
	FlapTime   float64 `yaml:"flap_time" json:"flap_time"`
	Characters string  `yaml:"characters" json:"characters"`
	RowCount   int     `yaml:"row_count" json:"row_count"`
	ColCount   int     `yaml:"col_count" json:"col_count"`
}

// Group is a grid of Rows x Cols flaps. Only Current changes after creation.
type Group struct {
	ID       string
	Prefix   string
	Rows     int
	Cols     int
	FlapTime float64 // seconds per single step rotation
	Alphabet *alphabet.Alphabet
	Created  time.Time

	// Current is the final string reached by the last applied schedule.
	Current string
}

// NewGroup validates metadata and creates group showing first symbol on
// every flap.
func NewGroup(id string, meta Metadata) (*Group, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidGroup)
	}
	if meta.RowCount < 1 || meta.ColCount < 1 {
		return nil, fmt.Errorf("%w: %s has %dx%d flaps", ErrInvalidGroup, id, meta.RowCount, meta.ColCount)
	}
	if !(meta.FlapTime > 0) {
		return nil, fmt.Errorf("%w: %s flap time must be positive, got %v", ErrInvalidGroup, id, meta.FlapTime)
	}
	a, err := alphabet.New(meta.Characters)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidGroup, id, err)
	}
	g := &Group{
		ID:       id,
		Rows:     meta.RowCount,
		Cols:     meta.ColCount,
		FlapTime: meta.FlapTime,
		Alphabet: a,
		Created:  time.Now().UTC(),
	}
	g.Current = g.Initial()
	return g, nil
}

func (g *Group) FlapCount() int {
	return g.Rows * g.Cols
}

// Initial is the implicit state of the board before the first transition.
func (g *Group) Initial() string {
	return g.Alphabet.Repeat(g.FlapCount())
}

func (g *Group) Metadata() Metadata {
	return Metadata{
		FlapTime:   g.FlapTime,
		Characters: g.Alphabet.String(),
		RowCount:   g.Rows,
		ColCount:   g.Cols,
	}
}

// SetCurrent records state reached by a schedule. Strings of wrong length are
// rejected to keep Current usable as a carry source.
func (g *Group) SetCurrent(s string) error {
	if n := utf8.RuneCountInString(s); n != g.FlapCount() {
		return fmt.Errorf("%w: %s expects %d flaps, got %d", ErrInvalidGroup, g.ID, g.FlapCount(), n)
	}
	g.Current = s
	return nil
}
