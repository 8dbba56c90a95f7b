// Package timeline keeps timed target texts of a flap group and makes sure
// every flap has enough time to reach each of them.
package timeline

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"splitflap/common"
	"splitflap/layout"
	"splitflap/registry"
)

const (
	// DefaultTolerance is minimal distance in seconds between two entries of
	// the same group.
	DefaultTolerance = 0.1
	// InstantEpsilon - entries starting earlier initialize the board without
	// any flap animation.
	InstantEpsilon = 0.01

	marginEpsilon = 1e-9
)

// Timeline is ordered by KeyTime. It references its group by identifier only,
// group itself is obtained from registry for every operation.
// NOTE: not safe for concurrent use.
type Timeline struct {
	groupID   string
	entries   []Entry
	tolerance float64
	mode      common.UnmappedMode
	log       *zap.Logger
}

type Option func(*Timeline)

func WithTolerance(sec float64) Option {
	return func(tl *Timeline) {
		if sec > 0 {
			tl.tolerance = sec
		}
	}
}

func WithUnmappedMode(mode common.UnmappedMode) Option {
	return func(tl *Timeline) {
		tl.mode = mode
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(tl *Timeline) {
		if log != nil {
			tl.log = log
		}
	}
}

func New(groupID string, options ...Option) *Timeline {
	tl := &Timeline{
		groupID:   groupID,
		tolerance: DefaultTolerance,
		mode:      common.UnmappedModeReject,
		log:       zap.NewNop(),
	}
	for _, opt := range options {
		opt(tl)
	}
	return tl
}

func (tl *Timeline) GroupID() string {
	return tl.groupID
}

func (tl *Timeline) Len() int {
	return len(tl.entries)
}

// Entries returns copy of entries in ascending KeyTime order.
func (tl *Timeline) Entries() []Entry {
	return slices.Clone(tl.entries)
}

// Find returns position of entry with given identifier.
func (tl *Timeline) Find(id string) (int, bool) {
	for i := range tl.entries {
		if tl.entries[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Lookup finds entry by full identifier or its unique prefix.
func (tl *Timeline) Lookup(id string) (Entry, error) {
	if i, ok := tl.Find(id); ok {
		return tl.entries[i], nil
	}
	var found []Entry
	for _, e := range tl.entries {
		if len(id) > 0 && strings.HasPrefix(e.ID, id) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	case 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: %q is ambiguous", ErrUnknownEntry, id)
	}
}

// Restore replaces content with previously validated entries, for example
// loaded from project store.
func (tl *Timeline) Restore(entries []Entry) error {
	for _, e := range entries {
		if e.GroupID != tl.groupID {
			return fmt.Errorf("%w: entry %s belongs to group %q, not %q", ErrInvalidEntry, e.ID, e.GroupID, tl.groupID)
		}
	}
	tl.entries = slices.Clone(entries)
	sortEntries(tl.entries)
	return nil
}

// Formatter returns text formatter for the group of this timeline.
func (tl *Timeline) Formatter(g *registry.Group) *layout.Formatter {
	return layout.NewFormatter(g.Alphabet, g.Rows, g.Cols, tl.mode)
}

// Add validates new entry completely and only then inserts it.
func (tl *Timeline) Add(reg *registry.Registry, in EntryInput) (Entry, error) {
	e, err := tl.prepare(reg, in, "")
	if err != nil {
		return Entry{}, err
	}
	e.ID = newID()
	if err := tl.check(reg, e, ""); err != nil {
		return Entry{}, err
	}

	tl.entries = append(tl.entries, e)
	sortEntries(tl.entries)
	tl.log.Debug("Timeline entry added", zap.String("group", tl.groupID), zap.String("id", e.ID), zap.Float64("time", e.KeyTime), zap.String("text", e.Formatted))
	return e, nil
}

// Update replaces entry with given identifier. On any error timeline is left
// untouched.
func (tl *Timeline) Update(reg *registry.Registry, id string, in EntryInput) (Entry, error) {
	i, ok := tl.Find(id)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	e, err := tl.prepare(reg, in, id)
	if err != nil {
		return Entry{}, err
	}
	e.ID = id
	if err := tl.check(reg, e, id); err != nil {
		return Entry{}, err
	}

	tl.entries[i] = e
	sortEntries(tl.entries)
	tl.log.Debug("Timeline entry updated", zap.String("group", tl.groupID), zap.String("id", e.ID), zap.Float64("time", e.KeyTime), zap.String("text", e.Formatted))
	return e, nil
}

// Delete removes entry. Removal may make neighbouring transitions
// infeasible, those are returned so caller could warn about them.
func (tl *Timeline) Delete(reg *registry.Registry, id string) (Entry, []Violation, error) {
	i, ok := tl.Find(id)
	if !ok {
		return Entry{}, nil, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	e := tl.entries[i]
	tl.entries = slices.Delete(tl.entries, i, i+1)
	tl.log.Debug("Timeline entry deleted", zap.String("group", tl.groupID), zap.String("id", e.ID), zap.Float64("time", e.KeyTime))

	violations, err := tl.Validate(reg)
	if err != nil {
		return e, nil, err
	}
	return e, violations, nil
}

// prepare checks user input and formats text.
func (tl *Timeline) prepare(reg *registry.Registry, in EntryInput, replace string) (Entry, error) {
	g, err := reg.Get(tl.groupID)
	if err != nil {
		return Entry{}, err
	}
	if !validKeyTime(in.KeyTime) {
		return Entry{}, fmt.Errorf("%w: key time %v must be a non-negative number", ErrInvalidEntry, in.KeyTime)
	}
	if !in.Policy.IsValid() {
		return Entry{}, fmt.Errorf("%w: unknown policy %v", ErrInvalidEntry, in.Policy)
	}
	formatted, err := tl.Formatter(g).Format(in.Text)
	if err != nil {
		return Entry{}, err
	}
	if in.Policy != common.PolicyCarry && !g.Alphabet.HasSpace() && utf8.RuneCountInString(formatted) < g.FlapCount() {
		return Entry{}, fmt.Errorf("%w: text is shorter than %d flaps and alphabet has no space to pad it with", ErrInvalidEntry, g.FlapCount())
	}
	for _, other := range tl.entries {
		if other.ID == replace {
			continue
		}
		if math.Abs(other.KeyTime-in.KeyTime) < tl.tolerance {
			return Entry{}, fmt.Errorf("%w: entry %s already scheduled at %.2fs", ErrDuplicateEntry, other.ID, other.KeyTime)
		}
	}
	return Entry{
		GroupID:   tl.groupID,
		KeyTime:   in.KeyTime,
		Text:      in.Text,
		Formatted: formatted,
		Policy:    in.Policy,
	}, nil
}

// check verifies margins to both neighbours of candidate and then the whole
// resulting timeline: with carry policy a change may propagate further than
// direct neighbours. Violations already present before the change (left by
// Delete, for example) are not held against candidate unless it makes them
// worse.
func (tl *Timeline) check(reg *registry.Registry, candidate Entry, replace string) error {
	for _, dir := range common.DirectionValues() {
		margin, err := tl.CheckFeasibility(reg, candidate, dir, replace)
		if err != nil {
			return err
		}
		if margin < 0 {
			return &InfeasibleError{Direction: dir, KeyTime: candidate.KeyTime, Margin: margin}
		}
	}

	g, err := reg.Get(tl.groupID)
	if err != nil {
		return err
	}
	before, err := validate(g, tl.entries)
	if err != nil {
		return err
	}
	known := make(map[[2]string]float64, len(before))
	for _, v := range before {
		known[[2]string{v.From, v.To}] = v.Margin
	}

	list, _ := tl.withCandidate(candidate, replace)
	violations, err := validate(g, list)
	if err != nil {
		return err
	}
	for _, v := range violations {
		if margin, ok := known[[2]string{v.From, v.To}]; ok && v.Margin >= margin-marginEpsilon {
			continue
		}
		return fmt.Errorf("%w: transition %s", ErrInfeasibleTiming, v)
	}
	return nil
}

// Validate checks every transition of the timeline including the one from
// the initial board state.
func (tl *Timeline) Validate(reg *registry.Registry) ([]Violation, error) {
	g, err := reg.Get(tl.groupID)
	if err != nil {
		return nil, err
	}
	return validate(g, tl.entries)
}

// Finals resolves final strings of all entries in timeline order.
func (tl *Timeline) Finals(reg *registry.Registry) ([]string, error) {
	g, err := reg.Get(tl.groupID)
	if err != nil {
		return nil, err
	}
	return finals(g, tl.entries)
}

func validate(g *registry.Group, list []Entry) ([]Violation, error) {
	strs, err := finals(g, list)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for i := range list {
		var (
			from   = g.Initial()
			fromID string
			deltaT = list[i].KeyTime
		)
		if i == 0 {
			if list[i].KeyTime < InstantEpsilon {
				continue
			}
		} else {
			from, fromID = strs[i-1], list[i-1].ID
			deltaT = list[i].KeyTime - list[i-1].KeyTime
		}
		steps, err := g.Alphabet.MaxDistance(from, strs[i])
		if err != nil {
			return nil, err
		}
		if margin := deltaT - float64(steps)*g.FlapTime; margin < 0 {
			violations = append(violations, Violation{From: fromID, To: list[i].ID, At: list[i].KeyTime, Margin: margin})
		}
	}
	return violations, nil
}

func finals(g *registry.Group, list []Entry) ([]string, error) {
	out := make([]string, len(list))
	prev := g.Initial()
	for i, e := range list {
		if e.GroupID != g.ID {
			return nil, fmt.Errorf("%w: entry %s belongs to group %q", ErrResolution, e.ID, e.GroupID)
		}
		prev = layout.Resolve(e.Formatted, g.FlapCount(), e.Policy, prev)
		out[i] = prev
	}
	return out, nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].KeyTime < entries[j].KeyTime
	})
}
