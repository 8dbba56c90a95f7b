package schedule

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"splitflap/layout"
	"splitflap/registry"
	"splitflap/timeline"
)

const DefaultFPS = 24

type stage int

const (
	stageReset stage = iota
	stageAdvance
	stageEmit
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageReset:
		return "reset"
	case stageAdvance:
		return "advance"
	case stageEmit:
		return "emit"
	case stageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Scheduler replays timeline of a group from the very beginning and produces
// rotation plan for it.
type Scheduler struct {
	FPS float64
	Log *zap.Logger
}

func NewScheduler(fps float64, log *zap.Logger) *Scheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{FPS: fps, Log: log}
}

// Apply resets every flap of the group to the first alphabet symbol with zero
// angle and plans transitions to all timeline entries in order. Keyframes
// are passed to sink (which may be nil) as soon as they are planned. Failure
// to plan an entry aborts only that entry, errors are collected and returned
// together with the plan built so far. Group current string is set to the
// last string reached.
func (s *Scheduler) Apply(reg *registry.Registry, tl *timeline.Timeline, sink Sink) (*Plan, error) {
	g, err := reg.Get(tl.GroupID())
	if err != nil {
		return nil, err
	}
	log := s.Log.Named("scheduler").With(zap.String("group", g.ID))

	var (
		entries = tl.Entries()
		plan    = &Plan{GroupID: g.ID, FPS: s.FPS, FlapTime: g.FlapTime, Characters: g.Alphabet.String()}
		angles  []float64
		current []rune
		next    int
		target  string
		errs    error
	)

	if sink != nil {
		if err := sink.Begin(g); err != nil {
			return nil, fmt.Errorf("unable to start keyframe output for group %s: %w", g.ID, err)
		}
	}

	for st := stageReset; st != stageDone; {
		log.Debug("Scheduler stage", zap.Stringer("stage", st), zap.Int("entry", next))
		switch st {
		case stageReset:
			angles = make([]float64, g.FlapCount())
			current = []rune(g.Initial())
			st = stageAdvance

		case stageAdvance:
			if next >= len(entries) {
				st = stageDone
				break
			}
			target = layout.Resolve(entries[next].Formatted, g.FlapCount(), entries[next].Policy, string(current))
			st = stageEmit

		case stageEmit:
			e := entries[next]
			tr := Transition{EntryID: e.ID, KeyTime: e.KeyTime, From: string(current)}
			moves, err := PlanTransition(tr.From, target, g.Alphabet, g.FlapTime, e.KeyTime, s.FPS, angles)
			if e.KeyTime < timeline.InstantEpsilon {
				for i := range moves {
					moves[i].Instant = true
					moves[i].EndFrame = moves[i].StartFrame
				}
			}
			for _, m := range moves {
				current[m.Flap] = []rune(m.To)[0]
			}
			tr.Moves, tr.To = moves, string(current)
			plan.Transitions = append(plan.Transitions, tr)

			if err != nil {
				log.Warn("Transition aborted", zap.String("entry", e.ID), zap.Float64("time", e.KeyTime), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("entry %s at %.2fs: %w", e.ID, e.KeyTime, err))
			}
			if sink != nil {
				if err := emit(sink, g.ID, moves); err != nil {
					errs = multierr.Append(errs, err)
					st = stageDone
					break
				}
			}
			next++
			st = stageAdvance
		}
	}

	if sink != nil {
		errs = multierr.Append(errs, sink.End(g.ID))
	}
	if err := g.SetCurrent(string(current)); err != nil {
		errs = multierr.Append(errs, err)
	}
	log.Debug("Timeline applied", zap.Int("transitions", len(plan.Transitions)), zap.String("current", g.Current))
	return plan, errs
}

func emit(sink Sink, groupID string, moves []Move) error {
	for _, m := range moves {
		for _, k := range m.Keyframes() {
			if err := sink.Keyframe(groupID, k); err != nil {
				return fmt.Errorf("unable to output keyframe of flap %d: %w", k.Flap, err)
			}
		}
	}
	return nil
}
