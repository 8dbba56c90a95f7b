package timeline

import (
	"fmt"
	"math"

	"splitflap/common"
	"splitflap/layout"
	"splitflap/registry"
)

// CheckFeasibility returns time margin in seconds between candidate and its
// neighbour in requested direction, negative margin means there is not
// enough time for all flaps to rotate. When replace is not empty candidate
// takes place of the entry with that identifier (update).
func (tl *Timeline) CheckFeasibility(reg *registry.Registry, candidate Entry, dir common.Direction, replace string) (float64, error) {
	g, err := reg.Get(tl.groupID)
	if err != nil {
		return 0, err
	}
	list, rank := tl.withCandidate(candidate, replace)

	var (
		from, to string
		deltaT   float64
	)
	switch dir {
	case common.DirectionPrevious:
		if rank == 0 {
			if candidate.KeyTime < InstantEpsilon {
				// display is initialized instantly
				return 0, nil
			}
			from, deltaT = g.Initial(), candidate.KeyTime
		} else {
			if from, err = ResolveFinal(list, rank-1, g.FlapCount(), g.Initial()); err != nil {
				return 0, err
			}
			deltaT = math.Abs(candidate.KeyTime - list[rank-1].KeyTime)
		}
		if to, err = ResolveFinal(list, rank, g.FlapCount(), g.Initial()); err != nil {
			return 0, err
		}
	case common.DirectionNext:
		if rank == len(list)-1 {
			return 0, nil
		}
		if from, err = ResolveFinal(list, rank, g.FlapCount(), g.Initial()); err != nil {
			return 0, err
		}
		if to, err = ResolveFinal(list, rank+1, g.FlapCount(), g.Initial()); err != nil {
			return 0, err
		}
		deltaT = math.Abs(list[rank+1].KeyTime - candidate.KeyTime)
	default:
		return 0, fmt.Errorf("unknown direction %v", dir)
	}

	steps, err := g.Alphabet.MaxDistance(from, to)
	if err != nil {
		return 0, err
	}
	return deltaT - float64(steps)*g.FlapTime, nil
}

// withCandidate returns sorted copy of entries with candidate inserted (or
// replacing entry with identifier replace) and candidate position.
func (tl *Timeline) withCandidate(candidate Entry, replace string) ([]Entry, int) {
	list := make([]Entry, 0, len(tl.entries)+1)
	for _, e := range tl.entries {
		if len(replace) > 0 && e.ID == replace {
			continue
		}
		list = append(list, e)
	}
	list = append(list, candidate)
	sortEntries(list)

	for i := range list {
		if list[i].ID == candidate.ID && list[i].KeyTime == candidate.KeyTime && list[i].Formatted == candidate.Formatted {
			return list, i
		}
	}
	// this should never happen
	panic("candidate lost while sorting")
}

// ResolveFinal returns string shown on the board of flapCount flaps once
// entry at index is reached. Chain of carry entries is followed back to the
// nearest entry which does not depend on its predecessor, or to the initial
// board state. Entries must be sorted by key time.
func ResolveFinal(entries []Entry, index, flapCount int, initial string) (string, error) {
	if index < 0 || index >= len(entries) {
		return "", fmt.Errorf("%w: index %d out of range [0, %d)", ErrResolution, index, len(entries))
	}

	group := entries[index].GroupID
	seen := make(map[string]struct{}, index+1)

	start := index
	for {
		e := entries[start]
		if e.GroupID != group {
			return "", fmt.Errorf("%w: entry %s of group %q found in chain of group %q", ErrResolution, e.ID, e.GroupID, group)
		}
		if len(e.ID) > 0 {
			if _, dup := seen[e.ID]; dup {
				return "", fmt.Errorf("%w: entry %s references itself", ErrResolution, e.ID)
			}
			seen[e.ID] = struct{}{}
		}
		if e.Policy != common.PolicyCarry || start == 0 {
			break
		}
		start--
	}

	final := initial
	for i := start; i <= index; i++ {
		final = layout.Resolve(entries[i].Formatted, flapCount, entries[i].Policy, final)
	}
	return final, nil
}
