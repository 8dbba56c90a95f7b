package timeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitflap/common"
	"splitflap/timeline"
)

func TestResolveFinal(t *testing.T) {
	entries := []timeline.Entry{
		{ID: "1", GroupID: "g", KeyTime: 0, Formatted: "AB", Policy: common.PolicyExtend},
		{ID: "2", GroupID: "g", KeyTime: 1, Formatted: "C", Policy: common.PolicyCarry},
		{ID: "3", GroupID: "g", KeyTime: 2, Formatted: "", Policy: common.PolicyCarry},
		{ID: "4", GroupID: "g", KeyTime: 3, Formatted: "X", Policy: common.PolicyCenter},
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "AB  "},
		{1, "CB  "},
		{2, "CB  "},
		{3, " X  "},
	}
	for _, tt := range tests {
		got, err := timeline.ResolveFinal(entries, tt.index, 4, "AAAA")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "index %d", tt.index)
	}
}

func TestResolveFinal_CarryFromInitial(t *testing.T) {
	entries := []timeline.Entry{
		{ID: "1", GroupID: "g", Formatted: "Z", Policy: common.PolicyCarry},
	}
	got, err := timeline.ResolveFinal(entries, 0, 3, "AAA")
	require.NoError(t, err)
	assert.Equal(t, "ZAA", got)
}

func TestResolveFinal_Guards(t *testing.T) {
	entries := []timeline.Entry{
		{ID: "1", GroupID: "g", Formatted: "A", Policy: common.PolicyExtend},
		{ID: "2", GroupID: "other", Formatted: "B", Policy: common.PolicyCarry},
		{ID: "3", GroupID: "g", Formatted: "C", Policy: common.PolicyCarry},
	}

	for _, index := range []int{-1, 3} {
		_, err := timeline.ResolveFinal(entries, index, 2, "AA")
		assert.True(t, errors.Is(err, timeline.ErrResolution), "index %d: %v", index, err)
	}

	_, err := timeline.ResolveFinal(entries, 2, 2, "AA")
	assert.True(t, errors.Is(err, timeline.ErrResolution), "foreign group: %v", err)

	looped := []timeline.Entry{
		{ID: "1", GroupID: "g", Formatted: "A", Policy: common.PolicyCarry},
		{ID: "1", GroupID: "g", Formatted: "B", Policy: common.PolicyCarry},
	}
	_, err = timeline.ResolveFinal(looped, 1, 2, "AA")
	assert.True(t, errors.Is(err, timeline.ErrResolution), "self reference: %v", err)
}

func TestCheckFeasibility_Replace(t *testing.T) {
	reg, tl := setup(t, "AB ", 1, 3)
	add(t, reg, tl, 0, "A", common.PolicyExtend)
	second := add(t, reg, tl, 1, "BB", common.PolicyExtend)

	// replacing second entry leaves nothing after the candidate
	candidate := second
	candidate.KeyTime, candidate.Formatted = 0.5, "B"
	margin, err := tl.CheckFeasibility(reg, candidate, common.DirectionNext, second.ID)
	require.NoError(t, err)
	assert.Zero(t, margin)

	margin, err = tl.CheckFeasibility(reg, candidate, common.DirectionPrevious, second.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, margin, 1e-9)
}
