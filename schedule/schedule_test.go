package schedule_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"splitflap/alphabet"
	"splitflap/common"
	"splitflap/registry"
	"splitflap/schedule"
	"splitflap/timeline"
)

func TestCyclicDistance(t *testing.T) {
	a := alphabet.MustNew(alphabet.Default)
	for _, c1 := range a.Runes() {
		for _, c2 := range a.Runes() {
			d, err := schedule.CyclicDistance(c1, c2, a)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, d, 0)
			assert.Less(t, d, a.Len())
			if c1 == c2 {
				assert.Zero(t, d)
			}
		}
	}

	_, err := schedule.CyclicDistance('A', '#', a)
	assert.True(t, errors.Is(err, schedule.ErrLookupFailure))
}

func TestPlanTransition_Scenario(t *testing.T) {
	a := alphabet.MustNew("AB ")
	angles := make([]float64, 3)

	moves, err := schedule.PlanTransition("A  ", "AB ", a, 0.1, 5, 24, angles)
	require.NoError(t, err)
	require.Len(t, moves, 1)

	m := moves[0]
	assert.Equal(t, 1, m.Flap)
	assert.Equal(t, 2, m.Steps)
	assert.Equal(t, 120, m.StartFrame)
	assert.Equal(t, 125, m.EndFrame)
	assert.InDelta(t, 4*math.Pi/3, m.EndAngle-m.StartAngle, 1e-12)
	assert.Equal(t, []float64{0, 4 * math.Pi / 3, 0}, angles)
}

func TestPlanTransition_AnglesOnlyGrow(t *testing.T) {
	a := alphabet.MustNew("AB ")
	angles := make([]float64, 1)
	texts := []string{"B", "A", " ", "A", "B"}
	from := "A"
	prev := 0.0
	for i, to := range texts {
		_, err := schedule.PlanTransition(from, to, a, 0.1, float64(i), 24, angles)
		require.NoError(t, err)
		assert.Greater(t, angles[0], prev)
		prev, from = angles[0], to
	}
	// B A ' ' A B: 1 + 2 + 2 + 1 + 1 steps
	assert.InDelta(t, 2*math.Pi*7/3, angles[0], 1e-12)
}

func TestPlanTransition_LookupFailure(t *testing.T) {
	a := alphabet.MustNew("AB ")
	angles := make([]float64, 3)

	moves, err := schedule.PlanTransition("AAA", "BXB", a, 0.1, 0, 24, angles)
	var le *alphabet.LookupError
	require.True(t, errors.As(err, &le), "error = %v", err)
	assert.Equal(t, 1, le.Flap)
	assert.Equal(t, 'X', le.Char)
	require.Len(t, moves, 1, "moves planned before failure are kept")
	assert.Zero(t, angles[2])

	_, err = schedule.PlanTransition("AA", "A", a, 0.1, 0, 24, angles)
	assert.Error(t, err)
}

func setup(t *testing.T) (*registry.Registry, *timeline.Timeline, *registry.Group) {
	t.Helper()
	reg := registry.New()
	g, err := reg.Create("scene", registry.Metadata{FlapTime: 0.1, Characters: "AB ", RowCount: 1, ColCount: 3})
	require.NoError(t, err)
	tl := timeline.New(g.ID)
	_, err = tl.Add(reg, timeline.EntryInput{KeyTime: 0, Text: "A"})
	require.NoError(t, err)
	_, err = tl.Add(reg, timeline.EntryInput{KeyTime: 5, Text: "AB"})
	require.NoError(t, err)
	return reg, tl, g
}

func TestApply(t *testing.T) {
	reg, tl, g := setup(t)
	sink := schedule.NewCollector()

	plan, err := schedule.NewScheduler(24, zaptest.NewLogger(t)).Apply(reg, tl, sink)
	require.NoError(t, err)
	require.Len(t, plan.Transitions, 2)

	// initial "AAA" -> "A  " happens instantly at frame 0
	first := plan.Transitions[0]
	assert.Equal(t, "AAA", first.From)
	assert.Equal(t, "A  ", first.To)
	require.Len(t, first.Moves, 2)
	for _, m := range first.Moves {
		assert.True(t, m.Instant)
		assert.Equal(t, 0, m.StartFrame)
		assert.Equal(t, 0, m.EndFrame)
		assert.InDelta(t, 4*math.Pi/3, m.EndAngle, 1e-12)
	}

	second := plan.Transitions[1]
	assert.Equal(t, "AB ", second.To)
	require.Len(t, second.Moves, 1)
	m := second.Moves[0]
	assert.Equal(t, 1, m.Flap)
	assert.Equal(t, 120, m.StartFrame)
	assert.Equal(t, 125, m.EndFrame)
	assert.InDelta(t, 4*math.Pi/3, m.StartAngle, 1e-12)
	assert.InDelta(t, 8*math.Pi/3, m.EndAngle, 1e-12)

	// 2 instant keyframes and a start/end pair
	assert.Len(t, sink.Keyframes[g.ID], 4)
	assert.Equal(t, plan.Keyframes(), sink.Keyframes[g.ID])
	assert.Len(t, plan.FlapKeyframes(1), 3)
	assert.Equal(t, 125, plan.LastFrame())
	assert.Equal(t, "AB ", g.Current)
}

func TestApply_IsReplayable(t *testing.T) {
	reg, tl, _ := setup(t)
	s := schedule.NewScheduler(24, nil)

	first, err := s.Apply(reg, tl, nil)
	require.NoError(t, err)
	second, err := s.Apply(reg, tl, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApply_CarryUsesReachedString(t *testing.T) {
	reg := registry.New()
	g, err := reg.Create("carry", registry.Metadata{FlapTime: 0.1, Characters: alphabet.Default, RowCount: 1, ColCount: 4})
	require.NoError(t, err)
	tl := timeline.New(g.ID)
	for _, in := range []timeline.EntryInput{
		{KeyTime: 0, Text: "ABCD"},
		{KeyTime: 10, Text: "Z", Policy: common.PolicyCarry},
		{KeyTime: 20, Text: "Y", Policy: common.PolicyCenter},
	} {
		_, err := tl.Add(reg, in)
		require.NoError(t, err)
	}

	plan, err := schedule.NewScheduler(25, nil).Apply(reg, tl, nil)
	require.NoError(t, err)
	finals, err := tl.Finals(reg)
	require.NoError(t, err)
	for i, tr := range plan.Transitions {
		assert.Equal(t, finals[i], tr.To)
	}
	assert.Equal(t, " Y  ", g.Current)
}

func TestApply_UnknownGroup(t *testing.T) {
	_, err := schedule.NewScheduler(24, nil).Apply(registry.New(), timeline.New("missing"), nil)
	assert.True(t, errors.Is(err, registry.ErrUnknownGroup))
}

func TestWriterSink_JSONLines(t *testing.T) {
	reg, tl, g := setup(t)
	var buf bytes.Buffer

	_, err := schedule.NewScheduler(24, nil).Apply(reg, tl, schedule.NewWriterSink(&buf, common.PlanFormatJsonl))
	require.NoError(t, err)

	sc := bufio.NewScanner(&buf)
	require.True(t, sc.Scan())
	var header map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &header))
	assert.Equal(t, g.ID, header["group"])

	var count int
	for sc.Scan() {
		var k schedule.Keyframe
		require.NoError(t, json.Unmarshal(sc.Bytes(), &k))
		count++
	}
	assert.Equal(t, 4, count)
}

func TestWriterSink_YAML(t *testing.T) {
	reg, tl, g := setup(t)
	var buf bytes.Buffer

	_, err := schedule.NewScheduler(24, nil).Apply(reg, tl, schedule.NewWriterSink(&buf, common.PlanFormatYaml))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "group: "+g.ID)
	assert.Equal(t, 4, strings.Count(out, "- flap:"))

	sink := schedule.NewWriterSink(&buf, common.PlanFormatYaml)
	assert.Error(t, sink.Keyframe("other", schedule.Keyframe{}))
	assert.Error(t, sink.End("other"))
}

func TestPlanWriteRead(t *testing.T) {
	reg, tl, _ := setup(t)
	plan, err := schedule.NewScheduler(24, nil).Apply(reg, tl, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, plan.Write(&buf, common.PlanFormatYaml))
	back, err := schedule.ReadPlan(&buf)
	require.NoError(t, err)
	assert.Equal(t, plan.Keyframes(), back.Keyframes())
	assert.Equal(t, plan.Characters, back.Characters)

	buf.Reset()
	require.NoError(t, plan.Write(&buf, common.PlanFormatJsonl))
	assert.Equal(t, 1+len(plan.Transitions), strings.Count(buf.String(), "\n"))
}

func TestPlanDump(t *testing.T) {
	reg, tl, g := setup(t)
	plan, err := schedule.NewScheduler(24, nil).Apply(reg, tl, nil)
	require.NoError(t, err)

	dump := plan.Dump()
	lines := strings.Split(strings.TrimSpace(dump), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "plan group="+g.ID))
	assert.Contains(t, dump, "last_frame=125")
	assert.Contains(t, dump, `to: "AB "`)
	assert.Contains(t, dump, `flap 1 " "->"B" steps=2 frames=120..125`)
	assert.Equal(t, 2, strings.Count(dump, "transition n="))
}

func TestTee(t *testing.T) {
	reg, tl, g := setup(t)
	first, second := schedule.NewCollector(), schedule.NewCollector()
	var buf bytes.Buffer

	plan, err := schedule.NewScheduler(24, nil).Apply(reg, tl, schedule.Tee{first, second, schedule.NewWriterSink(&buf, common.PlanFormatJsonl)})
	require.NoError(t, err)
	assert.Equal(t, plan.Keyframes(), first.Keyframes[g.ID])
	assert.Equal(t, first.Keyframes, second.Keyframes)
	// header and a line per keyframe
	assert.Equal(t, 5, strings.Count(buf.String(), "\n"))
}
