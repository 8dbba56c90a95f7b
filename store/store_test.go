package store

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"splitflap/common"
	"splitflap/registry"
	"splitflap/schedule"
	"splitflap/timeline"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "project.sqlite"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newGroup(t *testing.T, reg *registry.Registry) *registry.Group {
	t.Helper()
	g, err := reg.Create("Platform 9", registry.Metadata{FlapTime: 0.1, Characters: "AB ", RowCount: 1, ColCount: 3})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return g
}

func TestGroupRoundTrip(t *testing.T) {
	s := openTest(t)
	reg := registry.New()
	g := newGroup(t, reg)
	if err := g.SetCurrent("AB "); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGroup(g); err != nil {
		t.Fatalf("SaveGroup() error = %v", err)
	}

	loaded, err := s.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	got, err := loaded.Get(g.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Metadata() != g.Metadata() {
		t.Errorf("metadata = %+v, want %+v", got.Metadata(), g.Metadata())
	}
	if got.Prefix != g.Prefix || got.Current != "AB " {
		t.Errorf("prefix/current = %q/%q, want %q/%q", got.Prefix, got.Current, g.Prefix, "AB ")
	}
	if !got.Created.Equal(g.Created) {
		t.Errorf("created = %v, want %v", got.Created, g.Created)
	}
}

func TestTimelineRoundTrip(t *testing.T) {
	s := openTest(t)
	reg := registry.New()
	g := newGroup(t, reg)
	if err := s.SaveGroup(g); err != nil {
		t.Fatal(err)
	}

	tl := timeline.New(g.ID)
	inputs := []timeline.EntryInput{
		{KeyTime: 0, Text: "A"},
		{KeyTime: 5, Text: "ab", Policy: common.PolicyCenter},
		{KeyTime: 7, Text: "B", Policy: common.PolicyCarry},
	}
	for _, in := range inputs {
		if _, err := tl.Add(reg, in); err != nil {
			t.Fatalf("Add(%+v) error = %v", in, err)
		}
	}
	if err := s.SaveTimeline(tl); err != nil {
		t.Fatalf("SaveTimeline() error = %v", err)
	}
	// saving again must not duplicate anything
	if err := s.SaveTimeline(tl); err != nil {
		t.Fatalf("SaveTimeline() error = %v", err)
	}

	loaded, err := s.LoadTimeline(g.ID)
	if err != nil {
		t.Fatalf("LoadTimeline() error = %v", err)
	}
	want, got := tl.Entries(), loaded.Entries()
	if len(got) != len(want) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestKeyframeSink(t *testing.T) {
	s := openTest(t)
	reg := registry.New()
	g := newGroup(t, reg)
	if err := s.SaveGroup(g); err != nil {
		t.Fatal(err)
	}
	tl := timeline.New(g.ID)
	for _, in := range []timeline.EntryInput{{KeyTime: 0, Text: "A"}, {KeyTime: 5, Text: "AB"}} {
		if _, err := tl.Add(reg, in); err != nil {
			t.Fatal(err)
		}
	}

	sched := schedule.NewScheduler(24, zaptest.NewLogger(t))
	for range 2 {
		plan, err := sched.Apply(reg, tl, s.KeyframeSink())
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		stored, err := s.Keyframes(g.ID)
		if err != nil {
			t.Fatalf("Keyframes() error = %v", err)
		}
		want := plan.Keyframes()
		if len(stored) != len(want) {
			t.Fatalf("stored %d keyframes, want %d", len(stored), len(want))
		}
		for i := range want {
			if stored[i] != want[i] {
				t.Errorf("keyframe %d = %+v, want %+v", i, stored[i], want[i])
			}
		}
	}

	if err := s.KeyframeSink().Keyframe(g.ID, schedule.Keyframe{}); err == nil {
		t.Error("Keyframe() outside of Begin/End succeeded")
	}
}

func TestDeleteGroupCascades(t *testing.T) {
	s := openTest(t)
	reg := registry.New()
	g := newGroup(t, reg)
	if err := s.SaveGroup(g); err != nil {
		t.Fatal(err)
	}
	tl := timeline.New(g.ID)
	if _, err := tl.Add(reg, timeline.EntryInput{KeyTime: 0, Text: "B"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTimeline(tl); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteGroup(g.ID); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}
	loaded, err := s.LoadTimeline(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 0 {
		t.Errorf("timeline of deleted group has %d entries", loaded.Len())
	}
	if err := s.DeleteGroup(g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGroup() of missing group error = %v, want ErrNotFound", err)
	}
}

func TestBackup(t *testing.T) {
	s := openTest(t)
	reg := registry.New()
	if err := s.SaveGroup(newGroup(t, reg)); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "copy.sqlite")
	if err := s.Backup(dst); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	c, err := Open(dst, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	loaded, err := c.LoadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 1 {
		t.Errorf("backup holds %d groups, want 1", loaded.Len())
	}
}
