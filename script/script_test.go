package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"

	"splitflap/alphabet"
	"splitflap/common"
	"splitflap/registry"
	"splitflap/timeline"
)

const sample = `
group: station-system0
entries:
  - time: 0
    text: Gleis 7
  - time: 12.5
    text: "ICE 578"
    policy: center
  - time: 30
    text: "+5"
    policy: CARRY
`

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Group != "station-system0" || len(s.Entries) != 3 {
		t.Fatalf("unexpected script %+v", s)
	}
	if s.Entries[0].Policy != common.PolicyExtend || s.Entries[1].Policy != common.PolicyCenter || s.Entries[2].Policy != common.PolicyCarry {
		t.Errorf("policies = %v %v %v", s.Entries[0].Policy, s.Entries[1].Policy, s.Entries[2].Policy)
	}

	buf := new(bytes.Buffer)
	if err := s.Write(buf); err != nil {
		t.Fatal(err)
	}
	back, err := Load(buf)
	if err != nil {
		t.Fatalf("Load() of written script error = %v", err)
	}
	if len(back.Entries) != 3 || back.Entries[1] != s.Entries[1] {
		t.Errorf("round trip mismatch: %+v", back.Entries)
	}

	if _, err := Load(strings.NewReader("group: x\nunknown: 1\n")); err == nil {
		t.Error("Load() accepted unknown field")
	}
	if _, err := Load(strings.NewReader("entries:\n  - policy: sideways\n")); err == nil {
		t.Error("Load() accepted unknown policy")
	}
	if s, err := Load(strings.NewReader("")); err != nil || len(s.Entries) != 0 {
		t.Errorf("Load() of empty input = %+v, %v", s, err)
	}
}

func newGroup(t *testing.T, rows, cols int) (*registry.Registry, *registry.Group) {
	t.Helper()
	reg := registry.New()
	g, err := reg.Create("station", registry.Metadata{FlapTime: 0.1, Characters: alphabet.Default, RowCount: rows, ColCount: cols})
	if err != nil {
		t.Fatal(err)
	}
	return reg, g
}

func TestApply(t *testing.T) {
	reg, g := newGroup(t, 1, 8)
	s, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	tl := timeline.New(g.ID)
	added, err := Apply(reg, tl, s.Entries, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(added) != 3 || tl.Len() != 3 {
		t.Fatalf("added %d entries, timeline has %d", len(added), tl.Len())
	}

	// second batch fails on its last entry, nothing of it must stay
	bad := []timeline.EntryInput{{KeyTime: 40, Text: "OK"}, {KeyTime: 40.05, Text: "DUP"}}
	_, err = Apply(reg, tl, bad, zaptest.NewLogger(t))
	if !errors.Is(err, timeline.ErrDuplicateEntry) {
		t.Fatalf("Apply() error = %v, want ErrDuplicateEntry", err)
	}
	if tl.Len() != 3 {
		t.Errorf("timeline has %d entries after failed script, want 3", tl.Len())
	}
}

func TestReadText(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Café au lait")
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadText(strings.NewReader(encoded), "text/plain; charset=windows-1252")
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "Café au lait" {
		t.Errorf("ReadText() = %q", got)
	}

	got, err = ReadText(strings.NewReader("\uFEFFplain"), "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain" {
		t.Errorf("ReadText() = %q, want BOM stripped", got)
	}
}

func TestSentences(t *testing.T) {
	sp := NewSplitter(language.English, zaptest.NewLogger(t))
	if sp == nil {
		t.Fatal("no English splitter")
	}
	var got []string
	for s := range sp.Sentences("The train is late. Please wait\non platform 7.\n\nThank you!") {
		got = append(got, s)
	}
	want := []string{"The train is late.", "Please wait on platform 7.", "Thank you!"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Sentences() = %q, want %q", got, want)
	}

	var nilSplitter *Splitter
	got = got[:0]
	for s := range nilSplitter.Sentences("One. Two.\n\nThree.") {
		got = append(got, s)
	}
	if len(got) != 2 {
		t.Errorf("nil splitter returned %q, want 2 paragraphs", got)
	}

	if NewSplitter(language.German, zaptest.NewLogger(t)) != nil {
		t.Error("German splitter is not expected")
	}
}

func TestPack(t *testing.T) {
	tests := []struct {
		words      string
		rows, cols int
		want       []string
	}{
		{"THE TRAIN IS LATE", 1, 8, []string{"THE", "TRAIN IS", "LATE"}},
		{"THE TRAIN IS LATE", 2, 9, []string{"THE TRAIN\nIS LATE"}},
		{"ABCDEFGHIJ", 1, 4, []string{"ABCD", "EFGH", "IJ"}},
		{"ABCD EF GH", 2, 4, []string{"ABCDEF", "GH"}},
		{"", 1, 4, nil},
	}
	for _, tt := range tests {
		got := pack(strings.Fields(tt.words), tt.rows, tt.cols)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("pack(%q, %d, %d) = %q, want %q", tt.words, tt.rows, tt.cols, got, tt.want)
		}
	}
}

func TestPaginateIsFeasible(t *testing.T) {
	reg, g := newGroup(t, 2, 10)
	sp := NewSplitter(language.English, zaptest.NewLogger(t))

	text := "Welcome to Zurich main station. The next train to Geneva departs from platform 12 at 10:04! Mind the gap."
	inputs, err := Paginate(text, g, PageOptions{Hold: 1.5, Policy: common.PolicyCenter}, sp)
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if len(inputs) < 4 {
		t.Fatalf("only %d pages", len(inputs))
	}
	if inputs[0].KeyTime != 0 {
		t.Errorf("first page at %v, want 0", inputs[0].KeyTime)
	}

	tl := timeline.New(g.ID)
	if _, err := Apply(reg, tl, inputs, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("paginated entries are not feasible: %v", err)
	}
	for i := 1; i < len(inputs); i++ {
		if d := inputs[i].KeyTime - inputs[i-1].KeyTime; d < 1.5 {
			t.Errorf("page %d held for %.2fs only", i, d)
		}
	}
}

func TestPaginateDelayedStart(t *testing.T) {
	_, g := newGroup(t, 1, 4)
	// initial AAAA -> ZZZZ needs 2.5s
	inputs, err := Paginate("ZZZZ", g, PageOptions{Start: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 1 || inputs[0].KeyTime < 2.5 {
		t.Errorf("Paginate() = %+v, want page not earlier than 2.5s", inputs)
	}

	if _, err := Paginate("ZZZZ", g, PageOptions{Start: -1}, nil); err == nil {
		t.Error("Paginate() accepted negative start")
	}
}
