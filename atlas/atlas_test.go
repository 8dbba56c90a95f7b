package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"splitflap/alphabet"
)

func TestGenerate(t *testing.T) {
	fnt, err := LoadFont("")
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}
	a := alphabet.MustNew(alphabet.Default)
	st := DefaultStyle()

	at, err := Generate(a, st, fnt)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	cellW, cellH := st.CellSize()
	if cellW != 120 || cellH != 240 {
		t.Fatalf("cell size = %dx%d, want 120x240", cellW, cellH)
	}
	if at.PerRow != 7 {
		t.Errorf("PerRow = %d, want 7", at.PerRow)
	}
	if b := at.Image.Bounds(); b.Dx() != 7*cellW || b.Dy() != 7*cellH {
		t.Errorf("atlas bounds = %v", b)
	}
	if len(at.Cells) != a.Len() {
		t.Errorf("cells = %d, want %d", len(at.Cells), a.Len())
	}
	if at.FontSize <= startFontSize {
		t.Errorf("font size %v was never grown", at.FontSize)
	}

	// the 8th symbol starts second row
	if r := at.Cells['H']; r.Min.X != 0 || r.Min.Y != cellH {
		t.Errorf("cell of H = %v", r)
	}

	// space cell holds nothing but background inside outline
	sp, ok := at.Cell(' ')
	if !ok {
		t.Fatal("no cell for space")
	}
	b := sp.Bounds()
	if c := color.NRGBAModel.Convert(sp.At(b.Min.X+cellW/2, b.Min.Y+cellH/2)); c != st.BackgroundColor {
		t.Errorf("space center = %v, want background", c)
	}
	if c := color.NRGBAModel.Convert(sp.At(b.Min.X, b.Min.Y)); c != st.FontColor {
		t.Errorf("space outline = %v, want font color", c)
	}

	// glyph pixels are drawn inside the cell
	cell, _ := at.Cell('W')
	if n := countColor(cell, st.FontColor); n < 200 {
		t.Errorf("glyph W has %d pixels of font color", n)
	}

	if _, ok := at.Cell('#'); ok {
		t.Error("unexpected cell for symbol outside of alphabet")
	}
}

func countColor(img image.Image, c color.NRGBA) int {
	var n int
	b := img.Bounds()
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) == c {
				n++
			}
		}
	}
	return n
}

func TestEncode(t *testing.T) {
	fnt, err := LoadFont("")
	if err != nil {
		t.Fatal(err)
	}
	st := DefaultStyle()
	st.BackgroundColor = color.NRGBA{A: 255}

	at, err := Generate(alphabet.MustNew("AB "), st, fnt)
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := at.Encode(buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("black and white atlas decoded as %T, want *image.Gray", img)
	}
	if img.Bounds() != at.Image.Bounds() {
		t.Errorf("decoded bounds %v, want %v", img.Bounds(), at.Image.Bounds())
	}
}

func TestGenerateInvalidStyle(t *testing.T) {
	fnt, err := LoadFont("")
	if err != nil {
		t.Fatal(err)
	}
	st := DefaultStyle()
	st.FlapRatio = 0
	if _, err := Generate(alphabet.MustNew("AB"), st, fnt); err == nil {
		t.Error("Generate() with zero flap ratio succeeded")
	}
	if _, err := Generate(alphabet.MustNew("AB"), DefaultStyle(), nil); err == nil {
		t.Error("Generate() without font succeeded")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#ffffff", want: color.NRGBA{255, 255, 255, 255}},
		{in: "#f00", want: color.NRGBA{255, 0, 0, 255}},
		{in: "00ff0080", want: color.NRGBA{0, 255, 0, 128}},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadFontRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.ttf")
	if err := os.WriteFile(path, []byte("definitely not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFont(path); err == nil {
		t.Error("LoadFont() accepted garbage")
	}
}

func TestFindFont(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "truetype", "go")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(sub, "Bahnschrift.TTF")
	if err := os.WriteFile(want, []byte{0}, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindFont("bahnschrift", []string{filepath.Join(dir, "missing"), dir})
	if err != nil {
		t.Fatalf("FindFont() error = %v", err)
	}
	if got != want {
		t.Errorf("FindFont() = %q, want %q", got, want)
	}

	if got, err := FindFont(want, nil); err != nil || got != want {
		t.Errorf("FindFont(path) = %q, %v", got, err)
	}
	if _, err := FindFont("nothere", []string{dir}); !errors.Is(err, ErrFontNotFound) {
		t.Errorf("FindFont() error = %v, want ErrFontNotFound", err)
	}
}

func TestOutputName(t *testing.T) {
	dir := t.TempDir()
	values := NameValues{Prefix: "splitflap", Group: "splitflap-system0"}

	name, err := OutputName("", dir, values)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "splitflap-characters-0.png"); name != want {
		t.Errorf("OutputName() = %q, want %q", name, want)
	}
	if err := os.WriteFile(name, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	name, err = OutputName("", dir, values)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "splitflap-characters-1.png"); name != want {
		t.Errorf("OutputName() = %q, want %q", name, want)
	}

	name, err = OutputName(`{{ .Group | upper }}_{{ printf "%02d" .Index }}.png`, dir, values)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "SPLITFLAP-SYSTEM0_00.png"); name != want {
		t.Errorf("OutputName() = %q, want %q", name, want)
	}

	if _, err := OutputName("{{ .Broken", dir, values); err == nil {
		t.Error("OutputName() accepted broken template")
	}
}
