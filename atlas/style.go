package atlas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style describes look of a single atlas cell. Cell sizes are in pixels of
// the flap front side before FlapRatio correction.
type Style struct {
	CellWidth       int
	CellHeight      int
	FlapRatio       float64 // flap width divided by twice its height
	CharWidth       float64 // part of cell width glyph may fill
	CharHeight      float64 // part of cell height glyph may fill
	FontColor       color.NRGBA
	BackgroundColor color.NRGBA
}

func DefaultStyle() Style {
	return Style{
		CellWidth:       120,
		CellHeight:      200,
		FlapRatio:       0.5,
		CharWidth:       0.7,
		CharHeight:      0.7,
		FontColor:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		BackgroundColor: color.NRGBA{R: 255, A: 255},
	}
}

// CellSize returns actual pixel size of a cell with texture stretched to
// match flap proportions.
func (s Style) CellSize() (int, int) {
	ratio := float64(s.CellWidth) / float64(s.CellHeight)
	return s.CellWidth, int(float64(s.CellHeight) * ratio / s.FlapRatio)
}

func (s Style) validate() error {
	if s.CellWidth <= 0 || s.CellHeight <= 0 {
		return fmt.Errorf("cell size must be positive, got %dx%d", s.CellWidth, s.CellHeight)
	}
	if s.FlapRatio <= 0 || s.CharWidth <= 0 || s.CharHeight <= 0 {
		return fmt.Errorf("flap ratio (%v) and character factors (%v, %v) must be positive", s.FlapRatio, s.CharWidth, s.CharHeight)
	}
	return nil
}

// ParseColor accepts "#rrggbb", "#rrggbbaa" and short "#rgb" forms.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
