package preview

import (
	"image"
	"image/color"
)

// Layout is geometry and colours of rendered board in pixels.
type Layout struct {
	CellWidth  int
	CellHeight int
	GapX       int
	GapY       int
	Radius     float64
	FontFamily string
	Board      color.NRGBA
	Flap       color.NRGBA
	Text       color.NRGBA
}

func DefaultLayout() Layout {
	return Layout{
		CellWidth:  40,
		CellHeight: 80,
		GapX:       4,
		GapY:       8,
		Radius:     3,
		FontFamily: "sans-serif",
		Board:      color.NRGBA{R: 32, G: 32, B: 32, A: 255},
		Flap:       color.NRGBA{A: 255},
		Text:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Size returns board size for rows x cols flaps.
func (l Layout) Size(rows, cols int) (int, int) {
	return cols*l.CellWidth + (cols+1)*l.GapX, rows*l.CellHeight + (rows+1)*l.GapY
}

// Cell returns rectangle of flap with index i in row major order.
func (l Layout) Cell(i, cols int) image.Rectangle {
	row, col := i/cols, i%cols
	x := l.GapX + col*(l.CellWidth+l.GapX)
	y := l.GapY + row*(l.CellHeight+l.GapY)
	return image.Rect(x, y, x+l.CellWidth, y+l.CellHeight)
}
