// Package atlas renders every alphabet symbol into a grid of cells of a
// single texture image which animation host maps onto flaps.
package atlas

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"splitflap/alphabet"
	"splitflap/utils/images"
)

const (
	startFontSize = 40
	fontSizeStep  = 2
	maxSizeSteps  = 100
)

// Atlas is a texture with a cell per alphabet symbol, symbols are laid out
// row by row in alphabet order.
type Atlas struct {
	Image    *image.NRGBA
	Cells    map[rune]image.Rectangle
	PerRow   int
	FontSize float64
}

// Generate renders atlas for the alphabet.
func Generate(a *alphabet.Alphabet, st Style, fnt *truetype.Font) (*Atlas, error) {
	if err := st.validate(); err != nil {
		return nil, err
	}
	if fnt == nil {
		return nil, fmt.Errorf("no font to render atlas")
	}

	cellW, cellH := st.CellSize()
	perRow := int(math.Ceil(math.Sqrt(float64(a.Len()))))
	size := fitFontSize(a, fnt, int(st.CharWidth*float64(cellW)), int(st.CharHeight*float64(cellH)))
	face := truetype.NewFace(fnt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()

	at := &Atlas{
		Image:    imaging.New(cellW*perRow, cellH*perRow, st.BackgroundColor),
		Cells:    make(map[rune]image.Rectangle, a.Len()),
		PerRow:   perRow,
		FontSize: size,
	}
	for i, r := range a.Runes() {
		rect := image.Rect(0, 0, cellW, cellH).Add(image.Pt((i%perRow)*cellW, (i/perRow)*cellH))
		at.Image = imaging.Paste(at.Image, renderCell(r, face, cellW, cellH, st), rect.Min)
		at.Cells[r] = rect
	}
	return at, nil
}

// Cell returns image of a single symbol.
func (at *Atlas) Cell(r rune) (image.Image, bool) {
	rect, ok := at.Cells[r]
	if !ok {
		return nil, false
	}
	return at.Image.SubImage(rect), true
}

// Encode writes atlas as PNG, gray when colours allow it.
func (at *Atlas) Encode(w io.Writer) error {
	var img image.Image = at.Image
	if images.IsGrayscale(at.Image) {
		gray := image.NewGray(at.Image.Bounds())
		draw.Draw(gray, gray.Bounds(), at.Image, at.Image.Bounds().Min, draw.Src)
		img = gray
	}
	if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("unable to encode atlas: %w", err)
	}
	return nil
}

func renderCell(r rune, face font.Face, w, h int, st Style) *image.NRGBA {
	cell := imaging.New(w, h, st.BackgroundColor)

	// one pixel outline
	fg := image.NewUniform(st.FontColor)
	for _, edge := range []image.Rectangle{
		image.Rect(0, 0, w, 1), image.Rect(0, h-1, w, h),
		image.Rect(0, 0, 1, h), image.Rect(w-1, 0, w, h),
	} {
		draw.Draw(cell, edge, fg, image.Point{}, draw.Src)
	}

	bounds, _, ok := face.GlyphBounds(r)
	if !ok || bounds.Empty() {
		return cell
	}
	textW, textH := bounds.Max.X-bounds.Min.X, bounds.Max.Y-bounds.Min.Y
	d := &font.Drawer{
		Dst:  cell,
		Src:  fg,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(w)/2 - textW/2 - bounds.Min.X,
			Y: fixed.I(h)/2 - textH/2 - bounds.Min.Y,
		},
	}
	d.DrawString(string(r))
	return cell
}

// fitFontSize grows font size until the widest glyph fills target box in
// either dimension.
func fitFontSize(a *alphabet.Alphabet, fnt *truetype.Font, targetW, targetH int) float64 {
	widest, widestW := rune(0), -1
	face := truetype.NewFace(fnt, &truetype.Options{Size: startFontSize, DPI: 72})
	for _, r := range a.Runes() {
		if r == alphabet.Space {
			continue
		}
		if b, _, ok := face.GlyphBounds(r); ok {
			if w := (b.Max.X - b.Min.X).Ceil(); w > widestW {
				widest, widestW = r, w
			}
		}
	}
	face.Close()
	if widestW < 0 {
		return startFontSize
	}

	size := float64(startFontSize)
	for range maxSizeSteps {
		face := truetype.NewFace(fnt, &truetype.Options{Size: size, DPI: 72})
		b, _, _ := face.GlyphBounds(widest)
		face.Close()
		if (b.Max.X-b.Min.X).Ceil() >= targetW || (b.Max.Y-b.Min.Y).Ceil() >= targetH {
			break
		}
		size += fontSizeStep
	}
	return size
}
