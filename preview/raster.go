package preview

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"math"

	"github.com/disintegration/imaging"

	"splitflap/atlas"
	"splitflap/registry"
	"splitflap/schedule"
	"splitflap/utils/images"
)

// Renderer draws board frames from atlas cells. Board itself is rasterized
// once, symbol cells are scaled to flap size on first use.
type Renderer struct {
	group *registry.Group
	atlas *atlas.Atlas
	lay   Layout
	board *image.NRGBA
	cells map[rune]*image.NRGBA
}

func NewRenderer(g *registry.Group, at *atlas.Atlas, lay Layout) (*Renderer, error) {
	doc := buildSVG(g, nil, lay, false)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize board: %w", err)
	}
	w, h := lay.Size(g.Rows, g.Cols)
	board, err := images.RasterizeSVG(data, w, h, lay.Board)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		group: g,
		atlas: at,
		lay:   lay,
		board: imaging.Clone(board),
		cells: make(map[rune]*image.NRGBA),
	}, nil
}

// Render returns board showing text.
func (r *Renderer) Render(text string) (*image.NRGBA, error) {
	img := imaging.Clone(r.board)
	line := image.NewUniform(r.lay.Board)
	for i, c := range []rune(text) {
		if i >= r.group.FlapCount() {
			break
		}
		cell, err := r.cell(c)
		if err != nil {
			return nil, fmt.Errorf("flap %d: %w", i, err)
		}
		rect := r.lay.Cell(i, r.group.Cols)
		img = imaging.Paste(img, cell, rect.Min)
		mid := rect.Min.Y + rect.Dy()/2
		draw.Draw(img, image.Rect(rect.Min.X, mid, rect.Max.X, mid+1), line, image.Point{}, draw.Src)
	}
	return img, nil
}

func (r *Renderer) cell(c rune) (*image.NRGBA, error) {
	if img, ok := r.cells[c]; ok {
		return img, nil
	}
	src, ok := r.atlas.Cell(c)
	if !ok {
		return nil, fmt.Errorf("symbol %q is not in atlas", c)
	}
	img := imaging.Resize(src, r.lay.CellWidth, r.lay.CellHeight, imaging.Lanczos)
	r.cells[c] = img
	return img, nil
}

// PNG renders single board image, encoding is left to caller.
func PNG(g *registry.Group, text string, at *atlas.Atlas, lay Layout) (image.Image, error) {
	r, err := NewRenderer(g, at, lay)
	if err != nil {
		return nil, err
	}
	return r.Render(text)
}

// GIF animates plan from one moment to another sampling board every step
// seconds. Identical consecutive frames are merged.
func GIF(plan *schedule.Plan, g *registry.Group, at *atlas.Atlas, lay Layout, from, to, step float64) (*gif.GIF, error) {
	if step <= 0 || to < from {
		return nil, fmt.Errorf("bad animation range %.2f..%.2f step %.2f", from, to, step)
	}
	r, err := NewRenderer(g, at, lay)
	if err != nil {
		return nil, err
	}

	delay := max(int(math.Round(step*100)), 1)
	anim := &gif.GIF{}
	last := ""
	count := int(math.Floor((to-from)/step+1e-9)) + 1
	for i := range count {
		text := StateAt(plan, g, from+float64(i)*step)
		if i > 0 && text == last {
			anim.Delay[len(anim.Delay)-1] += delay
			continue
		}
		frame, err := r.Render(text)
		if err != nil {
			return nil, err
		}
		anim.Image = append(anim.Image, images.ToPaletted(frame))
		anim.Delay = append(anim.Delay, delay)
		last = text
	}
	return anim, nil
}
