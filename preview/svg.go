package preview

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/beevik/etree"

	"splitflap/registry"
)

// SVG draws board of the group showing text (which is expected to be a
// resolved final string).
func SVG(g *registry.Group, text string, lay Layout) *etree.Document {
	return buildSVG(g, []rune(text), lay, true)
}

func buildSVG(g *registry.Group, text []rune, lay Layout, withText bool) *etree.Document {
	w, h := lay.Size(g.Rows, g.Cols)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", strconv.Itoa(w))
	svg.CreateAttr("height", strconv.Itoa(h))
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", w, h))

	board := svg.CreateElement("rect")
	board.CreateAttr("width", strconv.Itoa(w))
	board.CreateAttr("height", strconv.Itoa(h))
	board.CreateAttr("fill", hex(lay.Board))

	radius := strconv.FormatFloat(lay.Radius, 'f', -1, 64)
	for i := range g.FlapCount() {
		r := lay.Cell(i, g.Cols)
		flap := svg.CreateElement("g")
		flap.CreateAttr("id", fmt.Sprintf("flap-%d", i))

		rect := flap.CreateElement("rect")
		rect.CreateAttr("x", strconv.Itoa(r.Min.X))
		rect.CreateAttr("y", strconv.Itoa(r.Min.Y))
		rect.CreateAttr("width", strconv.Itoa(r.Dx()))
		rect.CreateAttr("height", strconv.Itoa(r.Dy()))
		rect.CreateAttr("rx", radius)
		rect.CreateAttr("fill", hex(lay.Flap))

		mid := r.Min.Y + r.Dy()/2
		split := flap.CreateElement("line")
		split.CreateAttr("x1", strconv.Itoa(r.Min.X))
		split.CreateAttr("y1", strconv.Itoa(mid))
		split.CreateAttr("x2", strconv.Itoa(r.Max.X))
		split.CreateAttr("y2", strconv.Itoa(mid))
		split.CreateAttr("stroke", hex(lay.Board))
		split.CreateAttr("stroke-width", "1")

		if !withText || i >= len(text) {
			continue
		}
		label := flap.CreateElement("text")
		label.CreateAttr("x", strconv.Itoa(r.Min.X+r.Dx()/2))
		label.CreateAttr("y", strconv.Itoa(mid))
		label.CreateAttr("text-anchor", "middle")
		label.CreateAttr("dominant-baseline", "central")
		label.CreateAttr("font-family", lay.FontFamily)
		label.CreateAttr("font-size", strconv.Itoa(r.Dy()*7/10))
		label.CreateAttr("fill", hex(lay.Text))
		label.SetText(string(text[i]))
	}

	doc.Indent(2)
	return doc
}

func hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
