package script

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"splitflap/common"
	"splitflap/layout"
	"splitflap/registry"
	"splitflap/timeline"
)

// PageOptions controls pagination. Previous is board state before the first
// page, empty means initial state of the group.
type PageOptions struct {
	Start    float64
	Hold     float64
	Policy   common.Policy
	Mode     common.UnmappedMode
	Previous string
}

// Paginate splits text into pages fitting the board, every sentence starts
// a new page. Each page is scheduled as soon as all flaps could reach it and
// the previous one stayed on the board for opts.Hold seconds.
func Paginate(text string, g *registry.Group, opts PageOptions, sp *Splitter) ([]timeline.EntryInput, error) {
	if opts.Start < 0 || opts.Hold < 0 {
		return nil, fmt.Errorf("start time and hold duration must not be negative")
	}
	var pages []string
	for sentence := range sp.Sentences(text) {
		pages = append(pages, pack(strings.Fields(sentence), g.Rows, g.Cols)...)
	}

	f := layout.NewFormatter(g.Alphabet, g.Rows, g.Cols, opts.Mode)
	prev := opts.Previous
	if utf8.RuneCountInString(prev) != g.FlapCount() {
		prev = g.Initial()
	}

	out := make([]timeline.EntryInput, 0, len(pages))
	at := opts.Start
	for i, page := range pages {
		formatted, err := f.Format(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		final := layout.Resolve(formatted, g.FlapCount(), opts.Policy, prev)
		steps, err := g.Alphabet.MaxDistance(prev, final)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		need := float64(steps) * g.FlapTime
		switch {
		case i > 0:
			at = after(at + max(opts.Hold+need, timeline.DefaultTolerance))
		case at >= timeline.InstantEpsilon && need >= at:
			at = after(need)
		}
		out = append(out, timeline.EntryInput{KeyTime: at, Text: page, Policy: opts.Policy})
		prev = final
	}
	return out, nil
}

// after returns the nearest hundredth of a second strictly later than t.
func after(t float64) float64 {
	return math.Ceil(t*100+1e-6) / 100
}

// pack fills rows of cols runes with words. Rows shorter than cols are
// terminated with new line, full rows are not: formatter starts a blank row
// after a line break on row boundary. Words longer than a row are cut.
func pack(words []string, rows, cols int) []string {
	var (
		pages []string
		lines []string
		line  strings.Builder
	)
	flushLine := func() {
		lines = append(lines, line.String())
		line.Reset()
		if len(lines) == rows {
			pages = append(pages, joinRows(lines, cols))
			lines = lines[:0]
		}
	}
	for _, w := range words {
		for utf8.RuneCountInString(w) > 0 {
			n := utf8.RuneCountInString(line.String())
			wn := utf8.RuneCountInString(w)
			switch {
			case n > 0 && n+1+wn <= cols:
				line.WriteByte(' ')
				line.WriteString(w)
				w = ""
			case n == 0 && wn <= cols:
				line.WriteString(w)
				w = ""
			case n == 0:
				r := []rune(w)
				line.WriteString(string(r[:cols]))
				w = string(r[cols:])
				flushLine()
			default:
				flushLine()
			}
		}
	}
	if line.Len() > 0 {
		flushLine()
	}
	if len(lines) > 0 {
		pages = append(pages, joinRows(lines, cols))
	}
	return pages
}

func joinRows(lines []string, cols int) string {
	var b strings.Builder
	for i, l := range lines {
		b.WriteString(l)
		if i < len(lines)-1 && utf8.RuneCountInString(l) < cols {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
