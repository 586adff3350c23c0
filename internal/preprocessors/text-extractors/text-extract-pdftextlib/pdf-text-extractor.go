// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Default page size (US Letter) used when no MediaBox can be found
const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
)

// Rect is a rectangle in PDF user space, origin bottom-left
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Run is one word of page text with the box of its glyphs
type Run struct {
	Start int
	End   int
	Box   Rect
}

// Page is the text layer of one page rebuilt in reading order. Rows are
// separated by newlines; words within a row by single spaces.
type Page struct {
	Number int
	Width  float64
	Height float64
	Text   string
	Runs   []Run
}

// HasText reports whether the page has a text layer
func (p *Page) HasText() bool {
	return strings.TrimSpace(p.Text) != ""
}

// Document is an opened PDF
type Document struct {
	reader *pdf.Reader
}

// Open parses a PDF held in memory
func Open(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("error opening PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return nil, fmt.Errorf("error opening PDF: no pages")
	}
	return &Document{reader: r}, nil
}

// NumPage returns the number of pages
func (d *Document) NumPage() int {
	return d.reader.NumPage()
}

// Page extracts page n (1-based). Malformed content streams are reported as
// errors instead of panics.
func (d *Document) Page(n int) (page *Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("page %d: malformed content: %v", n, r)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: null page", n)
	}

	width, height := mediaBox(p.V)
	page = &Page{Number: n, Width: width, Height: height}
	page.Text, page.Runs = layout(p.Content().Text)
	return page, nil
}

// mediaBox returns the page size, following inherited attributes up the page tree
func mediaBox(v pdf.Value) (float64, float64) {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

// glyph is a positioned character with an estimated box
type glyph struct {
	s    string
	x0   float64
	x1   float64
	y    float64
	size float64
}

type row struct {
	y      float64
	glyphs []glyph
}

// layout groups glyphs into rows by baseline, orders rows top to bottom and
// glyphs left to right, and cuts rows into words at whitespace or at gaps
// larger than a fifth of the font size.
func layout(texts []pdf.Text) (string, []Run) {
	glyphs := make([]glyph, 0, len(texts))
	var prevX, prevEnd float64
	for i, t := range texts {
		if t.S == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 12
		}
		w := t.W
		if w <= 0 {
			// fonts without a Widths array do not advance the text matrix
			w = size * 0.5 * float64(len([]rune(t.S)))
		}
		x := t.X
		if i > 0 && t.X == prevX {
			x = prevEnd
		}
		prevX = t.X
		prevEnd = x + w
		glyphs = append(glyphs, glyph{s: t.S, x0: x, x1: x + w, y: t.Y, size: size})
	}

	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].y > glyphs[j].y })
	var rows []row
	for _, g := range glyphs {
		if n := len(rows); n > 0 && math.Abs(rows[n-1].y-g.y) < g.size*0.5 {
			rows[n-1].glyphs = append(rows[n-1].glyphs, g)
			continue
		}
		rows = append(rows, row{y: g.y, glyphs: []glyph{g}})
	}

	var (
		buf  strings.Builder
		runs []Run
	)
	for _, r := range rows {
		sort.SliceStable(r.glyphs, func(i, j int) bool { return r.glyphs[i].x0 < r.glyphs[j].x0 })
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		rowStart := buf.Len()

		var cur *Run
		lastEnd := math.Inf(-1)
		for _, g := range r.glyphs {
			if isSpace(g.s) {
				cur = nil
				lastEnd = g.x1
				continue
			}
			if cur != nil && g.x0-lastEnd > g.size*0.2 {
				cur = nil
			}
			if cur == nil {
				if buf.Len() > rowStart {
					buf.WriteByte(' ')
				}
				runs = append(runs, Run{
					Start: buf.Len(),
					Box:   Rect{X0: g.x0, Y0: g.y - 0.25*g.size, X1: g.x1, Y1: g.y + g.size},
				})
				cur = &runs[len(runs)-1]
			}
			buf.WriteString(g.s)
			cur.End = buf.Len()
			cur.Box.X0 = math.Min(cur.Box.X0, g.x0)
			cur.Box.X1 = math.Max(cur.Box.X1, g.x1)
			cur.Box.Y0 = math.Min(cur.Box.Y0, g.y-0.25*g.size)
			cur.Box.Y1 = math.Max(cur.Box.Y1, g.y+g.size)
			lastEnd = g.x1
		}
	}
	return buf.String(), runs
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
