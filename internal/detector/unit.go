// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Source tells where the text of a unit came from
type Source int

const (
	// SourceTextLayer is text read directly from the document structure
	SourceTextLayer Source = iota
	// SourceOCR is text recognized from pixels
	SourceOCR
	// SourceMetadata is text taken from embedded metadata (EXIF and friends)
	SourceMetadata
)

func (s Source) String() string {
	switch s {
	case SourceTextLayer:
		return "text"
	case SourceOCR:
		return "ocr"
	case SourceMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Box is an axis-aligned rectangle. For PDF units it is in PDF user space
// (origin bottom-left), for images it is in pixels (origin top-left).
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Empty reports whether the box has no area
func (b Box) Empty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// Width of the box
func (b Box) Width() float64 { return b.X1 - b.X0 }

// Height of the box
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// Intersects reports whether two non-empty boxes share any area
func (b Box) Intersects(o Box) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.X0 < o.X1 && o.X0 < b.X1 && b.Y0 < o.Y1 && o.Y0 < b.Y1
}

// Union returns the smallest box containing both
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Box{
		X0: math.Min(b.X0, o.X0),
		Y0: math.Min(b.Y0, o.Y0),
		X1: math.Max(b.X1, o.X1),
		Y1: math.Max(b.Y1, o.Y1),
	}
}

// verticalOverlap returns the share of the smaller height covered by both boxes
func (b Box) verticalOverlap(o Box) float64 {
	lo := math.Max(b.Y0, o.Y0)
	hi := math.Min(b.Y1, o.Y1)
	if hi <= lo {
		return 0
	}
	h := math.Min(b.Height(), o.Height())
	if h <= 0 {
		return 0
	}
	return (hi - lo) / h
}

// Origin is the format-specific address of a unit inside its document
type Origin struct {
	Page      int    `json:"page,omitempty"`
	Sheet     string `json:"sheet,omitempty"`
	Cell      string `json:"cell,omitempty"`
	Part      string `json:"part,omitempty"`
	Paragraph int    `json:"paragraph,omitempty"`
	Offset    int64  `json:"offset,omitempty"`
	Field     string `json:"field,omitempty"`
}

func (o Origin) String() string {
	switch {
	case o.Field != "":
		return "metadata:" + o.Field
	case o.Sheet != "":
		return fmt.Sprintf("%s!%s", o.Sheet, o.Cell)
	case o.Part != "":
		return fmt.Sprintf("%s#p%d", o.Part, o.Paragraph)
	case o.Page > 0:
		return fmt.Sprintf("page %d", o.Page)
	default:
		return fmt.Sprintf("offset %d", o.Offset)
	}
}

// Segment maps a byte range of the unit text back to the source document:
// a bounding box for visual formats, a byte range of the source part for
// markup formats.
type Segment struct {
	Start int
	End   int

	Box Box

	// Offset and Length address the raw source bytes backing this segment
	Offset int64
	Length int64

	// Confidence is the OCR word confidence in [0,100], zero for text layers
	Confidence float64
}

// Unit is one addressable chunk of extracted content
type Unit struct {
	Index int
	Text  string

	// Label is text that logically precedes the unit without being part of
	// it, such as the header of a spreadsheet column.
	Label string

	Origin   Origin
	Source   Source
	Segments []Segment

	// LowConfidence is set when recognition quality fell below the floor
	LowConfidence bool
	OCRConfidence float64

	// Width and Height give the page or image size for visual units
	Width  float64
	Height float64
}

// Visual reports whether the unit carries geometry
func (u *Unit) Visual() bool {
	for _, s := range u.Segments {
		if !s.Box.Empty() {
			return true
		}
	}
	return false
}

// SegmentsFor returns the indexes of the segments overlapping [start, end)
func (u *Unit) SegmentsFor(start, end int) []int {
	var idx []int
	for i, s := range u.Segments {
		if s.Start < end && start < s.End {
			idx = append(idx, i)
		}
	}
	return idx
}

// BoxesFor returns the boxes covering the byte range [start, end) of the
// unit text. Segments only partly covered are cut proportionally to the
// number of runes covered, and boxes on the same line are joined.
func (u *Unit) BoxesFor(start, end int) []Box {
	var boxes []Box
	for _, i := range u.SegmentsFor(start, end) {
		seg := u.Segments[i]
		if seg.Box.Empty() {
			continue
		}
		box := seg.Box
		if start > seg.Start || end < seg.End {
			total := u.runes(seg.Start, seg.End)
			if total > 0 {
				from := u.runes(seg.Start, max(start, seg.Start))
				to := u.runes(seg.Start, min(end, seg.End))
				w := seg.Box.Width()
				box.X0 = seg.Box.X0 + w*float64(from)/float64(total)
				box.X1 = seg.Box.X0 + w*float64(to)/float64(total)
			}
		}
		if n := len(boxes); n > 0 && boxes[n-1].verticalOverlap(box) > 0.5 {
			boxes[n-1] = boxes[n-1].Union(box)
			continue
		}
		boxes = append(boxes, box)
	}
	return boxes
}

func (u *Unit) runes(from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(u.Text) {
		to = len(u.Text)
	}
	if to <= from {
		return 0
	}
	return utf8.RuneCountInString(u.Text[from:to])
}

// Locator addresses a byte range inside one unit
type Locator struct {
	Unit  int `json:"unit"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the length of the range in bytes
func (l Locator) Len() int {
	return l.End - l.Start
}

// Overlaps reports whether both locators share at least one byte of the same unit
func (l Locator) Overlaps(o Locator) bool {
	return l.Unit == o.Unit && l.Start < o.End && o.Start < l.End
}

// Less orders locators by unit, then start, then end
func (l Locator) Less(o Locator) bool {
	if l.Unit != o.Unit {
		return l.Unit < o.Unit
	}
	if l.Start != o.Start {
		return l.Start < o.Start
	}
	return l.End < o.End
}
