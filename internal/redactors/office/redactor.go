// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package office

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"piishield/internal/detector"
	"piishield/internal/redactors"
)

// OfficeRedactor rewrites the w:t elements of a docx package in place. Every
// other XML byte and every other zip entry is copied verbatim.
type OfficeRedactor struct{}

// NewOfficeRedactor creates a new OfficeRedactor
func NewOfficeRedactor() *OfficeRedactor {
	return &OfficeRedactor{}
}

// Name returns the name of the redactor
func (or *OfficeRedactor) Name() string {
	return "docx"
}

// Formats returns the formats this redactor handles
func (or *OfficeRedactor) Formats() []detector.Format {
	return []detector.Format{detector.FormatDOCX}
}

// xmlEdit replaces the raw content of one w:t element
type xmlEdit struct {
	offset int64
	length int64
	text   string
}

// cover is the part of one segment hidden by one span
type cover struct {
	span       int
	start, end int
}

// Redact replaces the text of every span with its placeholder. The
// placeholder goes into the first w:t the span touches; the covered text of
// the following runs is removed.
func (or *OfficeRedactor) Redact(ctx context.Context, doc *detector.Document, units []detector.Unit, spans []detector.Span, opts redactors.Options) (*redactors.Result, error) {
	res := redactors.NewResult()

	byUnit := make(map[int][]int)
	for i, span := range spans {
		if span.Unit < 0 || span.Unit >= len(units) || len(span.Locators) == 0 {
			res.Fail(i, doc.Name, redactors.Origin(units, span), "span does not address a unit")
			continue
		}
		byUnit[span.Unit] = append(byUnit[span.Unit], i)
	}

	edits := make(map[string][]xmlEdit)
	written := make(map[int]bool)
	for ui, spanIdx := range byUnit {
		unit := units[ui]
		for _, seg := range unit.Segments {
			var covers []cover
			for _, si := range spanIdx {
				a, b := max(spans[si].Start(), seg.Start), min(spans[si].End(), seg.End)
				if a < b {
					covers = append(covers, cover{span: si, start: a, end: b})
				}
			}
			if len(covers) == 0 {
				continue
			}
			sort.Slice(covers, func(i, j int) bool { return covers[i].start < covers[j].start })

			var b strings.Builder
			cursor := seg.Start
			for _, c := range covers {
				if c.start > cursor {
					b.WriteString(unit.Text[cursor:c.start])
				}
				if !written[c.span] {
					span := spans[c.span]
					b.WriteString(opts.Placeholder(unit.Text[span.Start():span.End()], span))
					written[c.span] = true
				}
				cursor = max(cursor, c.end)
			}
			if cursor < seg.End {
				b.WriteString(unit.Text[cursor:seg.End])
			}

			var escaped bytes.Buffer
			if err := xml.EscapeText(&escaped, []byte(b.String())); err != nil {
				return nil, fmt.Errorf("escaping replacement text: %w", err)
			}
			edits[unit.Origin.Part] = append(edits[unit.Origin.Part], xmlEdit{
				offset: seg.Offset,
				length: seg.Length,
				text:   escaped.String(),
			})
		}
	}

	out, bad, err := rewritePackage(ctx, doc.Bytes(), edits)
	if err != nil {
		return nil, err
	}

	for ui, spanIdx := range byUnit {
		for _, si := range spanIdx {
			switch {
			case bad[units[ui].Origin.Part]:
				res.Fail(si, doc.Name, units[ui].Origin, "XML part could not be rewritten")
			case !written[si]:
				res.Fail(si, doc.Name, units[ui].Origin, "span covers no document text")
			default:
				res.Apply(si)
			}
		}
	}
	res.Output = out
	res.Sort()
	return res, nil
}

// rewritePackage copies the zip entry by entry, applying edits to the named
// parts. Parts whose edits fall outside their data are reported in bad and
// copied unchanged.
func rewritePackage(ctx context.Context, data []byte, edits map[string][]xmlEdit) ([]byte, map[string]bool, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("error opening archive: %w", err)
	}

	bad := make(map[string]bool)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		partEdits, ok := edits[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return nil, nil, fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}

		rewritten, ok := applyEdits(content, partEdits)
		if !ok {
			bad[f.Name] = true
			if err := zw.Copy(f); err != nil {
				return nil, nil, fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}

		header := f.FileHeader
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     header.Name,
			Comment:  header.Comment,
			Method:   header.Method,
			Modified: header.Modified,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating %s: %w", f.Name, err)
		}
		if _, err := w.Write(rewritten); err != nil {
			return nil, nil, fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("closing archive: %w", err)
	}

	for name := range edits {
		if !hasFile(zr, name) {
			bad[name] = true
		}
	}
	return buf.Bytes(), bad, nil
}

// applyEdits replaces byte ranges of content. Ranges must be in bounds and
// must not overlap.
func applyEdits(content []byte, edits []xmlEdit) ([]byte, bool) {
	sort.Slice(edits, func(i, j int) bool { return edits[i].offset < edits[j].offset })
	var out bytes.Buffer
	out.Grow(len(content))
	pos := int64(0)
	for _, e := range edits {
		if e.offset < pos || e.length < 0 || e.offset+e.length > int64(len(content)) {
			return nil, false
		}
		out.Write(content[pos:e.offset])
		out.WriteString(e.text)
		pos = e.offset + e.length
	}
	out.Write(content[pos:])
	return out.Bytes(), true
}

func hasFile(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}
