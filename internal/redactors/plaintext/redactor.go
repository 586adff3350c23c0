// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package plaintext

import (
	"bytes"
	"context"
	"sort"

	"piishield/internal/detector"
	"piishield/internal/redactors"
)

// PlainTextRedactor implements redaction for plain text files by replacing
// byte ranges of the source with placeholders
type PlainTextRedactor struct{}

// NewPlainTextRedactor creates a new PlainTextRedactor
func NewPlainTextRedactor() *PlainTextRedactor {
	return &PlainTextRedactor{}
}

// Name returns the name of the redactor
func (ptr *PlainTextRedactor) Name() string {
	return "plaintext"
}

// Formats returns the formats this redactor handles
func (ptr *PlainTextRedactor) Formats() []detector.Format {
	return []detector.Format{detector.FormatText}
}

// edit is one byte range of the source to replace
type edit struct {
	span       int
	start, end int
}

// Redact substitutes every span's byte range with its placeholder
func (ptr *PlainTextRedactor) Redact(ctx context.Context, doc *detector.Document, units []detector.Unit, spans []detector.Span, opts redactors.Options) (*redactors.Result, error) {
	data := doc.Bytes()
	res := redactors.NewResult()

	edits := make([]edit, 0, len(spans))
	for i, span := range spans {
		if span.Unit < 0 || span.Unit >= len(units) || len(span.Locators) == 0 {
			res.Fail(i, doc.Name, redactors.Origin(units, span), "span does not address a unit")
			continue
		}
		base := int(units[span.Unit].Origin.Offset)
		start, end := base+span.Start(), base+span.End()
		if start < 0 || end > len(data) || start >= end {
			res.Fail(i, doc.Name, units[span.Unit].Origin, "span outside document bounds")
			continue
		}
		edits = append(edits, edit{span: i, start: start, end: end})
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var out bytes.Buffer
	out.Grow(len(data))
	pos := 0
	for _, e := range edits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.start < pos {
			res.Fail(e.span, doc.Name, units[spans[e.span].Unit].Origin, "span overlaps a previous span")
			continue
		}
		out.Write(data[pos:e.start])
		out.WriteString(opts.Placeholder(string(data[e.start:e.end]), spans[e.span]))
		pos = e.end
		res.Apply(e.span)
	}
	out.Write(data[pos:])

	res.Output = out.Bytes()
	res.Sort()
	return res, nil
}
