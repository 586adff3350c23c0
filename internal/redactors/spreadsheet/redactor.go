// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"piishield/internal/config"
	"piishield/internal/detector"
	"piishield/internal/parallel"
	"piishield/internal/redactors"
)

// SpreadsheetRedactor overwrites every cell holding a span with the
// placeholder and fills it with the redaction colour
type SpreadsheetRedactor struct{}

// NewSpreadsheetRedactor creates a new SpreadsheetRedactor
func NewSpreadsheetRedactor() *SpreadsheetRedactor {
	return &SpreadsheetRedactor{}
}

// Name returns the name of the redactor
func (sr *SpreadsheetRedactor) Name() string {
	return "xlsx"
}

// Formats returns the formats this redactor handles
func (sr *SpreadsheetRedactor) Formats() []detector.Format {
	return []detector.Format{detector.FormatXLSX}
}

// cellEdit is the replacement of one cell
type cellEdit struct {
	unit  int
	spans []int
}

// Redact replaces the whole value of each cell that holds a span. Several
// spans in one cell share a single placeholder named after the highest
// priority category.
func (sr *SpreadsheetRedactor) Redact(ctx context.Context, doc *detector.Document, units []detector.Unit, spans []detector.Span, opts redactors.Options) (*redactors.Result, error) {
	f, err := excelize.OpenReader(doc.Reader())
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	res := redactors.NewResult()
	byUnit := make(map[int]*cellEdit)
	for i, span := range spans {
		if span.Unit < 0 || span.Unit >= len(units) {
			res.Fail(i, doc.Name, detector.Origin{}, "span does not address a unit")
			continue
		}
		origin := units[span.Unit].Origin
		if origin.Sheet == "" || origin.Cell == "" {
			res.Fail(i, doc.Name, origin, "span is not in a cell")
			continue
		}
		edit, ok := byUnit[span.Unit]
		if !ok {
			edit = &cellEdit{unit: span.Unit}
			byUnit[span.Unit] = edit
		}
		edit.spans = append(edit.spans, i)
	}

	edits := make([]*cellEdit, 0, len(byUnit))
	for _, e := range byUnit {
		edits = append(edits, e)
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].unit < edits[j].unit })

	values, errs := parallel.Map(ctx, "xlsx_cells", opts.Workers, opts.Observer, edits,
		func(ctx context.Context, _ int, e *cellEdit) (string, error) {
			merged := detector.Span{Unit: e.unit}
			for _, si := range e.spans {
				merged.Categories = append(merged.Categories, spans[si].Categories...)
			}
			detector.SortCategories(merged.Categories)
			return opts.Placeholder(units[e.unit].Text, merged), nil
		})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(fillStyle(opts.Color))
	if err != nil {
		return nil, fmt.Errorf("failed to create redaction style: %w", err)
	}

	writeCells(f, style, res, doc.Name, units, edits, values, errs)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	res.Output = bytes.Clone(buf.Bytes())
	res.Sort()
	return res, nil
}

// writeCells stores the placeholder of every edit and accounts for its spans.
// An edit whose placeholder was not built leaves the cell untouched and fails
// its spans.
func writeCells(f *excelize.File, style int, res *redactors.Result, document string, units []detector.Unit, edits []*cellEdit, values []string, errs []error) {
	for i, e := range edits {
		origin := units[e.unit].Origin
		err := errs[i]
		if err == nil {
			err = f.SetCellStr(origin.Sheet, origin.Cell, values[i])
		}
		if err == nil {
			err = f.SetCellStyle(origin.Sheet, origin.Cell, origin.Cell, style)
		}
		for _, si := range e.spans {
			if err != nil {
				res.Fail(si, document, origin, err.Error())
				continue
			}
			res.Apply(si)
		}
	}
}

// fillStyle is a solid fill in the redaction colour with a readable font
func fillStyle(c config.Color) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#" + c.Hex()}},
		Font: &excelize.Font{Color: "#" + c.Contrast().Hex()},
	}
}
