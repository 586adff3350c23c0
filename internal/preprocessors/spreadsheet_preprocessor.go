// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"

	"piishield/internal/detector"
	textextractsheetlib "piishield/internal/preprocessors/text-extractors/text-extract-sheetlib"
)

// SpreadsheetPreprocessor extracts worksheet cells from xlsx workbooks
type SpreadsheetPreprocessor struct{}

// NewSpreadsheetPreprocessor creates a new xlsx preprocessor
func NewSpreadsheetPreprocessor() *SpreadsheetPreprocessor {
	return &SpreadsheetPreprocessor{}
}

// Name returns the name of this preprocessor
func (sp *SpreadsheetPreprocessor) Name() string {
	return "xlsx"
}

// Formats returns the formats this preprocessor supports
func (sp *SpreadsheetPreprocessor) Formats() []detector.Format {
	return []detector.Format{detector.FormatXLSX}
}

// Extract emits one unit per non-empty cell. The column header becomes the
// unit label so that "Mobile" above a column of numbers counts as context.
func (sp *SpreadsheetPreprocessor) Extract(ctx context.Context, doc *detector.Document) (*Extraction, error) {
	cells, err := textextractsheetlib.ReadCells(doc.Bytes())
	if err != nil {
		return nil, detector.Corrupt("extract", doc.Name, err)
	}

	sheets := make(map[string]bool)
	ext := &Extraction{}
	for _, c := range cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheets[c.Sheet] = true
		ext.addUnit(detector.Unit{
			Text:     c.Value,
			Label:    c.Header,
			Origin:   detector.Origin{Sheet: c.Sheet, Cell: c.Ref},
			Source:   detector.SourceTextLayer,
			Segments: []detector.Segment{{Start: 0, End: len(c.Value)}},
		})
	}
	ext.PageCount = len(sheets)
	return ext, nil
}
