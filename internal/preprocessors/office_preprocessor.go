// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"errors"
	"fmt"

	"piishield/internal/detector"
	metaextractofficelib "piishield/internal/preprocessors/meta-extractors/meta-extract-officelib"
	textextractofficetextlib "piishield/internal/preprocessors/text-extractors/text-extract-officetextlib"
)

const mainDocumentPart = "word/document.xml"

// OfficePreprocessor extracts paragraphs from Word (docx) packages
type OfficePreprocessor struct{}

// NewOfficePreprocessor creates a new docx preprocessor
func NewOfficePreprocessor() *OfficePreprocessor {
	return &OfficePreprocessor{}
}

// Name returns the name of this preprocessor
func (op *OfficePreprocessor) Name() string {
	return "docx"
}

// Formats returns the formats this preprocessor supports
func (op *OfficePreprocessor) Formats() []detector.Format {
	return []detector.Format{detector.FormatDOCX}
}

// Extract emits one unit per paragraph of the main document, headers,
// footers, footnotes, endnotes and comments, followed by one metadata unit
// per free-text document property. A broken main part makes the document
// corrupt; a broken secondary part is reported as degraded.
func (op *OfficePreprocessor) Extract(ctx context.Context, doc *detector.Document) (*Extraction, error) {
	parts, err := textextractofficetextlib.ReadParts(doc.Bytes())
	if err != nil {
		return nil, detector.Corrupt("extract", doc.Name, err)
	}

	ext := &Extraction{PageCount: 1}
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		paragraphs, err := textextractofficetextlib.ExtractParagraphs(part.Name, part.Data)
		if err != nil {
			if part.Name == mainDocumentPart {
				return nil, detector.Corrupt("extract", doc.Name, err)
			}
			ext.degrade(-1, detector.Origin{Part: part.Name}, fmt.Sprintf("part skipped: %v", err))
			continue
		}

		for _, para := range paragraphs {
			ext.addUnit(paragraphUnit(para))
		}
	}

	props, err := metaextractofficelib.ExtractProperties(doc.Bytes())
	if err != nil && !errors.Is(err, metaextractofficelib.ErrNoMetadata) {
		ext.degrade(-1, detector.Origin{Part: "docProps"}, fmt.Sprintf("properties skipped: %v", err))
	}
	for _, p := range props {
		ext.addUnit(propertyUnit(p))
	}
	return ext, nil
}

func propertyUnit(p metaextractofficelib.Property) detector.Unit {
	return detector.Unit{
		Text:   p.Value,
		Origin: detector.Origin{Part: p.Part, Field: p.Name},
		Source: detector.SourceMetadata,
		Segments: []detector.Segment{{
			Start:  0,
			End:    len(p.Value),
			Offset: p.Offset,
			Length: p.Length,
		}},
	}
}

func paragraphUnit(para textextractofficetextlib.Paragraph) detector.Unit {
	segments := make([]detector.Segment, 0, len(para.Segments))
	for _, s := range para.Segments {
		segments = append(segments, detector.Segment{
			Start:  s.Start,
			End:    s.End,
			Offset: s.Offset,
			Length: s.Length,
		})
	}
	return detector.Unit{
		Text:     para.Text,
		Origin:   detector.Origin{Part: para.Part, Paragraph: para.Index},
		Source:   detector.SourceTextLayer,
		Segments: segments,
	}
}
