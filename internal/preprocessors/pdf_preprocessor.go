// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"errors"
	"fmt"

	"piishield/internal/detector"
	"piishield/internal/observability"
	"piishield/internal/parallel"
	metaextractpdflib "piishield/internal/preprocessors/meta-extractors/meta-extract-pdflib"
	ocrextracttesseractlib "piishield/internal/preprocessors/ocr-extractors/ocr-extract-tesseractlib"
	textextractpdftextlib "piishield/internal/preprocessors/text-extractors/text-extract-pdftextlib"
)

// PDFPreprocessor extracts the text layer of PDF pages with glyph geometry.
// Pages without a text layer are treated as scans and sent through OCR.
type PDFPreprocessor struct {
	recognizer    ocrextracttesseractlib.Recognizer
	minConfidence float64
	workers       int
	limits        ResourceLimits
	observer      *observability.StandardObserver
}

// NewPDFPreprocessor creates a new PDF preprocessor. workers bounds page
// parallelism; recognizer may be nil.
func NewPDFPreprocessor(recognizer ocrextracttesseractlib.Recognizer, minConfidence float64, workers int,
	limits ResourceLimits, observer *observability.StandardObserver) *PDFPreprocessor {
	return &PDFPreprocessor{
		recognizer:    recognizer,
		minConfidence: minConfidence,
		workers:       workers,
		limits:        limits,
		observer:      observer,
	}
}

// Name returns the name of this preprocessor
func (pp *PDFPreprocessor) Name() string {
	return "pdf"
}

// Formats returns the formats this preprocessor supports
func (pp *PDFPreprocessor) Formats() []detector.Format {
	return []detector.Format{detector.FormatPDF}
}

// Extract emits one unit per page in page order, then one metadata unit per
// free-text entry of the document information dictionary
func (pp *PDFPreprocessor) Extract(ctx context.Context, doc *detector.Document) (*Extraction, error) {
	data := doc.Bytes()
	pdoc, err := textextractpdftextlib.Open(data)
	if err != nil {
		return nil, detector.Corrupt("extract", doc.Name, err)
	}
	count := pdoc.NumPage()
	if err := pp.limits.CheckPages(count); err != nil {
		return nil, detector.Corrupt("extract", doc.Name, err)
	}

	numbers := make([]int, count)
	for i := range numbers {
		numbers[i] = i + 1
	}
	pages, errs := parallel.Map(ctx, "pdf_pages", pp.workers, pp.observer, numbers,
		func(ctx context.Context, _ int, n int) (*textextractpdftextlib.Page, error) {
			return pdoc.Page(n)
		})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := &Extraction{PageCount: count}
	perPage := make([][]pendingUnit, count)
	reasons := make([]string, count)
	var scanned []int

	for i, page := range pages {
		if errs[i] != nil {
			reasons[i] = fmt.Sprintf("page skipped: %v", errs[i])
			continue
		}
		if !page.HasText() {
			scanned = append(scanned, page.Number)
			continue
		}
		perPage[i] = append(perPage[i], pendingUnit{unit: pageUnit(page)})
	}

	if len(scanned) > 0 {
		if err := pp.recognizeScans(ctx, data, scanned, pages, perPage, reasons); err != nil {
			return nil, err
		}
	}

	for i := range perPage {
		origin := detector.Origin{Page: i + 1}
		if reasons[i] != "" {
			ext.degrade(-1, origin, reasons[i])
		}
		for _, p := range perPage[i] {
			idx := ext.addUnit(p.unit)
			if p.reason != "" {
				ext.degrade(idx, origin, p.reason)
			}
		}
	}

	fields, err := metaextractpdflib.ExtractText(data)
	if err != nil && !errors.Is(err, metaextractpdflib.ErrNoMetadata) {
		ext.degrade(-1, detector.Origin{Field: "Info"}, err.Error())
	}
	for _, f := range fields {
		ext.addUnit(detector.Unit{
			Text:     f.Value,
			Origin:   detector.Origin{Field: f.Name},
			Source:   detector.SourceMetadata,
			Segments: []detector.Segment{{Start: 0, End: len(f.Value)}},
		})
	}
	return ext, nil
}

// recognizeScans pulls the images of pages without a text layer and OCRs them
func (pp *PDFPreprocessor) recognizeScans(ctx context.Context, data []byte, scanned []int,
	pages []*textextractpdftextlib.Page, perPage [][]pendingUnit, reasons []string) error {
	if pp.recognizer == nil {
		for _, n := range scanned {
			reasons[n-1] = "no text layer and OCR unavailable"
		}
		return nil
	}

	images, err := textextractpdftextlib.PageImages(data, scanned)
	if err != nil {
		for _, n := range scanned {
			reasons[n-1] = fmt.Sprintf("no text layer and page images unreadable: %v", err)
		}
		return nil
	}

	for _, n := range scanned {
		page := pages[n-1]
		imgs := images[n]
		if len(imgs) == 0 {
			reasons[n-1] = "no text layer and no decodable page image"
			continue
		}
		origin := detector.Origin{Page: n}
		for _, img := range imgs {
			pending, reason, err := recognize(ctx, pp.recognizer, img, origin, page.Width, page.Height,
				pageBox(img.Bounds(), page.Width, page.Height), pp.minConfidence)
			if err != nil {
				return err
			}
			if reason != "" {
				reasons[n-1] = reason
				continue
			}
			if pending != nil {
				perPage[n-1] = append(perPage[n-1], *pending)
			}
		}
	}
	return nil
}

func pageUnit(page *textextractpdftextlib.Page) detector.Unit {
	segments := make([]detector.Segment, 0, len(page.Runs))
	for _, r := range page.Runs {
		segments = append(segments, detector.Segment{
			Start: r.Start,
			End:   r.End,
			Box:   detector.Box{X0: r.Box.X0, Y0: r.Box.Y0, X1: r.Box.X1, Y1: r.Box.Y1},
		})
	}
	return detector.Unit{
		Text:     page.Text,
		Origin:   detector.Origin{Page: page.Number},
		Source:   detector.SourceTextLayer,
		Segments: segments,
		Width:    page.Width,
		Height:   page.Height,
	}
}
