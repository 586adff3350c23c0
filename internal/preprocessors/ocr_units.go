// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"piishield/internal/detector"
	ocrextracttesseractlib "piishield/internal/preprocessors/ocr-extractors/ocr-extract-tesseractlib"
)

// pendingUnit is a unit waiting for its final index
type pendingUnit struct {
	unit   detector.Unit
	reason string // non-empty adds a degradation once the unit is placed
}

// recognize runs OCR and turns the words into a unit. Failures and missing
// engines become degradation reasons instead of errors, except cancellation.
func recognize(ctx context.Context, recognizer ocrextracttesseractlib.Recognizer, img image.Image,
	origin detector.Origin, width, height float64, toBox func(image.Rectangle) detector.Box,
	minConfidence float64) (*pendingUnit, string, error) {
	if recognizer == nil {
		return nil, "OCR unavailable, raster text not extracted", nil
	}
	words, err := recognizer.Recognize(ctx, img)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		if errors.Is(err, ocrextracttesseractlib.ErrUnavailable) {
			return nil, "OCR unavailable, raster text not extracted", nil
		}
		return nil, fmt.Sprintf("OCR failed: %v", err), nil
	}

	unit, ok := ocrUnit(words, origin, width, height, toBox, minConfidence)
	if !ok {
		return nil, "", nil
	}
	p := &pendingUnit{unit: unit}
	if unit.LowConfidence {
		p.reason = fmt.Sprintf("OCR confidence below %.0f", minConfidence)
	}
	return p, "", nil
}

// ocrUnit joins recognized words into a unit: words by spaces, lines by
// newlines, one segment per word carrying its box and confidence.
func ocrUnit(words []ocrextracttesseractlib.Word, origin detector.Origin, width, height float64,
	toBox func(image.Rectangle) detector.Box, minConfidence float64) (detector.Unit, bool) {
	lines := ocrextracttesseractlib.Lines(words)
	if len(lines) == 0 {
		return detector.Unit{}, false
	}

	var (
		buf      strings.Builder
		segments []detector.Segment
		total    float64
		low      bool
	)
	for li, line := range lines {
		if li > 0 {
			buf.WriteByte('\n')
		}
		for wi, w := range line {
			if wi > 0 {
				buf.WriteByte(' ')
			}
			text := strings.TrimSpace(w.Text)
			start := buf.Len()
			buf.WriteString(text)
			segments = append(segments, detector.Segment{
				Start:      start,
				End:        buf.Len(),
				Box:        toBox(w.Box),
				Confidence: w.Confidence,
			})
			total += w.Confidence
			if w.Confidence < minConfidence {
				low = true
			}
		}
	}

	return detector.Unit{
		Text:          buf.String(),
		Origin:        origin,
		Source:        detector.SourceOCR,
		Segments:      segments,
		LowConfidence: low,
		OCRConfidence: total / float64(len(segments)),
		Width:         width,
		Height:        height,
	}, true
}

// pixelBox maps an image rectangle into pixel coordinates relative to the
// image origin
func pixelBox(bounds image.Rectangle) func(image.Rectangle) detector.Box {
	return func(r image.Rectangle) detector.Box {
		return detector.Box{
			X0: float64(r.Min.X - bounds.Min.X),
			Y0: float64(r.Min.Y - bounds.Min.Y),
			X1: float64(r.Max.X - bounds.Min.X),
			Y1: float64(r.Max.Y - bounds.Min.Y),
		}
	}
}

// pageBox maps an image rectangle into PDF user space, assuming the image
// covers the whole page. Image Y grows downwards, PDF Y upwards.
func pageBox(bounds image.Rectangle, pageWidth, pageHeight float64) func(image.Rectangle) detector.Box {
	sx := pageWidth / float64(max(bounds.Dx(), 1))
	sy := pageHeight / float64(max(bounds.Dy(), 1))
	return func(r image.Rectangle) detector.Box {
		return detector.Box{
			X0: float64(r.Min.X-bounds.Min.X) * sx,
			X1: float64(r.Max.X-bounds.Min.X) * sx,
			Y0: pageHeight - float64(r.Max.Y-bounds.Min.Y)*sy,
			Y1: pageHeight - float64(r.Min.Y-bounds.Min.Y)*sy,
		}
	}
}
