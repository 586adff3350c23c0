// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif" // supported image codecs
	_ "image/jpeg"
	_ "image/png"

	"piishield/internal/detector"
	metaextractexiflib "piishield/internal/preprocessors/meta-extractors/meta-extract-exiflib"
	ocrextracttesseractlib "piishield/internal/preprocessors/ocr-extractors/ocr-extract-tesseractlib"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImagePreprocessor recognizes text in raster images and reads their
// free-text metadata
type ImagePreprocessor struct {
	recognizer    ocrextracttesseractlib.Recognizer
	minConfidence float64
	limits        ResourceLimits
}

// NewImagePreprocessor creates a new image preprocessor. A nil recognizer
// makes every image a degraded extraction.
func NewImagePreprocessor(recognizer ocrextracttesseractlib.Recognizer, minConfidence float64, limits ResourceLimits) *ImagePreprocessor {
	return &ImagePreprocessor{
		recognizer:    recognizer,
		minConfidence: minConfidence,
		limits:        limits,
	}
}

// Name returns the name of this preprocessor
func (ip *ImagePreprocessor) Name() string {
	return "image"
}

// Formats returns the formats this preprocessor supports
func (ip *ImagePreprocessor) Formats() []detector.Format {
	return []detector.Format{detector.FormatImage}
}

// Extract runs OCR over the image and adds one metadata unit per text tag
func (ip *ImagePreprocessor) Extract(ctx context.Context, doc *detector.Document) (*Extraction, error) {
	data := doc.Bytes()
	if _, err := ip.limits.CheckImage(data); err != nil {
		return nil, detector.Corrupt("extract", doc.Name, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, detector.Corrupt("extract", doc.Name, err)
	}

	ext := &Extraction{PageCount: 1}
	b := img.Bounds()
	origin := detector.Origin{Page: 1}

	pending, reason, err := recognize(ctx, ip.recognizer, img, origin,
		float64(b.Dx()), float64(b.Dy()), pixelBox(b), ip.minConfidence)
	if err != nil {
		return nil, err
	}
	switch {
	case reason != "":
		ext.degrade(-1, origin, reason)
	case pending != nil:
		idx := ext.addUnit(pending.unit)
		if pending.reason != "" {
			ext.degrade(idx, origin, pending.reason)
		}
	}

	fields, err := metaextractexiflib.ExtractText(data)
	if err != nil && !errors.Is(err, metaextractexiflib.ErrNoMetadata) {
		ext.degrade(-1, detector.Origin{Field: "exif"}, err.Error())
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
