// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

//go:build tesseract

package ocrextracttesseractlib

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"slices"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with libtesseract
type Tesseract struct {
	opts Options
}

// New checks that the requested languages are installed and returns a
// recognizer. A client is created per call since gosseract clients are not
// safe for concurrent use.
func New(opts Options) (*Tesseract, error) {
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"eng"}
	}
	available, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for _, lang := range opts.Languages {
		if !slices.Contains(available, lang) {
			return nil, fmt.Errorf("%w: language %q is not installed", ErrUnavailable, lang)
		}
	}
	return &Tesseract{opts: opts}, nil
}

// Recognize returns the words of img with boxes in img's pixel space
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prepared image.Image = img
	scale := 1.0
	if t.opts.Preprocess {
		prepared, scale = Preprocess(img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("encoding image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.opts.Languages...); err != nil {
		return nil, fmt.Errorf("setting OCR language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("loading image into OCR engine: %w", err)
	}
	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("recognizing text: %w", err)
	}

	origin := img.Bounds().Min
	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text:       b.Word,
			Box:        unscale(b.Box, scale).Add(origin),
			Confidence: b.Confidence,
			Block:      b.BlockNum,
			Paragraph:  b.ParNum,
			Line:       b.LineNum,
		})
	}
	return words, nil
}

func unscale(r image.Rectangle, scale float64) image.Rectangle {
	if scale == 1 {
		return r
	}
	return image.Rect(
		int(math.Floor(float64(r.Min.X)/scale)),
		int(math.Floor(float64(r.Min.Y)/scale)),
		int(math.Ceil(float64(r.Max.X)/scale)),
		int(math.Ceil(float64(r.Max.Y)/scale)),
	)
}
