// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ocrextracttesseractlib recognizes words and their pixel boxes in
// raster images. The Tesseract binding is only compiled with the
// "tesseract" build tag; other builds report ErrUnavailable.
package ocrextracttesseractlib

import (
	"context"
	"errors"
	"image"
	"sort"
	"strings"
)

// ErrUnavailable is returned when no OCR engine is compiled in or the
// requested languages are not installed
var ErrUnavailable = errors.New("OCR engine is not available")

// Word is one recognized word. Box is in the pixel space of the image passed
// to Recognize; Confidence is in [0,100].
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64

	Block     int
	Paragraph int
	Line      int
}

// Recognizer turns an image into words
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]Word, error)
}

// Options controls recognition
type Options struct {
	Languages  []string
	Preprocess bool
}

// Lines groups words by block, paragraph and line, keeping the reading order
// of the engine inside a line and ordering lines top to bottom.
func Lines(words []Word) [][]Word {
	type key struct{ block, par, line int }
	index := make(map[key]int)
	var lines [][]Word
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		k := key{w.Block, w.Paragraph, w.Line}
		i, ok := index[k]
		if !ok {
			i = len(lines)
			index[k] = i
			lines = append(lines, nil)
		}
		lines[i] = append(lines[i], w)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i][0].Box.Min.Y < lines[j][0].Box.Min.Y
	})
	return lines
}

// FuncRecognizer adapts a function to the Recognizer interface
type FuncRecognizer func(ctx context.Context, img image.Image) ([]Word, error)

// Recognize calls f
func (f FuncRecognizer) Recognize(ctx context.Context, img image.Image) ([]Word, error) {
	return f(ctx, img)
}
