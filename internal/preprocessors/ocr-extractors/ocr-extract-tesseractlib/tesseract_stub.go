// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

//go:build !tesseract

package ocrextracttesseractlib

import (
	"context"
	"image"
)

// Tesseract is unavailable in builds without the "tesseract" tag
type Tesseract struct{}

// New always fails with ErrUnavailable
func New(Options) (*Tesseract, error) {
	return nil, ErrUnavailable
}

// Recognize always fails with ErrUnavailable
func (t *Tesseract) Recognize(context.Context, image.Image) ([]Word, error) {
	return nil, ErrUnavailable
}
