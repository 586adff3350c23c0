// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"fmt"
	"image"
)

// ResourceLimits defines limits for raster processing
type ResourceLimits struct {
	MaxImagePixels int64 // Maximum width*height of a decoded image
	MaxPages       int   // Maximum number of PDF pages, 0 means unlimited
}

// DefaultResourceLimits returns the default resource limits
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxImagePixels: 100 * 1000 * 1000, // 100 megapixels
		MaxPages:       0,
	}
}

// CheckImage reads only the image header and rejects images whose decoded
// size would exceed the pixel limit. It returns the codec name.
func (l ResourceLimits) CheckImage(data []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("reading image header: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); l.MaxImagePixels > 0 && pixels > l.MaxImagePixels {
		return format, fmt.Errorf("image too large: %dx%d pixels (max %d)", cfg.Width, cfg.Height, l.MaxImagePixels)
	}
	return format, nil
}

// CheckPages rejects documents with more pages than allowed
func (l ResourceLimits) CheckPages(n int) error {
	if l.MaxPages > 0 && n > l.MaxPages {
		return fmt.Errorf("document has %d pages (max %d)", n, l.MaxPages)
	}
	return nil
}
