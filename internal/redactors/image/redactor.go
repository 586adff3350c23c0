// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"

	"piishield/internal/detector"
	"piishield/internal/redactors"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ImageFormat represents the type of image format
type ImageFormat int

const (
	// FormatUnknown represents an unknown image format
	FormatUnknown ImageFormat = iota
	// FormatJPEG represents a JPEG image
	FormatJPEG
	// FormatPNG represents a PNG image
	FormatPNG
	// FormatGIF represents a GIF image
	FormatGIF
	// FormatTIFF represents a TIFF image
	FormatTIFF
	// FormatBMP represents a BMP image
	FormatBMP
)

// String returns the string representation of the image format
func (f ImageFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatGIF:
		return "gif"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// ParseImageFormat maps the name returned by image.Decode to an ImageFormat
func ParseImageFormat(name string) ImageFormat {
	switch name {
	case "jpeg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "gif":
		return FormatGIF
	case "tiff":
		return FormatTIFF
	case "bmp":
		return FormatBMP
	default:
		return FormatUnknown
	}
}

// boxPadding grows every filled rectangle so anti-aliased glyph edges are
// covered as well
const boxPadding = 2

// ImageRedactor paints opaque rectangles over the OCR boxes of the spans and
// re-encodes the image in its original format. Re-encoding drops EXIF, XMP
// and comment segments, which removes metadata spans along with everything
// else stored there.
type ImageRedactor struct {
	// JPEGQuality is used when re-encoding JPEG images
	JPEGQuality int
}

// NewImageRedactor creates a new ImageRedactor
func NewImageRedactor() *ImageRedactor {
	return &ImageRedactor{JPEGQuality: 95}
}

// Name returns the name of the redactor
func (ir *ImageRedactor) Name() string {
	return "image"
}

// Formats returns the formats this redactor handles
func (ir *ImageRedactor) Formats() []detector.Format {
	return []detector.Format{detector.FormatImage}
}

// Redact covers every span with opts.Color
func (ir *ImageRedactor) Redact(ctx context.Context, doc *detector.Document, units []detector.Unit, spans []detector.Span, opts redactors.Options) (*redactors.Result, error) {
	src, name, err := image.Decode(doc.Reader())
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	format := ParseImageFormat(name)
	if format == FormatUnknown {
		return nil, fmt.Errorf("cannot re-encode %s images", name)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	fill := image.NewUniform(opts.Color.ToRGBA())
	res := redactors.NewResult()
	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if span.Unit < 0 || span.Unit >= len(units) {
			res.Fail(i, doc.Name, detector.Origin{}, "span does not address a unit")
			continue
		}
		unit := units[span.Unit]
		if unit.Source == detector.SourceMetadata {
			res.Apply(i)
			continue
		}

		boxes := span.Boxes
		if len(boxes) == 0 {
			boxes = unit.BoxesFor(span.Start(), span.End())
		}
		painted := 0
		for _, box := range boxes {
			r := pixelRect(box).Intersect(bounds)
			if r.Empty() {
				continue
			}
			draw.Draw(canvas, r, fill, image.Point{}, draw.Src)
			painted++
		}
		if painted == 0 {
			res.Fail(i, doc.Name, unit.Origin, "span has no pixel area")
			continue
		}
		res.Apply(i)
	}

	out, err := ir.encode(canvas, format)
	if err != nil {
		return nil, err
	}
	res.Output = out
	res.Sort()
	return res, nil
}

func pixelRect(b detector.Box) image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X0))-boxPadding,
		int(math.Floor(b.Y0))-boxPadding,
		int(math.Ceil(b.X1))+boxPadding,
		int(math.Ceil(b.Y1))+boxPadding,
	)
}

func (ir *ImageRedactor) encode(img image.Image, format ImageFormat) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		quality := ir.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		err = fmt.Errorf("unsupported image format %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return buf.Bytes(), nil
}
