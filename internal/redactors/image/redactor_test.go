// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"piishield/internal/config"
	"piishield/internal/detector"
	"piishield/internal/redactors"
	"piishield/internal/testutil/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ocrUnit() detector.Unit {
	return detector.Unit{
		Text:   "Mobile: 9876543210",
		Source: detector.SourceOCR,
		Segments: []detector.Segment{
			{Start: 0, End: 7, Box: detector.Box{X0: 10, Y0: 10, X1: 60, Y1: 30}},
			{Start: 8, End: 18, Box: detector.Box{X0: 70, Y0: 10, X1: 180, Y1: 30}},
		},
	}
}

func mobileSpan() detector.Span {
	return detector.Span{
		Locators:   []detector.Locator{{Start: 8, End: 18}},
		Categories: []detector.Category{detector.Mobile},
	}
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestRedactPaintsOCRBoxes(t *testing.T) {
	data := fixtures.PNG(200, 50, image.Rect(10, 10, 60, 30))
	doc := detector.NewDocument("a.png", detector.FormatImage, data)
	opts := redactors.Options{Color: config.Color{R: 255}}

	res, err := NewImageRedactor().Redact(context.Background(), doc, []detector.Unit{ocrUnit()}, []detector.Span{mobileSpan()}, opts)
	require.NoError(t, err)
	assert.True(t, res.Complete(1))

	out, format, err := image.Decode(bytes.NewReader(res.Output))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 200, 50), out.Bounds())

	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(out.At(120, 20)), "value is covered")
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(out.At(69, 9)), "padding covers glyph edges")
	assert.Equal(t, color.RGBA{A: 255}, rgba(out.At(30, 20)), "label is untouched")
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(out.At(190, 45)))
}

func TestRedactKeepsJPEGAndDropsMetadataSpans(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 32)), nil))
	doc := detector.NewDocument("a.jpg", detector.FormatImage, buf.Bytes())

	units := []detector.Unit{
		ocrUnit(),
		{Text: "Ravi Kumar", Source: detector.SourceMetadata, Origin: detector.Origin{Field: "Artist"}},
	}
	spans := []detector.Span{
		{Unit: 1, Locators: []detector.Locator{{Unit: 1, Start: 0, End: 10}}, Categories: []detector.Category{detector.PersonName}},
	}
	res, err := NewImageRedactor().Redact(context.Background(), doc, units, spans, redactors.Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Applied)

	_, format, err := image.Decode(bytes.NewReader(res.Output))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestRedactFailsSpansWithoutArea(t *testing.T) {
	data := fixtures.PNG(20, 20, image.Rectangle{})
	doc := detector.NewDocument("a.png", detector.FormatImage, data)

	unit := ocrUnit()
	unit.Segments = []detector.Segment{{Start: 8, End: 18, Box: detector.Box{X0: 500, Y0: 500, X1: 600, Y1: 520}}}
	res, err := NewImageRedactor().Redact(context.Background(), doc, []detector.Unit{unit}, []detector.Span{mobileSpan()}, redactors.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	require.Len(t, res.Failed, 1)
}

func TestRedactRejectsUndecodableImage(t *testing.T) {
	doc := detector.NewDocument("a.png", detector.FormatImage, []byte("not an image"))
	_, err := NewImageRedactor().Redact(context.Background(), doc, nil, nil, redactors.Options{})
	assert.Error(t, err)
}
