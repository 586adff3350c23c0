// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ocrextracttesseractlib

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoToneImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 230, G: 230, B: 220, A: 255}
			if x >= w/4 && x < w/2 && y >= h/4 && y < h/2 {
				c = color.RGBA{R: 30, G: 20, B: 40, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestOtsuThresholdSeparatesTwoTones(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 1))
	for i := range g.Pix {
		g.Pix[i] = 200
	}
	g.Pix[0], g.Pix[1] = 20, 25

	th := OtsuThreshold(g)
	assert.GreaterOrEqual(t, th, uint8(25))
	assert.Less(t, th, uint8(200))
}

func TestPreprocessBinarizesAndUpscales(t *testing.T) {
	img := twoToneImage(100, 40)

	out, scale := Preprocess(img)
	require.Equal(t, 2.0, scale)
	assert.Equal(t, image.Rect(0, 0, 200, 80), out.Bounds())

	assert.Equal(t, uint8(0xff), out.GrayAt(2, 2).Y, "background turns white")
	assert.Equal(t, uint8(0), out.GrayAt(70, 30).Y, "ink turns black")
}

func TestPreprocessKeepsWideImages(t *testing.T) {
	out, scale := Preprocess(twoToneImage(minOCRWidth, 10))
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, minOCRWidth, out.Bounds().Dx())
}

func TestLinesGroupsAndOrders(t *testing.T) {
	words := []Word{
		{Text: "second", Box: image.Rect(0, 50, 40, 60), Line: 2},
		{Text: "Mobile:", Box: image.Rect(0, 10, 40, 20), Line: 1},
		{Text: " ", Box: image.Rect(41, 10, 42, 20), Line: 1},
		{Text: "9876543210", Box: image.Rect(45, 10, 120, 20), Line: 1},
	}

	lines := Lines(words)
	require.Len(t, lines, 2)
	require.Len(t, lines[0], 2)
	assert.Equal(t, "Mobile:", lines[0][0].Text)
	assert.Equal(t, "9876543210", lines[0][1].Text)
	assert.Equal(t, "second", lines[1][0].Text)
}
