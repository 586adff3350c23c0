// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ocrextracttesseractlib

import (
	"image"

	"golang.org/x/image/draw"
)

// minOCRWidth is the width below which images are upscaled before recognition
const minOCRWidth = 1000

// Preprocess converts an image to black and white text on a clean
// background: grayscale, Otsu threshold, and a 2x upscale for narrow images.
// It returns the prepared image and the factor applied to its size.
func Preprocess(img image.Image) (*image.Gray, float64) {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	t := OtsuThreshold(gray)
	for i, v := range gray.Pix {
		if v > t {
			gray.Pix[i] = 0xff
		} else {
			gray.Pix[i] = 0
		}
	}

	if b.Dx() >= minOCRWidth || b.Dx() == 0 {
		return gray, 1
	}
	scaled := image.NewGray(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Src, nil)
	return scaled, 2
}

// OtsuThreshold returns the gray level that best separates foreground from
// background in the histogram of g
func OtsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}
	total := len(g.Pix)
	if total == 0 {
		return 127
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i * n)
	}

	var (
		sumB    float64
		wB      int
		best    float64
		bestLvl uint8
	)
	for i, n := range hist {
		wB += n
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(i * n)
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestLvl = uint8(i)
		}
	}
	return bestLvl
}

