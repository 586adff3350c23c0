// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // page image decoders
	_ "image/png"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/tiff"
)

// PageImages returns the decoded raster images drawn on each requested page,
// in object order. Images in encodings Go cannot decode are skipped.
func PageImages(data []byte, pages []int) (map[int][]image.Image, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("reading PDF structure: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	out := make(map[int][]image.Image, len(pages))
	for _, n := range pages {
		if n < 1 || n > ctx.PageCount {
			continue
		}
		imgs, err := pdfcpu.ExtractPageImages(ctx, n, false)
		if err != nil {
			return nil, fmt.Errorf("extracting images of page %d: %w", n, err)
		}

		objNrs := make([]int, 0, len(imgs))
		for objNr := range imgs {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			decoded, _, err := image.Decode(imgs[objNr])
			if err != nil {
				continue
			}
			out[n] = append(out[n], decoded)
		}
	}
	return out, nil
}
