// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"

	"piishield/internal/detector"
	"piishield/internal/redactors"
	"piishield/internal/report"
)

// maskTolerance absorbs rounding between the geometry of the original and
// the re-extracted document, in document units
const maskTolerance = 1.5

// verify re-extracts and re-scans the sanitized output. Accepted candidates
// of a retained text layer that lie entirely under an applied mask count as
// masked; everything else accepted is residual.
func (p *pipeline) verify(ctx context.Context, doc *detector.Document, output []byte, units []detector.Unit, spans []detector.Span, redaction *redactors.Result) *report.Verification {
	v := &report.Verification{Categories: make(map[string]int)}

	ext, err := p.extractors.Extract(ctx, detector.NewDocument(doc.Name, doc.Format, output))
	if err != nil {
		v.Error = err.Error()
		return v
	}

	masks := appliedMasks(units, spans, redaction)
	for _, sc := range p.detect(ext.Units) {
		if !sc.Accepted() {
			continue
		}
		unit := &ext.Units[sc.Candidate.Locator.Unit]
		if underMask(unit, sc.Candidate.Locator, masks[unit.Origin.Page]) {
			v.Masked++
			continue
		}
		v.Residual++
		v.Categories[sc.Candidate.Category.String()]++
	}
	return v
}

// appliedMasks collects the boxes of applied spans by page
func appliedMasks(units []detector.Unit, spans []detector.Span, redaction *redactors.Result) map[int][]detector.Box {
	masks := make(map[int][]detector.Box)
	if redaction == nil {
		return masks
	}
	for _, i := range redaction.Applied {
		span := spans[i]
		if span.Unit < 0 || span.Unit >= len(units) {
			continue
		}
		unit := &units[span.Unit]
		boxes := span.Boxes
		if len(boxes) == 0 {
			boxes = unit.BoxesFor(span.Start(), span.End())
		}
		masks[unit.Origin.Page] = append(masks[unit.Origin.Page], boxes...)
	}
	return masks
}

// underMask reports whether every box of loc lies inside some mask
func underMask(unit *detector.Unit, loc detector.Locator, masks []detector.Box) bool {
	if len(masks) == 0 {
		return false
	}
	boxes := unit.BoxesFor(loc.Start, loc.End)
	if len(boxes) == 0 {
		return false
	}
	for _, b := range boxes {
		inside := false
		for _, m := range masks {
			if b.X0 >= m.X0-maskTolerance && b.Y0 >= m.Y0-maskTolerance &&
				b.X1 <= m.X1+maskTolerance && b.Y1 <= m.Y1+maskTolerance {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}
