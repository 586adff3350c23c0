// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package planner turns accepted candidates into non-overlapping redaction spans.
package planner

import (
	"sort"

	"piishield/internal/detector"
)

// unionFind is a disjoint set over candidate positions
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}

// Plan merges accepted candidates of the same unit whose text ranges overlap
// or whose boxes intersect, transitively. Spans come out ordered by unit and
// first locator. Candidates that are not accepted are ignored.
func Plan(units []detector.Unit, scored []detector.ScoredCandidate) []detector.Span {
	var accepted []detector.ScoredCandidate
	for _, sc := range scored {
		if sc.Accepted() && sc.Candidate.Locator.Unit >= 0 && sc.Candidate.Locator.Unit < len(units) {
			accepted = append(accepted, sc)
		}
	}
	if len(accepted) == 0 {
		return nil
	}

	boxes := make([][]detector.Box, len(accepted))
	for i, sc := range accepted {
		loc := sc.Candidate.Locator
		boxes[i] = units[loc.Unit].BoxesFor(loc.Start, loc.End)
	}

	uf := newUnionFind(len(accepted))
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i].Candidate.Locator, accepted[j].Candidate.Locator
			if a.Unit != b.Unit {
				continue
			}
			if a.Overlaps(b) || anyIntersect(boxes[i], boxes[j]) {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	var roots []int
	for i := range accepted {
		r := uf.find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], i)
	}

	spans := make([]detector.Span, 0, len(roots))
	for _, r := range roots {
		spans = append(spans, buildSpan(&units[accepted[r].Candidate.Locator.Unit], accepted, groups[r]))
	}
	sort.Slice(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Start() != b.Start() {
			return a.Start() < b.Start()
		}
		return a.End() < b.End()
	})
	return spans
}

func buildSpan(unit *detector.Unit, accepted []detector.ScoredCandidate, members []int) detector.Span {
	span := detector.Span{Unit: unit.Index}
	locs := make([]detector.Locator, 0, len(members))
	seen := make(map[detector.Category]bool)
	for _, m := range members {
		sc := accepted[m]
		locs = append(locs, sc.Candidate.Locator)
		span.Members = append(span.Members, sc.Candidate.ID)
		if !seen[sc.Candidate.Category] {
			seen[sc.Candidate.Category] = true
			span.Categories = append(span.Categories, sc.Candidate.Category)
		}
		if sc.Confidence > span.Confidence {
			span.Confidence = sc.Confidence
		}
	}
	sort.Ints(span.Members)
	detector.SortCategories(span.Categories)
	span.Locators = MergeLocators(locs)
	for _, l := range span.Locators {
		span.Boxes = append(span.Boxes, unit.BoxesFor(l.Start, l.End)...)
	}
	return span
}

// MergeLocators sorts locators and joins the overlapping ones
func MergeLocators(locs []detector.Locator) []detector.Locator {
	if len(locs) == 0 {
		return nil
	}
	sorted := append([]detector.Locator(nil), locs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := []detector.Locator{sorted[0]}
	for _, l := range sorted[1:] {
		last := &out[len(out)-1]
		if l.Overlaps(*last) {
			if l.End > last.End {
				last.End = l.End
			}
			continue
		}
		out = append(out, l)
	}
	return out
}

func anyIntersect(a, b []detector.Box) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Intersects(y) {
				return true
			}
		}
	}
	return false
}
