// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"sort"

	"piishield/internal/report"
)

// Response is the top-level structure of JSON and YAML output
type Response struct {
	Documents []*report.Summary `json:"documents" yaml:"documents"`
	Totals    Totals            `json:"totals" yaml:"totals"`
}

// Totals aggregates every summary of a run
type Totals struct {
	Documents  int            `json:"documents" yaml:"documents"`
	Succeeded  int            `json:"succeeded" yaml:"succeeded"`
	Redacted   int            `json:"redacted" yaml:"redacted"`
	Failed     int            `json:"failed_spans" yaml:"failed_spans"`
	Residual   int            `json:"residual" yaml:"residual"`
	Categories map[string]int `json:"categories" yaml:"categories"`
}

// NewResponse wraps summaries for structured output
func NewResponse(summaries []*report.Summary) Response {
	if summaries == nil {
		summaries = []*report.Summary{}
	}
	return Response{Documents: summaries, Totals: Aggregate(summaries)}
}

// Aggregate sums up the summaries of a run
func Aggregate(summaries []*report.Summary) Totals {
	t := Totals{Categories: make(map[string]int)}
	for _, s := range summaries {
		if s == nil {
			continue
		}
		t.Documents++
		if s.Success {
			t.Succeeded++
		}
		t.Redacted += s.Total
		t.Failed += len(s.Failed)
		if s.Verification != nil {
			t.Residual += s.Verification.Residual
		}
		for cat, n := range s.Categories {
			t.Categories[cat] += n
		}
	}
	return t
}

// SortedCategories returns the category names of counts, sorted
func SortedCategories(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpanStatus is "applied" for redacted spans and "failed" otherwise. Scan
// mode reports "detected".
func SpanStatus(s *report.Summary, failed bool) string {
	switch {
	case failed:
		return "failed"
	case s.Mode == report.ModeScan:
		return "detected"
	default:
		return "applied"
	}
}
