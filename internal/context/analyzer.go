// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package context scores the text surrounding a candidate. The signal it
// produces is additive evidence for the scorer and never decides on its own.
package context

import (
	"regexp"
	"strings"

	"piishield/internal/detector"
)

const (
	keywordWeight = 0.5
	labelWeight   = 0.5
)

// keywordSet is a compiled keyword list matched on word boundaries, case-insensitively
type keywordSet struct {
	words   []string
	finders []*regexp.Regexp
	// label matches a keyword used as a field label right before the value
	label *regexp.Regexp
}

func newKeywordSet(words []string) keywordSet {
	ks := keywordSet{words: words}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		q := regexp.QuoteMeta(w)
		quoted = append(quoted, q)
		ks.finders = append(ks.finders, regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])`+q+`(?:[^\p{L}\p{N}_]|$)`))
	}
	if len(quoted) > 0 {
		ks.label = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` + strings.Join(quoted, "|") +
			`)(?:'s)?(?:\s+(?:name|id|card))?(?:\s*(?:no\.?|number|num|#)\s*[:\-]?|\s*[:\-])\s*$`)
	}
	return ks
}

// found returns the distinct keywords present in text
func (ks keywordSet) found(text string) []string {
	var hits []string
	for i, re := range ks.finders {
		if re.MatchString(text) {
			hits = append(hits, ks.words[i])
		}
	}
	return hits
}

// ContextAnalyzer computes the context signal of candidates
type ContextAnalyzer struct {
	extractor *detector.ContextExtractor
	positive  map[detector.Category]keywordSet
	negative  map[detector.Category]keywordSet
}

// NewContextAnalyzer creates an analyzer looking at window runes on each side
func NewContextAnalyzer(window int) *ContextAnalyzer {
	ca := &ContextAnalyzer{
		extractor: detector.NewContextExtractor(window),
		positive:  make(map[detector.Category]keywordSet),
		negative:  make(map[detector.Category]keywordSet),
	}
	for _, cat := range detector.AllCategories() {
		ca.positive[cat] = newKeywordSet(positiveKeywords[cat])
		ca.negative[cat] = newKeywordSet(negativeKeywords(cat))
	}
	return ca
}

// Analyze returns the context of one candidate. The signal is in [-1, 1]:
// +0.5 per distinct keyword of the category, +0.5 more when a keyword labels
// the value, -0.5 per distinct noise or competing keyword.
func (ca *ContextAnalyzer) Analyze(unit *detector.Unit, cand detector.Candidate) detector.ContextInfo {
	info := ca.extractor.ExtractContext(unit, cand.Locator)
	window := info.BeforeText + " " + info.AfterText

	pos := ca.positive[cand.Category]
	neg := ca.negative[cand.Category]

	info.PositiveKeywords = pos.found(window)
	info.NegativeKeywords = neg.found(window)

	signal := keywordWeight * float64(len(info.PositiveKeywords))
	signal -= keywordWeight * float64(len(info.NegativeKeywords))

	if label := labelBefore(pos, unit, info.BeforeText); label != "" {
		info.Label = label
		signal += labelWeight
	}

	info.Signal = clamp(signal)
	return info
}

// Signal is a shorthand for Analyze(...).Signal
func (ca *ContextAnalyzer) Signal(unit *detector.Unit, cand detector.Candidate) float64 {
	return ca.Analyze(unit, cand).Signal
}

// AnalyzeAll analyzes every candidate; units are addressed by Locator.Unit
func (ca *ContextAnalyzer) AnalyzeAll(units []detector.Unit, cands []detector.Candidate) []detector.ContextInfo {
	out := make([]detector.ContextInfo, len(cands))
	for i, c := range cands {
		if c.Locator.Unit < 0 || c.Locator.Unit >= len(units) {
			continue
		}
		out[i] = ca.Analyze(&units[c.Locator.Unit], c)
	}
	return out
}

// labelBefore returns the keyword used as a label directly before the value,
// either inline ("DOB: ") or as the unit label (a column header).
func labelBefore(pos keywordSet, unit *detector.Unit, before string) string {
	if pos.label == nil {
		return ""
	}
	if unit != nil && unit.Label != "" {
		if hits := pos.found(unit.Label); len(hits) > 0 {
			return hits[0]
		}
	}
	loc := pos.label.FindStringIndex(before)
	if loc == nil {
		return ""
	}
	if hits := pos.found(before[loc[0]:]); len(hits) > 0 {
		return hits[0]
	}
	return ""
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
