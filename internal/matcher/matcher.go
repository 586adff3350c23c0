// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package matcher finds syntactic PII candidates in extracted units. Every
// category runs its own rules over every unit; overlaps between categories
// are kept and resolved later by validation, scoring and planning.
package matcher

import (
	"regexp"
	"sort"

	"piishield/internal/detector"
)

// Matcher runs a fixed rule table. It holds no per-invocation state.
type Matcher struct {
	rules []Rule
}

// New creates a matcher for the given categories
func New(categories []detector.Category) *Matcher {
	return &Matcher{rules: Rules(categories)}
}

// NewWithRules creates a matcher over an explicit rule table
func NewWithRules(rules []Rule) *Matcher {
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

// Rules returns the rule table in evaluation order
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// placeholder matches text written by an earlier redaction. Values touching
// it are never candidates, so redacted output re-scans clean.
var placeholder = regexp.MustCompile(`\[REDACTED(?::[A-Z_]+)?\]|█`)

type key struct {
	unit, start, end int
	cat              detector.Category
}

// Match returns every candidate found in units, sorted by unit, start, end and
// category, with IDs equal to their position in the returned slice. Identical
// ranges found by several rules of one category are reported once, keeping the
// strongest rule.
func (m *Matcher) Match(units []detector.Unit) []detector.Candidate {
	best := make(map[key]detector.Candidate)
	for i := range units {
		for _, c := range m.MatchUnit(&units[i]) {
			k := key{c.Locator.Unit, c.Locator.Start, c.Locator.End, c.Category}
			if prev, ok := best[k]; ok && prev.PatternConfidence >= c.PatternConfidence {
				continue
			}
			best[k] = c
		}
	}

	out := make([]detector.Candidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Locator != b.Locator {
			return a.Locator.Less(b.Locator)
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Rule < b.Rule
	})
	for i := range out {
		out[i].ID = i
	}
	return out
}

// MatchUnit runs every rule over one unit. The returned candidates carry no ID.
func (m *Matcher) MatchUnit(u *detector.Unit) []detector.Candidate {
	var out []detector.Candidate
	for _, r := range m.rules {
		for _, loc := range r.Pattern.FindAllStringSubmatchIndex(u.Text, -1) {
			start, end := loc[2*r.Group], loc[2*r.Group+1]
			if start < 0 || end <= start || placeholder.MatchString(u.Text[start:end]) {
				continue
			}
			out = append(out, detector.Candidate{
				ID:                -1,
				Category:          r.Category,
				Value:             u.Text[start:end],
				Locator:           detector.Locator{Unit: u.Index, Start: start, End: end},
				PatternConfidence: r.Confidence,
				Rule:              r.Name,
			})
		}
	}
	return out
}
