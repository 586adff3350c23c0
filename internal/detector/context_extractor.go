// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"unicode/utf8"
)

// DefaultContextChars is the default window, in runes, on each side of a match
const DefaultContextChars = 150

// ContextExtractor cuts the text surrounding a candidate out of its unit
type ContextExtractor struct {
	ContextChars int
}

// NewContextExtractor creates a ContextExtractor with the given window size
func NewContextExtractor(chars int) *ContextExtractor {
	if chars < 0 {
		chars = 0
	}
	return &ContextExtractor{ContextChars: chars}
}

// ExtractContext returns the text before and after the locator. The unit label
// is prepended to the leading text on its own line.
func (ce *ContextExtractor) ExtractContext(unit *Unit, loc Locator) ContextInfo {
	info := ContextInfo{}
	if unit == nil {
		return info
	}
	start := clampIndex(loc.Start, len(unit.Text))
	end := clampIndex(loc.End, len(unit.Text))
	if end < start {
		end = start
	}

	info.BeforeText = lastRunes(unit.Text[:start], ce.ContextChars)
	info.AfterText = firstRunes(unit.Text[end:], ce.ContextChars)

	if unit.Label != "" {
		info.BeforeText = strings.TrimSpace(unit.Label) + "\n" + info.BeforeText
	}
	return info
}

func clampIndex(i, n int) int {
	return max(0, min(i, n))
}

func lastRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := len(s)
	for count := 0; count < n && i > 0; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

func firstRunes(s string, n int) string {
	i := 0
	for count := 0; count < n && i < len(s); count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
