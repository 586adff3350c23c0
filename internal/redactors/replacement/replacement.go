// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package replacement provides a single source of truth for the placeholder
// text written over redacted values. All text-based redactors call Generate.
package replacement

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"piishield/internal/detector"
)

// Style selects the placeholder written over a redacted value
type Style string

const (
	// Label writes the category, e.g. [REDACTED:MOBILE]
	Label Style = "label"
	// Fixed writes the same text for every value
	Fixed Style = "fixed"
	// Mask writes one block character per rune of the original
	Mask Style = "mask"
)

// MaskRune is the character used by the Mask style
const MaskRune = '█'

// DefaultFixedText is the placeholder of the Fixed style when none is configured
const DefaultFixedText = "[REDACTED]"

// ParseStyle converts a configuration value to a Style
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case Label, "":
		return Label, nil
	case Fixed:
		return Fixed, nil
	case Mask:
		return Mask, nil
	default:
		return "", fmt.Errorf("unknown placeholder style %q", s)
	}
}

// Replacer generates placeholders for one style
type Replacer struct {
	style Style
	fixed string
}

// New creates a Replacer. fixedText is used by the Fixed style only.
func New(style Style, fixedText string) *Replacer {
	if fixedText == "" {
		fixedText = DefaultFixedText
	}
	return &Replacer{style: style, fixed: fixedText}
}

// Style returns the configured style
func (r *Replacer) Style() Style {
	return r.style
}

// Generate returns the placeholder for a value of the given categories.
// Categories are expected in priority order; the first one names the label.
func (r *Replacer) Generate(original string, categories []detector.Category) string {
	switch r.style {
	case Fixed:
		return r.fixed
	case Mask:
		return Masked(original)
	default:
		if len(categories) == 0 {
			return DefaultFixedText
		}
		return Labeled(categories[0])
	}
}

// ─── Label ───────────────────────────────────────────────────────────────────

// Labeled returns a bracketed placeholder naming the category
func Labeled(cat detector.Category) string {
	return "[REDACTED:" + cat.String() + "]"
}

// ─── Mask ────────────────────────────────────────────────────────────────────

// Masked returns one mask character per rune of original. Line breaks are
// kept so that multi-line values keep their shape.
func Masked(original string) string {
	var b strings.Builder
	b.Grow(utf8.RuneCountInString(original) * utf8.RuneLen(MaskRune))
	for _, r := range original {
		if r == '\n' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(MaskRune)
	}
	return b.String()
}
