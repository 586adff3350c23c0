// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package aadhaar validates 12-digit Aadhaar numbers with the Verhoeff checksum.
package aadhaar

import (
	"strings"

	"piishield/internal/detector"
)

const validatorName = "verhoeff"

// Verhoeff multiplication table of the dihedral group D5
var d = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

// Verhoeff permutation table
var p = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 7, 8, 6, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 2, 6, 5, 9, 8, 1, 3},
}

var inv = [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}

// Validator checks Aadhaar numbers
type Validator struct{}

// NewValidator creates and returns a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Validate normalizes value to 12 digits and runs the Verhoeff checksum.
// Aadhaar numbers never start with 0 or 1.
func (v *Validator) Validate(value string) detector.ValidationResult {
	digits, ok := Normalize(value)
	if !ok {
		return detector.Inconclusive(validatorName, "not a digit sequence")
	}
	if len(digits) != 12 {
		return detector.Fail(validatorName, digits, "expected 12 digits")
	}
	if digits[0] == '0' || digits[0] == '1' {
		return detector.Fail(validatorName, digits, "leading digit 0 or 1 is never issued")
	}
	if !Verhoeff(digits) {
		return detector.Fail(validatorName, digits, "checksum mismatch")
	}
	return detector.Pass(validatorName, digits)
}

// Normalize drops spaces and hyphens; it fails on any other non-digit
func Normalize(value string) (string, bool) {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return "", false
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// Verhoeff reports whether a digit string carries a valid Verhoeff check digit
func Verhoeff(digits string) bool {
	if digits == "" {
		return false
	}
	c := 0
	for i := 0; i < len(digits); i++ {
		r := digits[len(digits)-1-i]
		if r < '0' || r > '9' {
			return false
		}
		c = d[c][p[i%8][int(r-'0')]]
	}
	return c == 0
}

// CheckDigit computes the Verhoeff check digit to append to digits
func CheckDigit(digits string) (int, bool) {
	c := 0
	for i := 0; i < len(digits); i++ {
		r := digits[len(digits)-1-i]
		if r < '0' || r > '9' {
			return 0, false
		}
		c = d[c][p[(i+1)%8][int(r-'0')]]
	}
	return inv[c], true
}
