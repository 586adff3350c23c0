// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package banking validates IFSC codes and bank account numbers.
package banking

import (
	"regexp"
	"strings"

	"piishield/internal/detector"
)

var ifscShape = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// Validator checks banking identifiers
type Validator struct{}

// NewValidator creates and returns a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateIFSC checks an 11-character branch code: 4 bank letters, a
// reserved 0, then 6 branch characters.
func (v *Validator) ValidateIFSC(value string) detector.ValidationResult {
	const name = "ifsc_structure"
	code := strings.ToUpper(strings.TrimSpace(value))
	if code == "" {
		return detector.Inconclusive(name, "empty value")
	}
	if len(code) != 11 {
		return detector.Fail(name, code, "expected 11 characters")
	}
	if code[4] != '0' {
		return detector.Fail(name, code, "fifth character must be 0")
	}
	if !ifscShape.MatchString(code) {
		return detector.Fail(name, code, "expected 4 letters, 0 and 6 alphanumerics")
	}
	return detector.Pass(name, code)
}

// ValidateAccount checks a bank account number: 9 to 18 digits, not one
// repeated digit.
func (v *Validator) ValidateAccount(value string) detector.ValidationResult {
	const name = "account_structure"
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return detector.Inconclusive(name, "not a digit sequence")
		}
	}
	digits := b.String()
	if digits == "" {
		return detector.Inconclusive(name, "empty value")
	}
	if len(digits) < 9 || len(digits) > 18 {
		return detector.Fail(name, digits, "expected 9 to 18 digits")
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return detector.Fail(name, digits, "repeated digit")
	}
	return detector.Pass(name, digits)
}
