// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"strings"

	"piishield/internal/detector"
)

const validatorName = "indian_mobile"

// Validator checks Indian mobile numbers
type Validator struct {
	// Common dummy numbers found in forms and samples
	testPhoneNumbers map[string]bool
}

// NewValidator creates and returns a new Validator instance
func NewValidator() *Validator {
	v := &Validator{testPhoneNumbers: make(map[string]bool)}
	for _, n := range []string{
		"0000000000", "1111111111", "2222222222", "3333333333", "4444444444",
		"5555555555", "6666666666", "7777777777", "8888888888", "9999999999",
		"1234567890", "0123456789",
	} {
		v.testPhoneNumbers[n] = true
	}
	return v
}

// Validate strips the +91, 91 or 0 trunk prefix and expects 10 digits
// starting with 6, 7, 8 or 9.
func (v *Validator) Validate(value string) detector.ValidationResult {
	digits, ok := cleanPhoneNumber(value)
	if !ok {
		return detector.Inconclusive(validatorName, "not a phone number")
	}
	number := stripPrefix(digits)
	if len(number) != 10 {
		return detector.Fail(validatorName, number, "expected 10 digits")
	}
	if number[0] < '6' {
		return detector.Fail(validatorName, number, "mobile numbers start with 6-9")
	}
	if v.testPhoneNumbers[number] {
		return detector.Fail(validatorName, number, "known dummy number")
	}
	return detector.Pass(validatorName, number)
}

func cleanPhoneNumber(value string) (string, bool) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "+")
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", false
		}
	}
	return b.String(), b.Len() > 0
}

func stripPrefix(digits string) string {
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return digits[2:]
	case len(digits) == 11 && digits[0] == '0':
		return digits[1:]
	}
	return digits
}
