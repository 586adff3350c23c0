// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package govid validates Indian government identity document numbers:
// PAN, driving licence, voter ID (EPIC) and passport.
package govid

import (
	"regexp"
	"strings"

	"piishield/internal/detector"
)

var (
	panShape      = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	licenceShape  = regexp.MustCompile(`^[A-Z]{2}[0-9]{13}$`)
	voterShape    = regexp.MustCompile(`^[A-Z]{3}[0-9]{7}$`)
	passportShape = regexp.MustCompile(`^[A-Z][0-9]{7}$`)
)

// panHolderTypes are the valid fourth characters of a PAN
const panHolderTypes = "ABCFGHLJPT"

// Validator checks government ID numbers
type Validator struct{}

// NewValidator creates and returns a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePAN checks a Permanent Account Number
func (v *Validator) ValidatePAN(value string) detector.ValidationResult {
	const name = "pan_structure"
	id, ok := normalize(value)
	if !ok {
		return detector.Inconclusive(name, "not an alphanumeric identifier")
	}
	if !panShape.MatchString(id) {
		return detector.Fail(name, id, "expected 5 letters, 4 digits, 1 letter")
	}
	if !strings.ContainsRune(panHolderTypes, rune(id[3])) {
		return detector.Fail(name, id, "unknown holder type")
	}
	if id[:5] == "AAAAA" || id[5:9] == "0000" {
		return detector.Fail(name, id, "placeholder value")
	}
	return detector.Pass(name, id)
}

// ValidateDrivingLicense checks a licence number: state code and 13 digits
func (v *Validator) ValidateDrivingLicense(value string) detector.ValidationResult {
	const name = "dl_structure"
	id, ok := normalize(value)
	if !ok {
		return detector.Inconclusive(name, "not an alphanumeric identifier")
	}
	if !licenceShape.MatchString(id) {
		return detector.Fail(name, id, "expected 2 letters and 13 digits")
	}
	return detector.Pass(name, id)
}

// ValidateVoterID checks an EPIC number: 3 letters and 7 digits
func (v *Validator) ValidateVoterID(value string) detector.ValidationResult {
	const name = "epic_structure"
	id, ok := normalize(value)
	if !ok {
		return detector.Inconclusive(name, "not an alphanumeric identifier")
	}
	if !voterShape.MatchString(id) {
		return detector.Fail(name, id, "expected 3 letters and 7 digits")
	}
	return detector.Pass(name, id)
}

// ValidatePassport checks an Indian passport number. Q, X and Z are never
// issued as series letters.
func (v *Validator) ValidatePassport(value string) detector.ValidationResult {
	const name = "passport_structure"
	id, ok := normalize(value)
	if !ok {
		return detector.Inconclusive(name, "not an alphanumeric identifier")
	}
	if !passportShape.MatchString(id) {
		return detector.Fail(name, id, "expected 1 letter and 7 digits")
	}
	switch id[0] {
	case 'Q', 'X', 'Z':
		return detector.Fail(name, id, "series letter is not issued")
	}
	if id[1:] == "0000000" {
		return detector.Fail(name, id, "placeholder value")
	}
	return detector.Pass(name, id)
}

// normalize uppercases and drops spaces and hyphens
func normalize(value string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.ToUpper(value) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return "", false
		}
	}
	return b.String(), b.Len() > 0
}
