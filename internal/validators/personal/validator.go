// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package personal validates personal attributes: dates of birth, ages,
// pincodes, names, addresses, biometric and health identifiers.
package personal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"piishield/internal/detector"
)

// dateLayouts are tried in order; day-first wins over month-first for
// ambiguous dates such as 05/08/1990.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2006/1/2",
	"2 Jan 2006",
	"2 January 2006",
	"2 Jan. 2006",
}

var (
	healthDashed = regexp.MustCompile(`^\d{2}-\d{4}-\d{4}-\d{4}$`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	addressWords = regexp.MustCompile(`(?i)\b(?:road|rd|street|st|lane|marg|nagar|colony|sector|block|phase|layout|house|flat|floor|plot|building|apartments?|society|village|district|taluk|tehsil|near|opp|cross|main|avenue|po|ps)\b`)
)

// titles are honorifics that never form a name on their own
var titles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true, "sir": true,
	"madam": true, "shri": true, "smt": true, "kumari": true, "prof": true, "mx": true,
}

// fieldWords are form captions that name-shaped rules pick up by accident
var fieldWords = map[string]bool{
	"name": true, "address": true, "date": true, "birth": true, "male": true,
	"female": true, "gender": true, "signature": true, "father": true, "mother": true,
}

// Validator checks personal attributes. Dates are checked against now.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a validator; a nil clock means time.Now
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// ValidateDOB parses the date in one of the known layouts; it must not be in
// the future and the year must be 1900 or later.
func (v *Validator) ValidateDOB(value string) detector.ValidationResult {
	const name = "date_of_birth"
	s := strings.TrimSpace(value)
	s = strings.NewReplacer("-", "/", ".", "/", ",", "").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	// "Aug/ 1990" after the dot replacement in "15 Aug. 1990"
	s = strings.ReplaceAll(s, "/ ", ". ")

	var t time.Time
	parsed := false
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			t, parsed = d, true
			break
		}
	}
	if !parsed {
		return detector.Inconclusive(name, "unrecognized date")
	}
	normalized := t.Format("2006-01-02")
	if t.Year() < 1900 {
		return detector.Fail(name, normalized, "year before 1900")
	}
	if t.After(v.now()) {
		return detector.Fail(name, normalized, "date in the future")
	}
	return detector.Pass(name, normalized)
}

// ValidateAge accepts whole years from 0 to 150
func (v *Validator) ValidateAge(value string) detector.ValidationResult {
	const name = "age_range"
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return detector.Inconclusive(name, "not a number")
	}
	if n < 0 || n > 150 {
		return detector.Fail(name, strconv.Itoa(n), "outside 0-150")
	}
	return detector.Pass(name, strconv.Itoa(n))
}

// ValidatePincode checks a 6-digit postal code; no code starts with 0
func (v *Validator) ValidatePincode(value string) detector.ValidationResult {
	const name = "pincode_structure"
	code := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	if !digitsOnly.MatchString(code) {
		return detector.Inconclusive(name, "not a digit sequence")
	}
	if len(code) != 6 {
		return detector.Fail(name, code, "expected 6 digits")
	}
	if code[0] == '0' {
		return detector.Fail(name, code, "leading zero")
	}
	return detector.Pass(name, code)
}

// ValidateName accepts 2 to 50 letters and spaces that are not a bare title
// or a form caption.
func (v *Validator) ValidateName(value string) detector.ValidationResult {
	const name = "person_name"
	words := strings.Fields(strings.ReplaceAll(value, ".", " "))
	if len(words) == 0 {
		return detector.Inconclusive(name, "empty value")
	}
	full := strings.Join(words, " ")
	for _, r := range full {
		if !unicode.IsLetter(r) && r != ' ' {
			return detector.Fail(name, full, "non-letter characters")
		}
	}
	if n := len([]rune(full)); n < 2 || n > 50 {
		return detector.Fail(name, full, "expected 2 to 50 characters")
	}
	meaningful := 0
	for _, w := range words {
		lw := strings.ToLower(w)
		if fieldWords[lw] {
			return detector.Fail(name, full, "form caption")
		}
		if !titles[lw] {
			meaningful++
		}
	}
	if meaningful == 0 {
		return detector.Fail(name, full, "title only")
	}
	return detector.Pass(name, full)
}

// ValidateAddress requires more than 10 characters and a street keyword
func (v *Validator) ValidateAddress(value string) detector.ValidationResult {
	const name = "address_keywords"
	addr := strings.Join(strings.Fields(value), " ")
	if addr == "" {
		return detector.Inconclusive(name, "empty value")
	}
	if len(addr) <= 10 {
		return detector.Fail(name, addr, "too short")
	}
	if !addressWords.MatchString(addr) {
		return detector.Fail(name, addr, "no street keyword")
	}
	return detector.Pass(name, addr)
}

// ValidateBiometric accepts 12 to 16 digit template identifiers
func (v *Validator) ValidateBiometric(value string) detector.ValidationResult {
	const name = "biometric_id"
	id := strings.TrimSpace(value)
	if !digitsOnly.MatchString(id) {
		return detector.Inconclusive(name, "not a digit sequence")
	}
	if len(id) < 12 || len(id) > 16 {
		return detector.Fail(name, id, "expected 12 to 16 digits")
	}
	return detector.Pass(name, id)
}

// ValidateHealthID checks an ABHA number, dashed (12-3456-7890-1234) or as 14 digits
func (v *Validator) ValidateHealthID(value string) detector.ValidationResult {
	const name = "abha_structure"
	id := strings.TrimSpace(value)
	if id == "" {
		return detector.Inconclusive(name, "empty value")
	}
	if healthDashed.MatchString(id) {
		return detector.Pass(name, strings.ReplaceAll(id, "-", ""))
	}
	if digitsOnly.MatchString(id) && len(id) == 14 {
		return detector.Pass(name, id)
	}
	return detector.Fail(name, id, "expected 14 digits")
}
