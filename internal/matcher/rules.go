// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"regexp"

	"piishield/internal/detector"
)

// Rule is one syntactic pattern of a category. Group selects the capture group
// holding the value; 0 means the whole match.
type Rule struct {
	Name       string
	Category   detector.Category
	Pattern    *regexp.Regexp
	Group      int
	Confidence float64
}

const (
	// name made of 1 to 4 capitalised words
	namePart = `([A-Z][a-zA-Z]+(?:[ ][A-Z][a-zA-Z]+){0,3})`
	// separator between a label and its value
	labelSep = `\s*(?:no\.?|number|num|#)?\s*[:\-]?\s*`
)

func rule(name string, cat detector.Category, pattern string, group int, conf float64) Rule {
	return Rule{
		Name:       name,
		Category:   cat,
		Pattern:    regexp.MustCompile(pattern),
		Group:      group,
		Confidence: conf,
	}
}

// builtinRules is compiled once; rules are immutable and shared by every matcher
var builtinRules = []Rule{
	rule("aadhaar", detector.Aadhaar, `\b\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`, 0, 1.0),
	rule("aadhaar_labeled", detector.Aadhaar, `(?i:aadhaar|aadhar|uidai|uid)`+labelSep+`(\d{4}[-\s]?\d{4}[-\s]?\d{4})\b`, 1, 1.0),

	rule("pan", detector.PAN, `\b[A-Z]{5}\d{4}[A-Z]\b`, 0, 1.0),
	rule("pan_labeled", detector.PAN, `\b(?i:pan|permanent account number)`+labelSep+`([A-Za-z]{5}\d{4}[A-Za-z])\b`, 1, 1.0),

	rule("driving_license", detector.DrivingLicense, `\b[A-Z]{2}[-\s]?\d{2}[-\s]?\d{4}[-\s]?\d{7}\b`, 0, 1.0),

	rule("passport", detector.Passport, `\b[A-Z]\d{7}\b`, 0, 0.9),
	rule("passport_labeled", detector.Passport, `\b(?i:passport)`+labelSep+`([A-Z]\d{7})\b`, 1, 1.0),

	rule("voter_id", detector.VoterID, `\b[A-Z]{3}\d{7}\b`, 0, 1.0),

	rule("payment_card", detector.PaymentCard, `\b(?:\d{4}[-\s]?){3}\d{4}\b`, 0, 1.0),
	rule("payment_card_digits", detector.PaymentCard, `\b\d{13,19}\b`, 0, 0.9),

	rule("bank_account", detector.BankAccount, `\b\d{9,18}\b`, 0, 1.0),
	rule("bank_account_labeled", detector.BankAccount, `\b(?i:account|a/c|acct)`+labelSep+`(\d{9,18})\b`, 1, 1.0),

	rule("ifsc", detector.IFSC, `\b[A-Z]{4}0[A-Z0-9]{6}\b`, 0, 1.0),

	rule("mobile", detector.Mobile, `(?:\+91[-\s]?|\b)\d{10}\b`, 0, 1.0),
	rule("mobile_prefixed", detector.Mobile, `\b91[-\s]?[6-9]\d{9}\b`, 0, 1.0),
	rule("mobile_split", detector.Mobile, `(?:\+91[-\s]?|\b)[6-9]\d{4}[-\s]\d{5}\b`, 0, 0.9),

	rule("email", detector.Email, `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`, 0, 1.0),

	rule("dob_dmy", detector.DateOfBirth, `\b\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}\b`, 0, 0.9),
	rule("dob_ymd", detector.DateOfBirth, `\b\d{4}[-/.]\d{1,2}[-/.]\d{1,2}\b`, 0, 0.9),
	rule("dob_text", detector.DateOfBirth, `\b\d{1,2}\s+(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{4}\b`, 0, 0.9),
	rule("dob_labeled", detector.DateOfBirth, `(?i:dob|d\.o\.b\.?|date of birth|birth date|born on)\s*[:\-]?\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2})\b`, 1, 1.0),

	rule("age_labeled", detector.Age, `\b(?i:age)\s*[:\-]?\s*(\d{1,3})\b`, 1, 1.0),
	rule("age_years", detector.Age, `\b(\d{1,3})\s*(?i:years?|yrs?)\s+(?i:old)\b`, 1, 0.9),

	rule("pincode", detector.Pincode, `\b\d{6}\b`, 0, 1.0),
	rule("pincode_labeled", detector.Pincode, `\b(?i:pin|pincode|pin code|postal code|zip)`+labelSep+`(\d{3}\s?\d{3})\b`, 1, 1.0),

	rule("address_labeled", detector.Address, `\b(?i:address|addr|residence|resident of)\s*[:\-]\s*([^\n]{10,120})`, 1, 1.0),
	rule("address_street", detector.Address, `(?i)\b(?:house|flat|plot|door|h\.?\s?no)\.?\s*(?:no\.?)?\s*[:#-]?\s*\d+[a-z]?[,\s]+[^\n]{3,100}?\b(?:road|street|nagar|colony|lane|sector|marg|layout|block|apartments?|society)\b`, 0, 0.8),

	rule("person_name", detector.PersonName, `\b(?i:full name|first name|last name|surname|applicant name|name)\s*[:\-]\s*`+namePart, 1, 1.0),

	rule("father_name", detector.FatherName, `(?i:father(?:'s)?\s*name|father|s/o|d/o|w/o|son of|daughter of|wife of)\s*[:\-]?\s*`+namePart, 1, 1.0),
	rule("mother_name", detector.MotherName, `(?i:mother(?:'s)?\s*name|mother)\s*[:\-]?\s*`+namePart, 1, 1.0),

	rule("biometric_id", detector.BiometricID, `\b\d{12,16}\b`, 0, 1.0),

	rule("health_id", detector.HealthID, `\b\d{2}-\d{4}-\d{4}-\d{4}\b`, 0, 1.0),
	rule("health_id_labeled", detector.HealthID, `\b(?i:abha|health id|health card)`+labelSep+`(\d{14})\b`, 1, 1.0),
}

// Rules returns the built-in rule table for the given categories
func Rules(categories []detector.Category) []Rule {
	want := make(map[detector.Category]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	var out []Rule
	for _, r := range builtinRules {
		if want[r.Category] {
			out = append(out, r)
		}
	}
	return out
}
