// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package context

import "piishield/internal/detector"

// positiveKeywords raise the signal of their category
var positiveKeywords = map[detector.Category][]string{
	detector.Aadhaar:        {"aadhaar", "aadhar", "uid", "uidai", "unique identification", "enrolment", "enrollment", "government of india"},
	detector.PAN:            {"pan", "permanent account number", "income tax", "tax"},
	detector.DrivingLicense: {"driving", "licence", "license", "dl", "transport", "rto"},
	detector.Passport:       {"passport", "republic of india", "nationality", "travel"},
	detector.VoterID:        {"voter", "epic", "election", "electoral"},
	detector.PaymentCard:    {"card", "credit", "debit", "visa", "mastercard", "rupay", "amex", "expiry", "cvv"},
	detector.BankAccount:    {"account", "a/c", "acct", "bank", "savings", "branch"},
	detector.IFSC:           {"ifsc", "branch", "bank", "rtgs", "neft"},
	detector.Mobile:         {"mobile", "phone", "contact", "cell", "number", "registered", "primary", "call", "mob", "tel"},
	detector.Email:          {"email", "e-mail", "mail", "contact"},
	detector.DateOfBirth:    {"dob", "d.o.b", "birth", "born", "date of birth", "yob"},
	detector.Age:            {"age", "years", "yrs", "old"},
	detector.Pincode:        {"pin", "pincode", "pin code", "postal", "zip", "post"},
	detector.Address:        {"address", "residence", "resident", "house", "street", "road", "city", "state", "district"},
	detector.PersonName:     {"name", "holder", "applicant", "customer", "patient", "employee"},
	detector.FatherName:     {"father", "s/o", "d/o", "w/o", "son of", "daughter of", "guardian"},
	detector.MotherName:     {"mother"},
	detector.BiometricID:    {"biometric", "fingerprint", "iris", "face"},
	detector.HealthID:       {"abha", "health", "ayushman", "ndhm"},
}

// noiseKeywords mark numbers that belong to business documents
var noiseKeywords = []string{
	"invoice", "total", "amount", "qty", "quantity", "price", "order", "ref",
	"reference", "receipt", "page", "sku", "serial", "tracking", "version", "bill",
}

// numericCategories share digit-only shapes and compete for the same matches
var numericCategories = []detector.Category{
	detector.Aadhaar,
	detector.PaymentCard,
	detector.BankAccount,
	detector.Mobile,
	detector.Pincode,
	detector.BiometricID,
	detector.HealthID,
}

// competingHints are the keywords that point at another numeric category
var competingHints = map[detector.Category][]string{
	detector.Aadhaar:     {"aadhaar", "aadhar", "uidai"},
	detector.PaymentCard: {"card", "credit", "debit"},
	detector.BankAccount: {"account", "a/c", "acct"},
	detector.Mobile:      {"mobile", "phone", "cell"},
	detector.Pincode:     {"pincode", "pin code", "postal"},
	detector.BiometricID: {"biometric", "fingerprint"},
	detector.HealthID:    {"abha", "ayushman"},
}

// negativeKeywords returns the noise list plus the hints of competing categories
func negativeKeywords(cat detector.Category) []string {
	out := append([]string(nil), noiseKeywords...)
	numeric := false
	for _, c := range numericCategories {
		if c == cat {
			numeric = true
		}
	}
	if !numeric {
		return out
	}
	own := make(map[string]bool)
	for _, kw := range positiveKeywords[cat] {
		own[kw] = true
	}
	for _, c := range numericCategories {
		if c == cat {
			continue
		}
		for _, kw := range competingHints[c] {
			if !own[kw] {
				out = append(out, kw)
			}
		}
	}
	return out
}
