// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"sort"
	"strings"
	"testing"

	"piishield/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func units(texts ...string) []detector.Unit {
	out := make([]detector.Unit, len(texts))
	for i, t := range texts {
		out[i] = detector.Unit{Index: i, Text: t}
	}
	return out
}

func categoriesOf(cands []detector.Candidate, value string) []detector.Category {
	var cats []detector.Category
	for _, c := range cands {
		if c.Value == value {
			cats = append(cats, c.Category)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

func TestMatchCategories(t *testing.T) {
	m := New(detector.AllCategories())

	tests := []struct {
		name  string
		text  string
		value string
		want  detector.Category
	}{
		{"aadhaar spaced", "Aadhaar: 2341 2341 2346", "2341 2341 2346", detector.Aadhaar},
		{"pan", "PAN ABCPE1234F issued", "ABCPE1234F", detector.PAN},
		{"driving license", "DL No MH-1420110062821", "MH-1420110062821", detector.DrivingLicense},
		{"passport", "Passport No: K1234567", "K1234567", detector.Passport},
		{"voter id", "EPIC ABC1234567", "ABC1234567", detector.VoterID},
		{"card grouped", "card 4111 1111 1111 1111", "4111 1111 1111 1111", detector.PaymentCard},
		{"ifsc", "IFSC SBIN0001234", "SBIN0001234", detector.IFSC},
		{"mobile", "Mobile: 9876543210", "9876543210", detector.Mobile},
		{"mobile with country code", "call +91 9876543210 now", "+91 9876543210", detector.Mobile},
		{"email", "mail ravi.kumar@example.org today", "ravi.kumar@example.org", detector.Email},
		{"dob", "DOB: 15/08/1990", "15/08/1990", detector.DateOfBirth},
		{"age", "Age: 34", "34", detector.Age},
		{"pincode", "Bengaluru 560001", "560001", detector.Pincode},
		{"person name", "Name: Ravi Kumar", "Ravi Kumar", detector.PersonName},
		{"father name", "S/O Suresh Kumar", "Suresh Kumar", detector.FatherName},
		{"mother name", "Mother's Name: Lakshmi Devi", "Lakshmi Devi", detector.MotherName},
		{"health id", "ABHA 12-3456-7890-1234", "12-3456-7890-1234", detector.HealthID},
		{"address", "Address: 12 MG Road, Bengaluru", "12 MG Road, Bengaluru", detector.Address},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := m.Match(units(tt.text))
			assert.Contains(t, categoriesOf(cands, tt.value), tt.want)
		})
	}
}

func TestMatchKeepsCrossCategoryOverlaps(t *testing.T) {
	m := New(detector.AllCategories())
	cands := m.Match(units("Mobile: 9876543210"))
	cats := categoriesOf(cands, "9876543210")
	assert.Contains(t, cats, detector.Mobile)
	assert.Contains(t, cats, detector.BankAccount)
}

func TestMatchCardPrefixAlsoLooksLikeAadhaar(t *testing.T) {
	m := New(detector.AllCategories())
	cands := m.Match(units("4111 1111 1111 1111"))
	assert.Contains(t, categoriesOf(cands, "4111 1111 1111 1111"), detector.PaymentCard)
	assert.Contains(t, categoriesOf(cands, "4111 1111 1111"), detector.Aadhaar)
}

func TestMatchDeduplicatesWithinCategory(t *testing.T) {
	m := New([]detector.Category{detector.Aadhaar})
	cands := m.Match(units("Aadhaar: 2341 2341 2346"))
	require.Len(t, cands, 1)
	assert.Equal(t, "aadhaar", cands[0].Rule[:7])
	assert.Equal(t, 1.0, cands[0].PatternConfidence)
}

func TestMatchDisabledCategoriesAreSkipped(t *testing.T) {
	m := New([]detector.Category{detector.Email})
	cands := m.Match(units("Mobile: 9876543210 mail a.b@example.org"))
	require.Len(t, cands, 1)
	assert.Equal(t, detector.Email, cands[0].Category)
}

func TestMatchIgnoresWordsInsideWords(t *testing.T) {
	m := New(detector.AllCategories())
	cands := m.Match(units("ABCDE12345FGH"))
	for _, c := range cands {
		assert.NotEqual(t, detector.PAN, c.Category)
	}
}

func TestMatchLocatorsAddressValue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[a-z ]{0,20}`).Draw(t, "prefix")
		digits := rapid.StringMatching(`[6-9][0-9]{9}`).Draw(t, "mobile")
		suffix := rapid.StringMatching(`[a-z ]{0,20}`).Draw(t, "suffix")
		text := prefix + " " + digits + " " + suffix

		m := New(detector.AllCategories())
		us := units(text)
		cands := m.Match(us)

		found := false
		for i, c := range cands {
			if c.ID != i {
				t.Fatalf("candidate %d has ID %d", i, c.ID)
			}
			if us[0].Text[c.Locator.Start:c.Locator.End] != c.Value {
				t.Fatalf("locator does not address value %q", c.Value)
			}
			if i > 0 && c.Locator.Less(cands[i-1].Locator) {
				t.Fatalf("candidates not sorted")
			}
			if c.Category == detector.Mobile && strings.TrimSpace(c.Value) == digits {
				found = true
			}
		}
		if !found {
			t.Fatalf("mobile %s not found in %q", digits, text)
		}
	})
}

func TestMatchIsDeterministic(t *testing.T) {
	m := New(detector.AllCategories())
	text := units("Name: Ravi Kumar\nMobile: 9876543210\nAadhaar 2341 2341 2346\nPIN 560001")
	first := m.Match(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Match(text))
	}
}

func TestMatchSkipsPlaceholders(t *testing.T) {
	m := New(detector.AllCategories())
	cands := m.Match(units("Address: [REDACTED:ADDRESS]\nMobile: [REDACTED:MOBILE]\nPAN ██████████"))
	assert.Empty(t, cands)
}
