// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package context

import (
	"strings"
	"testing"

	"piishield/internal/detector"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func candidate(u *detector.Unit, value string, cat detector.Category) detector.Candidate {
	start := strings.Index(u.Text, value)
	return detector.Candidate{
		Category: cat,
		Value:    value,
		Locator:  detector.Locator{Unit: u.Index, Start: start, End: start + len(value)},
	}
}

func TestSignalLabelAndKeyword(t *testing.T) {
	ca := NewContextAnalyzer(150)
	u := &detector.Unit{Text: "Mobile: 9876543210"}

	info := ca.Analyze(u, candidate(u, "9876543210", detector.Mobile))
	assert.Equal(t, []string{"mobile"}, info.PositiveKeywords)
	assert.Equal(t, "mobile", info.Label)
	assert.Equal(t, 1.0, info.Signal)

	bank := ca.Analyze(u, candidate(u, "9876543210", detector.BankAccount))
	assert.Equal(t, -0.5, bank.Signal, "mobile keyword competes with bank accounts")
}

func TestSignalNoiseKeywords(t *testing.T) {
	ca := NewContextAnalyzer(150)
	u := &detector.Unit{Text: "Invoice #4111111111111111 total due"}
	info := ca.Analyze(u, candidate(u, "4111111111111111", detector.PaymentCard))
	assert.ElementsMatch(t, []string{"invoice", "total"}, info.NegativeKeywords)
	assert.Equal(t, -1.0, info.Signal)
}

func TestSignalWithoutContext(t *testing.T) {
	ca := NewContextAnalyzer(150)
	u := &detector.Unit{Text: "4111 1111 1111 1111"}
	assert.Equal(t, 0.0, ca.Signal(u, candidate(u, "4111 1111 1111", detector.Aadhaar)))
}

func TestKeywordsMatchWholeWords(t *testing.T) {
	ca := NewContextAnalyzer(150)
	u := &detector.Unit{Text: "company ABCPE1234F"}
	info := ca.Analyze(u, candidate(u, "ABCPE1234F", detector.PAN))
	assert.Empty(t, info.PositiveKeywords, "pan must not match inside company")

	u = &detector.Unit{Text: "PAN No.: ABCPE1234F"}
	info = ca.Analyze(u, candidate(u, "ABCPE1234F", detector.PAN))
	assert.Equal(t, "pan", info.Label)
	assert.Equal(t, 1.0, info.Signal)
}

func TestUnitLabelCountsAsLabel(t *testing.T) {
	ca := NewContextAnalyzer(150)
	u := &detector.Unit{Text: "9876543210", Label: "Phone"}
	info := ca.Analyze(u, candidate(u, "9876543210", detector.Mobile))
	assert.Equal(t, "phone", info.Label)
	assert.Equal(t, 1.0, info.Signal)
}

func TestWindowLimitsContext(t *testing.T) {
	ca := NewContextAnalyzer(10)
	u := &detector.Unit{Text: "mobile" + strings.Repeat(" ", 40) + "9876543210"}
	assert.Equal(t, 0.0, ca.Signal(u, candidate(u, "9876543210", detector.Mobile)))
}

func TestSignalIsBounded(t *testing.T) {
	words := append(append([]string{}, noiseKeywords...), "aadhaar", "mobile", "dob", "account", "card", "pin", "name", "xyz")
	rapid.Check(t, func(t *rapid.T) {
		before := rapid.SliceOfN(rapid.SampledFrom(words), 0, 8).Draw(t, "before")
		after := rapid.SliceOfN(rapid.SampledFrom(words), 0, 8).Draw(t, "after")
		cat := rapid.SampledFrom(detector.AllCategories()).Draw(t, "category")

		text := strings.Join(before, " ") + ": 123456789012 " + strings.Join(after, " ")
		u := &detector.Unit{Text: text}
		s := NewContextAnalyzer(150).Signal(u, candidate(u, "123456789012", cat))
		if s < -1 || s > 1 {
			t.Fatalf("signal %v out of range", s)
		}
	})
}
