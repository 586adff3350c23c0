// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"errors"
	"testing"

	"piishield/internal/detector"
	"piishield/internal/preprocessors"
	"piishield/internal/redactors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInput(t *testing.T) Input {
	t.Helper()
	text := "Mobile: 9876543210 card 4111 1111 1111 1111"
	units := []detector.Unit{{Text: text, Origin: detector.Origin{Offset: 0}}}
	scored := []detector.ScoredCandidate{
		{
			Candidate:  detector.Candidate{ID: 0, Category: detector.Mobile, Locator: detector.Locator{Start: 8, End: 18}},
			Confidence: 1.0,
			Decision:   detector.DecisionAccepted,
		},
		{
			Candidate:  detector.Candidate{ID: 1, Category: detector.PaymentCard, Locator: detector.Locator{Start: 24, End: 43}},
			Confidence: 0.8,
			Decision:   detector.DecisionAccepted,
		},
		{
			Candidate:  detector.Candidate{ID: 2, Category: detector.Aadhaar},
			Validation: detector.Inconclusive("verhoeff", "not digits"),
			Decision:   detector.DecisionRejected,
		},
	}
	spans := []detector.Span{
		{Unit: 0, Locators: []detector.Locator{{Start: 8, End: 18}}, Categories: []detector.Category{detector.Mobile}, Members: []int{0}, Confidence: 1.0},
		{Unit: 0, Locators: []detector.Locator{{Start: 24, End: 43}}, Categories: []detector.Category{detector.PaymentCard}, Members: []int{1}, Confidence: 0.8},
	}
	return Input{
		Mode:       ModeRedact,
		Document:   detector.NewDocument("a.txt", detector.FormatText, []byte(text)),
		Extraction: &preprocessors.Extraction{Units: units, PageCount: 1},
		Scored:     scored,
		Spans:      spans,
	}
}

func TestBuildAllApplied(t *testing.T) {
	in := buildInput(t)
	in.Redaction = &redactors.Result{Output: []byte("x"), Applied: []int{0, 1}}

	s := Build(in)
	assert.True(t, s.Success)
	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.SpanCount)
	assert.Equal(t, map[string]int{"MOBILE": 1, "PAYMENT_CARD": 1}, s.Categories)
	assert.InDelta(t, 0.9, s.AverageConfidence, 1e-9)
	assert.Equal(t, Stats{Candidates: 3, Accepted: 2, Rejected: 1, Inconclusive: 1}, s.Stats)
	require.Len(t, s.Units, 1)
	assert.Len(t, s.Units[0].Spans, 2)
	assert.Empty(t, s.Failed)
}

func TestBuildFailedSpan(t *testing.T) {
	in := buildInput(t)
	res := redactors.NewResult()
	res.Output = []byte("x")
	res.Apply(0)
	res.Fail(1, "a.txt", detector.Origin{}, "span has no geometry")
	in.Redaction = res

	s := Build(in)
	assert.False(t, s.Success)
	assert.Equal(t, 1, s.Total)
	require.Len(t, s.Failed, 1)
	assert.Equal(t, 1, s.Failed[0].Span)
	assert.Equal(t, []string{"PAYMENT_CARD"}, s.Failed[0].Categories)
	assert.Contains(t, s.Failed[0].Reason, "span has no geometry")
	assert.NotContains(t, s.Failed[0].Reason, "RedactionSpanUnapplied")
}

func TestBuildScanMode(t *testing.T) {
	in := buildInput(t)
	in.Mode = ModeScan

	s := Build(in)
	assert.True(t, s.Success)
	assert.Equal(t, ModeScan, s.Mode)
	assert.Equal(t, 2, s.Total)
}

func TestVerificationClean(t *testing.T) {
	var v *Verification
	assert.False(t, v.Clean())
	assert.True(t, (&Verification{Masked: 2}).Clean())
	assert.False(t, (&Verification{Residual: 1}).Clean())
	assert.False(t, (&Verification{Error: "boom"}).Clean())
}

func TestReasonFallsBackToError(t *testing.T) {
	assert.Equal(t, "plain", reason(errors.New("plain")))
	assert.Equal(t, "unknown", reason(nil))
}
