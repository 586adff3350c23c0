// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package scoring combines pattern strength, context signal and validation
// into one confidence per candidate and decides whether it is redacted.
package scoring

import (
	"math"
	"strings"
	"time"

	"piishield/internal/config"
	"piishield/internal/detector"
	"piishield/internal/suppressions"
)

// Confidence computes
//
//	clamp(base*patternConfidence + signal*contextWeight + (passed ? bonus : -penalty), 0, 1)
//
// rounded to 1e-9 so that decisions at the threshold do not depend on
// floating point noise.
func Confidence(w config.Weight, patternConfidence, signal float64, passed bool) float64 {
	c := w.Base*patternConfidence + signal*w.ContextWeight
	if passed {
		c += w.ValidationBonus
	} else {
		c -= w.ValidationPenalty
	}
	c = math.Round(c*1e9) / 1e9
	return math.Max(0, math.Min(1, c))
}

// Scorer applies the weights table, the threshold and the allow-list
type Scorer struct {
	weights   config.Weights
	threshold float64
	allowlist *suppressions.SuppressionManager
	now       func() time.Time
}

// NewScorer creates a scorer. allowlist may be nil; now defaults to time.Now.
func NewScorer(weights config.Weights, threshold float64, allowlist *suppressions.SuppressionManager, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{weights: weights, threshold: threshold, allowlist: allowlist, now: now}
}

// Threshold returns the acceptance threshold
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score decides one candidate. Decisions are taken in order: allow-listed
// values are suppressed; a failed mandatory validator without positive
// context rejects; a confidence under the threshold is dropped; the rest is
// accepted.
func (s *Scorer) Score(c detector.Candidate, v detector.ValidationResult, ctx detector.ContextInfo) detector.ScoredCandidate {
	w := s.weights.For(c.Category)
	sc := detector.ScoredCandidate{
		Candidate:  c,
		Validation: v,
		Context:    ctx,
		Confidence: Confidence(w, c.PatternConfidence, ctx.Signal, v.Passed),
	}
	sc.Validation.CandidateID = c.ID

	normalized := v.Normalized
	if normalized == "" {
		normalized = strings.TrimSpace(c.Value)
	}

	switch {
	case s.suppressed(c.Category, normalized):
		sc.Decision = detector.DecisionSuppressed
	case c.Category.MandatoryValidator() && !v.Passed && ctx.Signal <= 0:
		sc.Decision = detector.DecisionRejected
	case sc.Confidence < s.threshold:
		sc.Decision = detector.DecisionBelowThreshold
	default:
		sc.Decision = detector.DecisionAccepted
	}
	return sc
}

func (s *Scorer) suppressed(cat detector.Category, normalized string) bool {
	if s.allowlist == nil {
		return false
	}
	ok, _ := s.allowlist.IsSuppressed(cat, normalized, s.now())
	return ok
}

// ScoreAll scores index-aligned candidates, validations and contexts
func (s *Scorer) ScoreAll(cands []detector.Candidate, vals []detector.ValidationResult, ctxs []detector.ContextInfo) []detector.ScoredCandidate {
	out := make([]detector.ScoredCandidate, len(cands))
	for i, c := range cands {
		var v detector.ValidationResult
		if i < len(vals) {
			v = vals[i]
		}
		var ctx detector.ContextInfo
		if i < len(ctxs) {
			ctx = ctxs[i]
		}
		out[i] = s.Score(c, v, ctx)
	}
	return out
}

// Accepted filters the accepted candidates, keeping order
func Accepted(scored []detector.ScoredCandidate) []detector.ScoredCandidate {
	var out []detector.ScoredCandidate
	for _, sc := range scored {
		if sc.Accepted() {
			out = append(out, sc)
		}
	}
	return out
}
