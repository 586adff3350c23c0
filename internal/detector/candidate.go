// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "sort"

// Candidate is a substring flagged by a syntactic rule, before validation
type Candidate struct {
	ID       int
	Category Category
	Value    string
	Locator  Locator

	// PatternConfidence is the strength of the rule that produced the match
	PatternConfidence float64
	Rule              string
}

// ValidationResult is the outcome of the category validator for one candidate
type ValidationResult struct {
	CandidateID int
	Passed      bool
	Validator   string

	// Normalized is the canonical value, e.g. digits only
	Normalized string

	// Inconclusive is set when the validator could not normalize the input;
	// it always comes with Passed == false.
	Inconclusive bool
	Detail       string
}

// ContextInfo stores contextual information about a candidate
type ContextInfo struct {
	// Text before and after the match, bounded by the context window
	BeforeText string
	AfterText  string

	PositiveKeywords []string
	NegativeKeywords []string

	// Label is set when a positive keyword directly precedes the match
	Label string

	// Signal is the resulting context signal in [-1, 1]
	Signal float64
}

// Decision is what the scorer decided for a candidate
type Decision int

const (
	DecisionAccepted Decision = iota
	DecisionBelowThreshold
	DecisionRejected
	DecisionSuppressed
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionBelowThreshold:
		return "below_threshold"
	case DecisionRejected:
		return "rejected"
	case DecisionSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ScoredCandidate is a candidate with its validation, context and final confidence
type ScoredCandidate struct {
	Candidate  Candidate
	Validation ValidationResult
	Context    ContextInfo
	Confidence float64
	Decision   Decision
}

// Accepted reports whether the candidate goes into the redaction plan
func (s ScoredCandidate) Accepted() bool {
	return s.Decision == DecisionAccepted
}

// Span is a region slated for redaction. Locators never overlap each other and
// are sorted; Categories hold every category of the merged candidates.
type Span struct {
	Unit       int
	Locators   []Locator
	Categories []Category
	Members    []int
	Boxes      []Box
	Confidence float64
}

// Start returns the first byte covered by the span
func (s Span) Start() int {
	if len(s.Locators) == 0 {
		return 0
	}
	return s.Locators[0].Start
}

// End returns the byte after the last one covered by the span
func (s Span) End() int {
	if len(s.Locators) == 0 {
		return 0
	}
	return s.Locators[len(s.Locators)-1].End
}

// PrimaryCategory is the most specific category of the span
func (s Span) PrimaryCategory() Category {
	if len(s.Categories) == 0 {
		return -1
	}
	return s.Categories[0]
}

// SortCategories orders categories by priority, then declaration order
func SortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Priority() != cats[j].Priority() {
			return cats[i].Priority() < cats[j].Priority()
		}
		return cats[i] < cats[j]
	})
}

// Pass builds a passing validation result
func Pass(validator, normalized string) ValidationResult {
	return ValidationResult{Passed: true, Validator: validator, Normalized: normalized}
}

// Fail builds a failing validation result for a value that could be normalized
func Fail(validator, normalized, detail string) ValidationResult {
	return ValidationResult{Validator: validator, Normalized: normalized, Detail: detail}
}

// Inconclusive builds the result for a value the validator could not parse.
// It counts as a failure.
func Inconclusive(validator, detail string) ValidationResult {
	return ValidationResult{Validator: validator, Inconclusive: true, Detail: detail}
}
