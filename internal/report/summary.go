// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report aggregates one engine run into a Summary. A Summary never
// carries matched text: spans are described by position, category and
// confidence only.
package report

import (
	"errors"
	"time"

	"piishield/internal/detector"
	"piishield/internal/preprocessors"
	"piishield/internal/redactors"

	"github.com/google/uuid"
)

// Mode names what a run did
type Mode string

const (
	ModeRedact Mode = "redact"
	ModeScan   Mode = "scan"
)

// Summary is the structured report of one document
type Summary struct {
	RunID    string          `json:"run_id" yaml:"run_id"`
	Mode     Mode            `json:"mode" yaml:"mode"`
	Document string          `json:"document" yaml:"document"`
	Format   detector.Format `json:"format" yaml:"format"`
	Output   string          `json:"output,omitempty" yaml:"output,omitempty"`

	// Success is false whenever a planned span was not applied or no output
	// was produced
	Success bool `json:"success" yaml:"success"`

	// Total is the number of accepted candidates covered by applied spans
	Total      int            `json:"total" yaml:"total"`
	SpanCount  int            `json:"span_count" yaml:"span_count"`
	Categories map[string]int `json:"categories" yaml:"categories"`

	Units  []UnitReport `json:"units" yaml:"units"`
	Failed []FailedSpan `json:"failed,omitempty" yaml:"failed,omitempty"`

	AverageConfidence float64       `json:"average_confidence" yaml:"average_confidence"`
	Duration          time.Duration `json:"-" yaml:"-"`
	DurationMillis    int64         `json:"duration_ms" yaml:"duration_ms"`

	PageCount    int           `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	Degraded     bool          `json:"degraded" yaml:"degraded"`
	Degradations []Degradation `json:"degradations,omitempty" yaml:"degradations,omitempty"`

	Stats        Stats         `json:"stats" yaml:"stats"`
	Verification *Verification `json:"verification,omitempty" yaml:"verification,omitempty"`
}

// Stats counts candidates by outcome
type Stats struct {
	Candidates     int `json:"candidates" yaml:"candidates"`
	Accepted       int `json:"accepted" yaml:"accepted"`
	BelowThreshold int `json:"below_threshold" yaml:"below_threshold"`
	Rejected       int `json:"rejected" yaml:"rejected"`
	Suppressed     int `json:"suppressed" yaml:"suppressed"`
	Inconclusive   int `json:"inconclusive" yaml:"inconclusive"`
}

// UnitReport lists the spans of one unit
type UnitReport struct {
	Unit          int             `json:"unit" yaml:"unit"`
	Origin        detector.Origin `json:"origin" yaml:"origin"`
	Source        detector.Source `json:"source" yaml:"source"`
	LowConfidence bool            `json:"low_confidence,omitempty" yaml:"low_confidence,omitempty"`
	Spans         []SpanReport    `json:"spans" yaml:"spans"`
}

// SpanReport describes one span without its text
type SpanReport struct {
	Locators   []detector.Locator `json:"locators" yaml:"locators"`
	Categories []string           `json:"categories" yaml:"categories"`
	Candidates int                `json:"candidates" yaml:"candidates"`
	Confidence float64            `json:"confidence" yaml:"confidence"`
	Boxes      []detector.Box     `json:"boxes,omitempty" yaml:"boxes,omitempty"`
}

// FailedSpan is a planned span the redactor could not apply
type FailedSpan struct {
	Span       int                `json:"span" yaml:"span"`
	Unit       int                `json:"unit" yaml:"unit"`
	Origin     detector.Origin    `json:"origin" yaml:"origin"`
	Locators   []detector.Locator `json:"locators" yaml:"locators"`
	Categories []string           `json:"categories" yaml:"categories"`
	Reason     string             `json:"reason" yaml:"reason"`
}

// Degradation is content that was only partly extracted
type Degradation struct {
	Unit   int             `json:"unit" yaml:"unit"`
	Origin detector.Origin `json:"origin" yaml:"origin"`
	Reason string          `json:"reason" yaml:"reason"`
}

// Verification is the outcome of re-scanning the sanitized output
type Verification struct {
	// Residual counts accepted candidates still readable in the output
	Residual int `json:"residual" yaml:"residual"`

	// Masked counts accepted candidates left in a retained text layer but
	// lying under an applied mask
	Masked int `json:"masked" yaml:"masked"`

	Categories map[string]int `json:"categories,omitempty" yaml:"categories,omitempty"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Clean reports whether the re-scan found nothing readable
func (v *Verification) Clean() bool {
	return v != nil && v.Error == "" && v.Residual == 0
}

// Input is everything a Summary is built from
type Input struct {
	Mode       Mode
	Document   *detector.Document
	Extraction *preprocessors.Extraction
	Scored     []detector.ScoredCandidate
	Spans      []detector.Span

	// Redaction is nil in scan mode
	Redaction *redactors.Result
	Duration  time.Duration
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.NewString()
}

// Build aggregates a run. In scan mode every planned span is reported as if
// applied and Success only depends on the extraction.
func Build(in Input) *Summary {
	s := &Summary{
		RunID:          NewRunID(),
		Mode:           in.Mode,
		Format:         in.Document.Format,
		Document:       in.Document.Name,
		Categories:     make(map[string]int),
		Units:          []UnitReport{},
		Duration:       in.Duration,
		DurationMillis: in.Duration.Milliseconds(),
	}
	if s.Mode == "" {
		s.Mode = ModeRedact
	}

	var units []detector.Unit
	if in.Extraction != nil {
		units = in.Extraction.Units
		s.PageCount = in.Extraction.PageCount
		s.Degraded = in.Extraction.Degraded()
		for _, d := range in.Extraction.Degradations {
			s.Degradations = append(s.Degradations, Degradation(d))
		}
	}

	byID := make(map[int]detector.ScoredCandidate, len(in.Scored))
	for _, sc := range in.Scored {
		byID[sc.Candidate.ID] = sc
		s.Stats.Candidates++
		switch sc.Decision {
		case detector.DecisionAccepted:
			s.Stats.Accepted++
		case detector.DecisionBelowThreshold:
			s.Stats.BelowThreshold++
		case detector.DecisionRejected:
			s.Stats.Rejected++
		case detector.DecisionSuppressed:
			s.Stats.Suppressed++
		}
		if sc.Validation.Inconclusive {
			s.Stats.Inconclusive++
		}
	}

	failed := make(map[int]string)
	applied := make(map[int]bool)
	if in.Redaction != nil {
		for _, f := range in.Redaction.Failed {
			failed[f.Span] = reason(f.Err)
		}
		for _, a := range in.Redaction.Applied {
			applied[a] = true
		}
	}

	unitPos := make(map[int]int)
	var confSum float64
	for i, span := range in.Spans {
		if r, ok := failed[i]; ok {
			fs := FailedSpan{
				Span:       i,
				Unit:       span.Unit,
				Origin:     redactors.Origin(units, span),
				Locators:   span.Locators,
				Categories: names(span.Categories),
				Reason:     r,
			}
			s.Failed = append(s.Failed, fs)
			continue
		}
		if in.Redaction != nil && !applied[i] {
			continue
		}

		s.SpanCount++
		for _, id := range span.Members {
			sc, ok := byID[id]
			if !ok {
				continue
			}
			s.Total++
			s.Categories[sc.Candidate.Category.String()]++
			confSum += sc.Confidence
		}

		pos, ok := unitPos[span.Unit]
		if !ok {
			ur := UnitReport{Unit: span.Unit, Spans: []SpanReport{}}
			if span.Unit >= 0 && span.Unit < len(units) {
				u := units[span.Unit]
				ur.Origin, ur.Source, ur.LowConfidence = u.Origin, u.Source, u.LowConfidence
			}
			s.Units = append(s.Units, ur)
			pos = len(s.Units) - 1
			unitPos[span.Unit] = pos
		}
		s.Units[pos].Spans = append(s.Units[pos].Spans, SpanReport{
			Locators:   span.Locators,
			Categories: names(span.Categories),
			Candidates: len(span.Members),
			Confidence: span.Confidence,
			Boxes:      span.Boxes,
		})
	}

	if s.Total > 0 {
		s.AverageConfidence = confSum / float64(s.Total)
	}
	if in.Redaction != nil {
		s.Success = len(s.Failed) == 0 && in.Redaction.Output != nil
	} else {
		s.Success = true
	}
	return s
}

func names(cats []detector.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.String()
	}
	return out
}

// reason drops the taxonomy prefix of a span failure
func reason(err error) string {
	var pe *detector.PipelineError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
