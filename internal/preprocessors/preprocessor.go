// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package preprocessors turns documents into normalized units of text with
// enough position information to redact them later.
package preprocessors

import (
	"context"
	"fmt"

	"piishield/internal/detector"
	"piishield/internal/observability"
)

// Degradation records content that could only be partly extracted
type Degradation struct {
	Unit   int             `json:"unit"`
	Origin detector.Origin `json:"origin"`
	Reason string          `json:"reason"`
}

// Err wraps the degradation in the pipeline error taxonomy
func (d Degradation) Err(document string) error {
	return detector.NewPipelineError(detector.KindExtractionDegraded, "extract", document,
		fmt.Sprintf("%s: %s", d.Origin, d.Reason), nil)
}

// Extraction is the output of an extractor
type Extraction struct {
	Units        []detector.Unit
	Degradations []Degradation
	PageCount    int
}

// Degraded reports whether any content was only partly extracted
func (e *Extraction) Degraded() bool {
	return len(e.Degradations) > 0
}

// addUnit appends a unit and keeps Index equal to its position
func (e *Extraction) addUnit(u detector.Unit) int {
	u.Index = len(e.Units)
	e.Units = append(e.Units, u)
	return u.Index
}

func (e *Extraction) degrade(unit int, origin detector.Origin, reason string) {
	e.Degradations = append(e.Degradations, Degradation{Unit: unit, Origin: origin, Reason: reason})
}

// Extractor defines the interface for format extractors
type Extractor interface {
	// Name returns the name of this extractor
	Name() string

	// Formats returns the format tags this extractor handles
	Formats() []detector.Format

	// Extract reads the document. Unparsable structure is reported as a
	// CorruptDocument error; partial content goes into Degradations.
	Extract(ctx context.Context, doc *detector.Document) (*Extraction, error)
}

// Registry maps formats to extractors. It is built per engine.
type Registry struct {
	byFormat map[detector.Format]Extractor
	observer *observability.StandardObserver
}

// NewRegistry creates a registry holding the given extractors
func NewRegistry(observer *observability.StandardObserver, extractors ...Extractor) *Registry {
	r := &Registry{byFormat: make(map[detector.Format]Extractor), observer: observer}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor; a later extractor replaces an earlier one for the same format
func (r *Registry) Register(e Extractor) {
	for _, f := range e.Formats() {
		r.byFormat[f] = e
	}
}

// For returns the extractor of a format
func (r *Registry) For(f detector.Format) (Extractor, bool) {
	e, ok := r.byFormat[f]
	return e, ok
}

// Extract runs the extractor of the document format
func (r *Registry) Extract(ctx context.Context, doc *detector.Document) (*Extraction, error) {
	e, ok := r.For(doc.Format)
	if !ok {
		return nil, detector.Unsupported("extract", doc.Name, doc.Format)
	}

	finish := r.observer.StartTiming("extractor", e.Name(), doc.Name)
	ext, err := e.Extract(ctx, doc)
	if err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	for i := range ext.Units {
		ext.Units[i].Index = i
	}
	finish(true, map[string]interface{}{
		"units":        len(ext.Units),
		"degradations": len(ext.Degradations),
	})
	return ext, nil
}
