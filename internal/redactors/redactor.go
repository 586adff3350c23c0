// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redactors defines the contract of the format redactors and the
// bookkeeping shared by all of them. Redactors fail closed: every span of the
// plan is either applied or reported as failed.
package redactors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"piishield/internal/config"
	"piishield/internal/detector"
	"piishield/internal/observability"
	"piishield/internal/redactors/replacement"
)

// Options carries the per-invocation settings of a redaction
type Options struct {
	Replacer *replacement.Replacer
	Color    config.Color

	// Workers bounds page and cell parallelism; 0 means runtime.NumCPU()
	Workers  int
	Observer *observability.StandardObserver
}

// Placeholder returns the text written over a span
func (o Options) Placeholder(original string, span detector.Span) string {
	r := o.Replacer
	if r == nil {
		r = replacement.New(replacement.Label, "")
	}
	return r.Generate(original, span.Categories)
}

// Splice returns text with the ranges of the selected spans replaced by their
// placeholders. The spans must address text and must not overlap.
func Splice(text string, spans []detector.Span, selected []int, opts Options) string {
	order := append([]int(nil), selected...)
	sort.Slice(order, func(i, j int) bool { return spans[order[i]].Start() < spans[order[j]].Start() })

	var b strings.Builder
	cursor := 0
	for _, si := range order {
		span := spans[si]
		start, end := max(span.Start(), cursor), min(span.End(), len(text))
		if start >= end {
			continue
		}
		b.WriteString(text[cursor:start])
		b.WriteString(opts.Placeholder(text[span.Start():end], span))
		cursor = end
	}
	b.WriteString(text[cursor:])
	return b.String()
}

// Redactor interface defines the contract for all redactor implementations
type Redactor interface {
	// Name returns the name of the redactor
	Name() string

	// Formats returns the format tags this redactor handles
	Formats() []detector.Format

	// Redact returns a sanitized copy of doc with every span removed or
	// covered. The input document is never modified.
	Redact(ctx context.Context, doc *detector.Document, units []detector.Unit, spans []detector.Span, opts Options) (*Result, error)
}

// SpanFailure reports a span that could not be applied
type SpanFailure struct {
	Span int
	Err  error
}

// Result contains the results of a redaction operation
type Result struct {
	// Output is the sanitized document
	Output []byte

	// Applied lists the indexes of spans written to the output
	Applied []int

	// Failed lists the spans that were not applied
	Failed []SpanFailure
}

// NewResult creates an empty result
func NewResult() *Result {
	return &Result{}
}

// Apply marks a span as applied
func (r *Result) Apply(span int) {
	r.Applied = append(r.Applied, span)
}

// Fail marks a span as not applied
func (r *Result) Fail(span int, document string, origin detector.Origin, reason string) {
	r.Failed = append(r.Failed, SpanFailure{
		Span: span,
		Err: detector.NewPipelineError(detector.KindRedactionSpanUnapplied, "redact", document,
			fmt.Sprintf("span %d at %s: %s", span, origin, reason), nil),
	})
}

// FailAll marks every span not yet accounted for as failed
func (r *Result) FailAll(n int, document string, units []detector.Unit, spans []detector.Span, reason string) {
	seen := r.accounted()
	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		r.Fail(i, document, Origin(units, spans[i]), reason)
	}
	r.Sort()
}

// Complete reports whether every one of n spans is applied
func (r *Result) Complete(n int) bool {
	return len(r.Failed) == 0 && len(r.Applied) == n
}

// Sort orders Applied and Failed by span index
func (r *Result) Sort() {
	sort.Ints(r.Applied)
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Span < r.Failed[j].Span })
}

func (r *Result) accounted() map[int]bool {
	seen := make(map[int]bool, len(r.Applied)+len(r.Failed))
	for _, i := range r.Applied {
		seen[i] = true
	}
	for _, f := range r.Failed {
		seen[f.Span] = true
	}
	return seen
}

// Origin returns the origin of the unit a span belongs to
func Origin(units []detector.Unit, span detector.Span) detector.Origin {
	if span.Unit >= 0 && span.Unit < len(units) {
		return units[span.Unit].Origin
	}
	return detector.Origin{}
}

// Registry maps formats to redactors. It is built per engine.
type Registry struct {
	byFormat map[detector.Format]Redactor
}

// NewRegistry creates a registry holding the given redactors
func NewRegistry(redactors ...Redactor) *Registry {
	r := &Registry{byFormat: make(map[detector.Format]Redactor)}
	for _, red := range redactors {
		for _, f := range red.Formats() {
			r.byFormat[f] = red
		}
	}
	return r
}

// For returns the redactor of a format
func (r *Registry) For(f detector.Format) (Redactor, bool) {
	red, ok := r.byFormat[f]
	return red, ok
}

// Redact runs the redactor of the document format and checks that every span
// was accounted for. A redactor error fails every outstanding span and yields
// no output.
func (r *Registry) Redact(ctx context.Context, doc *detector.Document, units []detector.Unit, spans []detector.Span, opts Options) (*Result, error) {
	red, ok := r.For(doc.Format)
	if !ok {
		return nil, detector.Unsupported("redact", doc.Name, doc.Format)
	}

	finish := opts.Observer.StartTiming("redactor", red.Name(), doc.Name)
	res, err := red.Redact(ctx, doc, units, spans, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			finish(false, map[string]interface{}{"error": ctxErr.Error()})
			return nil, ctxErr
		}
		failed := NewResult()
		failed.FailAll(len(spans), doc.Name, units, spans, err.Error())
		finish(false, map[string]interface{}{"error": err.Error(), "failed": len(spans)})
		return failed, nil
	}

	res.FailAll(len(spans), doc.Name, units, spans, "span not handled by redactor")
	finish(len(res.Failed) == 0, map[string]interface{}{
		"applied": len(res.Applied),
		"failed":  len(res.Failed),
	})
	return res, nil
}
