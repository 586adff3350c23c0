// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"errors"
	"fmt"
)

// Sentinel errors of the pipeline taxonomy. Only ErrUnsupportedFormat and
// ErrCorruptDocument abort an invocation; the others are reported in the summary.
var (
	ErrUnsupportedFormat      = errors.New("unsupported format")
	ErrCorruptDocument        = errors.New("corrupt document")
	ErrExtractionDegraded     = errors.New("extraction degraded")
	ErrValidationInconclusive = errors.New("validation inconclusive")
	ErrRedactionSpanUnapplied = errors.New("redaction span unapplied")
)

// ErrorKind identifies the taxonomy entry of a PipelineError
type ErrorKind int

const (
	KindUnsupportedFormat ErrorKind = iota
	KindCorruptDocument
	KindExtractionDegraded
	KindValidationInconclusive
	KindRedactionSpanUnapplied
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindCorruptDocument:
		return "CorruptDocument"
	case KindExtractionDegraded:
		return "ExtractionDegraded"
	case KindValidationInconclusive:
		return "ValidationInconclusive"
	case KindRedactionSpanUnapplied:
		return "RedactionSpanUnapplied"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindCorruptDocument:
		return ErrCorruptDocument
	case KindExtractionDegraded:
		return ErrExtractionDegraded
	case KindValidationInconclusive:
		return ErrValidationInconclusive
	case KindRedactionSpanUnapplied:
		return ErrRedactionSpanUnapplied
	default:
		return nil
	}
}

// Fatal reports whether errors of this kind abort the pipeline
func (k ErrorKind) Fatal() bool {
	return k == KindUnsupportedFormat || k == KindCorruptDocument
}

// PipelineError carries the taxonomy kind, the stage that raised it and the cause
type PipelineError struct {
	Kind     ErrorKind
	Stage    string
	Document string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Stage)
	if e.Document != "" {
		msg += " (" + e.Document + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the cause
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches the taxonomy sentinel of the error kind
func (e *PipelineError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewPipelineError creates a PipelineError
func NewPipelineError(kind ErrorKind, stage, document, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:     kind,
		Stage:    stage,
		Document: document,
		Message:  message,
		Err:      cause,
	}
}

// Unsupported builds an UnsupportedFormat error
func Unsupported(stage, document string, format Format) *PipelineError {
	return NewPipelineError(KindUnsupportedFormat, stage, document, fmt.Sprintf("format %q is not supported", format), nil)
}

// Corrupt builds a CorruptDocument error
func Corrupt(stage, document string, cause error) *PipelineError {
	return NewPipelineError(KindCorruptDocument, stage, document, "cannot parse document structure", cause)
}

// KindOf returns the taxonomy kind of err, if any
func KindOf(err error) (ErrorKind, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	for _, k := range []ErrorKind{KindUnsupportedFormat, KindCorruptDocument, KindExtractionDegraded, KindValidationInconclusive, KindRedactionSpanUnapplied} {
		if errors.Is(err, k.sentinel()) {
			return k, true
		}
	}
	return 0, false
}
