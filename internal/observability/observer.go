// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"github.com/rs/zerolog"
)

// StandardObserver implements observability for all pipeline stages
type StandardObserver struct {
	level         ObservabilityLevel
	logger        zerolog.Logger
	metrics       *Metrics
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component. metrics may be nil.
func NewStandardObserver(level ObservabilityLevel, logger zerolog.Logger, metrics *Metrics) *StandardObserver {
	return &StandardObserver{
		level:   level,
		logger:  logger,
		metrics: metrics,
	}
}

// Nop returns an observer that records nothing
func Nop() *StandardObserver {
	return NewStandardObserver(ObservabilityOff, zerolog.Nop(), nil)
}

// Metrics returns the attached metrics, possibly nil
func (o *StandardObserver) Metrics() *Metrics {
	if o == nil {
		return nil
	}
	return o.metrics
}

// Logger returns the observer's logger
func (o *StandardObserver) Logger() zerolog.Logger {
	if o == nil {
		return zerolog.Nop()
	}
	return o.logger
}

// StartTiming returns a function to complete timing. Metadata must never
// carry matched values; counts and identifiers only.
func (o *StandardObserver) StartTiming(component, operation, document string) func(success bool, metadata map[string]interface{}) {
	if o == nil {
		return func(bool, map[string]interface{}) {}
	}
	start := time.Now()

	var finishStep func(bool, string)
	if o.DebugObserver != nil {
		finishStep = o.DebugObserver.StartStep(component, operation, document)
	}

	return func(success bool, metadata map[string]interface{}) {
		duration := time.Since(start)

		o.metrics.ObserveStage(component, duration)
		if finishStep != nil {
			finishStep(success, summarize(metadata))
		}

		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Document:   document,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}

	level := zerolog.InfoLevel
	if o.level == ObservabilityDebug {
		level = zerolog.DebugLevel
	}
	if !data.Success {
		level = zerolog.WarnLevel
	}
	event := o.logger.WithLevel(level)
	event.
		Str("component", data.Component).
		Str("operation", data.Operation).
		Str("document", data.Document).
		Int64("duration_ms", data.DurationMs).
		Bool("success", data.Success)
	if data.Error != "" {
		event.Str("error", data.Error)
	}
	if len(data.Metadata) > 0 {
		event.Fields(data.Metadata)
	}
	event.Msg("operation completed")
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	Document   string                 `json:"document,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
