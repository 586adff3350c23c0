// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the engine. All methods are safe
// on a nil receiver so callers can run without metrics.
type Metrics struct {
	documentsTotal    *prometheus.CounterVec
	candidatesTotal   *prometheus.CounterVec
	spansTotal        *prometheus.CounterVec
	degradationsTotal *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics instance on its own registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		documentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "piishield_documents_total",
				Help: "Documents processed by format and status",
			},
			[]string{"format", "status"},
		),
		candidatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "piishield_candidates_total",
				Help: "Scored candidates by category and decision",
			},
			[]string{"category", "decision"},
		),
		spansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "piishield_spans_total",
				Help: "Redaction spans by result",
			},
			[]string{"result"},
		),
		degradationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "piishield_degradations_total",
				Help: "Extraction degradations by format",
			},
			[]string{"format"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "piishield_stage_duration_seconds",
				Help:    "Pipeline stage latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.documentsTotal,
		m.candidatesTotal,
		m.spansTotal,
		m.degradationsTotal,
		m.stageDuration,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordDocument counts one processed document
func (m *Metrics) RecordDocument(format, status string) {
	if m == nil {
		return
	}
	m.documentsTotal.WithLabelValues(format, status).Inc()
}

// RecordCandidate counts one scored candidate
func (m *Metrics) RecordCandidate(category, decision string) {
	if m == nil {
		return
	}
	m.candidatesTotal.WithLabelValues(category, decision).Inc()
}

// RecordSpans counts applied and failed spans
func (m *Metrics) RecordSpans(applied, failed int) {
	if m == nil {
		return
	}
	m.spansTotal.WithLabelValues("applied").Add(float64(applied))
	m.spansTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordDegradation counts one extraction degradation
func (m *Metrics) RecordDegradation(format string) {
	if m == nil {
		return
	}
	m.degradationsTotal.WithLabelValues(format).Inc()
}

// ObserveStage records the latency of a pipeline stage
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextfile dumps the metrics in the text exposition format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
