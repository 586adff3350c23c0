// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core wires the pipeline stages into the redaction engine:
// extract, match, analyze context, validate, score, plan, redact, report.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"piishield/internal/config"
	pcontext "piishield/internal/context"
	"piishield/internal/detector"
	"piishield/internal/matcher"
	"piishield/internal/observability"
	"piishield/internal/planner"
	"piishield/internal/preprocessors"
	ocr "piishield/internal/preprocessors/ocr-extractors/ocr-extract-tesseractlib"
	"piishield/internal/redactors"
	imageredactor "piishield/internal/redactors/image"
	"piishield/internal/redactors/office"
	pdfredactor "piishield/internal/redactors/pdf"
	"piishield/internal/redactors/plaintext"
	"piishield/internal/redactors/replacement"
	"piishield/internal/redactors/spreadsheet"
	"piishield/internal/report"
	"piishield/internal/scoring"
	"piishield/internal/suppressions"
	"piishield/internal/validators"
)

// Engine runs the pipeline. It holds no per-document state and may be used
// from several goroutines.
type Engine struct {
	logger     zerolog.Logger
	observer   *observability.StandardObserver
	recognizer ocr.Recognizer
	allowlist  *suppressions.SuppressionManager
	now        func() time.Time

	// recognizerSet is true when the caller chose the recognizer, nil included
	recognizerSet bool
	allowlistSet  bool
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger. The engine logs counts and positions, never
// matched values.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver sets the timing and metrics observer
func WithObserver(o *observability.StandardObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// WithRecognizer replaces the OCR engine built from the configuration. A nil
// recognizer disables OCR.
func WithRecognizer(r ocr.Recognizer) Option {
	return func(e *Engine) {
		e.recognizer = r
		e.recognizerSet = true
	}
}

// WithAllowlist replaces the allow-list loaded from Config.Allowlist
func WithAllowlist(sm *suppressions.SuppressionManager) Option {
	return func(e *Engine) {
		e.allowlist = sm
		e.allowlistSet = true
	}
}

// WithClock sets the clock used for date validation and allow-list expiry
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:   zerolog.Nop(),
		observer: observability.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one document
type Result struct {
	// Output is the sanitized document; nil in scan mode or when the
	// redactor could not produce one
	Output  []byte
	Summary *report.Summary

	Extraction *preprocessors.Extraction
	Scored     []detector.ScoredCandidate
	Spans      []detector.Span
}

// pipeline is the per-invocation set of stages built from one Config
type pipeline struct {
	cfg        *config.Config
	extractors *preprocessors.Registry
	matcher    *matcher.Matcher
	analyzer   *pcontext.ContextAnalyzer
	validators *validators.Set
	scorer     *scoring.Scorer
	redactors  *redactors.Registry
	options    redactors.Options
}

func (e *Engine) build(cfg *config.Config) (*pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	style, err := replacement.ParseStyle(cfg.Placeholder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	allowlist := e.allowlist
	if !e.allowlistSet {
		allowlist, err = suppressions.NewSuppressionManager(cfg.Allowlist)
		if err != nil {
			return nil, err
		}
	}

	recognizer := e.recognizer
	if !e.recognizerSet && cfg.OCR.Enabled {
		recognizer = e.defaultRecognizer(cfg.OCR)
	}

	workers := cfg.WorkerCount()
	limits := preprocessors.DefaultResourceLimits()
	return &pipeline{
		cfg: cfg,
		extractors: preprocessors.NewRegistry(e.observer,
			preprocessors.NewPlainTextPreprocessor(),
			preprocessors.NewOfficePreprocessor(),
			preprocessors.NewSpreadsheetPreprocessor(),
			preprocessors.NewPDFPreprocessor(recognizer, cfg.OCR.MinConfidence, workers, limits, e.observer),
			preprocessors.NewImagePreprocessor(recognizer, cfg.OCR.MinConfidence, limits),
		),
		matcher:    matcher.New(cfg.EnabledCategories()),
		analyzer:   pcontext.NewContextAnalyzer(cfg.ContextWindow),
		validators: validators.NewSet(e.now),
		scorer:     scoring.NewScorer(cfg.Weights, cfg.ConfidenceThreshold, allowlist, e.now),
		redactors: redactors.NewRegistry(
			plaintext.NewPlainTextRedactor(),
			office.NewOfficeRedactor(),
			spreadsheet.NewSpreadsheetRedactor(),
			pdfredactor.NewPDFRedactor(),
			imageredactor.NewImageRedactor(),
		),
		options: redactors.Options{
			Replacer: replacement.New(style, cfg.FixedText),
			Color:    cfg.RedactionColor,
			Workers:  workers,
			Observer: e.observer,
		},
	}, nil
}

// defaultRecognizer returns the Tesseract recognizer, or nil when this build
// or host has none
func (e *Engine) defaultRecognizer(c config.OCRConfig) ocr.Recognizer {
	t, err := ocr.New(ocr.Options{Languages: c.Languages, Preprocess: c.Preprocess})
	if err != nil {
		if !errors.Is(err, ocr.ErrUnavailable) {
			e.logger.Warn().Err(err).Msg("OCR disabled")
		}
		return nil
	}
	return t
}

// Process redacts doc. Only UnsupportedFormat, CorruptDocument, an invalid
// configuration and cancellation are returned as errors; every other problem
// is reported in the summary.
func (e *Engine) Process(ctx context.Context, doc *detector.Document, cfg *config.Config) (*Result, error) {
	return e.run(ctx, doc, cfg, report.ModeRedact)
}

// Scan runs the detection stages only and reports the spans that would be
// redacted
func (e *Engine) Scan(ctx context.Context, doc *detector.Document, cfg *config.Config) (*Result, error) {
	return e.run(ctx, doc, cfg, report.ModeScan)
}

func (e *Engine) run(ctx context.Context, doc *detector.Document, cfg *config.Config, mode report.Mode) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := e.now()
	p, err := e.build(cfg)
	if err != nil {
		return nil, err
	}
	metrics := e.observer.Metrics()
	log := e.logger.With().Str("document", doc.Name).Str("format", string(doc.Format)).Str("mode", string(mode)).Logger()

	if !p.cfg.Supports(doc.Format) {
		metrics.RecordDocument(string(doc.Format), "unsupported")
		return nil, detector.Unsupported("extract", doc.Name, doc.Format)
	}

	stage := time.Now()
	ext, err := p.extractors.Extract(ctx, doc)
	metrics.ObserveStage("extract", time.Since(stage))
	if err != nil {
		status := "error"
		if kind, ok := detector.KindOf(err); ok {
			status = kind.String()
		}
		metrics.RecordDocument(string(doc.Format), status)
		return nil, err
	}
	for _, d := range ext.Degradations {
		metrics.RecordDegradation(string(doc.Format))
		log.Warn().Stringer("origin", d.Origin).Str("reason", d.Reason).Msg("extraction degraded")
	}

	stage = time.Now()
	scored := p.detect(ext.Units)
	metrics.ObserveStage("detect", time.Since(stage))
	for _, sc := range scored {
		metrics.RecordCandidate(sc.Candidate.Category.String(), sc.Decision.String())
	}

	spans := planner.Plan(ext.Units, scored)
	res := &Result{Extraction: ext, Scored: scored, Spans: spans}

	var redaction *redactors.Result
	if mode == report.ModeRedact {
		stage = time.Now()
		redaction, err = p.redactors.Redact(ctx, doc, ext.Units, spans, p.options)
		metrics.ObserveStage("redact", time.Since(stage))
		if err != nil {
			metrics.RecordDocument(string(doc.Format), "error")
			return nil, err
		}
		metrics.RecordSpans(len(redaction.Applied), len(redaction.Failed))
		res.Output = redaction.Output
		for _, f := range redaction.Failed {
			log.Error().Int("span", f.Span).Err(f.Err).Msg("span not redacted")
		}
	}

	summary := report.Build(report.Input{
		Mode:       mode,
		Document:   doc,
		Extraction: ext,
		Scored:     scored,
		Spans:      spans,
		Redaction:  redaction,
	})

	if mode == report.ModeRedact && p.cfg.VerifyOutput && res.Output != nil {
		stage = time.Now()
		summary.Verification = p.verify(ctx, doc, res.Output, ext.Units, spans, redaction)
		metrics.ObserveStage("verify", time.Since(stage))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !summary.Verification.Clean() {
			summary.Success = false
			log.Warn().Int("residual", summary.Verification.Residual).Str("error", summary.Verification.Error).Msg("output verification failed")
		}
	}

	summary.Duration = e.now().Sub(start)
	summary.DurationMillis = summary.Duration.Milliseconds()
	res.Summary = summary

	status := "success"
	if !summary.Success {
		status = "partial"
	}
	metrics.RecordDocument(string(doc.Format), status)
	log.Info().
		Str("run_id", summary.RunID).
		Int("candidates", summary.Stats.Candidates).
		Int("spans", len(spans)).
		Int("failed", len(summary.Failed)).
		Bool("success", summary.Success).
		Msg("document processed")
	return res, nil
}

// detect runs match, context, validation and scoring over units
func (p *pipeline) detect(units []detector.Unit) []detector.ScoredCandidate {
	cands := p.matcher.Match(units)
	vals := p.validators.ValidateAll(cands)
	ctxs := p.analyzer.AnalyzeAll(units, cands)
	return p.scorer.ScoreAll(cands, vals, ctxs)
}
