// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"piishield/internal/config"
	"piishield/internal/core"
	"piishield/internal/detector"
	"piishield/internal/formatters"
	"piishield/internal/logging"
	"piishield/internal/observability"
	"piishield/internal/paths"
	"piishield/internal/report"
)

// runOptions are the flags of redact and scan
type runOptions struct {
	outDir      string
	recursive   bool
	workers     int
	categories  []string
	threshold   float64
	placeholder string
	fixedText   string
	color       string
	allowlist   string
	docFormat   string
	noVerify    bool
	noOCR       bool
}

func newRedactCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "redact PATH...",
		Short: "Write sanitized copies of documents",
		Long: `Redact detects PII in every document and writes a sanitized copy named
<name>_redacted_<timestamp><ext>, next to the input or mirrored below --out-dir.
The exit status is 1 when any document could not be fully redacted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocuments(cmd, opts, ro, report.ModeRedact, args, stdout, stderr)
		},
	}
	addRunFlags(cmd, ro)
	cmd.Flags().StringVar(&ro.outDir, "out-dir", "", "Mirror outputs below this directory instead of writing them next to the inputs")
	cmd.Flags().StringVar(&ro.placeholder, "placeholder", "", "Placeholder style: label, fixed or mask")
	cmd.Flags().StringVar(&ro.fixedText, "fixed-text", "", "Text of the fixed placeholder style")
	cmd.Flags().StringVar(&ro.color, "color", "", "Redaction color as #rrggbb")
	cmd.Flags().BoolVar(&ro.noVerify, "no-verify", false, "Skip re-scanning the sanitized output")
	return cmd
}

func newScanCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "scan PATH...",
		Short: "Report the PII that redact would remove, without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocuments(cmd, opts, ro, report.ModeScan, args, stdout, stderr)
		},
	}
	addRunFlags(cmd, ro)
	return cmd
}

func addRunFlags(cmd *cobra.Command, ro *runOptions) {
	f := cmd.Flags()
	f.BoolVarP(&ro.recursive, "recursive", "r", false, "Descend into subdirectories")
	f.IntVar(&ro.workers, "workers", 0, "Documents processed at once (0 means one per CPU)")
	f.StringSliceVar(&ro.categories, "categories", nil, "Comma-separated categories to detect (default all)")
	f.Float64Var(&ro.threshold, "threshold", 0, "Confidence threshold between 0 and 1")
	f.StringVar(&ro.allowlist, "allowlist", "", "Allow-list file of known dummy values")
	f.StringVar(&ro.docFormat, "input-format", "", "Treat every input as this format (pdf, image, docx, xlsx, txt)")
	f.BoolVar(&ro.noOCR, "no-ocr", false, "Disable text recognition for images and scanned pages")
}

// loadConfiguration loads the configuration file, searching the standard
// locations when none was named
func loadConfiguration(configFile string) (*config.Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	return config.LoadConfig(configPath)
}

// applyFlags overrides cfg with the flags set on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config, ro *runOptions, mode report.Mode) ([]string, error) {
	flags := cmd.Flags()
	var unknown []string
	if flags.Changed("categories") {
		cfg.Categories, unknown = core.ParseCategories(ro.categories)
	}
	if flags.Changed("threshold") {
		cfg.ConfidenceThreshold = ro.threshold
	}
	if flags.Changed("workers") {
		cfg.Workers = ro.workers
	}
	if flags.Changed("allowlist") {
		cfg.Allowlist = paths.NormalizePath(ro.allowlist)
	}
	if ro.noOCR {
		cfg.OCR.Enabled = false
	}
	if mode == report.ModeRedact {
		if flags.Changed("placeholder") {
			cfg.Placeholder = ro.placeholder
		}
		if flags.Changed("fixed-text") {
			cfg.FixedText = ro.fixedText
		}
		if flags.Changed("color") {
			c, err := config.ParseColor(ro.color)
			if err != nil {
				return nil, err
			}
			cfg.RedactionColor = c
		}
		if ro.noVerify {
			cfg.VerifyOutput = false
		}
	}
	if cfg.Allowlist == "" {
		cfg.Allowlist = paths.GetAllowlistFile()
	}
	return unknown, cfg.Validate()
}

func newLogger(opts *globalOptions, cfg *config.Config, stderr io.Writer) zerolog.Logger {
	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if opts.quiet {
		level = "error"
	}
	if opts.debug {
		level = "debug"
	}
	pretty := cfg.Logging.Pretty
	if f, ok := stderr.(*os.File); ok && isTerminal(f) {
		pretty = true
	}
	return logging.New(logging.Config{
		Level:   level,
		Pretty:  pretty,
		NoColor: !colorEnabled(stderr, opts.noColor),
	}, stderr)
}

func newObserver(opts *globalOptions, cfg *config.Config, logger zerolog.Logger, stderr io.Writer) (*observability.StandardObserver, string) {
	textfile := cfg.Metrics.Textfile
	if opts.metricsFile != "" {
		textfile = paths.NormalizePath(opts.metricsFile)
	}
	var metrics *observability.Metrics
	if textfile != "" || cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	if opts.debug {
		return observability.NewDebugObserver(stderr, logger, metrics).StandardObserver, textfile
	}
	level := observability.ObservabilityOff
	if metrics != nil {
		level = observability.ObservabilityMetrics
	}
	return observability.NewStandardObserver(level, logger, metrics), textfile
}

func runDocuments(cmd *cobra.Command, opts *globalOptions, ro *runOptions, mode report.Mode, args []string, stdout, stderr io.Writer) error {
	if _, ok := formatters.Get(opts.format); !ok {
		return &exitError{code: exitUsage, err: fmt.Errorf("unsupported format '%s'. Available formats: %s", opts.format, joinFormats())}
	}

	cfg, err := loadConfiguration(opts.configFile)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	unknown, err := applyFlags(cmd, cfg, ro, mode)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	logger := newLogger(opts, cfg, stderr)
	for _, name := range unknown {
		logger.Warn().Str("category", name).Msg("unknown category ignored")
	}
	observer, textfile := newObserver(opts, cfg, logger, stderr)

	var docFormat detector.Format
	if ro.docFormat != "" {
		docFormat = detector.ParseFormat(ro.docFormat)
	}

	found, err := getFilesToProcess(args, ro.recursive, cfg.SupportedFormats)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	for _, s := range found.SkippedFiles {
		logger.Warn().Str("path", s.Path).Str("reason", s.Reason).Msg("skipping file")
	}
	if len(found.FilesToProcess) == 0 {
		return &exitError{code: exitNoFiles, err: fmt.Errorf("no files to process")}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	engine := core.NewEngine(core.WithLogger(logger), core.WithObserver(observer))
	results := engine.ProcessFiles(ctx, found.FilesToProcess, core.BatchConfig{
		Mode:      mode,
		Config:    cfg,
		Format:    docFormat,
		OutputDir: paths.NormalizePath(ro.outDir),
		Workers:   cfg.Workers,
	})

	failed := 0
	summaries := make([]*report.Summary, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error().Str("path", r.Path).Err(r.Err).Msg("document not processed")
			continue
		}
		if !r.Summary.Success {
			failed++
		}
		summaries = append(summaries, r.Summary)
	}

	if err := writeReport(opts, summaries, stdout); err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	if textfile != "" {
		if err := observer.Metrics().WriteTextfile(textfile); err != nil {
			logger.Warn().Err(err).Str("path", textfile).Msg("could not write metrics")
		}
	}
	if err := ctx.Err(); err != nil {
		return &exitError{code: exitFailed, err: err}
	}
	if failed > 0 {
		return &exitError{code: exitFailed}
	}
	return nil
}

// writeReport renders summaries to the report file or stdout
func writeReport(opts *globalOptions, summaries []*report.Summary, stdout io.Writer) error {
	noColor := opts.outputFile != "" || !colorEnabled(stdout, opts.noColor)
	out, err := formatters.Export(opts.format, summaries, formatters.FormatterOptions{
		Verbose: opts.verbose,
		NoColor: noColor,
	})
	if err != nil {
		return err
	}

	if opts.outputFile == "" {
		_, err := fmt.Fprintln(stdout, out)
		return err
	}

	path, err := filepath.Abs(paths.NormalizePath(opts.outputFile))
	if err != nil {
		return fmt.Errorf("invalid output file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out+"\n"), 0600); err != nil {
		return fmt.Errorf("error writing to output file: %w", err)
	}
	return nil
}
