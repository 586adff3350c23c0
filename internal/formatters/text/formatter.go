// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"piishield/internal/formatters"
	"piishield/internal/formatters/shared"
	"piishield/internal/report"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(summaries []*report.Summary, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder
	count := 0
	for _, s := range summaries {
		if s == nil {
			continue
		}
		f.appendDocument(&builder, s, options)
		count++
	}
	if count == 0 {
		return "No documents processed.", nil
	}
	if count > 1 {
		f.appendTotals(&builder, shared.Aggregate(summaries), options)
	}
	return builder.String(), nil
}

// paint applies the named color unless colors are disabled
func (f *Formatter) paint(options formatters.FormatterOptions, name, format string, args ...interface{}) string {
	if options.NoColor {
		return fmt.Sprintf(format, args...)
	}
	return f.colors[name].Sprintf(format, args...)
}

func (f *Formatter) appendDocument(builder *strings.Builder, s *report.Summary, options formatters.FormatterOptions) {
	status, statusColor := "OK", "green"
	switch {
	case !s.Success:
		status, statusColor = "FAIL", "red"
	case s.Degraded:
		status, statusColor = "DEGR", "yellow"
	}

	verb := "redacted"
	if s.Mode == report.ModeScan {
		verb = "found"
	}
	fmt.Fprintf(builder, "%s %s %s  %s %d in %d span(s)  avg %.2f  %dms\n",
		f.paint(options, statusColor, "[%-4s]", status),
		f.paint(options, "white", "%s", s.Document),
		f.paint(options, "cyan", "(%s)", s.Format),
		verb, s.Total, s.SpanCount, s.AverageConfidence, s.DurationMillis)

	if len(s.Categories) > 0 {
		parts := make([]string, 0, len(s.Categories))
		for _, cat := range shared.SortedCategories(s.Categories) {
			parts = append(parts, fmt.Sprintf("%s %d", cat, s.Categories[cat]))
		}
		fmt.Fprintf(builder, "       %s\n", f.paint(options, "blue", "%s", strings.Join(parts, "  ")))
	}
	if s.Output != "" {
		fmt.Fprintf(builder, "       -> %s\n", s.Output)
	}

	if options.Verbose {
		for _, u := range s.Units {
			for _, span := range u.Spans {
				fmt.Fprintf(builder, "       %-24s %-8s %-28s %.2f\n",
					u.Origin, u.Source, strings.Join(span.Categories, ","), span.Confidence)
			}
		}
		fmt.Fprintf(builder, "       candidates %d: accepted %d, below threshold %d, rejected %d, suppressed %d\n",
			s.Stats.Candidates, s.Stats.Accepted, s.Stats.BelowThreshold, s.Stats.Rejected, s.Stats.Suppressed)
	}

	for _, fs := range s.Failed {
		fmt.Fprintf(builder, "       %s %s %s: %s\n",
			f.paint(options, "red", "not redacted"),
			fs.Origin, strings.Join(fs.Categories, ","), fs.Reason)
	}
	for _, d := range s.Degradations {
		fmt.Fprintf(builder, "       %s %s: %s\n", f.paint(options, "yellow", "degraded"), d.Origin, d.Reason)
	}
	if v := s.Verification; v != nil {
		switch {
		case v.Error != "":
			fmt.Fprintf(builder, "       %s %s\n", f.paint(options, "red", "verification failed:"), v.Error)
		case v.Residual > 0:
			fmt.Fprintf(builder, "       %s %d residual finding(s)\n", f.paint(options, "red", "verification:"), v.Residual)
		case options.Verbose:
			fmt.Fprintf(builder, "       %s clean, %d under mask\n", f.paint(options, "green", "verification:"), v.Masked)
		}
	}
}

func (f *Formatter) appendTotals(builder *strings.Builder, t shared.Totals, options formatters.FormatterOptions) {
	builder.WriteString(f.paint(options, "white", "%s\n", strings.Repeat("-", 40)))
	fmt.Fprintf(builder, "%d document(s), %d succeeded, %d redacted, %d failed span(s)\n",
		t.Documents, t.Succeeded, t.Redacted, t.Failed)
	if t.Residual > 0 {
		fmt.Fprintf(builder, "%s\n", f.paint(options, "red", "%d residual finding(s) in outputs", t.Residual))
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
