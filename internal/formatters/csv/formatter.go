// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strings"

	"piishield/internal/formatters"
	"piishield/internal/formatters/shared"
	"piishield/internal/report"
)

// Formatter implements CSV output formatting, one row per span
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(summaries []*report.Summary, options formatters.FormatterOptions) (string, error) {
	headers := []string{"Document", "Format", "Location", "Source", "Categories", "Confidence", "Status"}
	if options.Verbose {
		headers = append(headers, "Candidates", "Reason")
	}
	rows := []string{strings.Join(headers, ",")}

	for _, s := range summaries {
		if s == nil {
			continue
		}
		for _, u := range s.Units {
			for _, span := range u.Spans {
				row := []string{
					f.escapeCSVField(s.Document),
					f.escapeCSVField(string(s.Format)),
					f.escapeCSVField(u.Origin.String()),
					f.escapeCSVField(u.Source.String()),
					f.escapeCSVField(strings.Join(span.Categories, "|")),
					fmt.Sprintf("%.2f", span.Confidence),
					shared.SpanStatus(s, false),
				}
				if options.Verbose {
					row = append(row, fmt.Sprintf("%d", span.Candidates), "")
				}
				rows = append(rows, strings.Join(row, ","))
			}
		}
		for _, fs := range s.Failed {
			row := []string{
				f.escapeCSVField(s.Document),
				f.escapeCSVField(string(s.Format)),
				f.escapeCSVField(fs.Origin.String()),
				"",
				f.escapeCSVField(strings.Join(fs.Categories, "|")),
				"",
				shared.SpanStatus(s, true),
			}
			if options.Verbose {
				row = append(row, "", f.escapeCSVField(fs.Reason))
			}
			rows = append(rows, strings.Join(row, ","))
		}
	}

	return strings.Join(rows, "\n"), nil
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return field
}

// sanitizeFormulaInjection prefixes fields that a spreadsheet would evaluate
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
