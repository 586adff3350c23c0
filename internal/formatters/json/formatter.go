// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"piishield/internal/formatters"
	"piishield/internal/formatters/shared"
	"piishield/internal/report"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(summaries []*report.Summary, options formatters.FormatterOptions) (string, error) {
	response := shared.NewResponse(summaries)

	var data []byte
	var err error
	if options.Compact {
		data, err = json.Marshal(response)
	} else {
		data, err = json.MarshalIndent(response, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
