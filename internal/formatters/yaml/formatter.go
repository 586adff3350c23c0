// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"piishield/internal/formatters"
	"piishield/internal/formatters/shared"
	"piishield/internal/report"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, same structure as JSON"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(summaries []*report.Summary, options formatters.FormatterOptions) (string, error) {
	// same structure as the JSON formatter
	data, err := yaml.Marshal(shared.NewResponse(summaries))
	if err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
