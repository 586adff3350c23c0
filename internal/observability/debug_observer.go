// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DebugObserver prints a step-by-step trace of the pipeline for --debug runs
type DebugObserver struct {
	*StandardObserver
	writer io.Writer
	mu     sync.Mutex
	indent int
}

// NewDebugObserver creates a debug observer with step-by-step logging
func NewDebugObserver(writer io.Writer, logger zerolog.Logger, metrics *Metrics) *DebugObserver {
	d := &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, logger, metrics),
		writer:           writer,
	}
	d.StandardObserver.DebugObserver = d
	return d
}

// StartStep begins a processing step with indentation
func (d *DebugObserver) StartStep(component, step, document string) func(success bool, details string) {
	start := time.Now()

	d.mu.Lock()
	fmt.Fprintf(d.writer, "%s> %s: %s (%s)\n", strings.Repeat("  ", d.indent), component, step, document)
	d.indent++
	d.mu.Unlock()

	return func(success bool, details string) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.indent > 0 {
			d.indent--
		}
		status := "completed"
		if !success {
			status = "failed"
		}
		fmt.Fprintf(d.writer, "%s< %s: %s %s (%dms) %s\n",
			strings.Repeat("  ", d.indent), component, step, status, time.Since(start).Milliseconds(), details)
	}
}

// LogDetail logs a detail within the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.writer, "%s  - %s: %s\n", strings.Repeat("  ", d.indent), component, detail)
}

// summarize renders metadata as sorted key=value pairs
func summarize(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, metadata[k]))
	}
	return strings.Join(parts, " ")
}
