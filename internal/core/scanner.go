// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"piishield/internal/config"
	"piishield/internal/detector"
	"piishield/internal/parallel"
	"piishield/internal/redactors"
	"piishield/internal/report"
)

// BatchConfig holds configuration for processing several files
type BatchConfig struct {
	Mode   report.Mode
	Config *config.Config

	// Format overrides the format derived from each file extension
	Format detector.Format

	// OutputDir mirrors outputs below this directory; empty writes them next
	// to their inputs
	OutputDir string

	// Workers bounds how many documents run at once; 0 means one per CPU
	Workers int
}

// FileResult is the outcome of one file of a batch
type FileResult struct {
	Path       string
	OutputPath string
	Summary    *report.Summary
	Err        error
}

// ProcessFiles runs one engine invocation per file through the worker pool.
// Results keep the order of paths. Sanitized outputs are written only when
// the engine produced them.
func (e *Engine) ProcessFiles(ctx context.Context, paths []string, bc BatchConfig) []FileResult {
	if bc.Mode == "" {
		bc.Mode = report.ModeRedact
	}
	out := redactors.NewOutputStructureManager(bc.OutputDir, e.observer)

	results, errs := parallel.Map(ctx, "documents", bc.Workers, e.observer, paths,
		func(ctx context.Context, _ int, path string) (FileResult, error) {
			return e.processFile(ctx, path, bc, out), nil
		})

	for i := range results {
		if errs[i] != nil {
			results[i] = FileResult{Path: paths[i], Err: errs[i]}
		}
	}
	return results
}

func (e *Engine) processFile(ctx context.Context, path string, bc BatchConfig, out *redactors.OutputStructureManager) FileResult {
	fr := FileResult{Path: path}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		fr.Err = fmt.Errorf("error reading %s: %w", path, err)
		return fr
	}
	format := bc.Format
	if format == "" {
		format = detector.FormatFromPath(path)
	}
	doc := detector.NewDocument(filepath.Base(path), format, data)

	var res *Result
	if bc.Mode == report.ModeScan {
		res, err = e.Scan(ctx, doc, bc.Config)
	} else {
		res, err = e.Process(ctx, doc, bc.Config)
	}
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Summary = res.Summary

	if res.Output == nil {
		return fr
	}
	target, err := out.OutputPath(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	if err := out.Write(target, res.Output); err != nil {
		fr.Err = err
		return fr
	}
	fr.OutputPath = target
	fr.Summary.Output = target
	return fr
}

// ParseCategories converts category names into the Config.Categories map.
// An empty slice or ["all"] returns nil, which enables every category.
// Unknown names are returned separately.
func ParseCategories(names []string) (enabled map[string]bool, unknown []string) {
	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), "all")) {
		return nil, nil
	}

	enabled = make(map[string]bool)
	for _, cat := range detector.AllCategories() {
		enabled[cat.String()] = false
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cat, err := detector.ParseCategory(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		enabled[cat.String()] = true
	}
	return enabled, unknown
}
