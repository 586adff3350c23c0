// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"piishield/internal/detector"
	"piishield/internal/paths"
)

// maxFileSize is the largest input read into memory
const maxFileSize = 100 * 1024 * 1024

// ProcessingResult holds the result of file discovery
type ProcessingResult struct {
	FilesToProcess []string
	SkippedFiles   []SkippedFile
}

// SkippedFile represents a file that was skipped during discovery
type SkippedFile struct {
	Path   string
	Reason string
}

// getFilesToProcess expands inputs into regular files. Inputs may be files,
// directories or glob patterns. Files whose extension maps to no supported
// format are skipped during directory and glob expansion, and so are outputs
// of earlier runs. A file named explicitly is always handed to the engine,
// which rejects unsupported formats itself.
func getFilesToProcess(inputs []string, recursive bool, supported []detector.Format) (*ProcessingResult, error) {
	result := &ProcessingResult{}
	seen := make(map[string]bool)

	add := func(path string, info os.FileInfo, explicit bool) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true
		switch {
		case info.Size() > maxFileSize:
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: "file too large (max size: 100MB)"})
		case explicit:
			result.FilesToProcess = append(result.FilesToProcess, path)
		case strings.Contains(filepath.Base(path), "_redacted_"):
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: "already a redacted output"})
		case !supportedFormat(detector.FormatFromPath(path), supported):
			result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: "unsupported file type"})
		default:
			result.FilesToProcess = append(result.FilesToProcess, path)
		}
	}

	for _, input := range inputs {
		input = paths.NormalizePath(input)
		if err := paths.ValidatePath(input); err != nil {
			return nil, err
		}

		info, err := os.Stat(input)
		if err != nil {
			if !strings.ContainsAny(input, "*?[") {
				return nil, fmt.Errorf("path does not exist or is not accessible: %w", err)
			}
			matches, err := filepath.Glob(input)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern: %w", err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern: %s", input)
			}
			for _, match := range matches {
				if mi, err := os.Stat(match); err == nil && mi.Mode().IsRegular() {
					add(match, mi, false)
				}
			}
			continue
		}

		if info.Mode().IsRegular() {
			add(input, info, true)
			continue
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("path is neither a regular file nor a directory: %s", input)
		}

		err = filepath.Walk(input, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				result.SkippedFiles = append(result.SkippedFiles, SkippedFile{Path: path, Reason: err.Error()})
				return nil
			}
			if fi.IsDir() {
				if path != input && (!recursive || strings.HasPrefix(fi.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if fi.Mode().IsRegular() {
				add(path, fi, false)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error accessing directory: %w", err)
		}
	}
	return result, nil
}

func supportedFormat(f detector.Format, supported []detector.Format) bool {
	for _, s := range supported {
		if s == f {
			return true
		}
	}
	return false
}
