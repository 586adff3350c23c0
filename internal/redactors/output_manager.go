// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"piishield/internal/observability"
)

// TimestampLayout is the timestamp embedded in output file names
const TimestampLayout = "20060102_150405"

// OutputStructureManager decides where sanitized documents are written and
// writes them. With an empty base directory outputs land next to their
// inputs; otherwise the input's relative directory is mirrored below the base.
type OutputStructureManager struct {
	// baseOutputDir is the base directory where redacted files will be stored
	baseOutputDir string

	// observer handles observability and metrics
	observer *observability.StandardObserver

	// now is replaced in tests
	now func() time.Time
}

// NewOutputStructureManager creates a new OutputStructureManager
func NewOutputStructureManager(baseOutputDir string, observer *observability.StandardObserver) *OutputStructureManager {
	if baseOutputDir != "" {
		baseOutputDir = filepath.Clean(baseOutputDir)
	}
	return &OutputStructureManager{
		baseOutputDir: baseOutputDir,
		observer:      observer,
		now:           time.Now,
	}
}

// OutputName returns "<stem>_redacted_<timestamp><ext>" for a file name
func OutputName(originalPath string, at time.Time) string {
	base := filepath.Base(originalPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_redacted_%s%s", stem, at.Format(TimestampLayout), ext)
}

// OutputPath returns the path of the sanitized copy of originalPath
func (osm *OutputStructureManager) OutputPath(originalPath string) (string, error) {
	if originalPath == "" {
		return "", fmt.Errorf("original path cannot be empty")
	}
	name := OutputName(originalPath, osm.now())
	dir := filepath.Dir(filepath.Clean(originalPath))
	if osm.baseOutputDir == "" {
		return filepath.Join(dir, name), nil
	}

	mirrored := filepath.Join(osm.baseOutputDir, makeRelativePath(dir), name)
	if !strings.HasPrefix(mirrored, osm.baseOutputDir) {
		return "", fmt.Errorf("mirrored path would escape base output directory: %s", mirrored)
	}
	return mirrored, nil
}

// makeRelativePath converts an absolute or relative directory to a relative
// path suitable for mirroring
func makeRelativePath(path string) string {
	path = filepath.ToSlash(path)
	if len(path) >= 2 && path[1] == ':' {
		path = path[2:]
	}
	path = strings.TrimLeft(strings.TrimPrefix(path, "./"), "/")
	if path == "" || path == "." {
		return ""
	}
	return filepath.FromSlash(strings.ReplaceAll(path, "..", "parent"))
}

// Write stores data at path with owner-only permissions. The file is written
// to a temporary name first and renamed, so a failed write never leaves a
// partial document behind.
func (osm *OutputStructureManager) Write(path string, data []byte) (err error) {
	finishTiming := osm.observer.StartTiming("output_manager", "write", path)
	defer func() {
		finishTiming(err == nil, map[string]interface{}{"bytes": len(data)})
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".piishield-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// GetBaseOutputDir returns the base output directory
func (osm *OutputStructureManager) GetBaseOutputDir() string {
	return osm.baseOutputDir
}
