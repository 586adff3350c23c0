// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piishield/internal/detector"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("PIISHIELD_CONFIG_DIR", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRedactWritesMirroredOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in/contacts.txt", "Mobile: 9876543210\n")
	out := filepath.Join(dir, "out")

	code, stdout, stderr := runCLI(t, "redact", "--no-color", "--no-ocr", "--format", "json", "--out-dir", out, input)
	require.Equal(t, exitOK, code, stderr)

	var report struct {
		Documents []struct {
			Output  string `json:"output"`
			Success bool   `json:"success"`
			Total   int    `json:"total"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Documents, 1)
	doc := report.Documents[0]
	assert.True(t, doc.Success)
	assert.Equal(t, 1, doc.Total)
	assert.True(t, strings.HasPrefix(doc.Output, out))

	data, err := os.ReadFile(doc.Output)
	require.NoError(t, err)
	assert.Equal(t, "Mobile: [REDACTED:MOBILE]\n", string(data))
}

func TestScanReportsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.txt", "PAN: ABCPK1234F\n")

	code, stdout, _ := runCLI(t, "scan", "--no-color", "--no-ocr", input)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "found 1 in 1 span(s)")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRedactUnsupportedFileFails(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "bundle.zip", "PK")

	code, _, stderr := runCLI(t, "redact", "--no-color", input)
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stderr, "UnsupportedFormat")
}

func TestRedactNoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bundle.zip", "PK")

	code, _, stderr := runCLI(t, "redact", dir)
	assert.Equal(t, exitNoFiles, code)
	assert.Contains(t, stderr, "no files to process")
}

func TestUnknownReportFormat(t *testing.T) {
	code, _, stderr := runCLI(t, "scan", "--format", "sarif", ".")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "unsupported format 'sarif'")
}

func TestUsageErrorsExitThree(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.txt", "Mobile: 9876543210\n")
	badConfig := writeFile(t, dir, "bad.yaml", "confidence_threshold: 2\n")

	tests := []struct {
		name string
		args []string
	}{
		{"invalid config", []string{"scan", "--no-ocr", "--config", badConfig, input}},
		{"missing config", []string{"scan", "--no-ocr", "--config", filepath.Join(dir, "none.yaml"), input}},
		{"unknown flag", []string{"scan", "--no-such-flag", input}},
		{"threshold out of range", []string{"scan", "--no-ocr", "--threshold", "2", input}},
		{"missing argument", []string{"redact"}},
		{"missing input", []string{"scan", "--no-ocr", filepath.Join(dir, "missing.txt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code, stderr)
		})
	}
}

func TestReportFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.txt", "Email: ravi@example.in\n")
	reportFile := filepath.Join(dir, "reports", "run.yaml")
	metricsFile := filepath.Join(dir, "metrics.prom")

	code, stdout, stderr := runCLI(t, "scan", "--no-ocr", "--format", "yaml", "-o", reportFile, "--metrics-file", metricsFile, input)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "documents:")

	info, err := os.Stat(reportFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "piishield_")
}

func TestCategoriesCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "categories", "--no-color")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "AADHAAR")
	assert.Contains(t, stdout, "PAYMENT_CARD")

	code, stdout, _ = runCLI(t, "categories", "--no-color", "aadhaar")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Verhoeff")

	code, _, _ = runCLI(t, "categories", "--no-color", "ssn")
	assert.Equal(t, exitUsage, code)
}

func TestFormatsCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "formats")
	assert.Equal(t, exitOK, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[2], "junit"))
	assert.Contains(t, lines[2], "application/xml")
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "piishield "))
}

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "%PDF")
	writeFile(t, dir, "a_redacted_20240101_000000.pdf", "%PDF")
	writeFile(t, dir, "notes.zip", "PK")
	nested := writeFile(t, dir, "sub/b.docx", "PK")
	writeFile(t, dir, ".git/c.txt", "x")

	flat, err := getFilesToProcess([]string{dir}, false, detector.KnownFormats())
	require.NoError(t, err)
	assert.Equal(t, []string{a}, flat.FilesToProcess)
	assert.Len(t, flat.SkippedFiles, 2)

	deep, err := getFilesToProcess([]string{dir}, true, detector.KnownFormats())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, nested}, deep.FilesToProcess)

	globbed, err := getFilesToProcess([]string{filepath.Join(dir, "*.pdf")}, false, detector.KnownFormats())
	require.NoError(t, err)
	assert.Equal(t, []string{a}, globbed.FilesToProcess)

	_, err = getFilesToProcess([]string{filepath.Join(dir, "missing.txt")}, false, detector.KnownFormats())
	assert.Error(t, err)
}
