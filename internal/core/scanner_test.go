// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"piishield/internal/config"
	"piishield/internal/detector"
	"piishield/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories_All(t *testing.T) {
	for _, input := range [][]string{{}, {"all"}, {" ALL "}} {
		enabled, unknown := ParseCategories(input)
		assert.Nil(t, enabled)
		assert.Empty(t, unknown)
	}
}

func TestParseCategories_Specific(t *testing.T) {
	enabled, unknown := ParseCategories([]string{" mobile ", "credit-card", "UNKNOWN_CHECK"})
	assert.Equal(t, []string{"UNKNOWN_CHECK"}, unknown)
	assert.True(t, enabled["MOBILE"])
	assert.True(t, enabled["PAYMENT_CARD"])
	assert.False(t, enabled["AADHAAR"])

	cfg := config.Default()
	cfg.Categories = enabled
	assert.Equal(t, []detector.Category{detector.PaymentCard, detector.Mobile}, cfg.EnabledCategories())
}

func TestProcessFilesWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "contacts.txt")
	require.NoError(t, os.WriteFile(good, []byte("Mobile: 9876543210\n"), 0600))
	bad := filepath.Join(dir, "bundle.zip")
	require.NoError(t, os.WriteFile(bad, []byte("PK"), 0600))
	missing := filepath.Join(dir, "missing.txt")

	out := filepath.Join(dir, "out")
	results := newTestEngine().ProcessFiles(context.Background(), []string{good, bad, missing}, BatchConfig{
		Config:    testConfig(),
		OutputDir: out,
		Workers:   2,
	})
	require.Len(t, results, 3)

	r := results[0]
	require.NoError(t, r.Err)
	require.NotEmpty(t, r.OutputPath)
	assert.True(t, strings.HasPrefix(r.OutputPath, out))
	assert.Contains(t, filepath.Base(r.OutputPath), "contacts_redacted_")
	data, err := os.ReadFile(r.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "Mobile: [REDACTED:MOBILE]\n", string(data))
	assert.Equal(t, r.OutputPath, r.Summary.Output)

	assert.ErrorIs(t, results[1].Err, detector.ErrUnsupportedFormat)
	assert.Error(t, results[2].Err)
}

func TestProcessFilesScanWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("Mobile: 9876543210\n"), 0600))

	results := newTestEngine().ProcessFiles(context.Background(), []string{path}, BatchConfig{
		Mode:   report.ModeScan,
		Config: testConfig(),
	})
	require.NoError(t, results[0].Err)
	assert.Empty(t, results[0].OutputPath)
	assert.Equal(t, 1, results[0].Summary.Total)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
