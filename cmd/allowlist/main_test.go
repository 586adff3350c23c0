// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piishield/internal/detector"
	"piishield/internal/suppressions"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestAddHashesNormalizedValue(t *testing.T) {
	file := filepath.Join(t.TempDir(), "allow.yaml")
	out := run(t, "", "--file", file, "add", "mobile", "+91 98765 43210", "--reason", "helpdesk")
	assert.Contains(t, out, "Added ALLOW-000001 (MOBILE")

	sm, err := suppressions.NewSuppressionManager(file)
	require.NoError(t, err)
	ok, rule := sm.IsSuppressed(detector.Mobile, "9876543210", time.Now())
	require.True(t, ok)
	assert.Equal(t, "helpdesk", rule.Reason)
}

func TestValueFromStdinMatchesArgument(t *testing.T) {
	fromArg := run(t, "", "hash", "pan", "abcpk1234f")
	fromStdin := run(t, "ABCPK1234F\n", "hash", "PAN", "-")
	assert.Equal(t, fromArg, fromStdin)
	assert.Len(t, strings.TrimSpace(fromArg), 64)
}

func TestListRemoveAndCleanup(t *testing.T) {
	file := filepath.Join(t.TempDir(), "allow.yaml")
	run(t, "", "--file", file, "add", "email", "test@example.com")
	run(t, "", "--file", file, "add", "pan", "ABCPK1234F", "--expires-in", "1ns")

	out := run(t, "", "--file", file, "list")
	assert.Contains(t, out, "Found 2 allow-list rules")
	assert.NotContains(t, out, "test@example.com")

	time.Sleep(time.Millisecond)
	assert.Contains(t, run(t, "", "--file", file, "cleanup"), "Cleaned up 1 expired rules")
	assert.Contains(t, run(t, "", "--file", file, "remove", "ALLOW-000001"), "Removed ALLOW-000001")
	assert.Contains(t, run(t, "", "--file", file, "list"), "No allow-list rules found.")
}
