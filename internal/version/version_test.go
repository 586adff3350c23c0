// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildInfo(settings ...debug.BuildSetting) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{GoVersion: "go1.24.0", Settings: settings}, true
	}
}

func TestResolveFromVCS(t *testing.T) {
	b := resolve("1.2.0", "", "", buildInfo(
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	))

	assert.Equal(t, "0123456789abcdef0123", b.Commit)
	assert.True(t, b.Modified)
	assert.Equal(t, "go1.24.0", b.Go)
	assert.True(t, strings.HasPrefix(b.String(), "piishield 1.2.0 (commit 0123456789ab-dirty, built 2026-10-01T10:00:00Z, go1.24.0, "))
}

func TestResolveKeepsStampedValues(t *testing.T) {
	b := resolve("1.2.0", "abc123", "2026-09-30", buildInfo(
		debug.BuildSetting{Key: "vcs.revision", Value: "ffffffff"},
		debug.BuildSetting{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
	))
	assert.Equal(t, "abc123", b.Commit)
	assert.Equal(t, "2026-09-30", b.Date)
}

func TestResolveWithoutBuildInfo(t *testing.T) {
	b := resolve("0.0.0-development", "", "", func() (*debug.BuildInfo, bool) { return nil, false })
	assert.Equal(t, "piishield 0.0.0-development ("+b.Go+", "+b.Platform+")", b.String())
	assert.Equal(t, Version, Short())
}
