// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDirOverrides(t *testing.T) {
	t.Setenv("PIISHIELD_CONFIG_DIR", "/opt/piishield")
	assert.Equal(t, "/opt/piishield", GetConfigDir())
	assert.Equal(t, filepath.Join("/opt/piishield", "config.yaml"), GetConfigFile())

	t.Setenv("PIISHIELD_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), GetConfigDir())
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName, "allowlist.yaml"), GetAllowlistFile())
}

func TestNormalizePath(t *testing.T) {
	t.Setenv("HOME", "/home/ravi")
	assert.Equal(t, "", NormalizePath(""))
	assert.Equal(t, "/home/ravi/out", NormalizePath("~/out/"))
	assert.Equal(t, "a/b", NormalizePath("a/./b"))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("/tmp/out"))
	assert.Error(t, ValidatePath("bad\x00path"))
}
