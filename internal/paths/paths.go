// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the user configuration directory
const AppName = "piishield"

// GetConfigDir returns the piishield configuration directory.
// PIISHIELD_CONFIG_DIR wins, then XDG_CONFIG_HOME (or the OS equivalent).
func GetConfigDir() string {
	if dir := os.Getenv("PIISHIELD_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+AppName)
	}
	return "." + AppName
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetAllowlistFile returns the path to the default allow-list file
func GetAllowlistFile() string {
	return filepath.Join(GetConfigDir(), "allowlist.yaml")
}

// GetEnvFile returns the path to the optional .env file next to the config
func GetEnvFile() string {
	return filepath.Join(GetConfigDir(), ".env")
}

// NormalizePath cleans a path and expands a leading ~
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}

// ValidatePath rejects paths the engine must never write to or read from
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a NUL byte")
	}
	return nil
}
