// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"piishield/internal/detector"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "PIISHIELD_"

// ReadEnv collects PIISHIELD_* variables from envFile (if it exists) and from
// the process environment. Process values win. The process environment is
// never modified.
func ReadEnv(envFile string) (map[string]string, error) {
	env := make(map[string]string)
	if envFile != "" {
		fileEnv, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading %s: %w", envFile, err)
		}
		for k, v := range fileEnv {
			if strings.HasPrefix(k, EnvPrefix) {
				env[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

// ParseEnv parses dotenv content, used for inline overrides and tests
func ParseEnv(content string) (map[string]string, error) {
	return godotenv.Unmarshal(content)
}

// ApplyEnv applies overrides to cfg. Unknown PIISHIELD_* keys are ignored.
func ApplyEnv(cfg *Config, env map[string]string) error {
	for key, raw := range env {
		value := strings.TrimSpace(raw)
		var err error
		switch strings.TrimPrefix(key, EnvPrefix) {
		case "CONFIDENCE_THRESHOLD":
			cfg.ConfidenceThreshold, err = strconv.ParseFloat(value, 64)
		case "CONTEXT_WINDOW":
			cfg.ContextWindow, err = strconv.Atoi(value)
		case "REDACTION_COLOR":
			cfg.RedactionColor, err = ParseColor(value)
		case "SUPPORTED_FORMATS":
			cfg.SupportedFormats = nil
			for _, f := range splitList(value) {
				cfg.SupportedFormats = append(cfg.SupportedFormats, detector.ParseFormat(f))
			}
		case "DISABLED_CATEGORIES":
			if cfg.Categories == nil {
				cfg.Categories = make(map[string]bool)
			}
			for _, name := range splitList(value) {
				cfg.Categories[name] = false
			}
		case "PLACEHOLDER":
			cfg.Placeholder = strings.ToLower(value)
		case "FIXED_TEXT":
			cfg.FixedText = raw
		case "WORKERS":
			cfg.Workers, err = strconv.Atoi(value)
		case "VERIFY_OUTPUT":
			cfg.VerifyOutput, err = strconv.ParseBool(value)
		case "ALLOWLIST":
			cfg.Allowlist = value
		case "OCR_ENABLED":
			cfg.OCR.Enabled, err = strconv.ParseBool(value)
		case "OCR_LANGUAGES":
			cfg.OCR.Languages = splitList(value)
		case "OCR_MIN_CONFIDENCE":
			cfg.OCR.MinConfidence, err = strconv.ParseFloat(value, 64)
		case "LOG_LEVEL":
			cfg.Logging.Level = value
		case "LOG_PRETTY":
			cfg.Logging.Pretty, err = strconv.ParseBool(value)
		case "METRICS_TEXTFILE":
			cfg.Metrics.Textfile = value
			cfg.Metrics.Enabled = value != ""
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
