// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"piishield/internal/detector"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PIISHIELD_CONFIG_DIR", dir)
	return dir
}

func TestLoadConfigOrDefault_NoFile(t *testing.T) {
	isolate(t)
	cfg := LoadConfigOrDefault("")
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.ConfidenceThreshold != 0.8 {
		t.Errorf("expected default threshold 0.8, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.ContextWindow != 150 {
		t.Errorf("expected default context window 150, got %d", cfg.ContextWindow)
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	isolate(t)
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "config.yaml")

	content := `
confidence_threshold: 0.7
context_window: 80
redaction_color: "#ff0000"
supported_formats: [pdf, text]
placeholder: mask
categories:
  AGE: false
weights:
  default:
    context_weight: 0.25
  categories:
    MOBILE:
      base: 0.9
ocr:
  languages: [eng, hin]
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ConfidenceThreshold != 0.7 || cfg.ContextWindow != 80 {
		t.Errorf("threshold/window not applied: %v %d", cfg.ConfidenceThreshold, cfg.ContextWindow)
	}
	if cfg.RedactionColor != (Color{R: 255}) {
		t.Errorf("expected red, got %+v", cfg.RedactionColor)
	}
	if !cfg.Supports(detector.FormatText) || cfg.Supports(detector.FormatImage) {
		t.Errorf("unexpected supported formats %v", cfg.SupportedFormats)
	}
	if cfg.Enabled(detector.Age) || !cfg.Enabled(detector.Mobile) {
		t.Error("category toggles not applied")
	}
	if !cfg.VerifyOutput || !cfg.OCR.Preprocess {
		t.Error("defaults for keys missing from the file must survive decoding")
	}
	w := cfg.Weights.For(detector.Mobile)
	if w.Base != 0.9 || w.ContextWeight != 0.25 || w.ValidationBonus != 0.15 {
		t.Errorf("unexpected mobile weights %+v", w)
	}
	if got := cfg.Weights.For(detector.BankAccount).Base; got != 0.45 {
		t.Errorf("expected built-in bank account base 0.45, got %v", got)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	documents := map[string]string{
		"scalar":   ":::invalid yaml:::",
		"sequence": "- confidence_threshold: 0.7\n",
		"syntax":   "confidence_threshold: [0.7\n",
	}
	for name, content := range documents {
		configPath := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Errorf("%s: expected parse error", name)
		}
		if cfg := LoadConfigOrDefault(configPath); cfg == nil {
			t.Errorf("%s: expected defaults on parse error", name)
		}
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(configPath, []byte("# nothing set\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ConfidenceThreshold != 0.8 {
		t.Errorf("expected default threshold, got %v", cfg.ConfidenceThreshold)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"negative window", func(c *Config) { c.ContextWindow = -1 }},
		{"zero window", func(c *Config) { c.ContextWindow = 0 }},
		{"unknown format", func(c *Config) { c.SupportedFormats = []detector.Format{"zip"} }},
		{"no formats", func(c *Config) { c.SupportedFormats = nil }},
		{"unknown category", func(c *Config) { c.Categories["SSN"] = true }},
		{"bad weight", func(c *Config) { c.Weights.Categories["PAN"] = Weight{Base: 2} }},
		{"bad placeholder", func(c *Config) { c.Placeholder = "blur" }},
		{"empty fixed text", func(c *Config) { c.Placeholder = PlaceholderFixed; c.FixedText = "" }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PIISHIELD_WORKERS=3\nPIISHIELD_PLACEHOLDER=fixed\nOTHER=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PIISHIELD_PLACEHOLDER", "mask")
	t.Setenv("PIISHIELD_DISABLED_CATEGORIES", "pincode, age")
	t.Setenv("PIISHIELD_REDACTION_COLOR", "0,0,255")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected workers from .env, got %d", cfg.Workers)
	}
	if cfg.Placeholder != PlaceholderMask {
		t.Errorf("process env must win over .env, got %q", cfg.Placeholder)
	}
	if cfg.Enabled(detector.Pincode) || cfg.Enabled(detector.Age) {
		t.Error("disabled categories not applied")
	}
	if cfg.RedactionColor != (Color{B: 255}) {
		t.Errorf("unexpected colour %+v", cfg.RedactionColor)
	}
	if _, ok := os.LookupEnv("PIISHIELD_WORKERS"); ok {
		t.Error(".env values must not leak into the process environment")
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	env, err := ParseEnv("PIISHIELD_CONFIDENCE_THRESHOLD=high")
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyEnv(Default(), env); err == nil {
		t.Fatal("expected error for non-numeric threshold")
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"#000000":      {},
		"FFFFFF":       {255, 255, 255},
		"white":        {255, 255, 255},
		"[10, 20, 30]": {10, 20, 30},
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Errorf("%s: got %+v want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"#12", "1,2", "300,0,0", "zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
	if (Color{}).Hex() != "000000" {
		t.Error("hex of black")
	}
}
