// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"piishield/internal/detector"
	"piishield/internal/paths"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error returned from Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Placeholder styles
const (
	PlaceholderLabel = "label"
	PlaceholderFixed = "fixed"
	PlaceholderMask  = "mask"
)

// Config represents the engine configuration. It is passed per invocation and
// never mutated by the engine.
type Config struct {
	// ConfidenceThreshold is the minimum confidence for a candidate to be redacted
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// ContextWindow is the number of runes inspected on each side of a candidate
	ContextWindow int `yaml:"context_window"`

	RedactionColor   Color             `yaml:"redaction_color"`
	SupportedFormats []detector.Format `yaml:"supported_formats"`
	Weights          Weights           `yaml:"weights"`

	// Categories enables or disables single categories by name; absent means enabled
	Categories map[string]bool `yaml:"categories"`

	Placeholder string `yaml:"placeholder"`
	FixedText   string `yaml:"fixed_text"`

	OCR OCRConfig `yaml:"ocr"`

	// Workers bounds page and cell parallelism; 0 means runtime.NumCPU()
	Workers int `yaml:"workers"`

	// VerifyOutput re-extracts and re-scans the sanitized output
	VerifyOutput bool `yaml:"verify_output"`

	// Allowlist is the path of the allow-list rule file
	Allowlist string `yaml:"allowlist"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// OCRConfig holds the text recognition settings
type OCRConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Languages     []string `yaml:"languages"`
	MinConfidence float64  `yaml:"min_confidence"`
	Preprocess    bool     `yaml:"preprocess"`
}

// LoggingConfig holds the zerolog settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig holds the prometheus settings
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Textfile is written in the node_exporter textfile format after a run
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ConfidenceThreshold: 0.8,
		ContextWindow:       detector.DefaultContextChars,
		RedactionColor:      Color{},
		SupportedFormats:    detector.KnownFormats(),
		Weights:             DefaultWeights(),
		Categories:          make(map[string]bool),
		Placeholder:         PlaceholderLabel,
		FixedText:           "[REDACTED]",
		OCR: OCRConfig{
			Enabled:       true,
			Languages:     []string{"eng"},
			MinConfidence: 60,
			Preprocess:    true,
		},
		Workers:      0,
		VerifyOutput: true,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified file path, then applies
// environment overrides from the process and the optional .env file.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		cleanPath := filepath.Clean(configPath)
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := decodeConfig(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	env, err := ReadEnv(paths.GetEnvFile())
	if err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}
	if err := ApplyEnv(config, env); err != nil {
		return nil, err
	}

	for i, f := range config.SupportedFormats {
		config.SupportedFormats[i] = detector.ParseFormat(string(f))
	}
	config.Allowlist = paths.NormalizePath(config.Allowlist)
	config.Metrics.Textfile = paths.NormalizePath(config.Metrics.Textfile)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// decodeConfig decodes a YAML document over config. The document must be a
// mapping; an empty document leaves config untouched.
func decodeConfig(data []byte, config *Config) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}
	if root := doc.Content[0]; root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a YAML mapping, got %s at line %d", ErrInvalidConfig, nodeKind(root.Kind), root.Line)
	}
	return doc.Decode(config)
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "a document"
	}
}

// FindConfigFile looks for a configuration file in the working directory,
// then in the user configuration directory.
func FindConfigFile() string {
	for _, name := range []string{"piishield.yaml", "piishield.yml", ".piishield.yaml", ".piishield.yml"} {
		if fileExists(name) {
			return name
		}
	}
	if standard := paths.GetConfigFile(); fileExists(standard) {
		return standard
	}
	return ""
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard
// locations when configFile is empty). If loading fails, it returns the defaults.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default()
	}
	return cfg
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Validate checks every range and enumeration once; the engine calls it at the
// start of each invocation.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: configuration cannot be nil", ErrInvalidConfig)
	}
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		add("confidence_threshold %.3f outside [0,1]", c.ConfidenceThreshold)
	}
	if c.ContextWindow < 1 || c.ContextWindow > 10000 {
		add("context_window %d outside [1,10000]", c.ContextWindow)
	}
	if len(c.SupportedFormats) == 0 {
		add("supported_formats is empty")
	}
	for _, f := range c.SupportedFormats {
		if !knownFormat(f) {
			add("supported_formats: unknown format %q", f)
		}
	}
	for name := range c.Categories {
		if _, err := detector.ParseCategory(name); err != nil {
			add("categories: %v", err)
		}
	}
	if err := c.Weights.validate(); err != nil {
		add("weights: %v", err)
	}
	switch c.Placeholder {
	case PlaceholderLabel, PlaceholderMask:
	case PlaceholderFixed:
		if c.FixedText == "" {
			add("fixed_text must not be empty with the fixed placeholder")
		}
	default:
		add("placeholder %q must be one of label, fixed, mask", c.Placeholder)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		add("ocr.min_confidence %.1f outside [0,100]", c.OCR.MinConfidence)
	}
	if c.Workers < 0 {
		add("workers %d must not be negative", c.Workers)
	}
	if err := paths.ValidatePath(c.Allowlist); err != nil {
		add("allowlist: %v", err)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func knownFormat(f detector.Format) bool {
	for _, k := range detector.KnownFormats() {
		if f == k {
			return true
		}
	}
	return false
}

// Supports reports whether documents of the given format may be processed
func (c *Config) Supports(f detector.Format) bool {
	for _, s := range c.SupportedFormats {
		if s == f {
			return true
		}
	}
	return false
}

// Enabled reports whether a category takes part in matching
func (c *Config) Enabled(cat detector.Category) bool {
	for name, on := range c.Categories {
		if parsed, err := detector.ParseCategory(name); err == nil && parsed == cat {
			return on
		}
	}
	return true
}

// EnabledCategories returns the enabled categories in declaration order
func (c *Config) EnabledCategories() []detector.Category {
	var out []detector.Category
	for _, cat := range detector.AllCategories() {
		if c.Enabled(cat) {
			out = append(out, cat)
		}
	}
	return out
}

// WorkerCount resolves the configured worker bound
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
