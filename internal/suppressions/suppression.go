// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package suppressions implements the allow-list of known non-sensitive
// values (sample Aadhaar numbers on brochures, the helpdesk mobile, ...).
// Rules store a SHA-256 of the category and normalized value, never the value.
package suppressions

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"piishield/internal/detector"

	"gopkg.in/yaml.v3"
)

// SuppressionRule represents a single allow-list rule
type SuppressionRule struct {
	ID        string     `yaml:"id"`
	Hash      string     `yaml:"hash"`
	Category  string     `yaml:"category"`
	Reason    string     `yaml:"reason"`
	Enabled   bool       `yaml:"enabled"`
	CreatedBy string     `yaml:"created_by,omitempty"`
	CreatedAt time.Time  `yaml:"created_at"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty"`
}

// Expired reports whether the rule has an expiry in the past
func (r SuppressionRule) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// SuppressionConfig represents the allow-list file
type SuppressionConfig struct {
	Version string            `yaml:"version"`
	Rules   []SuppressionRule `yaml:"rules"`
}

// SuppressionManager loads, queries and edits an allow-list file
type SuppressionManager struct {
	configPath string
	config     *SuppressionConfig
	byHash     map[string]int
}

// HashValue returns the rule hash of a normalized value in a category
func HashValue(cat detector.Category, normalized string) string {
	sum := sha256.Sum256([]byte(cat.String() + "|" + strings.TrimSpace(normalized)))
	return hex.EncodeToString(sum[:])
}

// NewSuppressionManager loads the allow-list at configPath. A missing file
// yields an empty list; an unreadable or malformed one is an error.
func NewSuppressionManager(configPath string) (*SuppressionManager, error) {
	sm := &SuppressionManager{
		configPath: configPath,
		config:     &SuppressionConfig{Version: "1.0"},
	}
	if configPath == "" {
		sm.index()
		return sm, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if errors.Is(err, os.ErrNotExist) {
		sm.index()
		return sm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading allow-list: %w", err)
	}

	var cfg SuppressionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing allow-list %s: %w", configPath, err)
	}
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	sm.config = &cfg
	sm.index()
	return sm, nil
}

func (sm *SuppressionManager) index() {
	sm.byHash = make(map[string]int, len(sm.config.Rules))
	for i, r := range sm.config.Rules {
		sm.byHash[r.Hash] = i
	}
}

// IsSuppressed checks whether an enabled, unexpired rule covers the value
func (sm *SuppressionManager) IsSuppressed(cat detector.Category, normalized string, now time.Time) (bool, *SuppressionRule) {
	if sm == nil {
		return false, nil
	}
	i, ok := sm.byHash[HashValue(cat, normalized)]
	if !ok {
		return false, nil
	}
	rule := sm.config.Rules[i]
	if !rule.Enabled || rule.Expired(now) {
		return false, nil
	}
	return true, &rule
}

// AddSuppression adds a rule for a normalized value and returns it
func (sm *SuppressionManager) AddSuppression(cat detector.Category, normalized, reason, createdBy string, now time.Time, expiresAt *time.Time) (SuppressionRule, error) {
	hash := HashValue(cat, normalized)
	if _, ok := sm.byHash[hash]; ok {
		return SuppressionRule{}, fmt.Errorf("allow-list rule already exists for this value")
	}

	maxID := 0
	for _, existing := range sm.config.Rules {
		var num int
		if _, err := fmt.Sscanf(existing.ID, "ALLOW-%06d", &num); err == nil && num > maxID {
			maxID = num
		}
	}

	rule := SuppressionRule{
		ID:        fmt.Sprintf("ALLOW-%06d", maxID+1),
		Hash:      hash,
		Category:  cat.String(),
		Reason:    reason,
		Enabled:   true,
		CreatedBy: createdBy,
		CreatedAt: now.UTC(),
		ExpiresAt: expiresAt,
	}
	sm.config.Rules = append(sm.config.Rules, rule)
	sm.byHash[hash] = len(sm.config.Rules) - 1
	return rule, nil
}

// RemoveSuppression removes a rule by ID
func (sm *SuppressionManager) RemoveSuppression(id string) error {
	for i, rule := range sm.config.Rules {
		if rule.ID == id {
			sm.config.Rules = append(sm.config.Rules[:i], sm.config.Rules[i+1:]...)
			sm.index()
			return nil
		}
	}
	return fmt.Errorf("allow-list rule with ID %s not found", id)
}

// ListSuppressions returns a copy of all rules
func (sm *SuppressionManager) ListSuppressions() []SuppressionRule {
	return append([]SuppressionRule(nil), sm.config.Rules...)
}

// CleanupExpired removes expired rules and returns how many were removed
func (sm *SuppressionManager) CleanupExpired(now time.Time) int {
	kept := sm.config.Rules[:0]
	removed := 0
	for _, rule := range sm.config.Rules {
		if rule.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, rule)
	}
	sm.config.Rules = kept
	sm.index()
	return removed
}

// Len returns the number of rules
func (sm *SuppressionManager) Len() int {
	if sm == nil {
		return 0
	}
	return len(sm.config.Rules)
}

// GetConfigPath returns the path of the allow-list file
func (sm *SuppressionManager) GetConfigPath() string {
	return sm.configPath
}

// Save writes the allow-list back to its file
func (sm *SuppressionManager) Save() error {
	if sm.configPath == "" {
		return fmt.Errorf("no allow-list path configured")
	}
	data, err := yaml.Marshal(sm.config)
	if err != nil {
		return fmt.Errorf("encoding allow-list: %w", err)
	}
	if dir := filepath.Dir(sm.configPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating allow-list directory: %w", err)
		}
	}
	if err := os.WriteFile(sm.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing allow-list: %w", err)
	}
	return nil
}
