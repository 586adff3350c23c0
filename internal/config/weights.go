// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"piishield/internal/detector"
)

// Weight is one row of the scoring table. In per-category rows a zero field
// inherits the value of the default row.
type Weight struct {
	Base              float64 `yaml:"base"`
	ContextWeight     float64 `yaml:"context_weight"`
	ValidationBonus   float64 `yaml:"validation_bonus"`
	ValidationPenalty float64 `yaml:"validation_penalty"`
}

// Weights holds the default row and the per-category overrides keyed by category name
type Weights struct {
	Default    Weight            `yaml:"default"`
	Categories map[string]Weight `yaml:"categories"`
}

// baseWeights are the built-in per-category base weights
var baseWeights = map[detector.Category]float64{
	detector.Aadhaar:        0.7,
	detector.PAN:            0.7,
	detector.DrivingLicense: 0.68,
	detector.Passport:       0.55,
	detector.VoterID:        0.6,
	detector.PaymentCard:    0.7,
	detector.BankAccount:    0.45,
	detector.IFSC:           0.7,
	detector.Mobile:         0.7,
	detector.Email:          0.75,
	detector.DateOfBirth:    0.5,
	detector.Age:            0.4,
	detector.Pincode:        0.45,
	detector.Address:        0.5,
	detector.PersonName:     0.55,
	detector.FatherName:     0.6,
	detector.MotherName:     0.6,
	detector.BiometricID:    0.35,
	detector.HealthID:       0.6,
}

// DefaultWeights returns the built-in scoring table
func DefaultWeights() Weights {
	return Weights{
		Default: Weight{
			Base:              0.5,
			ContextWeight:     0.3,
			ValidationBonus:   0.15,
			ValidationPenalty: 0.3,
		},
		Categories: make(map[string]Weight),
	}
}

// For resolves the weight row of a category
func (w Weights) For(cat detector.Category) Weight {
	row := w.Default
	if base, ok := baseWeights[cat]; ok {
		row.Base = base
	}
	for name, override := range w.Categories {
		parsed, err := detector.ParseCategory(name)
		if err != nil || parsed != cat {
			continue
		}
		if override.Base != 0 {
			row.Base = override.Base
		}
		if override.ContextWeight != 0 {
			row.ContextWeight = override.ContextWeight
		}
		if override.ValidationBonus != 0 {
			row.ValidationBonus = override.ValidationBonus
		}
		if override.ValidationPenalty != 0 {
			row.ValidationPenalty = override.ValidationPenalty
		}
	}
	return row
}

func (w Weight) validate() error {
	for name, v := range map[string]float64{
		"base":               w.Base,
		"context_weight":     w.ContextWeight,
		"validation_bonus":   w.ValidationBonus,
		"validation_penalty": w.ValidationPenalty,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %.3f outside [0,1]", name, v)
		}
	}
	return nil
}

func (w Weights) validate() error {
	if err := w.Default.validate(); err != nil {
		return fmt.Errorf("default: %w", err)
	}
	for name, row := range w.Categories {
		if _, err := detector.ParseCategory(name); err != nil {
			return err
		}
		if err := row.validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
