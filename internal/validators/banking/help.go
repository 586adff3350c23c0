// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package banking

import "piishield/internal/help"

// GetCheckInfo returns standardized information about the banking checks
func (v *Validator) GetCheckInfo() []help.CheckInfo {
	return []help.CheckInfo{
		{
			Name:             "IFSC",
			ShortDescription: "Detects IFSC branch codes",
			Patterns:         []string{"4 letters, 0, 6 alphanumerics (e.g., SBIN0001234)"},
			Validation:       []string{"11 characters", "fifth character is 0"},
			Examples:         []string{"SBIN0001234", "HDFC0000123"},
		},
		{
			Name:             "BANK_ACCOUNT",
			ShortDescription: "Detects bank account numbers",
			DetailedDescription: `Account numbers are plain digit runs, so they collide with most other numeric categories.
They are only redacted with supporting context such as "A/c No:" or an account column header.`,
			Patterns:   []string{"9 to 18 digits", "label followed by digits (e.g., A/c No: 123456789012)"},
			Validation: []string{"9 to 18 digits", "not one repeated digit"},
			Examples:   []string{"A/c No: 50100123456789"},
		},
	}
}
