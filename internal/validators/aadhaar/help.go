// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package aadhaar

import "piishield/internal/help"

// GetCheckInfo returns standardized information about the Aadhaar check
func (v *Validator) GetCheckInfo() []help.CheckInfo {
	return []help.CheckInfo{{
		Name:             "AADHAAR",
		ShortDescription: "Detects 12-digit Aadhaar numbers",
		DetailedDescription: `The Aadhaar check detects the 12-digit unique identity number issued by UIDAI.
Numbers may be written as one block or in groups of four separated by spaces or hyphens.
Every candidate must carry a valid Verhoeff check digit.`,
		Patterns: []string{
			"12 consecutive digits (e.g., 234123412346)",
			"3 groups of 4 digits (e.g., 2341 2341 2346)",
			"label followed by the number (e.g., Aadhaar No: 2341-2341-2346)",
		},
		Validation: []string{
			"exactly 12 digits after removing spaces and hyphens",
			"first digit is not 0 or 1",
			"Verhoeff checksum",
		},
		Examples: []string{"2341 2341 2346", "4991 8765 4327"},
	}}
}
