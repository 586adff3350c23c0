// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package govid

import "piishield/internal/help"

// GetCheckInfo returns standardized information about the government ID checks
func (v *Validator) GetCheckInfo() []help.CheckInfo {
	return []help.CheckInfo{
		{
			Name:             "PAN",
			ShortDescription: "Detects Permanent Account Numbers",
			Patterns:         []string{"5 letters, 4 digits, 1 letter (e.g., ABCPE1234F)"},
			Validation: []string{
				"fourth character is a holder type (A, B, C, F, G, H, L, J, P, T)",
				"not AAAAA or 0000 placeholders",
			},
			Examples: []string{"ABCPE1234F"},
		},
		{
			Name:             "DRIVING_LICENSE",
			ShortDescription: "Detects driving licence numbers",
			Patterns:         []string{"state code, RTO code, year and serial (e.g., MH-14 2011 0062821)"},
			Validation:       []string{"2 letters and 13 digits after removing separators"},
			Examples:         []string{"MH-1420110062821"},
		},
		{
			Name:             "VOTER_ID",
			ShortDescription: "Detects voter ID (EPIC) numbers",
			Patterns:         []string{"3 letters and 7 digits (e.g., ABC1234567)"},
			Validation:       []string{"3 letters and 7 digits"},
			Examples:         []string{"ABC1234567"},
		},
		{
			Name:             "PASSPORT",
			ShortDescription: "Detects Indian passport numbers",
			Patterns:         []string{"1 letter and 7 digits (e.g., K1234567)"},
			Validation: []string{
				"series letter is not Q, X or Z",
				"serial is not all zeros",
			},
			Examples: []string{"K1234567"},
		},
	}
}
