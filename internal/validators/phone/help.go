// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import "piishield/internal/help"

// GetCheckInfo returns standardized information about the mobile number check
func (v *Validator) GetCheckInfo() []help.CheckInfo {
	return []help.CheckInfo{{
		Name:             "MOBILE",
		ShortDescription: "Detects Indian mobile numbers",
		DetailedDescription: `The mobile check detects 10-digit Indian mobile numbers, with or without the +91 country code
or the 0 trunk prefix. Dummy numbers made of one repeated digit are ignored.`,
		Patterns: []string{
			"10 digits (e.g., 9876543210)",
			"country code prefix (e.g., +91 9876543210, 919876543210)",
			"split 5+5 (e.g., 98765 43210)",
		},
		Validation: []string{
			"10 digits once +91, 91 or 0 is removed",
			"first digit is 6, 7, 8 or 9",
			"not a known dummy number",
		},
		Examples: []string{"+91 98765 43210", "09876543210"},
	}}
}
