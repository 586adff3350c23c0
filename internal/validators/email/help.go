// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import "piishield/internal/help"

// GetCheckInfo returns standardized information about the email check
func (v *Validator) GetCheckInfo() []help.CheckInfo {
	return []help.CheckInfo{{
		Name:             "EMAIL",
		ShortDescription: "Detects email addresses",
		Patterns:         []string{"local@domain.tld (e.g., ravi.kumar@mail.co.in)"},
		Validation: []string{
			"exactly one @",
			"local part of allowed characters without leading, trailing or double dots",
			"dotted domain ending in an alphabetic label",
			"not a placeholder such as test@test.com",
		},
		Examples: []string{"ravi.kumar@mail.co.in"},
	}}
}
