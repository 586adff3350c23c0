// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import "piishield/internal/help"

// GetCheckInfo returns standardized information about the payment card check
func (v *Validator) GetCheckInfo() []help.CheckInfo {
	return []help.CheckInfo{{
		Name:             "PAYMENT_CARD",
		ShortDescription: "Detects credit and debit card numbers",
		DetailedDescription: `The payment card check detects card numbers of 13 to 19 digits, written as one block or in groups of four.
Numbers must pass the Luhn checksum. The card brand is identified from the issuer prefix for reporting:
RuPay, Visa, MasterCard, American Express, Discover, JCB, Diners Club, UnionPay and Maestro.`,
		Patterns: []string{
			"4 groups of 4 digits (e.g., 4111 1111 1111 1111)",
			"13 to 19 consecutive digits (e.g., 4111111111111111)",
			"4 groups of 4 digits with dashes (e.g., 4111-1111-1111-1111)",
		},
		Validation: []string{
			"13 to 19 digits after removing spaces and dashes",
			"Luhn checksum",
		},
		Examples: []string{"4111 1111 1111 1111", "5500-0000-0000-0004"},
	}}
}
