// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import (
	"strconv"
	"strings"

	"piishield/internal/detector"
)

const validatorName = "luhn"

// BINRange maps a range of 6-digit issuer prefixes to a card brand
type BINRange struct {
	Start  int
	End    int
	Vendor string
}

// Validator checks payment card numbers with the Luhn checksum.
// Well-known test numbers are not rejected: they still look like cards to a reader.
type Validator struct {
	// BIN ranges using range checks instead of massive maps; first match wins
	binRanges []BINRange
}

// NewValidator creates and returns a new Validator instance
func NewValidator() *Validator {
	return &Validator{binRanges: initBINRanges()}
}

// initBINRanges creates BIN ranges. RuPay comes first because its ranges sit
// inside the Discover and Maestro blocks.
func initBINRanges() []BINRange {
	return []BINRange{
		// RuPay: 508500-508999, 606985-607984, 608001-608500, 652150-653149
		{508500, 508999, "RuPay"},
		{606985, 607984, "RuPay"},
		{608001, 608500, "RuPay"},
		{652150, 653149, "RuPay"},

		// Visa: 4xxxxx
		{400000, 499999, "Visa"},

		// MasterCard: 51xxxx-55xxxx, 222100-272099
		{510000, 559999, "MasterCard"},
		{222100, 272099, "MasterCard"},

		// American Express: 34xxxx, 37xxxx
		{340000, 349999, "American Express"},
		{370000, 379999, "American Express"},

		// Discover: 6011xx, 644xxx-649xxx, 65xxxx
		{601100, 601199, "Discover"},
		{644000, 649999, "Discover"},
		{650000, 659999, "Discover"},

		// JCB: 35xxxx
		{350000, 359999, "JCB"},

		// Diners Club: 30xxxx, 36xxxx, 38xxxx
		{300000, 309999, "Diners Club"},
		{360000, 369999, "Diners Club"},
		{380000, 389999, "Diners Club"},

		// UnionPay: 62xxxx
		{620000, 629999, "UnionPay"},

		// Maestro: 50xxxx, 56xxxx-58xxxx
		{500000, 509999, "Maestro"},
		{560000, 589999, "Maestro"},
	}
}

// Validate checks length and Luhn; the brand goes into Detail
func (v *Validator) Validate(value string) detector.ValidationResult {
	number, ok := cleanCreditCardNumber(value)
	if !ok {
		return detector.Inconclusive(validatorName, "not a digit sequence")
	}
	if !isValidLength(number) {
		return detector.Fail(validatorName, number, "expected 13 to 19 digits")
	}
	if !LuhnCheck(number) {
		return detector.Fail(validatorName, number, "checksum mismatch")
	}
	res := detector.Pass(validatorName, number)
	res.Detail = v.DetectCardVendor(number)
	return res
}

// DetectCardVendor uses range lookup on the first six digits
func (v *Validator) DetectCardVendor(cardNumber string) string {
	if len(cardNumber) < 6 {
		return "Unknown"
	}
	bin, err := strconv.Atoi(cardNumber[:6])
	if err != nil {
		return "Unknown"
	}
	for _, binRange := range v.binRanges {
		if bin >= binRange.Start && bin <= binRange.End {
			return binRange.Vendor
		}
	}
	return "Unknown"
}

func isValidLength(number string) bool {
	return len(number) >= 13 && len(number) <= 19
}

func cleanCreditCardNumber(number string) (string, bool) {
	clean := strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
	if clean == "" {
		return "", false
	}
	for i := 0; i < len(clean); i++ {
		if clean[i] < '0' || clean[i] > '9' {
			return "", false
		}
	}
	return clean, true
}

// LuhnCheck reports whether the weighted digit sum is a multiple of 10
func LuhnCheck(number string) bool {
	sum := 0
	isDouble := false

	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')

		if isDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isDouble = !isDouble
	}

	return sum%10 == 0
}
