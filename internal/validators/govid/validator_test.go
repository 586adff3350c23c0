// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package govid

import (
	"testing"

	"piishield/internal/detector"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		fn     func(string) detector.ValidationResult
		value  string
		passed bool
	}{
		{"pan", v.ValidatePAN, "ABCPE1234F", true},
		{"pan lowercase", v.ValidatePAN, "abcpe1234f", true},
		{"pan bad holder type", v.ValidatePAN, "ABCDE1234F", false},
		{"pan placeholder letters", v.ValidatePAN, "AAAAA1234A", false},
		{"pan placeholder digits", v.ValidatePAN, "ABCPE0000F", false},
		{"pan shape", v.ValidatePAN, "ABCP1234F", false},
		{"dl", v.ValidateDrivingLicense, "MH-1420110062821", true},
		{"dl spaced", v.ValidateDrivingLicense, "MH14 2011 0062821", true},
		{"dl short", v.ValidateDrivingLicense, "MH142011006282", false},
		{"voter", v.ValidateVoterID, "ABC1234567", true},
		{"voter shape", v.ValidateVoterID, "AB12345678", false},
		{"passport", v.ValidatePassport, "K1234567", true},
		{"passport q series", v.ValidatePassport, "Q1234567", false},
		{"passport zeros", v.ValidatePassport, "K0000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.passed, tt.fn(tt.value).Passed)
		})
	}
}

func TestInconclusiveOnForeignCharacters(t *testing.T) {
	v := NewValidator()
	for _, res := range []detector.ValidationResult{
		v.ValidatePAN("ABC/E1234F"),
		v.ValidateVoterID("ABC_1234567"),
		v.ValidatePassport(""),
	} {
		assert.True(t, res.Inconclusive)
		assert.False(t, res.Passed)
	}
}
