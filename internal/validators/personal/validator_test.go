// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestValidateDOB(t *testing.T) {
	v := NewValidator(fixedClock)

	tests := []struct {
		value        string
		passed       bool
		inconclusive bool
		normalized   string
	}{
		{"15/08/1990", true, false, "1990-08-15"},
		{"15-08-1990", true, false, "1990-08-15"},
		{"08/15/1990", true, false, "1990-08-15"},
		{"1990-08-15", true, false, "1990-08-15"},
		{"15 Aug 1990", true, false, "1990-08-15"},
		{"15 August, 1990", true, false, "1990-08-15"},
		{"15.08.1990", true, false, "1990-08-15"},
		{"01/01/1899", false, false, "1899-01-01"},
		{"01/01/2030", false, false, "2030-01-01"},
		{"32/13/1990", false, true, ""},
		{"15/08/90", false, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := v.ValidateDOB(tt.value)
			assert.Equal(t, tt.passed, res.Passed)
			assert.Equal(t, tt.inconclusive, res.Inconclusive)
			assert.Equal(t, tt.normalized, res.Normalized)
		})
	}
}

func TestValidateAge(t *testing.T) {
	v := NewValidator(nil)
	assert.True(t, v.ValidateAge("0").Passed)
	assert.True(t, v.ValidateAge("34").Passed)
	assert.True(t, v.ValidateAge("150").Passed)
	assert.False(t, v.ValidateAge("151").Passed)
	assert.True(t, v.ValidateAge("thirty").Inconclusive)
}

func TestValidatePincode(t *testing.T) {
	v := NewValidator(nil)
	assert.True(t, v.ValidatePincode("560001").Passed)
	assert.True(t, v.ValidatePincode("560 001").Passed)
	assert.False(t, v.ValidatePincode("060001").Passed)
	assert.False(t, v.ValidatePincode("56001").Passed)
	assert.True(t, v.ValidatePincode("56O001").Inconclusive)
}

func TestValidateName(t *testing.T) {
	v := NewValidator(nil)
	tests := []struct {
		value  string
		passed bool
	}{
		{"Ravi Kumar", true},
		{"Dr. Anjali Rao", true},
		{"Smt Lakshmi Devi", true},
		{"Mr", false},
		{"Dr. Mrs", false},
		{"Name", false},
		{"R2D2", false},
		{"A", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.passed, v.ValidateName(tt.value).Passed)
		})
	}
}

func TestValidateAddress(t *testing.T) {
	v := NewValidator(nil)
	assert.True(t, v.ValidateAddress("12 MG Road, Bengaluru").Passed)
	assert.True(t, v.ValidateAddress("Flat 4B, Shanti Apartments, Pune").Passed)
	assert.False(t, v.ValidateAddress("MG Rd").Passed)
	assert.False(t, v.ValidateAddress("Bengaluru, Karnataka").Passed)
}

func TestValidateIdentifiers(t *testing.T) {
	v := NewValidator(nil)
	assert.True(t, v.ValidateBiometric("123456789012").Passed)
	assert.False(t, v.ValidateBiometric("12345678901").Passed)
	assert.True(t, v.ValidateBiometric("12-34").Inconclusive)

	res := v.ValidateHealthID("12-3456-7890-1234")
	assert.True(t, res.Passed)
	assert.Equal(t, "12345678901234", res.Normalized)
	assert.True(t, v.ValidateHealthID("12345678901234").Passed)
	assert.False(t, v.ValidateHealthID("1234567890123").Passed)
}
