// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validators

import (
	"testing"

	"piishield/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryCategoryHasAValidator(t *testing.T) {
	s := NewSet(nil)
	for _, cat := range detector.AllCategories() {
		res := s.Validate(cat, "x")
		assert.NotEqual(t, "none", res.Validator, cat.String())
	}
	assert.Equal(t, "none", s.Validate(detector.Category(99), "x").Validator)
}

func TestValidateDispatch(t *testing.T) {
	tests := []struct {
		cat    detector.Category
		value  string
		passed bool
	}{
		{detector.Aadhaar, "2341 2341 2346", true},
		{detector.Aadhaar, "4111 1111 1111", false},
		{detector.PaymentCard, "4111 1111 1111 1111", true},
		{detector.Mobile, "9876543210", true},
		{detector.BankAccount, "9876543210", true},
		{detector.PAN, "ABCPE1234F", true},
		{detector.IFSC, "SBIN0001234", true},
		{detector.Email, "test@test.com", false},
		{detector.HealthID, "12-3456-7890-1234", true},
		{detector.FatherName, "Suresh Kumar", true},
	}
	for _, tt := range tests {
		t.Run(tt.cat.String()+" "+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.passed, Validate(tt.cat, tt.value).Passed)
		})
	}
}

func TestValidateAllKeepsCandidateIDs(t *testing.T) {
	cands := []detector.Candidate{
		{ID: 0, Category: detector.Mobile, Value: "9876543210"},
		{ID: 1, Category: detector.Aadhaar, Value: "4111 1111 1111"},
	}
	res := NewSet(nil).ValidateAll(cands)
	require.Len(t, res, 2)
	assert.Equal(t, 0, res[0].CandidateID)
	assert.True(t, res[0].Passed)
	assert.Equal(t, 1, res[1].CandidateID)
	assert.False(t, res[1].Passed)
}

func TestCheckInfosCoverEveryCategory(t *testing.T) {
	infos := NewSet(nil).CheckInfos()
	names := make(map[string]bool)
	for _, info := range infos {
		names[info.Name] = true
		cat, err := detector.ParseCategory(info.Name)
		require.NoError(t, err)
		assert.Equal(t, cat.MandatoryValidator(), info.Mandatory)
		assert.Equal(t, cat.Priority(), info.Priority)
	}
	for _, cat := range detector.AllCategories() {
		assert.True(t, names[cat.String()], cat.String())
	}
}
