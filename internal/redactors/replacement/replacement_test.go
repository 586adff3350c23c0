// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package replacement

import (
	"testing"
	"unicode/utf8"

	"piishield/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGenerateStyles(t *testing.T) {
	cats := []detector.Category{detector.Aadhaar, detector.BankAccount}

	assert.Equal(t, "[REDACTED:AADHAAR]", New(Label, "").Generate("2341 2341 2346", cats))
	assert.Equal(t, "[REDACTED]", New(Label, "").Generate("x", nil))
	assert.Equal(t, "[REDACTED]", New(Fixed, "").Generate("9876543210", cats))
	assert.Equal(t, "XXXX", New(Fixed, "XXXX").Generate("9876543210", cats))
	assert.Equal(t, "█████", New(Mask, "").Generate("रवि12", cats))
}

func TestMaskedKeepsRuneCountAndLineBreaks(t *testing.T) {
	assert.Equal(t, "███\n██", Masked("ab1\nव2"))

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "value")
		m := Masked(s)
		assert.Equal(t, utf8.RuneCountInString(s), utf8.RuneCountInString(m))
	})
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{"": Label, "LABEL": Label, "fixed": Fixed, " mask ": Mask} {
		got, err := ParseStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseStyle("synthetic")
	assert.Error(t, err)
}
