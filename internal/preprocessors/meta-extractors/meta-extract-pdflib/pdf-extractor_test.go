// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractpdflib

import (
	"testing"

	"piishield/internal/testutil/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	data := fixtures.PDFWithInfo(map[string]string{
		"Author":   "Ravi Kumar",
		"Producer": "ReportLab",
		"Title":    "Statement (June)",
	}, []fixtures.PDFLine{{X: 72, Y: 700, Text: "hello"}})

	fields, err := ExtractText(data)
	require.NoError(t, err)
	assert.Equal(t, []Field{
		{Name: "Title", Value: "Statement (June)"},
		{Name: "Author", Value: "Ravi Kumar"},
	}, fields)
}

func TestExtractTextWithoutInfo(t *testing.T) {
	_, err := ExtractText(fixtures.PDF([]fixtures.PDFLine{{X: 72, Y: 700, Text: "hello"}}))
	assert.ErrorIs(t, err, ErrNoMetadata)
}

func TestExtractTextGarbage(t *testing.T) {
	_, err := ExtractText([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestContainsNonPrintableChars(t *testing.T) {
	assert.False(t, containsNonPrintableChars("Ravi Kumar\tjr"))
	assert.True(t, containsNonPrintableChars("\x01\x02"))
}
