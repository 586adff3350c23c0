// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package office

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"piishield/internal/detector"
	"piishield/internal/observability"
	"piishield/internal/preprocessors"
	"piishield/internal/redactors"
	"piishield/internal/redactors/replacement"
	"piishield/internal/testutil/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, data []byte) *preprocessors.Extraction {
	t.Helper()
	reg := preprocessors.NewRegistry(observability.Nop(), preprocessors.NewOfficePreprocessor())
	ext, err := reg.Extract(context.Background(), detector.NewDocument("a.docx", detector.FormatDOCX, data))
	require.NoError(t, err)
	return ext
}

func span(unit, start, end int, cat detector.Category) detector.Span {
	return detector.Span{
		Unit:       unit,
		Locators:   []detector.Locator{{Unit: unit, Start: start, End: end}},
		Categories: []detector.Category{cat},
	}
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestRedactAcrossRuns(t *testing.T) {
	data := fixtures.DOCX(
		[]string{"Mobile: ", "98765", "43210", " (home)"},
		[]string{"R&D dept"},
	)
	ext := extract(t, data)
	require.Equal(t, "Mobile: 9876543210 (home)", ext.Units[0].Text)

	doc := detector.NewDocument("a.docx", detector.FormatDOCX, data)
	res, err := NewOfficeRedactor().Redact(context.Background(), doc, ext.Units,
		[]detector.Span{span(0, 8, 18, detector.Mobile)}, redactors.Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Applied)
	assert.Empty(t, res.Failed)

	after := extract(t, res.Output)
	assert.Equal(t, "Mobile: [REDACTED:MOBILE] (home)", after.Units[0].Text)
	assert.Equal(t, "R&D dept", after.Units[1].Text)
	assert.Equal(t, readPart(t, data, "[Content_Types].xml"), readPart(t, res.Output, "[Content_Types].xml"))
	assert.NotContains(t, readPart(t, res.Output, "word/document.xml"), "43210")
}

func TestRedactEscapesPlaceholder(t *testing.T) {
	data := fixtures.DOCX([]string{"PAN ABCDE1234F & more"})
	ext := extract(t, data)

	doc := detector.NewDocument("a.docx", detector.FormatDOCX, data)
	opts := redactors.Options{Replacer: replacement.New(replacement.Fixed, "<gone & hidden>")}
	res, err := NewOfficeRedactor().Redact(context.Background(), doc, ext.Units,
		[]detector.Span{span(0, 4, 14, detector.PAN)}, opts)
	require.NoError(t, err)

	after := extract(t, res.Output)
	assert.Equal(t, "PAN <gone & hidden> & more", after.Units[0].Text)
}

func TestRedactTwoSpansInOneRun(t *testing.T) {
	data := fixtures.DOCX([]string{"a@b.in or 9876543210"})
	ext := extract(t, data)

	doc := detector.NewDocument("a.docx", detector.FormatDOCX, data)
	res, err := NewOfficeRedactor().Redact(context.Background(), doc, ext.Units, []detector.Span{
		span(0, 0, 6, detector.Email),
		span(0, 10, 20, detector.Mobile),
	}, redactors.Options{})
	require.NoError(t, err)
	assert.True(t, res.Complete(2))

	after := extract(t, res.Output)
	assert.Equal(t, "[REDACTED:EMAIL] or [REDACTED:MOBILE]", after.Units[0].Text)
}

func TestRedactFailsStaleSegments(t *testing.T) {
	data := fixtures.DOCX([]string{"9876543210"})
	ext := extract(t, data)
	units := append([]detector.Unit(nil), ext.Units...)
	units[0].Segments = []detector.Segment{{Start: 0, End: 10, Offset: 1 << 20, Length: 10}}

	doc := detector.NewDocument("a.docx", detector.FormatDOCX, data)
	res, err := NewOfficeRedactor().Redact(context.Background(), doc, units,
		[]detector.Span{span(0, 0, 10, detector.Mobile), span(7, 0, 1, detector.Mobile)}, redactors.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "9876543210", extract(t, res.Output).Units[0].Text)
}
