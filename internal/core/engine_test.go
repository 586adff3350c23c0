// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"piishield/internal/config"
	"piishield/internal/detector"
	metaextractofficelib "piishield/internal/preprocessors/meta-extractors/meta-extract-officelib"
	ocr "piishield/internal/preprocessors/ocr-extractors/ocr-extract-tesseractlib"
	"piishield/internal/testutil/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithRecognizer(nil),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewEngine(append(base, opts...)...)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Workers = 2
	return cfg
}

func process(t *testing.T, e *Engine, name string, format detector.Format, data []byte, cfg *config.Config) *Result {
	t.Helper()
	res, err := e.Process(context.Background(), detector.NewDocument(name, format, data), cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
	return res
}

func decisionsFor(scored []detector.ScoredCandidate, cat detector.Category) []detector.ScoredCandidate {
	var out []detector.ScoredCandidate
	for _, sc := range scored {
		if sc.Candidate.Category == cat {
			out = append(out, sc)
		}
	}
	return out
}

func TestProcessMobile(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		// bank is the expected confidence of the overlapping BANK_ACCOUNT
		// candidate; zero skips the check
		bank float64
	}{
		{
			name:   "labelled",
			input:  "Mobile: 9876543210",
			output: "Mobile: [REDACTED:MOBILE]",
		},
		{
			name:   "in a sentence",
			input:  "Call me at 9876543210 for details",
			output: "Call me at [REDACTED:MOBILE] for details",
			bank:   0.6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := process(t, newTestEngine(), "a.txt", detector.FormatText, []byte(tt.input), testConfig())

			assert.Equal(t, tt.output, string(res.Output))
			s := res.Summary
			assert.True(t, s.Success)
			assert.Equal(t, 1, s.Total)
			assert.Equal(t, map[string]int{"MOBILE": 1}, s.Categories)
			assert.InDelta(t, 1.0, s.AverageConfidence, 1e-9)
			require.NotNil(t, s.Verification)
			assert.True(t, s.Verification.Clean())

			mobiles := decisionsFor(res.Scored, detector.Mobile)
			require.Len(t, mobiles, 1)
			assert.Equal(t, detector.DecisionAccepted, mobiles[0].Decision)
			assert.InDelta(t, 1.0, mobiles[0].Confidence, 1e-9)

			banks := decisionsFor(res.Scored, detector.BankAccount)
			for _, sc := range banks {
				assert.Equal(t, detector.DecisionBelowThreshold, sc.Decision)
				assert.Less(t, sc.Confidence, 0.8)
			}
			if tt.bank > 0 {
				require.Len(t, banks, 1)
				assert.InDelta(t, tt.bank, banks[0].Confidence, 1e-9)
			}
		})
	}
}

func TestProcessBareCard(t *testing.T) {
	res := process(t, newTestEngine(), "a.txt", detector.FormatText, []byte("4111 1111 1111 1111"), testConfig())

	assert.Contains(t, string(res.Output), "[REDACTED:PAYMENT_CARD]")
	assert.NotContains(t, string(res.Output), "4111")
	assert.True(t, res.Summary.Success)

	cards := decisionsFor(res.Scored, detector.PaymentCard)
	require.Len(t, cards, 1)
	assert.InDelta(t, 0.85, cards[0].Confidence, 1e-9)

	for _, sc := range decisionsFor(res.Scored, detector.Aadhaar) {
		assert.Equal(t, detector.DecisionRejected, sc.Decision)
	}
}

func TestProcessInvoiceNumberIsKept(t *testing.T) {
	text := "Invoice #4111111111111111 total due"
	res := process(t, newTestEngine(), "a.txt", detector.FormatText, []byte(text), testConfig())

	assert.Equal(t, text, string(res.Output))
	assert.Zero(t, res.Summary.Total)
	assert.True(t, res.Summary.Success)
	for _, sc := range decisionsFor(res.Scored, detector.PaymentCard) {
		assert.False(t, sc.Accepted())
		assert.Less(t, sc.Confidence, 0.8)
	}
}

func TestProcessUnsupportedFormat(t *testing.T) {
	_, err := newTestEngine().Process(context.Background(), detector.NewDocument("a.zip", "zip", []byte("PK")), testConfig())
	assert.ErrorIs(t, err, detector.ErrUnsupportedFormat)

	cfg := testConfig()
	cfg.SupportedFormats = []detector.Format{detector.FormatText}
	_, err = newTestEngine().Process(context.Background(), detector.NewDocument("a.pdf", detector.FormatPDF, fixtures.PDF(nil)), cfg)
	assert.ErrorIs(t, err, detector.ErrUnsupportedFormat)
}

func TestProcessCorruptDocument(t *testing.T) {
	_, err := newTestEngine().Process(context.Background(), detector.NewDocument("a.docx", detector.FormatDOCX, []byte("not a zip")), testConfig())
	assert.ErrorIs(t, err, detector.ErrCorruptDocument)
}

func TestProcessInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ConfidenceThreshold = 2
	_, err := newTestEngine().Process(context.Background(), detector.NewDocument("a.txt", detector.FormatText, []byte("x")), cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestProcessOutputRescansClean(t *testing.T) {
	input := "Name: Ravi Kumar\nMobile: 9876543210\nEmail: ravi@example.in\nPAN: ABCPK1234F\n"
	e := newTestEngine()
	first := process(t, e, "a.txt", detector.FormatText, []byte(input), testConfig())
	require.Greater(t, first.Summary.Total, 0)

	second := process(t, e, "a.txt", detector.FormatText, first.Output, testConfig())
	assert.Zero(t, second.Summary.Stats.Accepted)
	assert.Equal(t, string(first.Output), string(second.Output))
}

func TestScanLeavesDocumentAlone(t *testing.T) {
	res, err := newTestEngine().Scan(context.Background(),
		detector.NewDocument("a.txt", detector.FormatText, []byte("Mobile: 9876543210")), testConfig())
	require.NoError(t, err)
	assert.Nil(t, res.Output)
	assert.Equal(t, 1, res.Summary.Total)
	assert.Nil(t, res.Summary.Verification)
	assert.True(t, res.Summary.Success)
}

func TestProcessDisabledCategory(t *testing.T) {
	cfg := testConfig()
	cfg.Categories = map[string]bool{"MOBILE": false}
	res := process(t, newTestEngine(), "a.txt", detector.FormatText, []byte("Mobile: 9876543210"), cfg)
	assert.Empty(t, decisionsFor(res.Scored, detector.Mobile))
	assert.NotContains(t, res.Summary.Categories, "MOBILE")
}

func TestProcessDOCX(t *testing.T) {
	data := fixtures.DOCX(
		[]string{"Customer mobile: ", "98765", "43210"},
		[]string{"Email: ravi@example.in"},
	)
	res := process(t, newTestEngine(), "a.docx", detector.FormatDOCX, data, testConfig())

	assert.True(t, res.Summary.Success)
	assert.Equal(t, 1, res.Summary.Categories["MOBILE"])
	assert.Equal(t, 1, res.Summary.Categories["EMAIL"])
	assert.True(t, res.Summary.Verification.Clean())
	assert.False(t, bytes.Contains(res.Output, []byte("ravi@example.in")))
}

func TestProcessDOCXProperties(t *testing.T) {
	data := fixtures.Package(map[string]string{
		"word/document.xml": fixtures.DocumentXML([]string{"Quarterly notes"}),
		"docProps/core.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
			`<dc:title>Notes</dc:title><dc:description>Email: ravi@example.in</dc:description></cp:coreProperties>`,
	})
	res := process(t, newTestEngine(), "a.docx", detector.FormatDOCX, data, testConfig())

	assert.True(t, res.Summary.Success)
	assert.Equal(t, 1, res.Summary.Categories["EMAIL"])
	require.Len(t, res.Summary.Units, 1)
	assert.Equal(t, detector.SourceMetadata, res.Summary.Units[0].Source)
	assert.Equal(t, "description", res.Summary.Units[0].Origin.Field)
	assert.True(t, res.Summary.Verification.Clean())

	props, err := metaextractofficelib.ExtractProperties(res.Output)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "Notes", props[0].Value)
	assert.Equal(t, "Email: [REDACTED:EMAIL]", props[1].Value)
}

func TestProcessXLSX(t *testing.T) {
	data := fixtures.XLSX(fixtures.Sheet{Name: "Customers", Rows: [][]string{
		{"Name", "Mobile"},
		{"Ravi", "9876543210"},
	}})
	res := process(t, newTestEngine(), "a.xlsx", detector.FormatXLSX, data, testConfig())

	assert.True(t, res.Summary.Success)
	assert.Equal(t, 1, res.Summary.Categories["MOBILE"])
	require.Len(t, res.Summary.Units, 1)
	assert.Equal(t, "B2", res.Summary.Units[0].Origin.Cell)
	assert.True(t, res.Summary.Verification.Clean())
}

func TestProcessPDFMasksTextLayer(t *testing.T) {
	data := fixtures.PDF([]fixtures.PDFLine{{X: 72, Y: 700, Text: "Mobile: 9876543210"}})
	res := process(t, newTestEngine(), "a.pdf", detector.FormatPDF, data, testConfig())

	s := res.Summary
	assert.True(t, s.Success)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.PageCount)
	require.NotNil(t, s.Verification)
	assert.Zero(t, s.Verification.Residual)
	assert.GreaterOrEqual(t, s.Verification.Masked, 1)
	require.Len(t, s.Units, 1)
	assert.NotEmpty(t, s.Units[0].Spans[0].Boxes)
}

func TestProcessPDFInfoDictionary(t *testing.T) {
	data := fixtures.PDFWithInfo(
		map[string]string{"Title": "Loan file", "Subject": "Email: ravi@example.in"},
		[]fixtures.PDFLine{{X: 72, Y: 700, Text: "Nothing to see here"}},
	)
	res := process(t, newTestEngine(), "a.pdf", detector.FormatPDF, data, testConfig())

	s := res.Summary
	assert.True(t, s.Success)
	assert.Equal(t, 1, s.Categories["EMAIL"])
	require.Len(t, s.Units, 1)
	assert.Equal(t, "Subject", s.Units[0].Origin.Field)
	require.NotNil(t, s.Verification)
	assert.Zero(t, s.Verification.Residual)
	assert.Zero(t, s.Verification.Masked)
}

// inkRecognizer returns the words whose box centre is not red, standing in
// for OCR that can no longer read painted-over text
func inkRecognizer(words ...ocr.Word) ocr.Recognizer {
	return ocr.FuncRecognizer(func(ctx context.Context, img image.Image) ([]ocr.Word, error) {
		var out []ocr.Word
		for _, w := range words {
			c := w.Box.Min.Add(w.Box.Size().Div(2))
			r, g, b, _ := img.At(c.X, c.Y).RGBA()
			if r>>8 == 255 && g == 0 && b == 0 {
				continue
			}
			out = append(out, w)
		}
		return out, nil
	})
}

func TestProcessImagePaintsOCRBoxes(t *testing.T) {
	numberBox := image.Rect(70, 10, 170, 30)
	recognizer := inkRecognizer(
		ocr.Word{Text: "Mobile:", Box: image.Rect(10, 10, 60, 30), Confidence: 95},
		ocr.Word{Text: "9876543210", Box: numberBox, Confidence: 95},
	)
	cfg := testConfig()
	cfg.RedactionColor = config.Color{R: 255}

	res := process(t, newTestEngine(WithRecognizer(recognizer)), "a.png", detector.FormatImage, fixtures.PNG(200, 40, numberBox), cfg)
	s := res.Summary
	assert.True(t, s.Success)
	assert.Equal(t, 1, s.Categories["MOBILE"])
	assert.True(t, s.Verification.Clean())

	img, _, err := image.Decode(bytes.NewReader(res.Output))
	require.NoError(t, err)
	assert.Equal(t, color.RGBAModel.Convert(img.At(120, 20)), color.RGBA{R: 255, A: 255})
	assert.Equal(t, color.RGBAModel.Convert(img.At(30, 5)), color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func TestProcessImageWithoutOCRIsDegraded(t *testing.T) {
	res := process(t, newTestEngine(), "a.png", detector.FormatImage, fixtures.PNG(20, 20, image.Rect(0, 0, 5, 5)), testConfig())
	assert.True(t, res.Summary.Degraded)
	assert.Zero(t, res.Summary.Total)
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := fixtures.PDF([]fixtures.PDFLine{{X: 72, Y: 700, Text: "Mobile: 9876543210"}})
	_, err := newTestEngine().Process(ctx, detector.NewDocument("a.pdf", detector.FormatPDF, data), testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
