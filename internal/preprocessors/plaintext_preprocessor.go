// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"context"

	"piishield/internal/detector"
)

// PlainTextPreprocessor splits plain text into paragraphs. Unit text holds the
// exact source bytes, invalid UTF-8 included, so byte offsets map 1:1 back
// to the document.
type PlainTextPreprocessor struct{}

// NewPlainTextPreprocessor creates a new plain text preprocessor
func NewPlainTextPreprocessor() *PlainTextPreprocessor {
	return &PlainTextPreprocessor{}
}

// Name returns the name of this preprocessor
func (ptp *PlainTextPreprocessor) Name() string {
	return "plaintext"
}

// Formats returns the formats this preprocessor supports
func (ptp *PlainTextPreprocessor) Formats() []detector.Format {
	return []detector.Format{detector.FormatText}
}

// Extract emits one unit per block of non-blank lines
func (ptp *PlainTextPreprocessor) Extract(ctx context.Context, doc *detector.Document) (*Extraction, error) {
	data := doc.Bytes()
	ext := &Extraction{PageCount: 1}

	start := -1 // start of the current paragraph, -1 between paragraphs
	end := 0    // end of the last non-blank line
	flush := func() {
		if start >= 0 {
			ext.addUnit(textUnit(data, start, end))
			start = -1
		}
	}

	for pos := 0; pos < len(data); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nl := bytes.IndexByte(data[pos:], '\n')
		lineEnd := len(data)
		next := len(data)
		if nl >= 0 {
			lineEnd = pos + nl
			next = lineEnd + 1
		}
		content := lineEnd
		if content > pos && data[content-1] == '\r' {
			content--
		}
		if len(bytes.TrimSpace(data[pos:content])) == 0 {
			flush()
		} else {
			if start < 0 {
				start = pos
			}
			end = content
		}
		pos = next
	}
	flush()
	return ext, nil
}

func textUnit(data []byte, start, end int) detector.Unit {
	return detector.Unit{
		Text:   string(data[start:end]),
		Origin: detector.Origin{Offset: int64(start)},
		Source: detector.SourceTextLayer,
		Segments: []detector.Segment{{
			Start:  0,
			End:    end - start,
			Offset: int64(start),
			Length: int64(end - start),
		}},
	}
}
