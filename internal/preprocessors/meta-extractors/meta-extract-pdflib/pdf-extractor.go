// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractpdflib

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrNoMetadata is returned when a PDF has no document information dictionary
var ErrNoMetadata = errors.New("no document information dictionary")

// InfoFields are the entries of the document information dictionary that
// hold free text. Producer and the dates are written by software.
var InfoFields = []string{"Title", "Author", "Subject", "Keywords", "Creator"}

// Field is one free-text metadata value
type Field struct {
	Name  string
	Value string
}

// ExtractText returns the free-text entries of the document information
// dictionary in InfoFields order. Entries that do not decode to printable
// text, such as values of encrypted documents, are skipped.
func ExtractText(data []byte) (fields []Field, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields, err = nil, fmt.Errorf("error reading document information: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	info := r.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return nil, ErrNoMetadata
	}

	for _, name := range InfoFields {
		v := info.Key(name)
		if v.Kind() != pdf.String {
			continue
		}
		text := strings.TrimSpace(v.Text())
		if text == "" || containsNonPrintableChars(text) {
			continue
		}
		fields = append(fields, Field{Name: name, Value: text})
	}
	return fields, nil
}

// containsNonPrintableChars checks for control characters other than
// whitespace, which mark binary or encrypted values
func containsNonPrintableChars(s string) bool {
	for _, r := range s {
		if r == unicode.ReplacementChar || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			return true
		}
	}
	return false
}
