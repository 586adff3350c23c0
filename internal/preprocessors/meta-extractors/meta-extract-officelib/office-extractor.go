// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractofficelib

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoMetadata is returned for packages without document properties
var ErrNoMetadata = errors.New("no document properties found")

// maxPropertiesPartSize caps a docProps part; real ones are a few kilobytes
const maxPropertiesPartSize = 10 * 1024 * 1024

// Property parts of an Office Open XML package
const (
	CorePart   = "docProps/core.xml"
	AppPart    = "docProps/app.xml"
	CustomPart = "docProps/custom.xml"
)

// coreFields are the core properties that hold text typed by a person
var coreFields = map[string]bool{
	"title":          true,
	"subject":        true,
	"creator":        true,
	"keywords":       true,
	"description":    true,
	"lastModifiedBy": true,
	"category":       true,
}

// appFields are the extended properties that name people or organizations
var appFields = map[string]bool{
	"Company": true,
	"Manager": true,
}

// Property is one free-text document property. Offset and Length address
// the raw bytes of the element content inside Part, so the value can be
// rewritten in place.
type Property struct {
	Part   string
	Name   string
	Value  string
	Offset int64
	Length int64
}

// ExtractProperties returns the free-text core, extended and custom
// properties of a package in part order. Unreadable property parts are
// returned as an error next to the properties that could be read.
func ExtractProperties(data []byte) ([]Property, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening archive: %w", err)
	}

	index := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		index[f.Name] = f
	}

	var (
		props []Property
		errs  []error
		found bool
	)
	for _, part := range []string{CorePart, AppPart, CustomPart} {
		f, ok := index[part]
		if !ok {
			continue
		}
		found = true
		content, err := readPart(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parsed, err := parseProperties(part, content)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		props = append(props, parsed...)
	}
	if !found {
		return nil, ErrNoMetadata
	}
	return props, errors.Join(errs...)
}

func readPart(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxPropertiesPartSize {
		return nil, fmt.Errorf("%s: part too large (%d bytes)", f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	content, err := io.ReadAll(io.LimitReader(rc, maxPropertiesPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return content, nil
}

// parseProperties walks the token stream of one property part. Only leaf
// elements with character content are reported; custom properties are named
// after their name attribute.
func parseProperties(part string, data []byte) ([]Property, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		out        []Property
		field      string
		custom     string
		valueStart int64
		value      strings.Builder
		nested     bool
	)
	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, fmt.Errorf("parsing %s: %w", part, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if field != "" {
				// mixed content cannot be rewritten in place
				nested = true
				continue
			}
			if name := fieldName(part, t, &custom); name != "" {
				field = name
				valueStart = dec.InputOffset()
				value.Reset()
				nested = false
			}
		case xml.CharData:
			if field != "" {
				value.Write(t)
			}
		case xml.EndElement:
			if part == CustomPart && t.Name.Local == "property" {
				custom = ""
			}
			if field == "" || !matchesField(part, t.Name.Local, field) {
				continue
			}
			if !nested && strings.TrimSpace(value.String()) != "" {
				out = append(out, Property{
					Part:   part,
					Name:   field,
					Value:  value.String(),
					Offset: valueStart,
					Length: before - valueStart,
				})
			}
			field = ""
		}
	}
	return out, nil
}

// fieldName returns the property name an element opens, or "" when the
// element is not a free-text property
func fieldName(part string, t xml.StartElement, custom *string) string {
	switch part {
	case CorePart:
		if coreFields[t.Name.Local] {
			return t.Name.Local
		}
	case AppPart:
		if appFields[t.Name.Local] {
			return t.Name.Local
		}
	case CustomPart:
		if t.Name.Local == "property" {
			for _, a := range t.Attr {
				if a.Name.Local == "name" {
					*custom = a.Value
				}
			}
			return ""
		}
		if *custom != "" && (t.Name.Local == "lpwstr" || t.Name.Local == "lpstr" || t.Name.Local == "bstr") {
			return "custom:" + *custom
		}
	}
	return ""
}

func matchesField(part, local, field string) bool {
	if part == CustomPart {
		return local == "lpwstr" || local == "lpstr" || local == "bstr"
	}
	return local == field
}
