// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractexiflib

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ErrNoMetadata is returned when an image carries no readable metadata
var ErrNoMetadata = errors.New("no EXIF data found")

// Field is one free-text metadata value
type Field struct {
	Name  string
	Value string
}

// textTags are the EXIF tags that hold free text typed by a person
var textTags = map[exif.FieldName]bool{
	exif.ImageDescription: true,
	exif.Artist:           true,
	exif.Copyright:        true,
	exif.UserComment:      true,
	exif.XPTitle:          true,
	exif.XPComment:        true,
	exif.XPAuthor:         true,
	exif.XPKeywords:       true,
	exif.XPSubject:        true,
}

// exifWalker collects the text tags of an EXIF directory
type exifWalker struct {
	fields map[string]string
}

// Walk implements the exif.Walker interface
func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil || !textTags[name] {
		return nil
	}
	if value := tagText(name, tag); value != "" {
		w.fields[string(name)] = value
	}
	return nil
}

// ExtractText returns the free-text metadata fields of an image, sorted by
// name. JPEG comments and XMP creators are included next to the EXIF tags.
func ExtractText(data []byte) ([]Field, error) {
	fields := make(map[string]string)

	x, err := exif.Decode(bytes.NewReader(data))
	if err == nil {
		if werr := x.Walk(&exifWalker{fields: fields}); werr != nil {
			return nil, fmt.Errorf("walking EXIF tags: %w", werr)
		}
	}

	extractJFIFComment(data, fields)
	extractXMP(data, fields)

	if len(fields) == 0 {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoMetadata, err)
		}
		return nil, ErrNoMetadata
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Field, 0, len(names))
	for _, name := range names {
		out = append(out, Field{Name: name, Value: fields[name]})
	}
	return out, nil
}

// tagText decodes a tag to text. ASCII tags are NUL-terminated, UserComment
// starts with an 8-byte character code and the Windows XP tags are UTF-16LE.
func tagText(name exif.FieldName, tag *tiff.Tag) string {
	switch {
	case name == exif.UserComment:
		if len(tag.Val) <= 8 {
			return ""
		}
		code := string(bytes.TrimRight(tag.Val[:8], "\x00 "))
		if code == "UNICODE" {
			return cleanText(decodeUTF16(tag.Val[8:]))
		}
		return cleanText(string(tag.Val[8:]))
	case strings.HasPrefix(string(name), "XP"):
		return cleanText(decodeUTF16(tag.Val))
	case tag.Format() == tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return cleanText(s)
	default:
		return ""
	}
}

func decodeUTF16(b []byte) string {
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])|uint16(b[i+1])<<8)
	}
	return string(utf16.Decode(u))
}

func cleanText(s string) string {
	s = strings.TrimRight(s, "\x00")
	s = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

var xmpCreator = regexp.MustCompile(`dc:creator[^>]*>(?:\s*<rdf:Seq>\s*<rdf:li[^>]*>)?([^<]+)`)

// extractXMP reads the creator out of an XMP packet
func extractXMP(data []byte, fields map[string]string) {
	start := bytes.Index(data, []byte("<?xpacket"))
	if start == -1 {
		return
	}
	end := bytes.Index(data[start:], []byte("<?xpacket end"))
	if end == -1 {
		return
	}
	if m := xmpCreator.FindSubmatch(data[start : start+end]); len(m) > 1 {
		if v := strings.TrimSpace(string(m[1])); v != "" {
			fields["XMP_Creator"] = v
		}
	}
}

// extractJFIFComment reads the first JPEG COM segment
func extractJFIFComment(data []byte, fields map[string]string) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return
	}
	for i := 2; i+4 <= len(data); {
		if data[i] != 0xFF {
			return
		}
		marker := data[i+1]
		if marker == 0xDA || marker == 0xD9 {
			return
		}
		length := int(data[i+2])<<8 | int(data[i+3])
		if length < 2 || i+2+length > len(data) {
			return
		}
		if marker == 0xFE {
			if comment := cleanText(string(data[i+4 : i+2+length])); comment != "" {
				fields["JFIF_Comment"] = comment
			}
			return
		}
		i += 2 + length
	}
}
