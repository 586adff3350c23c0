// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractofficetextlib

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrNoDocumentPart is returned for archives without word/document.xml
var ErrNoDocumentPart = errors.New("document.xml not found in the archive")

// Segment maps a range of the paragraph text to the raw bytes of one w:t
// element's content inside its XML part.
type Segment struct {
	Start  int
	End    int
	Offset int64
	Length int64
}

// Paragraph is the text of one w:p element
type Paragraph struct {
	Part     string
	Index    int
	Text     string
	Segments []Segment
}

// Part is one XML part of the package holding body text
type Part struct {
	Name string
	Data []byte
}

// IsTextPart reports whether a zip entry carries document text
func IsTextPart(name string) bool {
	if name == "word/document.xml" || name == "word/footnotes.xml" ||
		name == "word/endnotes.xml" || name == "word/comments.xml" {
		return true
	}
	if !strings.HasSuffix(name, ".xml") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

// ReadParts opens a docx package and returns its text parts, main document first
func ReadParts(data []byte) ([]Part, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening archive: %w", err)
	}

	var parts []Part
	found := false
	for _, file := range reader.File {
		if !IsTextPart(file.Name) {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file.Name, err)
		}
		if file.Name == "word/document.xml" {
			found = true
		}
		parts = append(parts, Part{Name: file.Name, Data: content})
	}
	if !found {
		return nil, ErrNoDocumentPart
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return partRank(parts[i].Name) < partRank(parts[j].Name) ||
			(partRank(parts[i].Name) == partRank(parts[j].Name) && parts[i].Name < parts[j].Name)
	})
	return parts, nil
}

func partRank(name string) int {
	switch {
	case name == "word/document.xml":
		return 0
	case strings.HasPrefix(name, "word/header"):
		return 1
	case strings.HasPrefix(name, "word/footer"):
		return 2
	default:
		return 3
	}
}

// paragraphBuilder accumulates one w:p while the token stream is inside it
type paragraphBuilder struct {
	order int
	text  strings.Builder
	segs  []Segment
}

// ExtractParagraphs walks the XML token stream of a part. Each w:t becomes a
// segment recording the raw byte range of its content; w:tab and w:br add a
// tab or newline to the text. Paragraphs without text are skipped.
func ExtractParagraphs(part string, data []byte) ([]Paragraph, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack    []*paragraphBuilder
		done     []*paragraphBuilder
		order    int
		inText   bool
		runStart int64
		runText  strings.Builder
	)

	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", part, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				stack = append(stack, &paragraphBuilder{order: order})
				order++
			case "t":
				inText = true
				runStart = dec.InputOffset()
				runText.Reset()
			case "tab":
				if len(stack) > 0 && !inText {
					stack[len(stack)-1].text.WriteByte('\t')
				}
			case "br", "cr":
				if len(stack) > 0 && !inText {
					stack[len(stack)-1].text.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				runText.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
				if len(stack) == 0 || runText.Len() == 0 {
					continue
				}
				pb := stack[len(stack)-1]
				start := pb.text.Len()
				pb.text.WriteString(runText.String())
				pb.segs = append(pb.segs, Segment{
					Start:  start,
					End:    pb.text.Len(),
					Offset: runStart,
					Length: before - runStart,
				})
			case "p":
				if len(stack) == 0 {
					continue
				}
				done = append(done, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		}
	}

	sort.Slice(done, func(i, j int) bool { return done[i].order < done[j].order })
	var out []Paragraph
	for _, pb := range done {
		if len(pb.segs) == 0 || strings.TrimSpace(pb.text.String()) == "" {
			continue
		}
		out = append(out, Paragraph{
			Part:     part,
			Index:    pb.order,
			Text:     pb.text.String(),
			Segments: pb.segs,
		})
	}
	return out, nil
}
