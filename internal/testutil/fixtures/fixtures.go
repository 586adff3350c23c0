// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fixtures builds small documents in every supported format for tests
package fixtures

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PDFLine is one line of text drawn at (X, Y) in PDF user space
type PDFLine struct {
	X, Y float64
	Size float64
	Text string
}

// PDF builds a PDF with one page per argument, text set in a monospaced
// font with explicit glyph widths. A page with no lines has an empty
// content stream.
func PDF(pages ...[]PDFLine) []byte {
	return PDFWithInfo(nil, pages...)
}

// PDFWithInfo is PDF with a document information dictionary holding info
func PDFWithInfo(info map[string]string, pages ...[]PDFLine) []byte {
	var objects []string

	widths := strings.TrimSpace(strings.Repeat("600 ", 95))
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled once page object numbers are known
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /FirstChar 32 /LastChar 126 /Widths ["+widths+"] /Encoding /WinAnsiEncoding >>",
	)

	var kids []string
	for _, lines := range pages {
		var content strings.Builder
		for _, l := range lines {
			size := l.Size
			if size == 0 {
				size = 12
			}
			fmt.Fprintf(&content, "BT /F1 %g Tf %g %g Td (%s) Tj ET\n", size, l.X, l.Y, escapePDFString(l.Text))
		}
		pageNum := len(objects) + 1
		contentNum := pageNum + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentNum),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	infoRef := ""
	if len(info) > 0 {
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var d strings.Builder
		d.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&d, " /%s (%s)", k, escapePDFString(info[k]))
		}
		d.WriteString(" >>")
		objects = append(objects, d.String())
		infoRef = fmt.Sprintf(" /Info %d 0 R", len(objects))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, infoRef, xref)
	return buf.Bytes()
}

func escapePDFString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// DocumentXML renders paragraphs of runs as a WordprocessingML body
func DocumentXML(paragraphs ...[]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, runs := range paragraphs {
		b.WriteString("<w:p>")
		for _, r := range runs {
			b.WriteString(`<w:r><w:t xml:space="preserve">`)
			xml.EscapeText(&b, []byte(r))
			b.WriteString("</w:t></w:r>")
		}
		b.WriteString("</w:p>")
	}
	b.WriteString("</w:body></w:document>")
	return b.String()
}

// DOCX builds a Word package whose body holds the given paragraphs, each
// paragraph a list of runs
func DOCX(paragraphs ...[]string) []byte {
	return Package(map[string]string{"word/document.xml": DocumentXML(paragraphs...)})
}

// Package builds a docx zip from raw parts. Content types and the root
// relationship are added when missing. Entries are written in name order.
func Package(parts map[string]string) []byte {
	all := map[string]string{
		"[Content_Types].xml": contentTypes,
		"_rels/.rels":         rootRels,
	}
	for name, data := range parts {
		all[name] = data
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(all[name])); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Sheet is one worksheet of an XLSX fixture
type Sheet struct {
	Name string
	Rows [][]string
}

// XLSX builds a workbook with the given sheets
func XLSX(sheets ...Sheet) []byte {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				panic(err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			panic(err)
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == "" {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					panic(err)
				}
				if err := f.SetCellStr(s.Name, ref, v); err != nil {
					panic(err)
				}
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNG builds a white image of the given size with a black block at block
func PNG(w, h int, block image.Rectangle) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if (image.Point{X: x, Y: y}).In(block) {
				c = color.RGBA{A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
