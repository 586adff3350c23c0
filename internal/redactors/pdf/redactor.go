// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdf

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"piishield/internal/config"
	"piishield/internal/detector"
	"piishield/internal/parallel"
	"piishield/internal/redactors"
)

// maskPadding grows every mask by this many points on each side
const maskPadding = 1.0

// PDFRedactor implements redaction for PDF files using pdfcpu. Every page
// with spans gets an extra content stream of filled rectangles. The original
// content is wrapped in q/Q so its graphics state cannot leak into the masks.
// Spans in document information entries are replaced with their placeholder.
type PDFRedactor struct{}

// NewPDFRedactor creates a new PDFRedactor
func NewPDFRedactor() *PDFRedactor {
	return &PDFRedactor{}
}

// Name returns the name of the redactor
func (pr *PDFRedactor) Name() string {
	return "pdf"
}

// Formats returns the formats this redactor handles
func (pr *PDFRedactor) Formats() []detector.Format {
	return []detector.Format{detector.FormatPDF}
}

// pageMasks holds the rectangles of one page and the spans they came from
type pageMasks struct {
	page  int
	spans []int
	boxes []detector.Box
}

// Redact masks every span on its page
func (pr *PDFRedactor) Redact(ctx context.Context, doc *detector.Document, units []detector.Unit, spans []detector.Span, opts redactors.Options) (*redactors.Result, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	// classic xref table, no object streams
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	pctx, err := api.ReadValidateAndOptimize(doc.Reader(), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	res := redactors.NewResult()
	byPage := make(map[int]*pageMasks)
	byField := make(map[int][]int)
	for i, span := range spans {
		if span.Unit < 0 || span.Unit >= len(units) {
			res.Fail(i, doc.Name, detector.Origin{}, "span does not address a unit")
			continue
		}
		unit := units[span.Unit]
		if unit.Source == detector.SourceMetadata {
			byField[span.Unit] = append(byField[span.Unit], i)
			continue
		}
		page := unit.Origin.Page
		if page < 1 || page > pctx.PageCount {
			res.Fail(i, doc.Name, unit.Origin, "span is not on a page of the document")
			continue
		}
		boxes := nonEmpty(span.Boxes)
		if len(boxes) == 0 {
			boxes = unit.BoxesFor(span.Start(), span.End())
		}
		if len(boxes) == 0 {
			res.Fail(i, doc.Name, unit.Origin, "span has no geometry")
			continue
		}
		pm, ok := byPage[page]
		if !ok {
			pm = &pageMasks{page: page}
			byPage[page] = pm
		}
		pm.spans = append(pm.spans, i)
		pm.boxes = append(pm.boxes, boxes...)
	}

	pages := make([]*pageMasks, 0, len(byPage))
	for _, pm := range byPage {
		pages = append(pages, pm)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].page < pages[j].page })

	overlays, errs := parallel.Map(ctx, "pdf_masks", opts.Workers, opts.Observer, pages,
		func(ctx context.Context, _ int, pm *pageMasks) ([]byte, error) {
			return MaskContent(pm.boxes, opts.Color), nil
		})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	applyMasks(pctx, res, doc.Name, units, spans, pages, overlays, errs)

	for ui, spanIdx := range byField {
		unit := units[ui]
		if err := rewriteInfo(pctx, unit.Origin.Field, redactors.Splice(unit.Text, spans, spanIdx, opts)); err != nil {
			for _, si := range spanIdx {
				res.Fail(si, doc.Name, unit.Origin, err.Error())
			}
			continue
		}
		for _, si := range spanIdx {
			res.Apply(si)
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(pctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	res.Output = buf.Bytes()
	res.Sort()
	return res, nil
}

// applyMasks attaches the overlay of every page and accounts for its spans.
// A page whose overlay was not built gets no mask and fails its spans.
func applyMasks(pctx *model.Context, res *redactors.Result, document string, units []detector.Unit, spans []detector.Span, pages []*pageMasks, overlays [][]byte, errs []error) {
	for i, pm := range pages {
		err := errs[i]
		if err == nil {
			err = attachOverlay(pctx, pm.page, overlays[i])
		}
		if err != nil {
			for _, si := range pm.spans {
				res.Fail(si, document, units[spans[si].Unit].Origin, err.Error())
			}
			continue
		}
		for _, si := range pm.spans {
			res.Apply(si)
		}
	}
}

// MaskContent renders boxes as a content stream of filled rectangles
func MaskContent(boxes []detector.Box, c config.Color) []byte {
	r, g, b := c.Unit()
	var sb strings.Builder
	sb.WriteString("q\n")
	fmt.Fprintf(&sb, "%s %s %s rg\n", num(r), num(g), num(b))
	for _, box := range boxes {
		if box.Empty() {
			continue
		}
		fmt.Fprintf(&sb, "%s %s %s %s re\n",
			num(box.X0-maskPadding), num(box.Y0-maskPadding),
			num(box.Width()+2*maskPadding), num(box.Height()+2*maskPadding))
	}
	sb.WriteString("f\nQ\n")
	return []byte(sb.String())
}

func nonEmpty(boxes []detector.Box) []detector.Box {
	var out []detector.Box
	for _, b := range boxes {
		if !b.Empty() {
			out = append(out, b)
		}
	}
	return out
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// attachOverlay appends overlay to the page content, wrapping the existing
// streams in q/Q
func attachOverlay(pctx *model.Context, pageNr int, overlay []byte) error {
	d, _, _, err := pctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNr, err)
	}
	if d == nil {
		return fmt.Errorf("page %d: no page dictionary", pageNr)
	}

	var existing types.Array
	if obj, found := d.Find("Contents"); found && obj != nil {
		switch o := obj.(type) {
		case types.IndirectRef:
			deref, err := pctx.Dereference(o)
			if err != nil {
				return fmt.Errorf("page %d contents: %w", pageNr, err)
			}
			if arr, ok := deref.(types.Array); ok {
				existing = arr
			} else {
				existing = types.Array{o}
			}
		case types.Array:
			existing = o
		default:
			return fmt.Errorf("page %d: unexpected contents type %T", pageNr, obj)
		}
	}

	contents := make(types.Array, 0, len(existing)+2)
	if len(existing) > 0 {
		open, err := newStream(pctx, []byte("q\n"))
		if err != nil {
			return err
		}
		contents = append(contents, open)
		contents = append(contents, existing...)
		overlay = append([]byte("Q\n"), overlay...)
	}
	masks, err := newStream(pctx, overlay)
	if err != nil {
		return err
	}
	contents = append(contents, masks)

	d["Contents"] = contents
	return nil
}

// rewriteInfo replaces one entry of the document information dictionary
func rewriteInfo(pctx *model.Context, field, text string) error {
	if pctx.Info == nil {
		return fmt.Errorf("document has no information dictionary")
	}
	d, err := pctx.DereferenceDict(*pctx.Info)
	if err != nil {
		return fmt.Errorf("reading information dictionary: %w", err)
	}
	if d == nil {
		return fmt.Errorf("document has no information dictionary")
	}
	if _, found := d.Find(field); !found {
		return fmt.Errorf("information entry %s not found", field)
	}
	d.Update(field, types.StringLiteral(escapeLiteral(text)))
	return nil
}

func escapeLiteral(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

func newStream(pctx *model.Context, content []byte) (types.IndirectRef, error) {
	sd, err := pctx.NewStreamDictForBuf(content)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("creating content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return types.IndirectRef{}, fmt.Errorf("encoding content stream: %w", err)
	}
	ir, err := pctx.IndRefForNewObject(*sd)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("registering content stream: %w", err)
	}
	return *ir, nil
}
