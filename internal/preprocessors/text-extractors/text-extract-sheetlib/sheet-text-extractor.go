// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractsheetlib

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cell is one non-empty worksheet cell
type Cell struct {
	Sheet string
	Ref   string // A1-style reference
	Row   int    // 1-based
	Col   int    // 1-based
	Value string

	// Header is the first-row cell of the same column, empty for the first row
	Header string
}

// ReadCells returns the non-empty cells of every worksheet, sheet by sheet
// in workbook order and row-major inside a sheet. Values are the displayed
// (formatted) cell text.
func ReadCells(data []byte) ([]Cell, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	var cells []Cell
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}

		var header []string
		if len(rows) > 0 {
			header = rows[0]
		}
		for r, row := range rows {
			for c, value := range row {
				if strings.TrimSpace(value) == "" {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				cell := Cell{Sheet: sheet, Ref: ref, Row: r + 1, Col: c + 1, Value: value}
				if r > 0 && c < len(header) {
					cell.Header = strings.TrimSpace(header[c])
				}
				cells = append(cells, cell)
			}
		}
	}
	return cells, nil
}
