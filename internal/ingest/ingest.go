// Package ingest reads uploaded cut lists into raw tabular rows. It only
// handles file mechanics; the semantic column mapping lives in the estimate
// normalizer.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"woodcost/internal/estimate"
)

// xlsx files are ZIP containers.
var zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}

// Read sniffs the payload and parses it as an Excel workbook or as CSV.
func Read(r io.Reader) ([]estimate.TabularRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if bytes.HasPrefix(data, zipSignature) {
		return ReadWorkbook(bytes.NewReader(data))
	}
	return ReadCSV(bytes.NewReader(data))
}

// ReadWorkbook parses the first cut-list sheet of an xlsx workbook. A sheet
// named like "All" is preferred, matching the export convention.
func ReadWorkbook(r io.Reader) ([]estimate.TabularRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if strings.Contains(strings.ToLower(name), "all") {
			sheet = name
			break
		}
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return rowsFromCells(cells), nil
}

// ReadCSV parses a comma-separated cut list with a header row.
func ReadCSV(r io.Reader) ([]estimate.TabularRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return rowsFromCells(cells), nil
}

// rowsFromCells turns a header row plus data rows into raw keyed rows. Rows
// shorter than the header are padded; blank headers are ignored.
func rowsFromCells(cells [][]string) []estimate.TabularRow {
	if len(cells) == 0 {
		return nil
	}

	headers := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]estimate.TabularRow, 0, len(cells)-1)
	for _, record := range cells[1:] {
		row := make(estimate.TabularRow, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[header] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}

	return rows
}
