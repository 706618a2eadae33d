// Package importer reads lead exports from Excel workbooks and CSV files
// into a header row plus raw data rows, ready for normalization.
package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoData indicates the input contained no usable data rows
var ErrNoData = fmt.Errorf("import contained no data rows")

// Table is the raw tabular result of an import: one header row and the
// data rows beneath it. Cells are kept as strings so the tolerant parsers
// decide how to interpret them.
type Table struct {
	Headers []string
	Rows    [][]any
}

// ReadFile reads an .xlsx or .csv file from disk based on its extension
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return ReadWorkbook(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// ReadWorkbook reads the first sheet that contains data from an Excel
// workbook. Cells are read raw so date serials survive as numbers instead
// of display strings.
func ReadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		if len(sheetRows) > 1 {
			rows = sheetRows
			break
		}
	}

	return tableFromRows(rows)
}

// ReadCSV reads a CSV file. A UTF-8 byte order mark is tolerated, and rows
// may have a different cell count than the header.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return tableFromRows(records)
}

// tableFromRows finds the header row (first row with a non-empty cell)
// and returns it with the remaining data rows.
func tableFromRows(rows [][]string) (*Table, error) {
	headerIdx := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 || headerIdx == len(rows)-1 {
		return nil, ErrNoData
	}

	headers := make([]string, len(rows[headerIdx]))
	for i, cell := range rows[headerIdx] {
		headers[i] = strings.TrimSpace(cell)
	}

	data := make([][]any, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		data = append(data, cells)
	}

	if len(data) == 0 {
		return nil, ErrNoData
	}

	return &Table{Headers: headers, Rows: data}, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func skipBOM(br *bufio.Reader) error {
	bom, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return err
	}
	if len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		if _, err := br.Discard(3); err != nil {
			return err
		}
	}
	return nil
}
