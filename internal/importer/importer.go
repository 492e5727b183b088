// Package importer decodes uploaded sale spreadsheets and maps their
// columns onto the canonical Sale fields.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for filenames without a recognized
	// spreadsheet extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMissingColumn is returned when a required source column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyFile is returned when the file has no header row at all.
	ErrEmptyFile = errors.New("file has no header row")
)

// Table is a decoded spreadsheet: one header row plus zero or more data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Decode parses the payload according to the filename extension.
// Only .csv and .xlsx are recognized.
func Decode(filename string, data []byte) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeCSV(data)
	case ".xlsx":
		return decodeXLSX(data)
	default:
		return Table{}, ErrUnsupportedFormat
	}
}

func decodeCSV(data []byte) (Table, error) {
	// Strip a UTF-8 BOM, common in exports from spreadsheet tools.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, ErrEmptyFile
	}
	return Table{Headers: records[0], Rows: records[1:]}, nil
}

func decodeXLSX(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Table{}, ErrEmptyFile
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return Table{}, ErrEmptyFile
	}
	return Table{Headers: rows[0], Rows: rows[1:]}, nil
}
