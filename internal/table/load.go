// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package table

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader is returned when a tabular file has no header row.
var ErrNoHeader = errors.New("table has no header row")

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Bindings attach roles, formats and declared types to columns by display
// name. Files other than the JSON data contract carry no role tags, so the
// caller supplies them.
type Bindings struct {
	Roles   map[string][]string
	Formats map[string]string
	Types   map[string]ValueType
}

// LoadOptions controls how a table file is read.
type LoadOptions struct {
	// Sheet selects the worksheet of an XLSX workbook. Empty means the first.
	Sheet    string
	Bindings Bindings
}

// Load reads a table from path, picking the decoder by file extension, and
// applies the bindings in opts.
func Load(path string, opts LoadOptions) (*DataView, error) {
	var (
		t   *Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = loadFile(path, ReadCSV)
	case ".json":
		t, err = loadFile(path, ReadJSON)
	case ".xlsx", ".xlsm":
		t, err = ReadXLSX(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	Bind(t, opts.Bindings)
	return &DataView{Table: t}, nil
}

func loadFile(path string, read func(io.Reader) (*Table, error)) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided table path
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file
	return read(f)
}

// ReadCSV decodes a CSV stream whose first record is the header row.
// Column types are inferred from the cell text.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX reads the named sheet (or the first sheet) of a workbook.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only workbook

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRecords(rows)
}

// jsonTable is the serialized form of the host data contract.
type jsonTable struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ReadJSON decodes the serialized host data contract. Cells of dateTime
// columns given as strings are parsed into times.
func ReadJSON(r io.Reader) (*Table, error) {
	var jt jsonTable
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jt); err != nil {
		return nil, fmt.Errorf("decode json table: %w", err)
	}
	if len(jt.Columns) == 0 {
		return nil, ErrNoHeader
	}
	for _, row := range jt.Rows {
		for i := range row {
			if i >= len(jt.Columns) {
				break
			}
			if jt.Columns[i].Type == TypeDateTime {
				if t, ok := Time(row[i]); ok {
					row[i] = t
				}
			}
		}
	}
	return &Table{Columns: jt.Columns, Rows: jt.Rows}, nil
}

// fromRecords builds a typed table from textual records.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrNoHeader
	}
	header := records[0]
	body := records[1:]

	t := &Table{Columns: make([]Column, len(header))}
	for i, h := range header {
		t.Columns[i] = Column{
			DisplayName: strings.TrimSpace(h),
			Type:        detectType(columnValues(body, i)),
		}
	}

	t.Rows = make([][]any, 0, len(body))
	for _, rec := range body {
		row := make([]any, len(header))
		for i := range header {
			if i >= len(rec) {
				continue
			}
			row[i] = typedCell(rec[i], t.Columns[i].Type)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func columnValues(rows [][]string, idx int) []string {
	var out []string
	for _, r := range rows {
		if idx < len(r) && strings.TrimSpace(r[idx]) != "" {
			out = append(out, r[idx])
		}
	}
	return out
}

func typedCell(s string, vt ValueType) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	switch vt {
	case TypeInteger, TypeNumeric:
		return Float(s)
	case TypeDateTime:
		if t, ok := ParseDate(s); ok {
			return t
		}
		return nil
	default:
		return s
	}
}

// detectType infers a column type. At least 80% of the non-empty values must
// match for a non-text type.
func detectType(values []string) ValueType {
	if len(values) == 0 {
		return TypeText
	}

	var intCount, numCount, dateCount int
	for _, v := range values {
		f := parseNumber(v)
		if !math.IsNaN(f) {
			numCount++
			if f == float64(int64(f)) && !strings.Contains(v, ".") {
				intCount++
			}
			continue
		}
		if _, ok := ParseDate(v); ok {
			dateCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}
	switch {
	case dateCount >= threshold:
		return TypeDateTime
	case intCount >= threshold:
		return TypeInteger
	case numCount >= threshold:
		return TypeNumeric
	default:
		return TypeText
	}
}

// Bind applies role, format and type bindings to the table's columns.
// Cells of columns re-typed as dateTime are re-parsed.
func Bind(t *Table, b Bindings) {
	if t == nil {
		return
	}
	for i := range t.Columns {
		c := &t.Columns[i]
		for _, role := range b.Roles[c.DisplayName] {
			c.AddRole(role)
		}
		if f, ok := b.Formats[c.DisplayName]; ok {
			c.Format = f
		}
		if vt, ok := b.Types[c.DisplayName]; ok && vt != c.Type {
			c.Type = vt
			retype(t, i, vt)
		}
	}
}

func retype(t *Table, idx int, vt ValueType) {
	for _, row := range t.Rows {
		if idx >= len(row) || row[idx] == nil {
			continue
		}
		s, ok := Text(row[idx])
		if !ok {
			continue
		}
		row[idx] = typedCell(s, vt)
	}
}
