// Package gsheets wraps the subset of the Google Sheets API used to browse workbooks: open a
// workbook by key, list its worksheets, resolve a worksheet by name and read its rows as records.
package gsheets

import (
	"context"
	"errors"
)

var ErrWorksheetNotFound = errors.New("worksheet not found")

type Client interface {
	Open(ctx context.Context, id string) (Workbook, error)
}

type Workbook interface {
	ID() string
	Title() string
	Worksheets(ctx context.Context) ([]string, error)
	Worksheet(ctx context.Context, name string) (Worksheet, error)
}

type Worksheet interface {
	Title() string
	Records(ctx context.Context) ([]Record, error)
}

// Field is a single cell of a record, keyed by the column header. Value is one of
// string, int64 or float64.
type Field struct {
	Header string
	Value  any
}

// Record is one data row of a worksheet in column order. Duplicate and empty headers are
// kept as is.
type Record []Field

// Get returns the value of the first field with the header.
func (r Record) Get(header string) (any, bool) {
	for _, f := range r {
		if f.Header == header {
			return f.Value, true
		}
	}

	return nil, false
}

// Columns returns the headers across all records in first-seen order. A header that occurs
// more than once in a record is listed as many times as it occurs.
func Columns(records []Record) []string {
	columns := []string{}
	seen := map[string]int{}

	for _, record := range records {
		count := map[string]int{}
		for _, f := range record {
			count[f.Header]++
			if count[f.Header] > seen[f.Header] {
				seen[f.Header] = count[f.Header]
				columns = append(columns, f.Header)
			}
		}
	}

	return columns
}

// Cells lays out the record values against a column list returned by Columns. Columns
// missing from the record are returned as nil.
func (r Record) Cells(columns []string) []any {
	cells := make([]any, len(columns))
	occurrence := map[string]int{}

	for i, column := range columns {
		n := occurrence[column]
		occurrence[column] = n + 1

		for _, f := range r {
			if f.Header == column {
				if n == 0 {
					cells[i] = f.Value
					break
				}
				n--
			}
		}
	}

	return cells
}
