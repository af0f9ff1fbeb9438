package gsheets

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// MakeRecords converts a worksheet value range to records, treating the first row as the
// header row. The header row is padded with empty headers to the width of the widest row and
// rows shorter than that are padded with empty strings.
func MakeRecords(rows [][]any) []Record {
	records := []Record{}

	if len(rows) == 0 {
		return records
	}

	// ... header
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	header := make([]string, width)
	for ix, v := range rows[0] {
		header[ix] = stringify(v)
	}

	// ... records
	for _, row := range rows[1:] {
		record := make(Record, 0, len(header))
		for ix, h := range header {
			var v any = ""
			if ix < len(row) {
				v = numericise(row[ix])
			}

			record = append(record, Field{Header: h, Value: v})
		}

		records = append(records, record)
	}

	return records
}

// numericise converts a formatted cell value to an int64 or float64 if it parses as one,
// otherwise it is returned as a string. Values with underscores are left alone even though
// they would otherwise parse. Integers too large for an int64 are kept as decimal text so
// that no digits are lost, and hexadecimal floats are not numbers.
func numericise(v any) any {
	switch n := v.(type) {
	case nil:
		return ""

	case int64, float64:
		return n

	case int:
		return int64(n)

	case string:
		s := strings.TrimSpace(n)
		if s == "" || strings.Contains(s, "_") {
			return n
		}

		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		} else if errors.Is(err, strconv.ErrRange) {
			if b, ok := new(big.Int).SetString(s, 10); ok {
				return b.String()
			}

			return n
		}

		if strings.ContainsAny(s, "xXpP") {
			return n
		}

		// out of range floats parse as +/-Inf
		if f, err := strconv.ParseFloat(s, 64); err == nil || errors.Is(err, strconv.ErrRange) {
			return f
		}

		return n

	default:
		return stringify(v)
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""

	case string:
		return s

	default:
		return fmt.Sprintf("%v", v)
	}
}
