package gsheets

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format returns the display text of a record value. It is used for both the HTML table and
// the TSV export.
//
// Floats are written in shortest round trip form and always carry a decimal point or an
// exponent, so a cell "1.0" displays as 1.0 and "1e5" as 100000.0. Exponent form is used
// below 1e-4 and from 1e16 up.
func Format(v any) string {
	switch c := v.(type) {
	case nil:
		return ""

	case string:
		return c

	case int64:
		return strconv.FormatInt(c, 10)

	case float64:
		return formatFloat(c)

	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"

	case math.IsInf(f, 1):
		return "inf"

	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:]); err != nil || exp < -4 || exp >= 16 {
		return s
	}

	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
