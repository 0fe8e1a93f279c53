package dashboard

import (
	"strconv"
	"strings"
)

// ParseNumber interprets a free-text cell as a number: whitespace stripped,
// comma decimal separator converted to dot, trailing "%" removed. Input that
// still does not parse yields no value (not zero, not an error) and is
// excluded from numeric aggregates.
func ParseNumber(cell string) (float64, bool) {
	s := strings.Join(strings.Fields(cell), "")
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseWeight interprets a cell as a percentage weight. A parsed number is a
// valid weight only in [0, 100]; marker tokens such as "М" and out-of-range
// numbers are treated as opaque and excluded.
func ParseWeight(cell string) (float64, bool) {
	v, ok := ParseNumber(cell)
	if !ok || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}
