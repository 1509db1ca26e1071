package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NumericString is a value as the user typed it. Either "." or "," may be
// used as the decimal separator.
type NumericString string

// Float parses the value with ParseNumber.
func (n NumericString) Float() float64 {
	return ParseNumber(string(n))
}

// String returns the raw text.
func (n NumericString) String() string {
	return string(n)
}

// UnmarshalJSON accepts both JSON strings and JSON numbers so that records
// written by older clients still decode.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumericString(num.String())
	return nil
}

// ParseNumber converts user input to a float. Every "," is treated as a
// decimal point. Empty or unparseable input, and anything that would not be
// a finite number, yields 0. It never fails.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")

	// strconv also accepts hex floats and digit separators; user input never
	// means those.
	if strings.ContainsAny(s, "xX_pP") {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

// FormatDecimal renders v with four decimal digits and a comma separator,
// e.g. 6.25 -> "6,2500".
func FormatDecimal(v float64) string {
	return strings.Replace(strconv.FormatFloat(finite(v), 'f', 4, 64), ".", ",", 1)
}

// finite maps NaN and ±Inf to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}
