// Package money normalizes raw monetary values.
//
// Every monetary field crossing a trust boundary (cache load, remote load,
// import, request binding) passes through Normalize. A value's origin is
// never trusted.
package money

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Normalize coerces any raw JSON value to a finite number rounded to two
// decimal places. Non-finite and non-numeric input silently becomes 0; no
// error is ever raised.
func Normalize(v any) float64 {
	return Round(toNumber(v))
}

// Round rounds a float to two decimal places, half away from zero. NaN and
// infinities round to 0.
func Round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	out, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return out
}

// toNumber extracts a float from the loosely-typed values json.Unmarshal and
// form binding can produce. Anything unrecognized is 0.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}
