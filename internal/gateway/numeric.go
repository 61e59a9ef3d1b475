package gateway

import (
	"math"
	"strconv"
	"strings"
)

// SafeFloat coerces an arbitrary JSON value to a float64. Upstream APIs mix
// numbers, numeric strings (sometimes comma-grouped), and nulls in the same
// field; anything unparseable or non-finite becomes 0.
func SafeFloat(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", ""), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SafeInt coerces an arbitrary JSON value to a non-negative int.
func SafeInt(v interface{}) int {
	f := SafeFloat(v)
	if f < 0 {
		return 0
	}
	return int(f)
}
