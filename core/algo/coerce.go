package algo

import (
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// ToFloat coerces a raw cell into a finite number.
// It reports false for nil, nil pointers, blank or unparsable strings, NaN and Inf.
func ToFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}
		return ToFloat(rv.Elem().Interface())
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Impute coerces a column and fills missing cells with the median of the valid ones.
// A column with no valid cells is filled with 0.
func Impute(raw []any) []float64 {
	values := make([]float64, len(raw))
	valid := make([]float64, 0, len(raw))
	missing := make([]bool, len(raw))
	for i, v := range raw {
		f, ok := ToFloat(v)
		if !ok {
			missing[i] = true
			continue
		}
		values[i] = f
		valid = append(valid, f)
	}
	if len(valid) == len(raw) {
		return values
	}

	fill := 0.0
	if len(valid) > 0 {
		fill = Median(valid)
	}
	for i := range values {
		if missing[i] {
			values[i] = fill
		}
	}
	return values
}
