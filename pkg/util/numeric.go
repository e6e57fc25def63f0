package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// Default closeness tolerances, matching numpy.isclose.
const (
	RelTol = 1e-5
	AbsTol = 1e-8
)

var (
	// ErrNotNumeric indicates an input that cannot be read as a real number.
	ErrNotNumeric = errors.New("util: not numeric")

	// ErrNotFinite indicates a NaN or infinite input.
	ErrNotFinite = errors.New("util: not finite")
)

// IsClose reports whether a and b agree within the default tolerances.
func IsClose(a, b float64) bool {
	return IsCloseTol(a, b, AbsTol, RelTol)
}

// IsCloseTol reports whether a and b agree within absTol or relTol.
// NaN is never close to anything.
func IsCloseTol(a, b, absTol, relTol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return scalar.EqualWithinAbsOrRel(a, b, absTol, relTol)
}

// ToFloat coerces v into a finite float64.
func ToFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		return ToFloat(string(x))
	case string:
		s := strings.TrimSpace(x)
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x)
		}
		f = p
	case fmt.Stringer:
		return ToFloat(x.String())
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNotFinite, f)
	}
	return f, nil
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	return scalar.Round(x, places)
}

func FmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func Square(x float64) float64 { return x * x }
