package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is an optional real number. The zero Value is unset, which is
// distinct from a set value of 0.
type Value struct {
	v  float64
	ok bool
}

// Unset returns an unset Value.
func Unset() Value { return Value{} }

// Of returns a set Value holding f.
func Of(f float64) Value { return Value{v: f, ok: true} }

// IsSet reports whether the value holds a number.
func (x Value) IsSet() bool { return x.ok }

// Get returns the number and whether it is set.
func (x Value) Get() (float64, bool) { return x.v, x.ok }

// Or returns the number, or def when unset.
func (x Value) Or(def float64) float64 {
	if !x.ok {
		return def
	}
	return x.v
}

// Ptr returns a pointer to a copy of the number, nil when unset.
func (x Value) Ptr() *float64 {
	if !x.ok {
		return nil
	}
	f := x.v
	return &f
}

// FromPtr is the inverse of Ptr.
func FromPtr(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Of(*p)
}

// String formats the value with %g, or "unset".
func (x Value) String() string {
	if !x.ok {
		return "unset"
	}
	return strconv.FormatFloat(x.v, 'g', -1, 64)
}

// Sprintf formats a set value with the given verb (e.g. "%.2f").
func (x Value) Sprintf(verb string) string {
	if !x.ok {
		return "unset"
	}
	return fmt.Sprintf(verb, x.v)
}

// MarshalJSON encodes an unset value as null.
func (x Value) MarshalJSON() ([]byte, error) {
	if !x.ok {
		return []byte("null"), nil
	}
	if math.IsNaN(x.v) || math.IsInf(x.v, 0) {
		return nil, fmt.Errorf("types: cannot encode %v", x.v)
	}
	return json.Marshal(x.v)
}

// UnmarshalJSON decodes null (or a missing field) as unset.
func (x *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*x = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*x = Of(f)
	return nil
}
