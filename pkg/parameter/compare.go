package parameter

import (
	"fmt"
	"strings"

	"github.com/ja7ad/mediator/pkg/types"
	"github.com/ja7ad/mediator/pkg/util"
)

// Tolerance bounds the disagreement allowed between two values: they match
// when within Abs absolutely or within Rel relatively.
type Tolerance struct {
	Abs float64
	Rel float64
}

// DefaultTolerance is used by Equal and by Resolve's consistency checks.
var DefaultTolerance = Tolerance{Abs: util.AbsTol, Rel: util.RelTol}

// Mismatch is one field on which two points disagree.
type Mismatch struct {
	Field Field
	Want  types.Value
	Got   types.Value
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want %s, got %s", m.Field, m.Want, m.Got)
}

// Compare checks every field of other against s. A field unset on both sides
// matches; unset on one side only does not.
func (s *Space) Compare(other *Space, tol Tolerance) []Mismatch {
	var out []Mismatch
	for _, f := range Fields() {
		want, got := s.Get(f), other.Get(f)
		w, wok := want.Get()
		g, gok := got.Get()
		switch {
		case !wok && !gok:
			continue
		case wok && gok && util.IsCloseTol(w, g, tol.Abs, tol.Rel):
			continue
		}
		out = append(out, Mismatch{Field: f, Want: want, Got: got})
	}
	return out
}

// Equal reports whether both points agree on every field within
// DefaultTolerance.
func (s *Space) Equal(other *Space) bool {
	return len(s.Compare(other, DefaultTolerance)) == 0
}

// MismatchError lists the fields on which a measured point disagrees with
// the analytic one.
type MismatchError struct {
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = m.String()
	}
	return "parameter: points differ: " + strings.Join(parts, "; ")
}

func (e *MismatchError) Unwrap() error { return ErrInconsistent }

// Check is Compare returning a *MismatchError when anything differs.
func (s *Space) Check(other *Space, tol Tolerance) error {
	if m := s.Compare(other, tol); len(m) > 0 {
		return &MismatchError{Mismatches: m}
	}
	return nil
}
