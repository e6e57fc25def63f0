package parameter

import (
	"errors"
	"fmt"
)

var (
	// ErrConversion indicates a setter input that is not a finite number.
	ErrConversion = errors.New("parameter: not a number")

	// ErrMissingDrivingParameter indicates that none of the coupling, total
	// width or branching ratio was supplied.
	ErrMissingDrivingParameter = errors.New("parameter: no driving parameter (set g, G_tot or BR)")

	// ErrInconsistent indicates a derived value that disagrees with the
	// value already set on the point.
	ErrInconsistent = errors.New("parameter: inconsistent parameters")

	// ErrUnphysical indicates inputs outside the physical domain, such as a
	// negative squared coupling or a branching ratio outside [0,1).
	ErrUnphysical = errors.New("parameter: unphysical parameters")

	// ErrKinematicallyForbidden indicates that the mediator is too light to
	// decay into a dark-matter pair.
	ErrKinematicallyForbidden = errors.New("parameter: invisible decay kinematically forbidden")
)

// ConversionError reports a setter input that could not be read as a number.
type ConversionError struct {
	Field Field
	Input any
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("parameter: set %s: cannot convert %#v: %v", e.Field, e.Input, e.Err)
}

func (e *ConversionError) Unwrap() []error { return []error{ErrConversion, e.Err} }

// InconsistencyError carries both the value already set on a field and the
// value derived from the other fields.
type InconsistencyError struct {
	Field      Field
	Set        float64
	Calculated float64
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("parameter: calculated %s of %g incompatible with already set one of %g",
		e.Field, e.Calculated, e.Set)
}

func (e *InconsistencyError) Unwrap() error { return ErrInconsistent }

// PointError attaches the full state of the offending point to a failure,
// so batch failures can be traced back to a grid point.
type PointError struct {
	Name   string
	Values Values
	Err    error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("point %s (%s): %v", e.Name, e.Values, e.Err)
}

func (e *PointError) Unwrap() error { return e.Err }
