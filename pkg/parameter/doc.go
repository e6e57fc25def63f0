// Package parameter derives a consistent set of physics parameters for a
// vector mediator V that couples to up-type quarks (a_r) and to a
// dark-matter fermion chi (g). It is the analytic half of the cross-section
// pipeline: the resolved point is fed into the matrix-element generator, and
// the values the generator reports are compared back against it.
//
// Overview
//
//   - Space holds one point: mV, mDM, a_r, m_top, and the optional g, G_tot
//     and BR. Optional values are types.Value, so "unset" never collides
//     with a real 0.
//
//   - Resolve takes whichever of g, BR, G_tot was supplied (checked in that
//     order) and derives the other two. A value that was already set is
//     recomputed and must agree within DefaultTolerance, otherwise the
//     result is an *InconsistencyError carrying both numbers.
//
//   - Name gives the canonical point name used for every file of the point.
//
//   - Compare / Equal / Check do a field-wise approximate comparison, used to
//     validate generator output against the analytic point.
//
// Widths
//
//	r_t       = m_top / mV
//	r_chi     = mDM / mV
//	phi_vis   = (1 - r_t²) (1 - r_t²/2 - r_t⁴/2)
//	phi_invis = sqrt(1 - 4 r_chi²) (1 + 2 r_chi²)
//	G_vis     = a_r² mV/π phi_vis
//	G_invis   = g² mV/(12π) phi_invis
//	G_tot     = G_vis + G_invis
//	BR        = G_invis / G_tot
//
// Errors (errs.go)
//
//	ErrConversion              : Set got something that is not a finite number
//	ErrMissingDrivingParameter : none of g, G_tot, BR is set
//	ErrInconsistent            : a derived value disagrees with a set one
//	ErrUnphysical              : negative g², driving BR outside [0,1), mV <= 0, ...
//	ErrKinematicallyForbidden  : r_chi > 0.5, or a division by phi_invis = 0
//
// Resolve wraps all of them in *PointError with the full input point, so a
// batch failure can be traced back to its grid point. Use errors.Is and
// errors.As to inspect.
//
// Example
//
//	p := parameter.New()
//	p.SetMediatorMass(2000)
//	p.SetDarkMatterMass(1)
//	p.SetVisibleCoupling(0.5)
//	p.SetDMCoupling(1.0)
//	if err := p.Resolve(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.Name(), p.TotalWidth(), p.BranchingRatio())
package parameter
