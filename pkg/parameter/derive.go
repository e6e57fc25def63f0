package parameter

import (
	"fmt"
	"math"

	"github.com/ja7ad/mediator/pkg/types"
	"github.com/ja7ad/mediator/pkg/util"
)

// Validate checks that the point lies in the physical domain: positive
// mediator mass, non-negative masses, finite values, a non-negative total
// width and a branching ratio in [0,1]. A derived BR can reach 1, so the
// stricter [0,1) bound applies only where BR drives the coupling.
func (s *Space) Validate() error {
	for _, f := range Fields() {
		if v, ok := s.Get(f).Get(); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("%w: %s = %g", ErrUnphysical, f, v)
		}
	}
	switch {
	case s.mV <= 0:
		return fmt.Errorf("%w: mV = %g must be > 0", ErrUnphysical, s.mV)
	case s.mDM < 0:
		return fmt.Errorf("%w: mDM = %g must be >= 0", ErrUnphysical, s.mDM)
	case s.mTop < 0:
		return fmt.Errorf("%w: m_top = %g must be >= 0", ErrUnphysical, s.mTop)
	}
	if gTot, ok := s.gTot.Get(); ok && gTot < 0 {
		return fmt.Errorf("%w: G_tot = %g must be >= 0", ErrUnphysical, gTot)
	}
	if br, ok := s.br.Get(); ok && (br < 0 || br > 1) {
		return fmt.Errorf("%w: BR = %g must be in [0,1]", ErrUnphysical, br)
	}
	return nil
}

func checkBranchingRatio(br float64) error {
	if br < 0 || br >= 1 {
		return fmt.Errorf("%w: BR = %g must be in [0,1)", ErrUnphysical, br)
	}
	return nil
}

// Resolve derives the missing members of {g, G_tot, BR} from the one that
// was supplied, checked in the order g, BR, G_tot. Values that were already
// set are recomputed and must agree within tolerance; they are kept as set.
//
// The point is only updated when every step succeeds. Failures are returned
// as *PointError carrying the point's input values.
func (s *Space) Resolve() error {
	work := s.Clone()
	if err := work.resolve(); err != nil {
		return &PointError{Name: s.Name(), Values: s.Values(), Err: err}
	}
	*s = *work
	return nil
}

func (s *Space) resolve() error {
	if !s.g.IsSet() && !s.br.IsSet() && !s.gTot.IsSet() {
		return ErrMissingDrivingParameter
	}
	if err := s.Validate(); err != nil {
		return err
	}

	var steps []func() error
	switch {
	case s.g.IsSet():
		steps = []func() error{s.DeriveTotalWidth, s.DeriveBranchingRatio}
	case s.br.IsSet():
		// g comes from G_tot when both are given, so BR is checked last.
		steps = []func() error{s.DeriveDMCoupling, s.DeriveTotalWidth, s.DeriveBranchingRatio}
	case s.gTot.IsSet():
		steps = []func() error{s.DeriveDMCoupling, s.DeriveBranchingRatio}
	default:
		return ErrMissingDrivingParameter
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// DeriveTotalWidth sets G_tot = G_vis + G_invis with G_invis taken from the
// coupling, or from the coupling implied by BR.
func (s *Space) DeriveTotalWidth() error {
	var (
		g   float64
		err error
	)
	switch {
	case s.g.IsSet():
		g, _ = s.g.Get()
	case s.br.IsSet():
		if g, err = s.couplingFromBranchingRatio(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("total width: %w", ErrMissingDrivingParameter)
	}

	inv, err := s.invisibleWidthFor(g)
	if err != nil {
		return err
	}
	s.gTot, err = settle(TotalWidth, s.gTot, s.VisibleWidth()+inv)
	return err
}

// DeriveDMCoupling sets g from the total width if known, else from BR.
func (s *Space) DeriveDMCoupling() error {
	var (
		g   float64
		err error
	)
	switch {
	case s.gTot.IsSet():
		g, err = s.couplingFromTotalWidth()
	case s.br.IsSet():
		g, err = s.couplingFromBranchingRatio()
	default:
		return fmt.Errorf("dm coupling: %w", ErrMissingDrivingParameter)
	}
	if err != nil {
		return err
	}
	s.g, err = settle(DMCoupling, s.g, g)
	return err
}

// DeriveBranchingRatio sets BR = G_invis / (G_vis + G_invis) with G_invis
// taken from the coupling, or from the total width.
func (s *Space) DeriveBranchingRatio() error {
	var (
		inv float64
		err error
	)
	switch {
	case s.g.IsSet():
		g, _ := s.g.Get()
		if inv, err = s.invisibleWidthFor(g); err != nil {
			return err
		}
	case s.gTot.IsSet():
		gTot, _ := s.gTot.Get()
		inv = gTot - s.VisibleWidth()
	default:
		return fmt.Errorf("branching ratio: %w", ErrMissingDrivingParameter)
	}

	total := s.VisibleWidth() + inv
	if total == 0 {
		return fmt.Errorf("%w: vanishing total width", ErrUnphysical)
	}
	br := inv / total
	if br < 0 || br > 1 {
		return fmt.Errorf("%w: calculated BR = %g", ErrUnphysical, br)
	}
	s.br, err = settle(BranchingRatio, s.br, br)
	return err
}

// couplingFromTotalWidth solves G_tot - G_vis = g² (mV/12π) phi_invis for g.
func (s *Space) couplingFromTotalWidth() (float64, error) {
	gTot, _ := s.gTot.Get()
	phi, err := s.invisiblePhaseSpaceOpen()
	if err != nil {
		return 0, err
	}
	g2 := (gTot - s.VisibleWidth()) / (s.invisibleNorm() * phi)
	return sqrtCoupling(g2)
}

// couplingFromBranchingRatio solves BR/(1-BR) = G_invis/G_vis for g:
//
//	g² = 12 a_r² BR/(1-BR) phi_vis/phi_invis
func (s *Space) couplingFromBranchingRatio() (float64, error) {
	br, _ := s.br.Get()
	if err := checkBranchingRatio(br); err != nil {
		return 0, err
	}
	phi, err := s.invisiblePhaseSpaceOpen()
	if err != nil {
		return 0, err
	}
	g2 := 12 * util.Square(s.aR) * (br / (1 - br)) * s.VisiblePhaseSpace() / phi
	return sqrtCoupling(g2)
}

// invisiblePhaseSpaceOpen is InvisiblePhaseSpace restricted to the open
// channel, for callers that divide by it.
func (s *Space) invisiblePhaseSpaceOpen() (float64, error) {
	phi, err := s.InvisiblePhaseSpace()
	if err != nil {
		return 0, err
	}
	if phi == 0 {
		return 0, fmt.Errorf("%w: mDM/mV = %g is at threshold", ErrKinematicallyForbidden, s.DMRatio())
	}
	return phi, nil
}

func sqrtCoupling(g2 float64) (float64, error) {
	if math.IsNaN(g2) || math.IsInf(g2, 0) {
		return 0, fmt.Errorf("%w: g^2 = %g", ErrUnphysical, g2)
	}
	if g2 < 0 {
		return 0, fmt.Errorf("%w: negative g^2 = %g", ErrUnphysical, g2)
	}
	return math.Sqrt(g2), nil
}

// settle returns the value to store for field: calc when unset, the current
// value when it agrees with calc, an *InconsistencyError otherwise.
func settle(field Field, cur types.Value, calc float64) (types.Value, error) {
	if math.IsNaN(calc) || math.IsInf(calc, 0) {
		return cur, fmt.Errorf("%w: calculated %s = %g", ErrUnphysical, field, calc)
	}
	v, ok := cur.Get()
	if !ok {
		return types.Of(calc), nil
	}
	if !util.IsClose(v, calc) {
		return cur, &InconsistencyError{Field: field, Set: v, Calculated: calc}
	}
	return cur, nil
}
