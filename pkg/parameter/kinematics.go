package parameter

import (
	"fmt"
	"math"

	"github.com/ja7ad/mediator/pkg/util"
)

// ForbiddenRatio is the dark-matter to mediator mass ratio above which the
// mediator cannot decay into a dark-matter pair.
const ForbiddenRatio = 0.5

// TopRatio is r_t = m_top / mV.
func (s *Space) TopRatio() float64 { return s.mTop / s.mV }

// DMRatio is r_chi = mDM / mV.
func (s *Space) DMRatio() float64 { return s.mDM / s.mV }

// VisiblePhaseSpace is the phase-space factor of the V -> t u decay:
//
//	(1 - r_t²) (1 - r_t²/2 - r_t⁴/2)
func (s *Space) VisiblePhaseSpace() float64 {
	rt2 := util.Square(s.TopRatio())
	return (1 - rt2) * (1 - 0.5*rt2 - 0.5*rt2*rt2)
}

// InvisiblePhaseSpace is the phase-space factor of the V -> chi chi decay:
//
//	sqrt(1 - 4 r_chi²) (1 + 2 r_chi²)
//
// It is zero at r_chi = 0.5 and fails with ErrKinematicallyForbidden above.
func (s *Space) InvisiblePhaseSpace() (float64, error) {
	r := s.DMRatio()
	if math.IsNaN(r) || r > ForbiddenRatio {
		return 0, fmt.Errorf("%w: mDM/mV = %g", ErrKinematicallyForbidden, r)
	}
	r2 := r * r
	return math.Sqrt(math.Max(0, 1-4*r2)) * (1 + 2*r2), nil
}

// VisibleWidth is the partial width to quarks, a_r² (mV/π) phi_vis.
func (s *Space) VisibleWidth() float64 {
	return util.Square(s.aR) * (s.mV / math.Pi) * s.VisiblePhaseSpace()
}

// InvisibleWidth is the partial width to dark matter. The total width wins
// if set (G_tot - G_vis); otherwise it follows from the coupling, or from
// the coupling implied by the branching ratio. The point is not modified.
func (s *Space) InvisibleWidth() (float64, error) {
	if gTot, ok := s.gTot.Get(); ok {
		return gTot - s.VisibleWidth(), nil
	}
	if g, ok := s.g.Get(); ok {
		return s.invisibleWidthFor(g)
	}
	if _, ok := s.br.Get(); ok {
		g, err := s.couplingFromBranchingRatio()
		if err != nil {
			return 0, err
		}
		return s.invisibleWidthFor(g)
	}
	return 0, ErrMissingDrivingParameter
}

// invisibleWidthFor is g² (mV/12π) phi_invis.
func (s *Space) invisibleWidthFor(g float64) (float64, error) {
	phi, err := s.InvisiblePhaseSpace()
	if err != nil {
		return 0, err
	}
	return util.Square(g) * s.invisibleNorm() * phi, nil
}

func (s *Space) invisibleNorm() float64 { return s.mV / (12 * math.Pi) }
