package parameter

import "fmt"

// Name is the canonical identifier of the point, used as the key for deck,
// banner and record files:
//
//	mV<%.0f>_mDM<%.0f>_a_r<%.1f>[_BR<%.2f> | _g<%.2f> | _G_tot<%.2f>]
//
// The suffix is taken from the first of BR, g, G_tot that is set, so a
// resolved point is always named by its BR.
func (s *Space) Name() string {
	name := fmt.Sprintf("mV%.0f_mDM%.0f_a_r%.1f", s.mV, s.mDM, s.aR)
	if br, ok := s.br.Get(); ok {
		return name + fmt.Sprintf("_BR%.2f", br)
	}
	if g, ok := s.g.Get(); ok {
		return name + fmt.Sprintf("_g%.2f", g)
	}
	if gTot, ok := s.gTot.Get(); ok {
		return name + fmt.Sprintf("_G_tot%.2f", gTot)
	}
	return name
}
