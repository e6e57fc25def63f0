package generator

import (
	"fmt"
	"testing"

	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/stretchr/testify/require"
)

// resolved returns the reference point mV=2000, mDM=1, a_r=0.5, g=1.
func resolved(t *testing.T) *parameter.Space {
	t.Helper()
	p := parameter.New()
	p.SetMediatorMass(2000)
	p.SetDarkMatterMass(1)
	p.SetVisibleCoupling(0.5)
	p.SetDMCoupling(1)
	require.NoError(t, p.Resolve())
	return p
}

// bannerFor renders a minimal run banner the way the generator reports p.
func bannerFor(p *parameter.Space, xs float64) string {
	g, _ := p.DMCoupling().Get()
	w, _ := p.TotalWidth().Get()
	br, _ := p.BranchingRatio().Get()
	return fmt.Sprintf(`<MGVersion>
2.5.5
</MGVersion>
###################################
## INFORMATION FOR DMINPUTS
###################################
Block dminputs
    1 %e # ar
    2 %e # gg
###################################
## INFORMATION FOR MASS
###################################
Block mass
    6 1.720000e+02 # MT
   32 %e # mv
 1000023 %e # mpsi
DECAY  32 %e # wv
#  BR             NDA  ID1    ID2   ...
   %e   2    1000023  -1000023 # invisible
   %e   2    6  -2 # visible
<MGGenerationInfo>
#  Number of Events        :       10000
#  Integrated weight (pb)  :       %g
</MGGenerationInfo>
`, p.VisibleCoupling(), g, p.MediatorMass(), p.DarkMatterMass(), w, br, 1-br, xs)
}
