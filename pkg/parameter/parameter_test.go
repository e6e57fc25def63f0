package parameter

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ja7ad/mediator/pkg/types"
	"github.com/ja7ad/mediator/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// point builds a Space with the three required inputs set.
func point(mV, mDM, aR float64) *Space {
	p := New()
	p.SetMediatorMass(mV)
	p.SetDarkMatterMass(mDM)
	p.SetVisibleCoupling(aR)
	return p
}

// expect recomputes the widths straight from the closed-form expressions.
func expect(mV, mDM, aR, g, mTop float64) (phiVis, phiInvis, gVis, gInvis float64) {
	rt := mTop / mV
	rc := mDM / mV
	phiVis = (1 - math.Pow(rt, 2)) * (1 - 0.5*math.Pow(rt, 2) - 0.5*math.Pow(rt, 4))
	phiInvis = math.Sqrt(1-4*math.Pow(rc, 2)) * (1 + 2*math.Pow(rc, 2))
	gVis = math.Pow(aR, 2) * (mV / math.Pi) * phiVis
	gInvis = math.Pow(g, 2) * (mV / (12 * math.Pi)) * phiInvis
	return
}

func mustGet(t *testing.T, v types.Value) float64 {
	t.Helper()
	f, ok := v.Get()
	require.True(t, ok, "value should be set")
	return f
}

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, 0.0, p.MediatorMass())
	assert.Equal(t, 0.0, p.DarkMatterMass())
	assert.Equal(t, 0.0, p.VisibleCoupling())
	assert.Equal(t, DefaultTopMass, p.TopMass())
	assert.False(t, p.DMCoupling().IsSet())
	assert.False(t, p.TotalWidth().IsSet())
	assert.False(t, p.BranchingRatio().IsSet())
}

func TestSet_Coerces(t *testing.T) {
	p := New()
	require.NoError(t, p.Set(MediatorMass, "2000"))
	require.NoError(t, p.Set(DarkMatterMass, 1))
	require.NoError(t, p.Set(VisibleCoupling, 0.5))
	require.NoError(t, p.Set(BranchingRatio, " 0.37 "))
	require.NoError(t, p.Set(TopMass, float32(173)))

	assert.Equal(t, 2000.0, p.MediatorMass())
	assert.Equal(t, 1.0, p.DarkMatterMass())
	assert.Equal(t, 0.5, p.VisibleCoupling())
	assert.Equal(t, 0.37, mustGet(t, p.BranchingRatio()))
	assert.Equal(t, 173.0, p.TopMass())

	// overwrite, including a previously set optional
	require.NoError(t, p.Set(BranchingRatio, 0.1))
	assert.Equal(t, 0.1, mustGet(t, p.BranchingRatio()))
}

func TestSet_ConversionError(t *testing.T) {
	p := New()
	for _, in := range []any{"two thousand", "", "nan", []byte("1"), nil} {
		err := p.Set(DMCoupling, in)
		require.Error(t, err, "input %#v", in)
		assert.ErrorIs(t, err, ErrConversion)

		var ce *ConversionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, DMCoupling, ce.Field)
		t.Logf("rejected %#v: %v", in, err)
	}
	assert.False(t, p.DMCoupling().IsSet(), "failed set must not touch the field")
}

func TestFieldNames(t *testing.T) {
	want := []string{"mV", "mDM", "a_r", "g", "G_tot", "BR", "m_top"}
	for i, f := range Fields() {
		assert.Equal(t, want[i], f.String())
		back, err := ParseField(want[i])
		require.NoError(t, err)
		assert.Equal(t, f, back)
	}
	_, err := ParseField("xsection")
	assert.Error(t, err)
}

func TestName_Priority(t *testing.T) {
	p := point(2000, 1, 0.5)
	assert.Equal(t, "mV2000_mDM1_a_r0.5", p.Name())

	p.SetTotalWidth(12.3456)
	assert.Equal(t, "mV2000_mDM1_a_r0.5_G_tot12.35", p.Name())

	p.SetDMCoupling(1)
	assert.Equal(t, "mV2000_mDM1_a_r0.5_g1.00", p.Name())

	p.SetBranchingRatio(0.37)
	assert.Equal(t, "mV2000_mDM1_a_r0.5_BR0.37", p.Name())
}

func TestName_Rounding(t *testing.T) {
	p := point(1499.6, 0.4, 0.25)
	p.SetDMCoupling(1.005)
	assert.Equal(t, fmt.Sprintf("mV1500_mDM0_a_r%.1f_g%.2f", 0.25, 1.005), p.Name())
}

func TestKinematics_Reference(t *testing.T) {
	p := point(2000, 1, 0.5)
	p.SetDMCoupling(1.0)

	assert.InDelta(t, 0.086, p.TopRatio(), 1e-15)
	assert.InDelta(t, 0.0005, p.DMRatio(), 1e-15)

	phiVis, phiInvis, gVis, gInvis := expect(2000, 1, 0.5, 1.0, 172)
	assert.InDelta(t, phiVis, p.VisiblePhaseSpace(), 1e-12)
	assert.InDelta(t, 0.9889062022836177, p.VisiblePhaseSpace(), 1e-12)

	got, err := p.InvisiblePhaseSpace()
	require.NoError(t, err)
	assert.InDelta(t, phiInvis, got, 1e-12)

	assert.InDelta(t, gVis, p.VisibleWidth(), 1e-9)
	assert.InDelta(t, 157.3893103476715, p.VisibleWidth(), 1e-9)

	inv, err := p.InvisibleWidth()
	require.NoError(t, err)
	assert.InDelta(t, gInvis, inv, 1e-9)
	assert.InDelta(t, 53.05164769727856, inv, 1e-9)
}

func TestInvisibleWidth_Priority(t *testing.T) {
	p := point(2000, 1, 0.5)
	_, err := p.InvisibleWidth()
	assert.ErrorIs(t, err, ErrMissingDrivingParameter)

	// from BR, without touching g
	p.SetBranchingRatio(0.25)
	inv, err := p.InvisibleWidth()
	require.NoError(t, err)
	assert.InDelta(t, 0.25/0.75*p.VisibleWidth(), inv, 1e-9)
	assert.False(t, p.DMCoupling().IsSet())

	// g wins over BR
	p.SetDMCoupling(1)
	inv, err = p.InvisibleWidth()
	require.NoError(t, err)
	assert.InDelta(t, 53.05164769727856, inv, 1e-9)

	// G_tot wins over g
	p.SetTotalWidth(200)
	inv, err = p.InvisibleWidth()
	require.NoError(t, err)
	assert.InDelta(t, 200-p.VisibleWidth(), inv, 1e-9)
}

func TestInvisiblePhaseSpace_Threshold(t *testing.T) {
	p := point(100, 50, 0.5)
	phi, err := p.InvisiblePhaseSpace()
	require.NoError(t, err, "r_chi = 0.5 exactly is allowed")
	assert.Equal(t, 0.0, phi)

	p.SetDarkMatterMass(50.01)
	phi, err = p.InvisiblePhaseSpace()
	require.ErrorIs(t, err, ErrKinematicallyForbidden)
	assert.False(t, math.IsNaN(phi))

	p.SetDMCoupling(1)
	_, err = p.InvisibleWidth()
	assert.ErrorIs(t, err, ErrKinematicallyForbidden)
}

func TestResolve_FromCoupling(t *testing.T) {
	p := point(2000, 1, 0.5)
	p.SetDMCoupling(1.0)
	require.NoError(t, p.Resolve())

	_, _, gVis, gInvis := expect(2000, 1, 0.5, 1.0, 172)
	gTot := mustGet(t, p.TotalWidth())
	br := mustGet(t, p.BranchingRatio())

	assert.InDelta(t, gVis+gInvis, gTot, 1e-9)
	assert.InDelta(t, 210.44095804495007, gTot, 1e-9)
	assert.InDelta(t, gInvis/gTot, br, 1e-12)
	assert.InDelta(t, 0.2520975393295195, br, 1e-12)
	assert.Equal(t, 1.0, mustGet(t, p.DMCoupling()), "driving value is untouched")

	t.Logf("%s: G_vis=%.6f G_invis=%.6f G_tot=%.6f BR=%.6f", p.Name(), gVis, gInvis, gTot, br)
}

func TestResolve_FromBranchingRatio(t *testing.T) {
	p := point(1000, 1, 0.5)
	p.SetBranchingRatio(0.5)
	require.NoError(t, p.Resolve())

	g := mustGet(t, p.DMCoupling())
	gTot := mustGet(t, p.TotalWidth())
	assert.InDelta(t, 1.693195451940435, g, 1e-9)
	assert.InDelta(t, 152.09434378125852, gTot, 1e-9)

	// half of the total width is invisible
	inv, err := p.InvisibleWidth()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, inv/gTot, 1e-12)

	// rebuild g from the derived total width alone
	q := point(1000, 1, 0.5)
	q.SetTotalWidth(gTot)
	require.NoError(t, q.Resolve())
	assert.InEpsilon(t, g, mustGet(t, q.DMCoupling()), 1e-6)
	assert.InEpsilon(t, 0.5, mustGet(t, q.BranchingRatio()), 1e-6)
}

func TestResolve_RoundTripThroughTotalWidth(t *testing.T) {
	for _, mV := range []float64{500, 1000, 1500, 2000, 2500, 3000} {
		for _, aR := range []float64{0.01, 0.1, 0.5, 1.2} {
			for _, g := range []float64{0.1, 0.5, 1.0, 1.5} {
				p := point(mV, 1, aR)
				p.SetDMCoupling(g)
				require.NoError(t, p.Resolve())

				q := point(mV, 1, aR)
				q.SetTotalWidth(mustGet(t, p.TotalWidth()))
				require.NoError(t, q.Resolve(), "mV=%g a_r=%g g=%g", mV, aR, g)

				assert.InEpsilon(t, g, mustGet(t, q.DMCoupling()), 1e-6, "g at mV=%g a_r=%g", mV, aR)
				assert.InEpsilon(t, mustGet(t, p.BranchingRatio()), mustGet(t, q.BranchingRatio()), 1e-6)
			}
		}
	}
}

func TestResolve_MutuallyConsistent(t *testing.T) {
	drivers := []func(*Space){
		func(p *Space) { p.SetDMCoupling(0.8) },
		func(p *Space) { p.SetBranchingRatio(0.3) },
		func(p *Space) { p.SetTotalWidth(150) },
	}
	for i, set := range drivers {
		p := point(1500, 10, 0.4)
		set(p)
		require.NoError(t, p.Resolve(), "driver %d", i)

		g := mustGet(t, p.DMCoupling())
		gTot := mustGet(t, p.TotalWidth())
		br := mustGet(t, p.BranchingRatio())

		phi, err := p.InvisiblePhaseSpace()
		require.NoError(t, err)
		gInvis := g * g * (p.MediatorMass() / (12 * math.Pi)) * phi

		assert.InEpsilon(t, gTot, p.VisibleWidth()+gInvis, 1e-9, "driver %d", i)
		assert.InEpsilon(t, br, (gTot-p.VisibleWidth())/gTot, 1e-9, "driver %d", i)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	for _, set := range []func(*Space){
		func(p *Space) { p.SetDMCoupling(1.0) },
		func(p *Space) { p.SetBranchingRatio(0.37) },
		func(p *Space) { p.SetTotalWidth(250) },
	} {
		p := point(2000, 1, 0.5)
		set(p)
		require.NoError(t, p.Resolve())
		first := p.Values()

		require.NoError(t, p.Resolve())
		assert.Equal(t, first, p.Values(), "second pass must not drift")
	}
}

func TestResolve_IdempotentAtUnitBranchingRatio(t *testing.T) {
	for name, p := range map[string]*Space{
		"no visible coupling":  point(2000, 1, 0),
		"closed visible decay": point(DefaultTopMass, 1, 0.5),
	} {
		t.Run(name, func(t *testing.T) {
			p.SetDMCoupling(1)
			require.NoError(t, p.Resolve())
			assert.Equal(t, 1.0, mustGet(t, p.BranchingRatio()))
			first := p.Values()

			require.NoError(t, p.Resolve())
			assert.Equal(t, first, p.Values())
		})
	}

	// as a driving input BR = 1 stays rejected
	p := point(2000, 1, 0)
	p.SetBranchingRatio(1)
	require.ErrorIs(t, p.Resolve(), ErrUnphysical)
}

func TestResolve_ConsistentOverdetermined(t *testing.T) {
	ref := point(2000, 1, 0.5)
	ref.SetDMCoupling(1.0)
	require.NoError(t, ref.Resolve())

	p := point(2000, 1, 0.5)
	p.SetDMCoupling(1.0)
	p.SetTotalWidth(mustGet(t, ref.TotalWidth()))
	p.SetBranchingRatio(mustGet(t, ref.BranchingRatio()))
	require.NoError(t, p.Resolve())
	assert.True(t, p.Equal(ref))
}

func TestResolve_InconsistentCouplingAndWidth(t *testing.T) {
	p := point(2000, 1, 0.5)
	p.SetDMCoupling(1.0)
	p.SetTotalWidth(100)
	before := p.Values()

	err := p.Resolve()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistent)

	var ie *InconsistencyError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, TotalWidth, ie.Field)
	assert.Equal(t, 100.0, ie.Set)
	assert.InDelta(t, 210.44095804495007, ie.Calculated, 1e-9)

	var pe *PointError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "mV2000_mDM1_a_r0.5_g1.00", pe.Name)
	assert.Equal(t, before, pe.Values)
	assert.Contains(t, err.Error(), "G_tot=100")

	assert.Equal(t, before, p.Values(), "failed resolve leaves the point untouched")
	t.Logf("error: %v", err)
}

func TestResolve_InconsistentBranchingRatioAndWidth(t *testing.T) {
	p := point(2000, 1, 0.5)
	p.SetBranchingRatio(0.9)
	p.SetTotalWidth(200)

	err := p.Resolve()
	var ie *InconsistencyError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Equal(t, BranchingRatio, ie.Field)
	assert.Equal(t, 0.9, ie.Set)
}

func TestResolve_InconsistentCouplingAndBranchingRatio(t *testing.T) {
	p := point(2000, 1, 0.5)
	p.SetDMCoupling(1.0)
	p.SetBranchingRatio(0.5)

	err := p.Resolve()
	var ie *InconsistencyError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Equal(t, BranchingRatio, ie.Field)
}

func TestResolve_MissingDrivingParameter(t *testing.T) {
	p := point(2000, 1, 0.5)
	err := p.Resolve()
	require.ErrorIs(t, err, ErrMissingDrivingParameter)

	var pe *PointError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "mV2000_mDM1_a_r0.5", pe.Name)

	for _, step := range []func() error{p.DeriveTotalWidth, p.DeriveDMCoupling, p.DeriveBranchingRatio} {
		assert.ErrorIs(t, step(), ErrMissingDrivingParameter)
	}
}

func TestResolve_BranchingRatioRange(t *testing.T) {
	for _, br := range []float64{-0.1, 1, 1.5} {
		p := point(1000, 1, 0.5)
		p.SetBranchingRatio(br)
		err := p.Resolve()
		require.ErrorIs(t, err, ErrUnphysical, "BR=%g", br)
		assert.False(t, p.DMCoupling().IsSet(), "BR=%g must not produce a coupling", br)
	}

	// BR = 0 is allowed and gives a vanishing coupling
	p := point(1000, 1, 0.5)
	p.SetBranchingRatio(0)
	require.NoError(t, p.Resolve())
	assert.Equal(t, 0.0, mustGet(t, p.DMCoupling()))
	assert.InDelta(t, p.VisibleWidth(), mustGet(t, p.TotalWidth()), 1e-12)
}

func TestResolve_NegativeCouplingSquared(t *testing.T) {
	p := point(2000, 1, 0.5)
	p.SetTotalWidth(10) // well below G_vis ~ 157 GeV
	err := p.Resolve()
	require.ErrorIs(t, err, ErrUnphysical)
	assert.Contains(t, err.Error(), "negative g^2")
	assert.False(t, p.DMCoupling().IsSet())
}

func TestResolve_KinematicThreshold(t *testing.T) {
	// at threshold, a coupling gives no invisible width
	p := point(100, 50, 0.5)
	p.SetTopMass(0)
	p.SetDMCoupling(1)
	require.NoError(t, p.Resolve())
	assert.Equal(t, 0.0, mustGet(t, p.BranchingRatio()))
	assert.InDelta(t, p.VisibleWidth(), mustGet(t, p.TotalWidth()), 1e-12)

	// but BR or G_tot cannot be turned into a coupling
	q := point(100, 50, 0.5)
	q.SetTopMass(0)
	q.SetBranchingRatio(0.3)
	err := q.Resolve()
	require.ErrorIs(t, err, ErrKinematicallyForbidden)
	assert.False(t, q.DMCoupling().IsSet())

	// above threshold everything involving the invisible width fails
	r := point(100, 60, 0.5)
	r.SetDMCoupling(1)
	assert.ErrorIs(t, r.Resolve(), ErrKinematicallyForbidden)
}

func TestResolve_InvalidMasses(t *testing.T) {
	p := point(0, 1, 0.5)
	p.SetDMCoupling(1)
	assert.ErrorIs(t, p.Resolve(), ErrUnphysical)

	p = point(1000, -1, 0.5)
	p.SetDMCoupling(1)
	assert.ErrorIs(t, p.Resolve(), ErrUnphysical)

	p = point(1000, 1, 0.5)
	p.SetTotalWidth(-1)
	assert.ErrorIs(t, p.Resolve(), ErrUnphysical)
}

func TestCompare_FieldWise(t *testing.T) {
	a := point(2000, 1, 0.5)
	a.SetDMCoupling(1)
	require.NoError(t, a.Resolve())

	b := a.Clone()
	assert.True(t, a.Equal(b))

	// within tolerance
	b.SetTotalWidth(mustGet(t, a.TotalWidth()) * (1 + 1e-7))
	assert.True(t, a.Equal(b))

	// one field off: attributed to that field only
	b.SetBranchingRatio(0.3)
	m := a.Compare(b, DefaultTolerance)
	require.Len(t, m, 1)
	assert.Equal(t, BranchingRatio, m[0].Field)

	err := a.Check(b, DefaultTolerance)
	require.ErrorIs(t, err, ErrInconsistent)
	var me *MismatchError
	require.True(t, errors.As(err, &me))
	assert.Contains(t, err.Error(), "BR: want")

	// unset on one side is a mismatch
	c := point(2000, 1, 0.5)
	c.SetDMCoupling(1)
	m = a.Compare(c, DefaultTolerance)
	require.Len(t, m, 2)
	assert.Equal(t, TotalWidth, m[0].Field)
	assert.Equal(t, BranchingRatio, m[1].Field)

	// a looser tolerance forgives the BR difference
	assert.Empty(t, a.Compare(b, Tolerance{Abs: 0.1}))
}

func TestValues_RoundTrip(t *testing.T) {
	p := point(2000, 1, 0.5)
	p.SetBranchingRatio(0.37)
	require.NoError(t, p.Resolve())

	q := p.Values().Space()
	assert.True(t, p.Equal(q))
	assert.Equal(t, p.Name(), q.Name())

	m := p.Map()
	assert.Len(t, m, 7)
	assert.Equal(t, 0.37, m["BR"])
	assert.Equal(t, 172.0, m["m_top"])
	assert.True(t, util.IsClose(m["g"], mustGet(t, p.DMCoupling())))

	unresolved := point(2000, 1, 0.5)
	assert.NotContains(t, unresolved.Map(), "g")
	assert.Contains(t, unresolved.String(), "g=unset")
}

func ExampleSpace_Resolve() {
	p := New()
	p.SetMediatorMass(2000)
	p.SetDarkMatterMass(1)
	p.SetVisibleCoupling(0.5)
	p.SetDMCoupling(1.0)
	if err := p.Resolve(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.Name())
	fmt.Printf("G_tot=%s BR=%s\n", p.TotalWidth().Sprintf("%.3f"), p.BranchingRatio().Sprintf("%.4f"))
	// Output:
	// mV2000_mDM1_a_r0.5_BR0.25
	// G_tot=210.441 BR=0.2521
}
