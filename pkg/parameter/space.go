package parameter

import (
	"fmt"
	"strings"

	"github.com/ja7ad/mediator/pkg/types"
	"github.com/ja7ad/mediator/pkg/util"
)

// DefaultTopMass is the reference top-quark mass in GeV.
const DefaultTopMass = 172.0

// Field identifies one physics quantity of a Space. The string form is the
// key used in serialized records.
type Field int

const (
	MediatorMass Field = iota
	DarkMatterMass
	VisibleCoupling
	DMCoupling
	TotalWidth
	BranchingRatio
	TopMass
)

var fieldNames = [...]string{
	MediatorMass:    "mV",
	DarkMatterMass:  "mDM",
	VisibleCoupling: "a_r",
	DMCoupling:      "g",
	TotalWidth:      "G_tot",
	BranchingRatio:  "BR",
	TopMass:         "m_top",
}

// Fields lists every field in serialization order.
func Fields() []Field {
	return []Field{MediatorMass, DarkMatterMass, VisibleCoupling, DMCoupling, TotalWidth, BranchingRatio, TopMass}
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField maps a serialized key back to its Field.
func ParseField(s string) (Field, error) {
	for i, n := range fieldNames {
		if n == s {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("parameter: unknown field %q", s)
}

// Space is one point of the mediator model.
// Units:
//   - mV, mDM, m_top, G_tot: GeV
//   - a_r, g: dimensionless couplings (quarks and dark matter)
//   - BR: branching ratio to invisible final states, [0,1)
//
// g, G_tot and BR are optional: exactly one of them normally drives the point
// and Resolve derives the other two.
type Space struct {
	mV   float64
	mDM  float64
	aR   float64
	mTop float64

	g    types.Value
	gTot types.Value
	br   types.Value
}

// New returns a point with zero masses and coupling, the default top mass
// and no driving parameter.
func New() *Space {
	return &Space{mTop: DefaultTopMass}
}

func (s *Space) MediatorMass() float64       { return s.mV }
func (s *Space) DarkMatterMass() float64     { return s.mDM }
func (s *Space) VisibleCoupling() float64    { return s.aR }
func (s *Space) TopMass() float64            { return s.mTop }
func (s *Space) DMCoupling() types.Value     { return s.g }
func (s *Space) TotalWidth() types.Value     { return s.gTot }
func (s *Space) BranchingRatio() types.Value { return s.br }

func (s *Space) SetMediatorMass(v float64)    { s.mV = v }
func (s *Space) SetDarkMatterMass(v float64)  { s.mDM = v }
func (s *Space) SetVisibleCoupling(v float64) { s.aR = v }
func (s *Space) SetTopMass(v float64)         { s.mTop = v }
func (s *Space) SetDMCoupling(v float64)      { s.g = types.Of(v) }
func (s *Space) SetTotalWidth(v float64)      { s.gTot = types.Of(v) }
func (s *Space) SetBranchingRatio(v float64)  { s.br = types.Of(v) }

// Set coerces v to a number and assigns it to field, overwriting any
// previous value. Consistency is only checked by Resolve.
func (s *Space) Set(field Field, v any) error {
	f, err := util.ToFloat(v)
	if err != nil {
		return &ConversionError{Field: field, Input: v, Err: err}
	}
	switch field {
	case MediatorMass:
		s.SetMediatorMass(f)
	case DarkMatterMass:
		s.SetDarkMatterMass(f)
	case VisibleCoupling:
		s.SetVisibleCoupling(f)
	case DMCoupling:
		s.SetDMCoupling(f)
	case TotalWidth:
		s.SetTotalWidth(f)
	case BranchingRatio:
		s.SetBranchingRatio(f)
	case TopMass:
		s.SetTopMass(f)
	default:
		return fmt.Errorf("parameter: unknown field %v", field)
	}
	return nil
}

// Get returns the value of field.
func (s *Space) Get(field Field) types.Value {
	switch field {
	case MediatorMass:
		return types.Of(s.mV)
	case DarkMatterMass:
		return types.Of(s.mDM)
	case VisibleCoupling:
		return types.Of(s.aR)
	case DMCoupling:
		return s.g
	case TotalWidth:
		return s.gTot
	case BranchingRatio:
		return s.br
	case TopMass:
		return types.Of(s.mTop)
	}
	return types.Unset()
}

// Clone returns an independent copy.
func (s *Space) Clone() *Space {
	c := *s
	return &c
}

// Values is a serializable snapshot of a Space.
type Values struct {
	MediatorMass    float64     `json:"mV"`
	DarkMatterMass  float64     `json:"mDM"`
	VisibleCoupling float64     `json:"a_r"`
	DMCoupling      types.Value `json:"g"`
	TotalWidth      types.Value `json:"G_tot"`
	BranchingRatio  types.Value `json:"BR"`
	TopMass         float64     `json:"m_top"`
}

func (v Values) String() string {
	return fmt.Sprintf("mV=%g mDM=%g a_r=%g g=%s G_tot=%s BR=%s m_top=%g",
		v.MediatorMass, v.DarkMatterMass, v.VisibleCoupling,
		v.DMCoupling, v.TotalWidth, v.BranchingRatio, v.TopMass)
}

// Space rebuilds a point from the snapshot.
func (v Values) Space() *Space {
	return &Space{
		mV:   v.MediatorMass,
		mDM:  v.DarkMatterMass,
		aR:   v.VisibleCoupling,
		mTop: v.TopMass,
		g:    v.DMCoupling,
		gTot: v.TotalWidth,
		br:   v.BranchingRatio,
	}
}

// Values returns a snapshot of the point.
func (s *Space) Values() Values {
	return Values{
		MediatorMass:    s.mV,
		DarkMatterMass:  s.mDM,
		VisibleCoupling: s.aR,
		DMCoupling:      s.g,
		TotalWidth:      s.gTot,
		BranchingRatio:  s.br,
		TopMass:         s.mTop,
	}
}

// Map returns the set fields keyed by their serialized names.
func (s *Space) Map() map[string]float64 {
	m := make(map[string]float64, len(fieldNames))
	for _, f := range Fields() {
		if v, ok := s.Get(f).Get(); ok {
			m[f.String()] = v
		}
	}
	return m
}

func (s *Space) String() string {
	var b strings.Builder
	for i, f := range Fields() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%s", f, s.Get(f))
	}
	return b.String()
}
