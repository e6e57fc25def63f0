package main

import (
	"github.com/spf13/pflag"

	"github.com/ja7ad/mediator/pkg/parameter"
)

// pointFlags are the point inputs shared by resolve, deck, run and check.
// g, total_width and BR only count when given on the command line.
type pointFlags struct {
	mV   float64
	mDM  float64
	aR   float64
	mTop float64
	g    float64
	gTot float64
	br   float64
}

func (o *pointFlags) register(fs *pflag.FlagSet) {
	fs.Float64VarP(&o.mV, "mV", "M", 2000, "mediator mass in GeV")
	fs.Float64VarP(&o.mDM, "mDM", "m", 1, "dark-matter mass in GeV")
	fs.Float64VarP(&o.aR, "a_r", "a", 0.5, "a_r coupling constant (V t u vertex)")
	fs.Float64VarP(&o.g, "g", "g", 0, "g coupling constant (V chi chi vertex)")
	fs.Float64VarP(&o.gTot, "total_width", "G", 0, "total width in GeV (default automatic)")
	fs.Float64VarP(&o.br, "BR", "B", 0, "invisible branching ratio (default automatic)")
	fs.Float64Var(&o.mTop, "m-top", parameter.DefaultTopMass, "top-quark mass in GeV")
}

// space builds the unresolved point.
func (o *pointFlags) space(fs *pflag.FlagSet) *parameter.Space {
	p := parameter.New()
	p.SetMediatorMass(o.mV)
	p.SetDarkMatterMass(o.mDM)
	p.SetVisibleCoupling(o.aR)
	p.SetTopMass(o.mTop)
	if fs.Changed("g") {
		p.SetDMCoupling(o.g)
	}
	if fs.Changed("total_width") {
		p.SetTotalWidth(o.gTot)
	}
	if fs.Changed("BR") {
		p.SetBranchingRatio(o.br)
	}
	return p
}

// resolved builds and resolves the point.
func (o *pointFlags) resolved(fs *pflag.FlagSet) (*parameter.Space, error) {
	p := o.space(fs)
	if err := p.Resolve(); err != nil {
		return nil, err
	}
	return p, nil
}

// autoWidth is true unless the total width was given explicitly.
func autoWidth(fs *pflag.FlagSet) bool { return !fs.Changed("total_width") }
