package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ja7ad/mediator/pkg/generator"
	"github.com/ja7ad/mediator/pkg/parameter"
)

func newCheckCmd(_ *app) *cobra.Command {
	var (
		pf     pointFlags
		banner string
		tol    = parameter.DefaultTolerance
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare a generator run banner with the analytic point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pf.resolved(cmd.Flags())
			if err != nil {
				return err
			}
			m, err := generator.ParseBannerFile(banner)
			if err != nil {
				return err
			}
			m.Point.SetTopMass(p.TopMass())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %g pb\n", p.Name(), m.CrossSection)
			ms := p.Compare(m.Point, tol)
			if len(ms) == 0 {
				fmt.Fprintln(out, "generator agrees with the analytic point")
				return nil
			}
			if err := printMismatches(out, ms); err != nil {
				return err
			}
			return &parameter.MismatchError{Mismatches: ms}
		},
	}
	pf.register(cmd.Flags())
	cmd.Flags().StringVar(&banner, "banner", "", "run banner written by the generator")
	cmd.Flags().Float64Var(&tol.Rel, "rtol", tol.Rel, "relative tolerance")
	cmd.Flags().Float64Var(&tol.Abs, "atol", tol.Abs, "absolute tolerance")
	_ = cmd.MarkFlagRequired("banner")
	return cmd
}
