package main

import (
	"github.com/spf13/cobra"
)

func newResolveCmd(_ *app) *cobra.Command {
	var (
		pf     pointFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Derive g, G_tot and BR from whichever of them is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pf.resolved(cmd.Flags())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), p.Values())
			}
			return printPoint(cmd.OutOrStdout(), p)
		},
	}
	pf.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolved point as JSON")
	return cmd
}
