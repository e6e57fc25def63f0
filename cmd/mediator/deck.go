package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ja7ad/mediator/pkg/generator"
)

func newDeckCmd(a *app) *cobra.Command {
	var (
		pf      pointFlags
		process string
		model   string
	)
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Write the generator deck for a point without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc := generator.Process(process)
			if err := proc.Validate(); err != nil {
				return err
			}
			p, err := pf.resolved(cmd.Flags())
			if err != nil {
				return err
			}
			d := generator.Deck{
				Process:   proc,
				Point:     p,
				Workspace: a.cfg.Workspace,
				AutoWidth: autoWidth(cmd.Flags()),
				Model:     model,
			}
			path, err := d.WriteFile()
			if err != nil {
				return err
			}
			a.log.Debug("deck written", "process", process, "point", p.Name(), "auto_width", d.AutoWidth)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	pf.register(cmd.Flags())
	cmd.Flags().StringVarP(&process, "signal", "s", string(generator.TTExclusive), "process: tt_exclusive, onshellV, offshellV or monotop")
	cmd.Flags().StringVar(&model, "model", generator.DefaultModel, "UFO model imported by the deck")
	return cmd
}
