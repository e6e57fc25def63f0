package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ja7ad/mediator/pkg/grid"
	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/ja7ad/mediator/pkg/util"
)

// driverFlags maps a driving field to its run flag.
var driverFlags = map[parameter.Field]string{
	parameter.DMCoupling:     "-g",
	parameter.BranchingRatio: "-B",
	parameter.TotalWidth:     "-G",
}

func newGridCmd(a *app) *cobra.Command {
	var (
		path    string
		missing bool
		run     bool
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "List, or run, the points of a scan campaign",
		Long: `grid expands a YAML campaign into one run per process and point and
prints the matching "mediator run" command lines. With --missing only the
runs without a record in the output directory are listed; with --run they
are executed one after another.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := grid.Load(path)
			if err != nil {
				return err
			}
			drv, err := parameter.ParseField(g.Driver)
			if err != nil {
				return err
			}

			var jobs []grid.Job
			if missing || run {
				jobs, err = g.Missing(a.cfg.Output)
			} else {
				jobs, err = g.Points()
			}
			if err != nil {
				return err
			}
			a.log.Info("campaign expanded", "file", path, "runs", len(jobs), "missing_only", missing || run)

			if !run {
				for _, j := range jobs {
					fmt.Fprintln(cmd.OutOrStdout(), runLine(j, drv))
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}
			var failed int
			for i, j := range jobs {
				a.log.Info("run", "n", i+1, "of", len(jobs), "job", j.String())
				_, err := a.run(ctx, store, job{
					process:   j.Process,
					point:     j.Point,
					autoWidth: drv != parameter.TotalWidth,
				})
				if err != nil {
					if ctx.Err() != nil {
						return err
					}
					a.log.Error("run failed", "job", j.String(), "err", err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("grid: %d of %d runs failed", failed, len(jobs))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "grid.yaml", "campaign file")
	cmd.Flags().BoolVar(&missing, "missing", false, "only list runs without a record")
	cmd.Flags().BoolVar(&run, "run", false, "run the missing points sequentially")
	return cmd
}

// runLine is the command that reproduces j, driven by the campaign's field.
func runLine(j grid.Job, drv parameter.Field) string {
	p := j.Point
	args := []string{
		"mediator", "run",
		"-s", string(j.Process),
		"-M", util.FmtFloat(p.MediatorMass()),
		"-m", util.FmtFloat(p.DarkMatterMass()),
		"-a", util.FmtFloat(p.VisibleCoupling()),
	}
	if v, ok := p.Get(drv).Get(); ok {
		args = append(args, driverFlags[drv], util.FmtFloat(v))
	}
	if p.TopMass() != parameter.DefaultTopMass {
		args = append(args, "--m-top", util.FmtFloat(p.TopMass()))
	}
	return strings.Join(args, " ")
}
