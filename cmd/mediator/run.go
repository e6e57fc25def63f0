package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ja7ad/mediator/pkg/generator"
	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/ja7ad/mediator/pkg/record"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		pf      pointFlags
		process string
		model   string
		skip    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the generator for one point and record its cross-section",
		Long: `run resolves the point, writes its deck into the workspace, runs the
generator, reads the run banner back and compares the generator's view of
the point with the analytic one. On agreement the cross-section is written
as a JSON record into the output directory (and into the store if set).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			proc := generator.Process(process)
			if err := proc.Validate(); err != nil {
				return err
			}
			p, err := pf.resolved(cmd.Flags())
			if err != nil {
				return err
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

			j := job{process: proc, point: p, autoWidth: autoWidth(cmd.Flags()), model: model}
			if skip && record.Exists(a.cfg.Output, process, p) {
				a.log.Info("record exists, skipping", "process", process, "point", p.Name())
				return nil
			}
			r, err := a.run(ctx, store, j)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %g pb\n", r.FileName(), r.CrossSection)
			return nil
		},
	}
	pf.register(cmd.Flags())
	cmd.Flags().StringVarP(&process, "signal", "s", string(generator.TTExclusive), "process: tt_exclusive, onshellV, offshellV or monotop")
	cmd.Flags().StringVar(&model, "model", generator.DefaultModel, "UFO model imported by the deck")
	cmd.Flags().BoolVar(&skip, "skip-existing", false, "do nothing when the record already exists")
	return cmd
}

// job is one generator run for a resolved point.
type job struct {
	process   generator.Process
	point     *parameter.Space
	autoWidth bool
	model     string
}

// openStore opens the configured store, or returns nil when none is set.
func (a *app) openStore(ctx context.Context) (*record.Store, error) {
	if a.cfg.Store == "" {
		return nil, nil
	}
	return record.Open(ctx, a.cfg.Store)
}

// run executes the generator for j, checks the banner against the point
// and stores the record.
func (a *app) run(ctx context.Context, store *record.Store, j job) (record.Record, error) {
	d := generator.Deck{
		Process:   j.process,
		Point:     j.point,
		Workspace: a.cfg.Workspace,
		AutoWidth: j.autoWidth,
		Model:     j.model,
	}
	runner := generator.Runner{Executable: a.cfg.Executable, Logger: a.log}
	if err := runner.Run(ctx, d); err != nil {
		return record.Record{}, err
	}

	m, err := generator.ParseBannerFile(d.BannerPath())
	if err != nil {
		return record.Record{}, err
	}
	// the banner does not carry the top mass used for the widths
	m.Point.SetTopMass(j.point.TopMass())
	if err := j.point.Check(m.Point, parameter.DefaultTolerance); err != nil {
		a.log.Error("generator disagrees with analytic point",
			"process", string(j.process), "analytic", j.point.Values(), "generator", m.Point.Values())
		return record.Record{}, fmt.Errorf("%s: %w", d.Name(), err)
	}

	r := record.New(string(j.process), j.point, m.CrossSection)
	path, err := record.WriteFile(a.cfg.Output, r)
	if err != nil {
		return record.Record{}, err
	}
	a.log.Info("record written", "path", path, "xsection_pb", r.CrossSection)
	if store != nil {
		if err := store.Put(ctx, r); err != nil {
			return record.Record{}, err
		}
	}
	return r, nil
}
