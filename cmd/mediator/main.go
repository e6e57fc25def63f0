package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/ja7ad/mediator/pkg/config"
)

// app carries the resolved configuration into every command.
type app struct {
	cfg config.Config
	log *slog.Logger
}

type rootOpts struct {
	envFile    string
	workspace  string
	output     string
	executable string
	store      string
	logLevel   string
}

func main() {
	if err := newRoot().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	var (
		o rootOpts
		a = &app{cfg: config.Default(), log: slog.Default()}
	)

	root := &cobra.Command{
		Use:   "mediator",
		Short: "Vector mediator parameter space and cross-section tool",
		Long: `The mediator tool resolves points of a vector-mediator dark-matter model
(mV, mDM, a_r and one of g, G_tot, BR), writes matrix-element generator
decks for them, runs the generator, checks its output against the analytic
widths and collects the cross-sections into a results table.

Paths default to the environment (MEDIATOR_WORKSPACE, MEDIATOR_OUTPUT,
MEDIATOR_EXECUTABLE, MEDIATOR_STORE, MEDIATOR_LOG_LEVEL, also read from .env)
and can be overridden by flags.

Examples:
  mediator resolve -M 2000 -m 1 -a 0.5 -g 1
  mediator run -s monotop -M 1500 -a 0.1 -B 0.5
  mediator grid -c campaign.yaml --missing
  mediator table -i output_JSON --csv big_table.csv --xlsx big_table.xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, o)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.envFile, "env-file", "", "env file to load (default .env if present)")
	pf.StringVarP(&o.workspace, "workspace", "w", "", "workspace for decks and generator output")
	pf.StringVarP(&o.output, "output", "o", "", "directory of JSON records")
	pf.StringVar(&o.executable, "executable", "", "matrix-element generator binary")
	pf.StringVar(&o.store, "store", "", "SQLite file mirroring the records")
	pf.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newResolveCmd(a),
		newDeckCmd(a),
		newRunCmd(a),
		newCheckCmd(a),
		newTableCmd(a),
		newGridCmd(a),
	)
	return root
}

// setup loads the config and applies the flags that were given on top.
func (a *app) setup(cmd *cobra.Command, o rootOpts) error {
	var files []string
	if o.envFile != "" {
		files = append(files, o.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed("workspace") {
		cfg.Workspace = o.workspace
	}
	if fs.Changed("output") {
		cfg.Output = o.output
	}
	if fs.Changed("executable") {
		cfg.Executable = o.executable
	}
	if fs.Changed("store") {
		cfg.Store = o.store
	}
	if fs.Changed("log-level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(o.logLevel)); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.log = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(a.log)
	return nil
}
