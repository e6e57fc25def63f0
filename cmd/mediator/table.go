package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ja7ad/mediator/pkg/record"
	"github.com/ja7ad/mediator/pkg/table"
)

func newTableCmd(a *app) *cobra.Command {
	var (
		input     string
		csvPath   string
		xlsxPath  string
		fromStore bool
		summary   bool
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Merge the records into one row per point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				recs []record.Record
				err  error
			)
			if fromStore {
				store, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				if store == nil {
					return fmt.Errorf("table: --from-store needs a store (--store or MEDIATOR_STORE)")
				}
				defer store.Close()
				recs, err = store.List(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				if !cmd.Flags().Changed("input") {
					input = a.cfg.Output
				}
				if recs, err = record.ReadDir(input); err != nil {
					return err
				}
			}
			a.log.Debug("records loaded", "count", len(recs))

			t, err := table.Build(recs)
			if err != nil {
				return err
			}
			if err := writeCSV(t, csvPath); err != nil {
				return err
			}
			a.log.Info("table written", "path", csvPath, "rows", len(t.Rows), "columns", len(t.Columns))
			if xlsxPath != "" {
				if err := t.WriteXLSX(xlsxPath); err != nil {
					return err
				}
				a.log.Info("workbook written", "path", xlsxPath)
			}

			if summary {
				sum, err := table.Summarize(recs)
				if err != nil {
					return err
				}
				return printSummary(cmd.OutOrStdout(), sum)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "output_JSON", "directory of JSON records (default from config)")
	cmd.Flags().StringVar(&csvPath, "csv", "big_table.csv", "CSV output file")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an Excel workbook")
	cmd.Flags().BoolVar(&fromStore, "from-store", false, "read the records from the store instead of the directory")
	cmd.Flags().BoolVar(&summary, "summary", false, "print cross-section statistics per process")
	return cmd
}

func writeCSV(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
