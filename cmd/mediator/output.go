package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/ja7ad/mediator/pkg/table"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printPoint(w io.Writer, p *parameter.Space) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "NAME\t%s\n", p.Name())
	fmt.Fprintln(tw, "----\t----")
	for _, f := range parameter.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", f, p.Get(f))
	}
	fmt.Fprintf(tw, "G_vis\t%g\n", p.VisibleWidth())
	if inv, err := p.InvisibleWidth(); err == nil {
		fmt.Fprintf(tw, "G_invis\t%g\n", inv)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMismatches(w io.Writer, ms []parameter.Mismatch) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "FIELD\tANALYTIC\tGENERATOR")
	fmt.Fprintln(tw, "-----\t--------\t---------")
	for _, m := range ms {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Field, m.Want, m.Got)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, sum []table.Summary) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PROCESS\tN\tMIN (pb)\tMAX (pb)\tMEAN (pb)\tMEDIAN (pb)\tSTDDEV (pb)")
	fmt.Fprintln(tw, "-------\t-\t--------\t--------\t---------\t-----------\t-----------")
	for _, s := range sum {
		fmt.Fprintf(tw, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			s.Process, s.N, s.Min, s.Max, s.Mean, s.Median, s.StdDev)
	}
	return tw.Flush()
}
