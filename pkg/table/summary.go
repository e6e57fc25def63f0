package table

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/ja7ad/mediator/pkg/record"
)

// Summary describes the cross-sections of one process over all points.
type Summary struct {
	Process string
	N       int
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
	StdDev  float64
}

// Summarize returns one Summary per process, ordered by process.
func Summarize(records []record.Record) ([]Summary, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	byProc := map[string][]float64{}
	for _, r := range records {
		byProc[r.Process] = append(byProc[r.Process], r.CrossSection)
	}

	out := make([]Summary, 0, len(byProc))
	for p, xs := range byProc {
		s, err := summarize(p, xs)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Process < out[j].Process })
	return out, nil
}

func summarize(process string, xs []float64) (Summary, error) {
	s := Summary{Process: process, N: len(xs)}
	var err error
	if s.Min, err = stats.Min(xs); err != nil {
		return s, fmt.Errorf("table: %s min: %w", process, err)
	}
	if s.Max, err = stats.Max(xs); err != nil {
		return s, fmt.Errorf("table: %s max: %w", process, err)
	}
	if s.Mean, err = stats.Mean(xs); err != nil {
		return s, fmt.Errorf("table: %s mean: %w", process, err)
	}
	if s.Median, err = stats.Median(xs); err != nil {
		return s, fmt.Errorf("table: %s median: %w", process, err)
	}
	if s.StdDev, err = stats.StandardDeviation(xs); err != nil {
		return s, fmt.Errorf("table: %s stddev: %w", process, err)
	}
	return s, nil
}
