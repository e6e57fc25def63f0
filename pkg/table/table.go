package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/ja7ad/mediator/pkg/record"
	"github.com/ja7ad/mediator/pkg/types"
	"github.com/ja7ad/mediator/pkg/util"
)

// Places is the rounding applied to physics fields before records are
// merged, so generator round-off does not split a point into two rows.
const Places = 6

// XSectionPrefix prefixes the per-process cross-section columns.
const XSectionPrefix = "xsection_"

// ErrEmpty indicates an aggregation over no records.
var ErrEmpty = errors.New("table: no records")

// keyFields are the physics columns, in column order. m_top is a fixed
// reference and not part of the table.
var keyFields = []parameter.Field{
	parameter.MediatorMass,
	parameter.DarkMatterMass,
	parameter.VisibleCoupling,
	parameter.DMCoupling,
	parameter.TotalWidth,
	parameter.BranchingRatio,
}

// Table is the wide results table: one row per point, the physics fields
// followed by one cross-section column per process.
type Table struct {
	Columns []string
	Rows    [][]types.Value
}

type key [6]types.Value

func keyOf(v parameter.Values) key {
	s := v.Space()
	var k key
	for i, f := range keyFields {
		if x, ok := s.Get(f).Get(); ok {
			k[i] = types.Of(util.Round(x, Places))
		}
	}
	return k
}

// less orders keys field by field; unset sorts first.
func (k key) less(o key) bool {
	for i := range k {
		a, aok := k[i].Get()
		b, bok := o[i].Get()
		switch {
		case aok != bok:
			return !aok
		case a != b:
			return a < b
		}
	}
	return false
}

// Build merges records that share their physics fields into rows. Two
// records of the same process at the same point are an error.
func Build(records []record.Record) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	procSet := map[string]struct{}{}
	rows := map[key]map[string]float64{}
	for _, r := range records {
		procSet[r.Process] = struct{}{}
		k := keyOf(r.Values)
		xs, ok := rows[k]
		if !ok {
			xs = map[string]float64{}
			rows[k] = xs
		}
		if _, dup := xs[r.Process]; dup {
			return nil, fmt.Errorf("table: duplicate %s record at %s", r.Process, r.Name())
		}
		xs[r.Process] = r.CrossSection
	}

	procs := make([]string, 0, len(procSet))
	for p := range procSet {
		procs = append(procs, p)
	}
	sort.Strings(procs)

	keys := make([]key, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	t := &Table{}
	for _, f := range keyFields {
		t.Columns = append(t.Columns, f.String())
	}
	for _, p := range procs {
		t.Columns = append(t.Columns, XSectionPrefix+p)
	}

	for _, k := range keys {
		line := make([]types.Value, 0, len(t.Columns))
		line = append(line, k[:]...)
		for _, p := range procs {
			if xs, ok := rows[k][p]; ok {
				line = append(line, types.Of(xs))
			} else {
				line = append(line, types.Unset())
			}
		}
		t.Rows = append(t.Rows, line)
	}
	return t, nil
}

func cell(v types.Value) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return util.FmtFloat(f)
}

// WriteCSV writes the header and rows; unset cells are empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, r := range t.Rows {
		line := make([]string, len(r))
		for i, v := range r {
			line[i] = cell(v)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX saves the table as a single-sheet workbook.
func (t *Table) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, h := range t.Columns {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, c, h); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for i, v := range row {
			x, ok := v.Get()
			if !ok {
				continue
			}
			c, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, c, x); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("table: save %s: %w", path, err)
	}
	return nil
}
