package grid

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/mediator/pkg/generator"
	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/ja7ad/mediator/pkg/record"
)

var (
	ErrEmptyAxis = errors.New("grid: empty axis")
	ErrDriver    = errors.New("grid: driver must be one of g, BR, G_tot")
)

// Grid is a scan campaign: the cartesian product of its axes, one point
// per process. Driver names the optional field the Values axis sets.
//
//	processes:         [tt_exclusive, monotop]
//	mediator_masses:   [1000, 1500, 2000]
//	dm_masses:         [1]
//	visible_couplings: [0.1, 0.5]
//	driver:            BR
//	values:            [0.2, 0.5, 0.8]
type Grid struct {
	Processes        []generator.Process `yaml:"processes"`
	MediatorMasses   []float64           `yaml:"mediator_masses"`
	DarkMatterMasses []float64           `yaml:"dm_masses"`
	VisibleCouplings []float64           `yaml:"visible_couplings"`
	Driver           string              `yaml:"driver"`
	Values           []float64           `yaml:"values"`
	TopMass          *float64            `yaml:"top_mass,omitempty"`
}

// Job is one process at one point.
type Job struct {
	Process generator.Process
	Point   *parameter.Space
}

func (j Job) String() string { return string(j.Process) + "_" + j.Point.Name() }

// Load reads and validates a YAML grid file.
func Load(path string) (*Grid, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML grid.
func Parse(b []byte) (*Grid, error) {
	var g Grid
	if err := yaml.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf("grid: decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Grid) driver() (parameter.Field, error) {
	f, err := parameter.ParseField(g.Driver)
	if err != nil {
		return 0, fmt.Errorf("%w: got %q", ErrDriver, g.Driver)
	}
	switch f {
	case parameter.DMCoupling, parameter.BranchingRatio, parameter.TotalWidth:
		return f, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrDriver, g.Driver)
}

// Validate checks that every axis is populated, the driver is known and
// every process has a generate block.
func (g *Grid) Validate() error {
	for name, axis := range map[string]int{
		"processes":         len(g.Processes),
		"mediator_masses":   len(g.MediatorMasses),
		"dm_masses":         len(g.DarkMatterMasses),
		"visible_couplings": len(g.VisibleCouplings),
		"values":            len(g.Values),
	} {
		if axis == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyAxis, name)
		}
	}
	if _, err := g.driver(); err != nil {
		return err
	}
	for _, p := range g.Processes {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("grid: %w", err)
		}
	}
	return nil
}

// Points enumerates the grid in file order, process outermost. The points
// are not resolved.
func (g *Grid) Points() ([]Job, error) {
	drv, err := g.driver()
	if err != nil {
		return nil, err
	}
	var jobs []Job
	for _, proc := range g.Processes {
		for _, mV := range g.MediatorMasses {
			for _, mDM := range g.DarkMatterMasses {
				for _, aR := range g.VisibleCouplings {
					for _, v := range g.Values {
						p := parameter.New()
						p.SetMediatorMass(mV)
						p.SetDarkMatterMass(mDM)
						p.SetVisibleCoupling(aR)
						if g.TopMass != nil {
							p.SetTopMass(*g.TopMass)
						}
						if err := p.Set(drv, v); err != nil {
							return nil, err
						}
						jobs = append(jobs, Job{Process: proc, Point: p})
					}
				}
			}
		}
	}
	return jobs, nil
}

// Missing resolves every point and returns those without a record file in
// dir. A point that cannot be resolved fails the whole call.
func (g *Grid) Missing(dir string) ([]Job, error) {
	jobs, err := g.Points()
	if err != nil {
		return nil, err
	}
	var out []Job
	for _, j := range jobs {
		if err := j.Point.Resolve(); err != nil {
			return nil, fmt.Errorf("grid: %s: %w", j.Process, err)
		}
		if !record.Exists(dir, string(j.Process), j.Point) {
			out = append(out, j)
		}
	}
	return out, nil
}
