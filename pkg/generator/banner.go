package generator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ja7ad/mediator/pkg/parameter"
	"github.com/ja7ad/mediator/pkg/util"
)

// Measurement is what the generator reports for one run: its own view of
// the point and the integrated cross-section in pb.
type Measurement struct {
	Point        *parameter.Space
	CrossSection float64
}

// bannerField maps a labeled banner line to a point field. The value is
// read from column Col of the whitespace-split line.
type bannerField struct {
	label string
	field parameter.Field
	col   int
}

var bannerFields = []bannerField{
	{"# ar", parameter.VisibleCoupling, 1},
	{"# gg", parameter.DMCoupling, 1},
	{"# mv", parameter.MediatorMass, 1},
	{"# mpsi", parameter.DarkMatterMass, 1},
	{"DECAY  32", parameter.TotalWidth, 2},
	{"1000023  -1000023", parameter.BranchingRatio, 0},
}

const crossSectionLabel = "Integrated weight (pb)"

// ParseBanner scans a run banner for the labeled parameter lines and the
// integrated weight. Fields that do not appear stay unset on the point.
func ParseBanner(r io.Reader) (*Measurement, error) {
	m := &Measurement{Point: parameter.New()}
	found := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		cols := strings.Fields(line)

		for _, bf := range bannerFields {
			if !strings.Contains(line, bf.label) {
				continue
			}
			if bf.col >= len(cols) {
				return nil, fmt.Errorf("generator: banner line %d: short %q line", n, bf.label)
			}
			if err := m.Point.Set(bf.field, cols[bf.col]); err != nil {
				return nil, fmt.Errorf("generator: banner line %d: %w", n, err)
			}
		}

		if strings.Contains(line, crossSectionLabel) && len(cols) > 0 {
			xs, err := util.ToFloat(cols[len(cols)-1])
			if err != nil {
				return nil, fmt.Errorf("generator: banner line %d: cross-section: %w", n, err)
			}
			m.CrossSection = xs
			found = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("generator: read banner: %w", err)
	}
	if !found {
		return nil, ErrNoCrossSection
	}
	return m, nil
}

// ParseBannerFile opens path and parses it with ParseBanner.
func ParseBannerFile(path string) (*Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("generator: open banner: %w", err)
	}
	defer f.Close()
	return ParseBanner(f)
}
