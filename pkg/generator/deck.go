package generator

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/ja7ad/mediator/pkg/parameter"
)

// DefaultModel is the UFO model the decks import.
const DefaultModel = "models/MonotopDMF_UFO"

// Deck is the generator input for one process at one resolved point. All
// files of the run live under Workspace, named after Name.
type Deck struct {
	Process   Process
	Point     *parameter.Space
	Workspace string
	// AutoWidth lets the generator compute the mediator width itself
	// instead of using the point's total width.
	AutoWidth bool
	Model     string
}

// Name is "<process>_<point name>".
func (d Deck) Name() string {
	return string(d.Process) + "_" + d.Point.Name()
}

func (d Deck) base() string { return filepath.Join(d.Workspace, d.Name()) }

// Path is the deck file.
func (d Deck) Path() string { return d.base() + ".dat" }

// OutputDir is the generator's process directory.
func (d Deck) OutputDir() string { return d.base() }

// LogPath receives the generator's stdout.
func (d Deck) LogPath() string { return d.base() + ".out" }

// BannerPath is the run banner the generator writes for the first run.
func (d Deck) BannerPath() string {
	return filepath.Join(d.base(), "Events", "run_01", "run_01_tag_1_banner.txt")
}

// ResultsPath is the short results summary requested by the deck.
func (d Deck) ResultsPath() string { return d.base() + ".txt" }

type deckView struct {
	Model     string
	Comment   string
	Lines     []string
	Output    string
	MDM       float64
	AR        float64
	G         float64
	MV        float64
	AutoWidth bool
	Width     float64
}

func (d Deck) view() (deckView, error) {
	if d.Point == nil {
		return deckView{}, fmt.Errorf("%w: no point", ErrUnresolved)
	}
	b, err := d.Process.block()
	if err != nil {
		return deckView{}, err
	}
	g, ok := d.Point.DMCoupling().Get()
	if !ok {
		return deckView{}, fmt.Errorf("%w: %s has no g", ErrUnresolved, d.Point.Name())
	}
	width, ok := d.Point.TotalWidth().Get()
	if !ok && !d.AutoWidth {
		return deckView{}, fmt.Errorf("%w: %s has no G_tot", ErrUnresolved, d.Point.Name())
	}
	model := d.Model
	if model == "" {
		model = DefaultModel
	}
	return deckView{
		Model:     model,
		Comment:   b.comment,
		Lines:     b.lines,
		Output:    d.base(),
		MDM:       d.Point.DarkMatterMass(),
		AR:        d.Point.VisibleCoupling(),
		G:         g,
		MV:        d.Point.MediatorMass(),
		AutoWidth: d.AutoWidth,
		Width:     width,
	}, nil
}

// Write renders the deck.
func (d Deck) Write(w io.Writer) error {
	v, err := d.view()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := deckTpl.Execute(&buf, v); err != nil {
		return fmt.Errorf("generator: render deck: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteFile renders the deck into Path, creating the workspace if needed.
func (d Deck) WriteFile() (string, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Workspace, 0o755); err != nil {
		return "", fmt.Errorf("generator: workspace: %w", err)
	}
	path := d.Path()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("generator: write deck: %w", err)
	}
	return path, nil
}

var deckTpl = template.Must(template.New("deck").Funcs(template.FuncMap{
	"sci": func(f float64) string { return fmt.Sprintf("%e", f) },
}).Parse(`#************************************************************
#*                        MadGraph 5                        *
#*                                                          *
#*        This is an auto-generated file for MadGraph 5     *
#*                                                          *
#*     run as ./bin/mg5  filename                           *
#*                                                          *
#************************************************************
set automatic_html_opening False
import model {{.Model}} -modelname
define j = g u c d s b u~ c~ d~ s~ b~
define l+ = e+ mu+ ta+
define l- = e- mu- ta-
define vl = ve vm vt
define vl~ = ve~ vm~ vt~

# {{.Comment}}
{{range .Lines}}{{.}}
{{end}}
# Output processes to MadEvent directory
output {{.Output}}

launch {{.Output}}
set Mpsi {{sci .MDM}} # changing the psi mass
set ar {{sci .AR}} # changing the a_r coupling constant
set gg {{sci .G}} # changing the gg coupling constant
set MV {{sci .MV}} # changing the V mass
{{if .AutoWidth}}set WV Auto # changing the V width
{{else}}set WV {{sci .Width}} # changing the V width
{{end}}launch {{.Output}} -i
print_results --path={{.Output}}.txt --format=short
`))
