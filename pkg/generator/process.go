package generator

import (
	"fmt"
	"strings"
)

// Process labels a signal process. The label prefixes every file of a run
// and keys the cross-section columns of the results table.
type Process string

const (
	TTExclusive Process = "tt_exclusive"
	OnShellV    Process = "onshellV"
	OffShellV   Process = "offshellV"
	Monotop     Process = "monotop"
)

// Processes lists the known processes.
func Processes() []Process {
	return []Process{TTExclusive, OnShellV, OffShellV, Monotop}
}

type block struct {
	comment string
	lines   []string
}

// Labels are matched by substring so that variants such as "tt_excl_v2"
// reuse the same generate block.
var blocks = []struct {
	match []string
	block block
}{
	{[]string{"tt_excl"}, block{"tt exclusive decay", []string{
		"generate p p > t t, (t > b W+, W+ > l+ vl)",
		"add process p p > t~ t~, (t~ > b~ W-, W- > l- vl~)",
	}}},
	{[]string{"onshell"}, block{"Visible on-shell V decay", []string{
		"generate p p > V > t t u~, (t > b W+, W+ > l+ vl)",
		"add process p p > V > t~ t~ u, (t~ > b~ W-, W- > l- vl~)",
	}}},
	{[]string{"offshell"}, block{"Off-shell V decay", []string{
		"generate p p > t t u~ $$ V, (t > b W+, W+ > l+ vl)",
		"add process p p > t~ t~ u $$ V, (t~ > b~ W-, W- > l- vl~)",
	}}},
	{[]string{"Monotop", "monotop"}, block{"Monotop", []string{
		"generate p p > t psi psibar, (t > b W+, W+ > l+ vl)",
		"add process p p > t~ psi psibar, (t~ > b~ W-, W- > l- vl~)",
	}}},
}

func (p Process) block() (block, error) {
	for _, b := range blocks {
		for _, m := range b.match {
			if strings.Contains(string(p), m) {
				return b.block, nil
			}
		}
	}
	return block{}, fmt.Errorf("%w: %q", ErrUnknownProcess, string(p))
}

// Validate reports whether the process has a generate block.
func (p Process) Validate() error {
	_, err := p.block()
	return err
}
