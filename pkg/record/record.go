package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ja7ad/mediator/pkg/parameter"
)

// Ext is the extension of record files.
const Ext = ".json"

// ErrNoProcess indicates a record without a process label.
var ErrNoProcess = errors.New("record: empty process")

// Record is the stored outcome of one process at one point: the resolved
// parameters, flattened under their field keys, plus the cross-section.
type Record struct {
	ID           uuid.UUID `json:"id"`
	Process      string    `json:"process"`
	CrossSection float64   `json:"xsection"`
	parameter.Values
	CreatedAt time.Time `json:"created_at"`
}

// New builds a record for a resolved point.
func New(process string, p *parameter.Space, xsection float64) Record {
	return Record{
		ID:           uuid.New(),
		Process:      process,
		CrossSection: xsection,
		Values:       p.Values(),
		CreatedAt:    time.Now().UTC(),
	}
}

// String overrides the String promoted from the embedded Values, which
// is embedded only to flatten the JSON layout.
func (r Record) String() string {
	return fmt.Sprintf("%s %s xsection=%g pb %s", r.ID, r.Process, r.CrossSection, r.Values)
}

// Name is the point name of the record.
func (r Record) Name() string { return r.Values.Space().Name() }

// FileName is "<process>_<point name>.json".
func (r Record) FileName() string { return FileName(r.Process, r.Values.Space()) }

// FileName is the record file name for process at p.
func FileName(process string, p *parameter.Space) string {
	return process + "_" + p.Name() + Ext
}

// WriteFile stores r as indented JSON in dir and returns the path.
func WriteFile(dir string, r Record) (string, error) {
	if r.Process == "" {
		return "", ErrNoProcess
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("record: output dir: %w", err)
	}
	b, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", fmt.Errorf("record: encode %s: %w", r.FileName(), err)
	}
	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("record: write: %w", err)
	}
	return path, nil
}

// ReadFile loads one record.
func ReadFile(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("record: read: %w", err)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, fmt.Errorf("record: decode %s: %w", filepath.Base(path), err)
	}
	if r.Process == "" {
		return Record{}, fmt.Errorf("%w: %s", ErrNoProcess, filepath.Base(path))
	}
	return r, nil
}

// ReadDir loads every record file in dir, ordered by file name.
func ReadDir(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("record: read dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), Ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Record, 0, len(names))
	for _, n := range names {
		r, err := ReadFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Exists reports whether the record file for process at p is in dir.
func Exists(dir, process string, p *parameter.Space) bool {
	_, err := os.Stat(filepath.Join(dir, FileName(process, p)))
	return err == nil
}
