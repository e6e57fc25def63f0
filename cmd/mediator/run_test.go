//go:build linux || darwin

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/mediator/pkg/record"
)

// fakeGenerator is a script that drops banner into the run directory of the
// deck it is given.
func fakeGenerator(t *testing.T, banner string) string {
	t.Helper()
	dir := t.TempDir()
	bannerFile := filepath.Join(dir, "banner.txt")
	require.NoError(t, os.WriteFile(bannerFile, []byte(banner), 0o644))

	script := `#!/bin/sh
base="${1%.dat}"
mkdir -p "$base/Events/run_01"
cp "` + bannerFile + `" "$base/Events/run_01/run_01_tag_1_banner.txt"
`
	exe := filepath.Join(dir, "mg5_aMC")
	require.NoError(t, os.WriteFile(exe, []byte(script), 0o755))
	return exe
}

func TestRun_RecordAndTable(t *testing.T) {
	p := reference(t)
	exe := fakeGenerator(t, banner(p, 0.15696))
	dir := t.TempDir()
	ws, outDir, db := filepath.Join(dir, "ws"), filepath.Join(dir, "out"), filepath.Join(dir, "records.db")

	flags := []string{"--executable", exe, "-w", ws, "-o", outDir, "--store", db}
	out, err := execute(t, append([]string{"run", "-s", "tt_exclusive", "-g", "1"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "tt_exclusive_mV2000_mDM1_a_r0.5_BR0.25.json: 0.15696 pb")
	assert.FileExists(t, filepath.Join(outDir, "tt_exclusive_mV2000_mDM1_a_r0.5_BR0.25.json"))

	_, err = execute(t, append([]string{"run", "-s", "monotop", "-g", "1"}, flags...)...)
	require.NoError(t, err)

	// already recorded: the generator is not needed
	_, err = execute(t, "run", "-s", "monotop", "-g", "1", "--skip-existing", "-o", outDir, "--executable", "/nonexistent")
	require.NoError(t, err)

	store, err := record.Open(context.Background(), db)
	require.NoError(t, err)
	recs, err := store.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.Len(t, recs, 2)

	csvPath := filepath.Join(dir, "big_table.csv")
	out, err = execute(t, "table", "-i", outDir, "--csv", csvPath, "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "monotop")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"mV", "mDM", "a_r", "g", "G_tot", "BR", "xsection_monotop", "xsection_tt_exclusive"}, lines[0])
	assert.Equal(t, "0.15696", lines[1][6])
	assert.Equal(t, "0.15696", lines[1][7])

	_, err = execute(t, "table", "--from-store", "--store", db, "--csv", filepath.Join(dir, "from_store.csv"))
	require.NoError(t, err)
}

func TestRun_Disagreement(t *testing.T) {
	p := reference(t)
	wrong := p.Clone()
	wrong.SetDMCoupling(1.2)
	exe := fakeGenerator(t, banner(wrong, 0.1))
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	_, err := execute(t, "run", "-s", "monotop", "-g", "1", "--executable", exe, "-w", filepath.Join(dir, "ws"), "-o", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "g: want 1, got 1.2")
	assert.NoDirExists(t, outDir)
}

func writeCampaign(t *testing.T, dir string, values string) string {
	t.Helper()
	path := filepath.Join(dir, "grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
processes: [monotop]
mediator_masses: [2000]
dm_masses: [1]
visible_couplings: [0.5]
driver: g
values: `+values+`
`), 0o644))
	return path
}

func TestGrid_Run(t *testing.T) {
	exe := fakeGenerator(t, banner(reference(t), 0.0123))
	dir := t.TempDir()
	campaign := writeCampaign(t, dir, "[1]")
	outDir := filepath.Join(dir, "out")
	flags := []string{"-c", campaign, "--executable", exe, "-w", filepath.Join(dir, "ws"), "-o", outDir}

	_, err := execute(t, append([]string{"grid", "--run"}, flags...)...)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "monotop_mV2000_mDM1_a_r0.5_BR0.25.json"))

	out, err := execute(t, append([]string{"grid", "--missing"}, flags...)...)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))

	// nothing left to run, so the missing executable is never called
	_, err = execute(t, "grid", "--run", "-c", campaign, "-o", outDir, "--executable", "/nonexistent")
	require.NoError(t, err)
}

func TestGrid_RunFailures(t *testing.T) {
	exe := fakeGenerator(t, banner(reference(t), 0.0123))
	dir := t.TempDir()
	campaign := writeCampaign(t, dir, "[1, 2]")

	_, err := execute(t, "grid", "--run", "-c", campaign, "--executable", exe,
		"-w", filepath.Join(dir, "ws"), "-o", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 runs failed")
}

func TestGrid_RunCancelled(t *testing.T) {
	exe := fakeGenerator(t, banner(reference(t), 0.0123))
	dir := t.TempDir()
	campaign := writeCampaign(t, dir, "[1, 2]")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := executeContext(t, ctx, "grid", "--run", "-c", campaign, "--executable", exe,
		"-w", filepath.Join(dir, "ws"), "-o", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.NotContains(t, err.Error(), "runs failed")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}
