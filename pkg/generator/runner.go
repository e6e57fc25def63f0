package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Runner executes the external generator on a deck.
type Runner struct {
	// Executable is the generator binary, e.g. ./bin/mg5_aMC.
	Executable string
	// Dir is the working directory of the generator; empty means the
	// current one.
	Dir    string
	Logger *slog.Logger
}

// Run writes the deck, executes the generator on it and sends its output to
// the deck's LogPath. Cancelling ctx kills the generator.
func (r Runner) Run(ctx context.Context, d Deck) error {
	if r.Executable == "" {
		return ErrNoExecutable
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	deckPath, err := d.WriteFile()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(deckPath)
	if err != nil {
		return fmt.Errorf("generator: deck path: %w", err)
	}

	out, err := os.Create(d.LogPath())
	if err != nil {
		return fmt.Errorf("generator: create log: %w", err)
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, r.Executable, abs)
	cmd.Dir = r.Dir
	cmd.Stdout = out
	cmd.Stderr = out

	log.Info("running generator", "exe", r.Executable, "deck", abs, "log", d.LogPath())
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generator: %s: %w", d.Name(), ctx.Err())
		}
		return fmt.Errorf("generator: %s: %w (see %s)", d.Name(), err, d.LogPath())
	}
	log.Info("generator finished", "process", string(d.Process), "point", d.Point.Name(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
