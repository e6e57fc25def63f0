package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvWorkspace  = "MEDIATOR_WORKSPACE"
	EnvOutput     = "MEDIATOR_OUTPUT"
	EnvExecutable = "MEDIATOR_EXECUTABLE"
	EnvStore      = "MEDIATOR_STORE"
	EnvLogLevel   = "MEDIATOR_LOG_LEVEL"
)

// DefaultEnvFile is read by Load when no file is named. It is optional.
const DefaultEnvFile = ".env"

// Config holds the paths shared by every command. It is passed to each
// operation explicitly.
//
//   - Workspace: decks, generator logs and generator output directories
//   - Output: one JSON record per process and point
//   - Executable: the matrix-element generator binary
//   - Store: SQLite file mirroring the records; empty disables it
type Config struct {
	Workspace  string
	Output     string
	Executable string
	Store      string
	LogLevel   slog.Level
}

// Default is the layout the generator wrapper has always used.
func Default() Config {
	return Config{
		Workspace:  "workspace",
		Output:     "output_JSON",
		Executable: "./bin/mg5_aMC",
		LogLevel:   slog.LevelInfo,
	}
}

// Load reads the env files into the process environment, without
// overriding variables that are already set, then builds the Config from
// the environment on top of Default. A missing default .env is not an
// error; a missing named file is.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s: %w", DefaultEnvFile, err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the Config from the environment only. Empty variables
// keep the default.
func FromEnv() (Config, error) {
	c := Default()
	for env, dst := range map[string]*string{
		EnvWorkspace:  &c.Workspace,
		EnvOutput:     &c.Output,
		EnvExecutable: &c.Executable,
		EnvStore:      &c.Store,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
		}
	}
	return c, nil
}
