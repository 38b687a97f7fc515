// Package config holds the relaxfit command line configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/fit"
	"github.com/arloliu/relaxfit/format"
	"github.com/arloliu/relaxfit/peaklist"
)

// Config holds all relaxfit configuration.
type Config struct {
	Fit      FitConfig      `yaml:"fit"`
	Input    InputConfig    `yaml:"input"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Database DatabaseConfig `yaml:"database"`
	Plot     PlotConfig     `yaml:"plot"`
	Log      LogConfig      `yaml:"log"`
}

type FitConfig struct {
	Model         string  `yaml:"model"`  // "exp", "inv" or "sat"
	Method        string  `yaml:"method"` // "lm" or "newton"
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Workers       int     `yaml:"workers"` // 0 means GOMAXPROCS
}

type InputConfig struct {
	Format       string  `yaml:"format"` // "generic" or "sparky"
	SparkyColumn int     `yaml:"sparky_column"`
	Error        float64 `yaml:"error"` // intensity error for points without one
}

type ArchiveConfig struct {
	Compression string `yaml:"compression"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // empty disables persistence
}

type PlotConfig struct {
	Dir    string `yaml:"dir"` // empty disables plotting
	Format string `yaml:"format"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Fit: FitConfig{
			Model:         "exp",
			Method:        "lm",
			MaxIterations: 200,
			Tolerance:     1e-10,
		},
		Input: InputConfig{
			Format:       "generic",
			SparkyColumn: peaklist.DefaultSparkyColumn,
			Error:        1,
		},
		Archive: ArchiveConfig{Compression: "zstd"},
		Plot:    PlotConfig{Format: "png"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks every enumerated and numeric setting.
func (c *Config) Validate() error {
	if c.Fit.ModelType().NumParams() == 0 {
		return fmt.Errorf("fit.model %q: unknown model", c.Fit.Model)
	}
	if _, err := fit.ParseMethod(c.Fit.Method); err != nil {
		return fmt.Errorf("fit.method: %w", err)
	}
	if c.Fit.MaxIterations <= 0 {
		return fmt.Errorf("fit.max_iterations must be positive, got %d", c.Fit.MaxIterations)
	}
	if !(c.Fit.Tolerance > 0) {
		return fmt.Errorf("fit.tolerance must be positive, got %g", c.Fit.Tolerance)
	}
	if c.Fit.Workers < 0 {
		return fmt.Errorf("fit.workers must not be negative, got %d", c.Fit.Workers)
	}
	if _, err := peaklist.ParseFormat(c.Input.Format); err != nil {
		return fmt.Errorf("input.format: %w", err)
	}
	if c.Input.SparkyColumn == 0 {
		return errors.New("input.sparky_column 0 holds the assignment")
	}
	if !(c.Input.Error > 0) {
		return fmt.Errorf("input.error must be positive, got %g", c.Input.Error)
	}
	if _, err := format.ParseCompression(c.Archive.Compression); err != nil {
		return fmt.Errorf("archive.compression: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// ModelType returns the configured model type, or ModelType(-1) if unknown.
func (f FitConfig) ModelType() exponential.ModelType {
	return exponential.ModelTypeFromString(f.Model)
}
