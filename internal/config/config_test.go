package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "relaxfit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, exponential.ModelDecay, cfg.Fit.ModelType())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
fit:
  model: saturation
  method: newton
  workers: 4
input:
  error: 2.5
archive:
  compression: lz4
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, exponential.ModelSaturation, cfg.Fit.ModelType())
	require.Equal(t, "newton", cfg.Fit.Method)
	require.Equal(t, 4, cfg.Fit.Workers)
	require.Equal(t, 200, cfg.Fit.MaxIterations)
	require.InDelta(t, 2.5, cfg.Input.Error, 0)
	require.Equal(t, "generic", cfg.Input.Format)
	require.Equal(t, "lz4", cfg.Archive.Compression)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "fit:\n  modle: exp\n"))
	require.ErrorContains(t, err, "modle")

	_, err = Load(writeConfig(t, "archive:\n  compression: brotli\n"))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
		want string
	}{
		{"model", func(c *Config) { c.Fit.Model = "gauss" }, "fit.model"},
		{"method", func(c *Config) { c.Fit.Method = "simplex" }, "fit.method"},
		{"iterations", func(c *Config) { c.Fit.MaxIterations = 0 }, "fit.max_iterations"},
		{"tolerance", func(c *Config) { c.Fit.Tolerance = -1 }, "fit.tolerance"},
		{"workers", func(c *Config) { c.Fit.Workers = -2 }, "fit.workers"},
		{"format", func(c *Config) { c.Input.Format = "nmrview" }, "input.format"},
		{"sparky column", func(c *Config) { c.Input.SparkyColumn = 0 }, "input.sparky_column"},
		{"error", func(c *Config) { c.Input.Error = 0 }, "input.error"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
