package cli

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/store"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

// writeGeneric writes a two-spin decay list with rates 2 and 0.5.
func writeGeneric(t *testing.T, dir string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("# spin time intensity error\n")
	for _, tm := range []float64{0, 0.25, 0.5, 1, 1.5, 2, 3} {
		fmt.Fprintf(&b, "A2 %g %.10g 5\n", tm, 1000*math.Exp(-2*tm))
		fmt.Fprintf(&b, "K11 %g %.10g\n", tm, 500*math.Exp(-0.5*tm))
	}

	path := filepath.Join(dir, "peaks.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	return path
}

func writeSparky(t *testing.T, dir string, tm float64) string {
	t.Helper()

	body := fmt.Sprintf(`      Assignment         w1         w2   Data Height

         G12N-H    110.123      8.456   %.10g
         A27N-H    121.500      7.900   %.10g
            ?-?    115.000      8.000   1234
`, 200*(1-math.Exp(-0.5*tm)), 150*(1-math.Exp(-1.2*tm)))

	path := filepath.Join(dir, fmt.Sprintf("spectrum_%g.list", tm))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "relaxfit dev")
}

func TestFitGenericStoresResults(t *testing.T) {
	dir := t.TempDir()
	list := writeGeneric(t, dir)
	dbPath := filepath.Join(dir, "fits.db")
	plotDir := filepath.Join(dir, "plots")

	out, _, err := run(t, "fit", list, "--db", dbPath, "--plot-dir", plotDir, "--compression", "s2", "-j", "2")
	require.NoError(t, err)
	require.Contains(t, out, "SPIN")
	require.Contains(t, out, "A2")
	require.Contains(t, out, "K11")

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	r, err := db.LatestResult("A2")
	require.NoError(t, err)
	require.Equal(t, exponential.ModelDecay, r.Model)
	require.InDelta(t, 1000, r.Params[0], 1e-3)
	require.InDelta(t, 2, r.Params[1], 1e-6)

	rec, err := db.LoadSeries("K11")
	require.NoError(t, err)
	require.Len(t, rec.Data.Times, 7)
	require.InDelta(t, 0.5, rec.Params[1], 1e-6)
	// K11 lines carry no error and take the default
	require.InDelta(t, 1.0, rec.Data.Errors[0], 0)

	for _, name := range []string{"A2.png", "K11.png"} {
		_, err := os.Stat(filepath.Join(plotDir, name))
		require.NoError(t, err, name)
	}

	listed, _, err := run(t, "results", "--db", dbPath)
	require.NoError(t, err)
	require.Contains(t, listed, "A2")
	require.Contains(t, listed, "R=2")

	one, _, err := run(t, "results", "--db", dbPath, "--spin", "K11")
	require.NoError(t, err)
	require.NotContains(t, one, "A2")
}

func TestFitSparky(t *testing.T) {
	dir := t.TempDir()

	args := []string{"fit", "--format", "sparky", "--model", "sat"}
	for _, tm := range []float64{0.2, 0.5, 1, 2, 4, 8} {
		args = append(args, "--spectrum", writeSparky(t, dir, tm)+"="+fmt.Sprint(tm))
	}

	out, _, err := run(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "G12N-H")
	require.Contains(t, out, "A27N-H")
	require.NotContains(t, out, "?-?")
}

func TestFitConfigFile(t *testing.T) {
	dir := t.TempDir()
	list := writeGeneric(t, dir)
	cfgPath := filepath.Join(dir, "relaxfit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("fit:\n  method: newton\nlog:\n  level: debug\n"), 0o600))

	_, stderr, err := run(t, "fit", list, "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, stderr, "method=newton")
}

func TestFitErrors(t *testing.T) {
	dir := t.TempDir()
	list := writeGeneric(t, dir)
	sparky := writeSparky(t, dir, 1)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown model", []string{"fit", list, "--model", "gauss"}, "fit.model"},
		{"missing file", []string{"fit"}, "needs one peak list"},
		{"sparky as generic", []string{"fit", sparky}, "--format sparky"},
		{"sparky without spectra", []string{"fit", "--format", "sparky"}, "--spectrum"},
		{"bad spectrum", []string{"fit", "--format", "sparky", "--spectrum", sparky}, "path=time"},
		{"bad compression", []string{"fit", list, "--compression", "brotli"}, "archive.compression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestResultsUnknownSpin(t *testing.T) {
	_, _, err := run(t, "results", "--db", filepath.Join(t.TempDir(), "empty.db"), "--spin", "X1")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestParseSpectrum(t *testing.T) {
	path, tm, err := parseSpectrum("data/a=b.list=0.25")
	require.NoError(t, err)
	require.Equal(t, "data/a=b.list", path)
	require.InDelta(t, 0.25, tm, 0)

	for _, bad := range []string{"x.list", "=1", "x.list=", "x.list=abc"} {
		_, _, err := parseSpectrum(bad)
		require.Error(t, err, bad)
	}
}

func TestPlotFileName(t *testing.T) {
	require.Equal(t, "12LEU_HN", plotFileName("12LEU:HN"))
	require.Equal(t, "a_b_c", plotFileName("a/b c"))
}

func TestFormatParams(t *testing.T) {
	require.Equal(t, "I0=1000 R=2", formatParams(exponential.ModelDecay, []float64{1000, 2}))
	require.Equal(t, "[1 2 3]", formatParams(exponential.ModelDecay, []float64{1, 2, 3}))
}
