package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arloliu/relaxfit/archive"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/fit"
	"github.com/arloliu/relaxfit/format"
	"github.com/arloliu/relaxfit/internal/config"
	"github.com/arloliu/relaxfit/peaklist"
	"github.com/arloliu/relaxfit/plotting"
	"github.com/arloliu/relaxfit/store"
)

type fitFlags struct {
	configPath  string
	model       string
	method      string
	format      string
	spectra     []string
	column      int
	errorValue  float64
	maxIter     int
	tolerance   float64
	workers     int
	db          string
	plotDir     string
	compression string
	logLevel    string
}

func newFitCmd() *cobra.Command {
	f := &fitFlags{}
	cmd := &cobra.Command{
		Use:   "fit [peak-list]",
		Short: "Fit a relaxation model to every spin of a peak list",
		Long: `Fit a relaxation model to every spin of a peak list.

A generic list is one file with "spin time intensity [error]" columns.
Sparky lists hold one spectrum each and are passed with --spectrum path=time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fl.StringVarP(&f.model, "model", "m", "exp", "relaxation model: exp, inv or sat")
	fl.StringVar(&f.method, "method", "lm", "minimiser: lm or newton")
	fl.StringVarP(&f.format, "format", "f", "generic", "peak list format: generic or sparky")
	fl.StringArrayVar(&f.spectra, "spectrum", nil, "Sparky peak list and its delay as path=time (repeatable)")
	fl.IntVar(&f.column, "column", peaklist.DefaultSparkyColumn, "zero-based intensity column of Sparky lists")
	fl.Float64Var(&f.errorValue, "error", 1, "intensity error for points without one")
	fl.IntVar(&f.maxIter, "max-iterations", 200, "iteration limit per fit")
	fl.Float64Var(&f.tolerance, "tolerance", 1e-10, "convergence tolerance")
	fl.IntVarP(&f.workers, "workers", "j", 0, "concurrent fits, 0 for one per CPU")
	fl.StringVar(&f.db, "db", "", "SQLite database to store series and results in")
	fl.StringVar(&f.plotDir, "plot-dir", "", "directory to write one plot per spin to")
	fl.StringVar(&f.compression, "compression", "zstd", "archive compression: none, zstd, s2 or lz4")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level")

	return cmd
}

// resolveConfig loads the config file, then applies the flags that were set
// explicitly on the command line.
func resolveConfig(cmd *cobra.Command, f *fitFlags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("model") {
		cfg.Fit.Model = f.model
	}
	if changed("method") {
		cfg.Fit.Method = f.method
	}
	if changed("max-iterations") {
		cfg.Fit.MaxIterations = f.maxIter
	}
	if changed("tolerance") {
		cfg.Fit.Tolerance = f.tolerance
	}
	if changed("workers") {
		cfg.Fit.Workers = f.workers
	}
	if changed("format") {
		cfg.Input.Format = f.format
	}
	if changed("column") {
		cfg.Input.SparkyColumn = f.column
	}
	if changed("error") {
		cfg.Input.Error = f.errorValue
	}
	if changed("db") {
		cfg.Database.Path = f.db
	}
	if changed("plot-dir") {
		cfg.Plot.Dir = f.plotDir
	}
	if changed("compression") {
		cfg.Archive.Compression = f.compression
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	return cfg, cfg.Validate()
}

func runFit(cmd *cobra.Command, f *fitFlags, args []string) error {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}

	coll, err := readInput(cfg, args, f.spectra)
	if err != nil {
		return err
	}
	if coll.Len() == 0 {
		return fmt.Errorf("no spins in input")
	}

	mt := cfg.Fit.ModelType()
	method, _ := fit.ParseMethod(cfg.Fit.Method)
	jobs := make([]fit.Job, 0, coll.Len())
	for _, spin := range coll.SpinIDs() {
		d, _ := coll.Series(spin)
		jobs = append(jobs, fit.Job{SpinID: spin, Model: mt, Data: d})
	}
	log.WithFields(logrus.Fields{"spins": len(jobs), "model": mt.String(), "method": method.String()}).Info("fitting")

	outcomes, err := fit.Batch(cmd.Context(), jobs, cfg.Fit.Workers,
		fit.WithMethod(method),
		fit.WithMaxIterations(cfg.Fit.MaxIterations),
		fit.WithTolerance(cfg.Fit.Tolerance),
		fit.WithLogger(log),
	)
	if err != nil {
		return err
	}

	if err := printOutcomes(cmd.OutOrStdout(), outcomes); err != nil {
		return err
	}
	if cfg.Database.Path != "" {
		if err := persist(cfg, jobs, outcomes, log); err != nil {
			return err
		}
	}
	if cfg.Plot.Dir != "" {
		if err := plotOutcomes(cfg.Plot, jobs, outcomes, log); err != nil {
			return err
		}
	}

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fits failed", failed, len(outcomes))
	}

	return nil
}

func readInput(cfg config.Config, args, spectra []string) (*peaklist.Collection, error) {
	pf, _ := peaklist.ParseFormat(cfg.Input.Format)
	coll := peaklist.NewCollection()

	switch pf {
	case peaklist.FormatSparky:
		if len(spectra) == 0 {
			return nil, fmt.Errorf("sparky input needs at least one --spectrum path=time")
		}
		for _, s := range spectra {
			path, t, err := parseSpectrum(s)
			if err != nil {
				return nil, err
			}
			peaks, err := readSparkyFile(path, cfg.Input.SparkyColumn)
			if err != nil {
				return nil, err
			}
			if err := coll.AddSpectrum(t, cfg.Input.Error, peaks); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	default:
		if len(args) != 1 {
			return nil, fmt.Errorf("generic input needs one peak list file")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		if detected, err := peaklist.Detect(bytes.NewReader(data)); err == nil && detected == peaklist.FormatSparky {
			return nil, fmt.Errorf("%s is a Sparky list; use --format sparky --spectrum %s=<time>", args[0], args[0])
		}
		recs, err := peaklist.ReadGeneric(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", args[0], err)
		}
		if err := coll.AddRecords(recs, cfg.Input.Error); err != nil {
			return nil, fmt.Errorf("%s: %w", args[0], err)
		}
	}

	return coll, nil
}

func readSparkyFile(path string, column int) ([]peaklist.Peak, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	peaks, err := peaklist.ReadSparky(file, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return peaks, nil
}

// parseSpectrum splits a "path=time" argument at its last '='.
func parseSpectrum(s string) (string, float64, error) {
	i := strings.LastIndexByte(s, '=')
	if i <= 0 || i == len(s)-1 {
		return "", 0, fmt.Errorf("spectrum %q: want path=time", s)
	}
	t, err := strconv.ParseFloat(s[i+1:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("spectrum %q: %w", s, err)
	}

	return s[:i], t, nil
}

func printOutcomes(w io.Writer, outcomes []fit.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SPIN\tMODEL\tPARAMS\tCHI2\tR2\tITER\tSTATUS")
	for _, out := range outcomes {
		if out.Err != nil {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\terror: %v\n", out.SpinID, out.Model, out.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4g\t%.4f\t%d\t%s\n",
			out.SpinID, out.Model, formatParams(out.Model, out.Result.Params),
			out.Result.Chi2, out.Stats.RSquared, out.Result.Iterations, out.Result.Status)
	}

	return tw.Flush()
}

func formatParams(mt exponential.ModelType, params []float64) string {
	if len(params) != mt.NumParams() {
		return fmt.Sprintf("%.6g", params)
	}
	m, err := exponential.New(mt, params...)
	if err != nil {
		return fmt.Sprintf("%.6g", params)
	}

	parts := make([]string, len(params))
	for i, p := range m.Params() {
		parts[i] = fmt.Sprintf("%s=%.6g", p, params[i])
	}

	return strings.Join(parts, " ")
}

func persist(cfg config.Config, jobs []fit.Job, outcomes []fit.Outcome, log logrus.FieldLogger) error {
	compression, _ := format.ParseCompression(cfg.Archive.Compression)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	for i, out := range outcomes {
		rec := archive.Record{SpinID: out.SpinID, Model: out.Model, Data: jobs[i].Data}
		if out.Err == nil {
			rec.Params = out.Result.Params
		}
		if err := db.SaveSeries(rec, archive.WithCompression(compression)); err != nil {
			return err
		}
		if out.Err != nil {
			continue
		}

		r, err := store.NewFitResult(out)
		if err != nil {
			return err
		}
		if err := db.SaveResult(r); err != nil {
			return err
		}
	}
	log.WithField("db", cfg.Database.Path).Infof("stored %d series", len(outcomes))

	return nil
}

func plotOutcomes(cfg config.PlotConfig, jobs []fit.Job, outcomes []fit.Outcome, log logrus.FieldLogger) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	ext := strings.TrimPrefix(cfg.Format, ".")
	for i, out := range outcomes {
		var m exponential.Model
		if out.Err == nil {
			m, _ = exponential.New(out.Model, out.Result.Params...)
		}
		path := filepath.Join(cfg.Dir, plotFileName(out.SpinID)+"."+ext)
		if err := plotting.Render(path, jobs[i].Data, m, out.SpinID); err != nil {
			return err
		}
		log.WithField("spin", out.SpinID).Debugf("wrote %s", path)
	}

	return nil
}

// plotFileName replaces characters that are unsafe in file names.
func plotFileName(spin string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}

		return r
	}, spin)
}
