package fit

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/internal/options"
)

// Method selects the minimiser.
type Method int

const (
	// MethodLM is Levenberg-Marquardt on the weighted residuals.
	MethodLM Method = iota
	// MethodNewton is Newton's method on the chi-squared value.
	MethodNewton
)

var methodNames = map[Method]string{
	MethodLM:     "lm",
	MethodNewton: "newton",
}

// String returns the method name.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}

	return "unknown"
}

// ParseMethod returns the Method for a name, case-insensitively.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lm", "levenberg-marquardt":
		return MethodLM, nil
	case "newton":
		return MethodNewton, nil
	default:
		return 0, fmt.Errorf("method %q: %w", name, errs.ErrUnknownMethod)
	}
}

const (
	defaultMaxIterations = 200
	defaultTolerance     = 1e-10
)

// Config holds the settings of one fit.
type Config struct {
	Method        Method
	MaxIterations int
	Tolerance     float64
	Logger        logrus.FieldLogger
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

func defaultConfig() Config {
	return Config{
		Method:        MethodLM,
		MaxIterations: defaultMaxIterations,
		Tolerance:     defaultTolerance,
		Logger:        discardLogger(),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

// WithMethod selects the minimiser. The default is MethodLM.
func WithMethod(m Method) Option {
	return options.New(func(cfg *Config) error {
		if _, ok := methodNames[m]; !ok {
			return fmt.Errorf("method %d: %w", int(m), errs.ErrUnknownMethod)
		}
		cfg.Method = m

		return nil
	})
}

// WithMaxIterations bounds the number of major iterations.
func WithMaxIterations(n int) Option {
	return options.New(func(cfg *Config) error {
		if n <= 0 {
			return fmt.Errorf("max iterations must be positive, got %d", n)
		}
		cfg.MaxIterations = n

		return nil
	})
}

// WithTolerance sets the convergence tolerance on the gradient and step size.
func WithTolerance(tol float64) Option {
	return options.New(func(cfg *Config) error {
		if !(tol > 0) {
			return fmt.Errorf("tolerance must be positive, got %g", tol)
		}
		cfg.Tolerance = tol

		return nil
	})
}

// WithLogger sets the logger used for progress and warnings. By default
// nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return options.NoError(func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	})
}
