// Package cli implements the relaxfit command line.
package cli

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "relaxfit",
		Short:         "Fit NMR relaxation curves",
		Long:          "relaxfit fits exponential decay, inversion recovery and saturation recovery curves to peak intensities.",
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newFitCmd())
	rootCmd.AddCommand(newResultsCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// newLogger returns a text logger writing to w at the given level.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})

	return logger, nil
}
