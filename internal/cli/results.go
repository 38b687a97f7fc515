package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/relaxfit/store"
)

func newResultsCmd() *cobra.Command {
	var (
		dbPath string
		spin   string
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List the latest stored fit of every spin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				var err error
				if dbPath, err = store.DefaultDBPath(); err != nil {
					return err
				}
			}

			db, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			var results []store.FitResult
			if spin != "" {
				r, err := db.LatestResult(spin)
				if err != nil {
					return err
				}
				results = append(results, *r)
			} else if results, err = db.ListResults(); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SPIN\tMODEL\tMETHOD\tPARAMS\tCHI2\tR2\tRMSE\tCREATED")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4g\t%.4f\t%.4g\t%s\n",
					r.SpinID, r.Model, r.Method, formatParams(r.Model, r.Params),
					r.Chi2, r.RSquared, r.RMSE, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}

			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (default ~/.relaxfit/relaxfit.db)")
	cmd.Flags().StringVar(&spin, "spin", "", "show only this spin")

	return cmd
}
