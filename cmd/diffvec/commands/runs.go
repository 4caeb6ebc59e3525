package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stemtools/diffvec/catalog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded analysis runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := catalog.Open(cfg.Storage.CatalogPath)
		if err != nil {
			return err
		}
		defer cat.Close()

		runs, err := cat.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSTARTED\tTHRESHOLD\tUNIQUE\tPRUNED\tSNAPSHOT")
		for _, r := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%g\t%d\t%d\t%s\n",
				r.ID, r.Name, r.Status,
				r.StartedAt.Local().Format(time.DateTime),
				r.Params.DistanceThreshold,
				r.UniqueCount, r.DeletedCount, r.SnapshotRef)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
