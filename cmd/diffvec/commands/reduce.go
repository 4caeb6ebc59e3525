package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stemtools/diffvec"
	"github.com/stemtools/diffvec/catalog"
	"github.com/stemtools/diffvec/snapshot"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce <grid.json>",
	Short: "Reduce a vector grid to its unique vectors",
	Long: `Reduce merges near-duplicate diffraction vectors across all scan
positions, writes the resulting unique set to a snapshot under the
storage root, and records the run in the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if threshold := cmd.Flags().Lookup("threshold"); threshold.Changed {
			cfg.Reduce.DistanceThreshold, _ = cmd.Flags().GetFloat64("threshold")
		}

		grid, err := loadGrid(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		cat, err := catalog.Open(cfg.Storage.CatalogPath)
		if err != nil {
			return err
		}
		defer cat.Close()

		runName := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		runID, err := cat.BeginRun(ctx, runName, catalog.Params{
			DistanceThreshold:  cfg.Reduce.DistanceThreshold,
			Eps:                cfg.Cluster.Eps,
			MinSamples:         cfg.Cluster.MinSamples,
			MagnitudeThreshold: cfg.Index.MagnitudeThreshold,
		})
		if err != nil {
			return err
		}

		dv := diffvec.New(grid,
			diffvec.WithLogger(newLogger()),
			diffvec.WithWorkers(cfg.Workers),
		)
		set, err := dv.UniqueVectors(ctx, cfg.Reduce.DistanceThreshold)
		if err != nil {
			_ = cat.FinishRun(ctx, runID, catalog.StatusFailed, 0, 0, "")
			return err
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		ref := fmt.Sprintf("runs/%s-%d.snap", runName, runID)
		err = snapshot.Save(ctx, store, ref, set, snapshot.Options{
			Compression: snapshotCompression(cfg.Storage.Compression),
		})
		if err != nil {
			_ = cat.FinishRun(ctx, runID, catalog.StatusFailed, set.Len(), set.Deleted, "")
			return err
		}

		if err := cat.StoreUniqueVectors(ctx, runID, set.Vectors); err != nil {
			return err
		}
		if err := cat.FinishRun(ctx, runID, catalog.StatusCompleted, set.Len(), set.Deleted, ref); err != nil {
			return err
		}

		fmt.Printf("run %d: %d unique vectors (%d pruned), snapshot %s\n",
			runID, set.Len(), set.Deleted, ref)
		return nil
	},
}

func init() {
	reduceCmd.Flags().Float64("threshold", 0, "override reduce.distance_threshold")
	rootCmd.AddCommand(reduceCmd)
}
