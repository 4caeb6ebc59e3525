package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stemtools/diffvec"
	"github.com/stemtools/diffvec/cluster"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters <grid.json>",
	Short: "Cluster the seed position's vectors with DBSCAN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if f := cmd.Flags().Lookup("eps"); f.Changed {
			cfg.Cluster.Eps, _ = cmd.Flags().GetFloat64("eps")
		}
		if f := cmd.Flags().Lookup("min-samples"); f.Changed {
			cfg.Cluster.MinSamples, _ = cmd.Flags().GetInt("min-samples")
		}

		grid, err := loadGrid(args[0])
		if err != nil {
			return err
		}

		dv := diffvec.New(grid, diffvec.WithLogger(newLogger()))
		res, err := dv.VectorClusters(cmd.Context(), cfg.Cluster.Eps, cfg.Cluster.MinSamples)
		if err != nil {
			return err
		}

		noise := res.NoisePoints()
		fmt.Printf("%d clusters over %d vectors, %d noise\n",
			res.NumClusters, len(res.Labels), noise.GetCardinality())
		for id := 0; id < res.NumClusters; id++ {
			fmt.Printf("  cluster %d: %d members\n", id, res.Members(id).GetCardinality())
		}
		if !noise.IsEmpty() {
			fmt.Printf("  noise (label %d): %v\n", cluster.Noise, noise.ToArray())
		}
		return nil
	},
}

func init() {
	clustersCmd.Flags().Float64("eps", 0, "override cluster.eps")
	clustersCmd.Flags().Int("min-samples", 0, "override cluster.min_samples")
	rootCmd.AddCommand(clustersCmd)
}
