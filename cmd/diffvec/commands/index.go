package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stemtools/diffvec"
	"github.com/stemtools/diffvec/lattice"
	"github.com/stemtools/diffvec/vector"
)

var indexCmd = &cobra.Command{
	Use:   "index <grid.json>",
	Short: "Index vector magnitudes against a crystal lattice",
	Long: `Index compares the magnitude of every measured vector with the
reciprocal lattice spacings of the configured unit cell and reports
candidate Miller index assignments per scan position.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cell := cfg.Index.Cell
		if cell.A == 0 {
			return fmt.Errorf("index requires a unit cell; set index.cell in the configuration")
		}

		cellLattice, err := lattice.FromParameters(cell.A, cell.B, cell.C, cell.Alpha, cell.Beta, cell.Gamma)
		if err != nil {
			return err
		}
		structure := lattice.NewStructure(cell.Name, cellLattice)

		grid, err := loadGrid(args[0])
		if err != nil {
			return err
		}

		dv := diffvec.New(grid,
			diffvec.WithLogger(newLogger()),
			diffvec.WithWorkers(cfg.Workers),
		)
		res, err := dv.GVectorIndexation(cmd.Context(), structure, diffvec.IndexationOptions{
			MagnitudeThreshold: cfg.Index.MagnitudeThreshold,
			AngularThreshold:   cfg.Index.AngularThreshold,
			MaximumLength:      cfg.Index.MaximumLength,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%d candidate lattice points within radius %v\n",
			len(res.LatticePoints), cfg.Index.MaximumLength)

		grid.Positions(func(i int, l vector.List) bool {
			entries := res.AtIndex(i)
			for _, entry := range entries {
				fmt.Printf("position %d: |g|=%.4f, %d matches\n", i, entry.Magnitude, len(entry.Matches))
				for _, m := range entry.Matches {
					p := m.Point
					fmt.Printf("  hkl=(%d %d %d) |g|=%.4f dsq=%.2e\n",
						p.HKL[0], p.HKL[1], p.HKL[2], p.Magnitude, m.SquaredDiff)
				}
			}
			return true
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
