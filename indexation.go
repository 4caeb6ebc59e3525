package diffvec

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stemtools/diffvec/lattice"
)

// IndexationOptions configures GVectorIndexation.
type IndexationOptions struct {
	// MagnitudeThreshold is the maximum squared deviation between a
	// measured magnitude and a theoretical lattice-point magnitude for a
	// match to be retained. Must be non-negative; zero retains no
	// matches, since the comparison is strict.
	MagnitudeThreshold float64

	// AngularThreshold is accepted for interface compatibility but does
	// not currently filter results. Angular consistency between vector
	// pairs is not evaluated.
	AngularThreshold *float64

	// MaximumLength is the enumeration radius for reciprocal-lattice
	// points. Zero means the default of 1.
	MaximumLength float64
}

// Match pairs one theoretical lattice point with its squared magnitude
// deviation from a measured vector.
type Match struct {
	Point       lattice.Point
	SquaredDiff float64
}

// VectorIndexation holds the candidate matches for one measured vector
// magnitude. An empty Matches slice signals no lattice point within
// threshold.
type VectorIndexation struct {
	Magnitude float64
	Matches   []Match
}

// IndexationResult mirrors the scan grid: one []VectorIndexation per scan
// position, row-major, with one entry per measured vector at that
// position.
type IndexationResult struct {
	rows  int
	cols  int
	cells [][]VectorIndexation

	// LatticePoints is the sorted theoretical point list the grid was
	// matched against.
	LatticePoints []lattice.Point
}

// Shape returns the navigation shape of the result grid.
func (r *IndexationResult) Shape() (rows, cols int) { return r.rows, r.cols }

// At returns the per-vector indexations at position (row, col).
func (r *IndexationResult) At(row, col int) []VectorIndexation {
	return r.cells[row*r.cols+col]
}

// AtIndex returns the per-vector indexations at the flat row-major index.
func (r *IndexationResult) AtIndex(i int) []VectorIndexation { return r.cells[i] }

// GVectorIndexation indexes the grid's measured vector magnitudes against
// the reciprocal lattice of structure.
//
// Theoretical points are enumerated within opts.MaximumLength of the
// origin and sorted by ascending magnitude with a fixed descending-HKL
// tie-break, purely so output order is deterministic. Every measured
// magnitude is compared against every point; pairs with squared
// difference below opts.MagnitudeThreshold are retained.
//
// Positions are independent and processed in parallel.
func (dv *DiffractionVectors) GVectorIndexation(ctx context.Context, structure *lattice.Structure, opts IndexationOptions) (*IndexationResult, error) {
	res, err := dv.gvectorIndexation(ctx, structure, opts)
	points := 0
	if res != nil {
		points = len(res.LatticePoints)
	}
	dv.opts.logger.LogIndexation(ctx, dv.grid.Len(), points, err)
	return res, err
}

func (dv *DiffractionVectors) gvectorIndexation(ctx context.Context, structure *lattice.Structure, opts IndexationOptions) (*IndexationResult, error) {
	if opts.MagnitudeThreshold < 0 {
		return nil, fmt.Errorf("magnitude threshold must be non-negative, got %v", opts.MagnitudeThreshold)
	}
	maxLength := opts.MaximumLength
	if maxLength == 0 {
		maxLength = 1
	}

	recip, err := structure.ReciprocalLattice()
	if err != nil {
		return nil, err
	}
	points, err := recip.PointsInSphere(maxLength)
	if err != nil {
		return nil, err
	}

	magnitudes := dv.Magnitudes()
	rows, cols := dv.grid.Shape()
	res := &IndexationResult{
		rows:          rows,
		cols:          cols,
		cells:         make([][]VectorIndexation, dv.grid.Len()),
		LatticePoints: points,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dv.opts.workers)

	for i := range magnitudes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mags := magnitudes[i]
			cell := make([]VectorIndexation, len(mags))
			for vi, mag := range mags {
				entry := VectorIndexation{Magnitude: mag}
				for _, p := range points {
					diff := p.Magnitude - mag
					sq := diff * diff
					if sq < opts.MagnitudeThreshold {
						entry.Matches = append(entry.Matches, Match{Point: p, SquaredDiff: sq})
					}
				}
				cell[vi] = entry
			}
			res.cells[i] = cell
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// opts.AngularThreshold: accepted, not applied. See IndexationOptions.

	return res, nil
}
