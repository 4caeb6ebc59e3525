package diffvec

import (
	"fmt"
	"sort"

	"github.com/stemtools/diffvec/vector"
)

// Magnitudes returns the Euclidean magnitude of every vector, one slice
// per scan position in row-major order. Positions without vectors yield
// empty slices.
func (dv *DiffractionVectors) Magnitudes() [][]float64 {
	out := make([][]float64, dv.grid.Len())
	dv.grid.Positions(func(i int, l vector.List) bool {
		out[i] = l.Norms()
		return true
	})
	return out
}

// Histogram is a magnitude histogram over all scan positions.
type Histogram struct {
	// BinEdges are the n+1 monotonically increasing edges.
	BinEdges []float64

	// Counts holds the number of magnitudes falling into each of the n
	// bins. A bin spans [edge[i], edge[i+1]); the last bin is closed on
	// both sides.
	Counts []int
}

// MagnitudeHistogram bins all vector magnitudes of the grid into the given
// bin edges. Magnitudes outside the edge range are discarded.
func (dv *DiffractionVectors) MagnitudeHistogram(binEdges []float64) (*Histogram, error) {
	if len(binEdges) < 2 {
		return nil, fmt.Errorf("histogram requires at least 2 bin edges, got %d", len(binEdges))
	}
	for i := 1; i < len(binEdges); i++ {
		if binEdges[i] <= binEdges[i-1] {
			return nil, fmt.Errorf("bin edges must be strictly increasing at index %d", i)
		}
	}

	h := &Histogram{
		BinEdges: binEdges,
		Counts:   make([]int, len(binEdges)-1),
	}
	for _, mags := range dv.Magnitudes() {
		for _, mag := range mags {
			if mag < binEdges[0] || mag > binEdges[len(binEdges)-1] {
				continue
			}
			// Rightmost edge closes the last bin.
			idx := sort.SearchFloat64s(binEdges, mag)
			if idx > 0 && binEdges[idx] != mag {
				idx--
			}
			if idx == len(h.Counts) {
				idx--
			}
			h.Counts[idx]++
		}
	}
	return h, nil
}
