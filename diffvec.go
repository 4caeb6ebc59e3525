package diffvec

import (
	"github.com/stemtools/diffvec/vector"
)

// DiffractionVectors holds the detected diffraction peak coordinates of a
// scanning-diffraction dataset: one vector list per scan position, plus
// the analysis configuration.
//
// The grid is immutable once constructed; all analysis methods derive new
// values and never mutate the measured lists.
type DiffractionVectors struct {
	grid *vector.Grid
	opts options
}

// New wraps a navigation grid of per-position vector lists.
func New(grid *vector.Grid, optFns ...Option) *DiffractionVectors {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return &DiffractionVectors{grid: grid, opts: o}
}

// FromLists is a convenience constructor for a rows × cols grid given
// row-major lists.
func FromLists(rows, cols int, lists []vector.List, optFns ...Option) (*DiffractionVectors, error) {
	g, err := vector.NewGrid(rows, cols, lists)
	if err != nil {
		return nil, err
	}
	return New(g, optFns...), nil
}

// Grid returns the underlying navigation grid.
func (dv *DiffractionVectors) Grid() *vector.Grid { return dv.grid }

// UniqueVectorSet is the flat, deduplicated vector sequence produced by
// UniqueVectors. Order reflects scan-iteration acceptance order
// (row-major), not spatial order.
type UniqueVectorSet struct {
	// Vectors are the surviving accepted vectors.
	Vectors vector.List

	// Deleted is the number of vectors removed by the global consistency
	// pass.
	Deleted int
}

// Len returns the number of unique vectors.
func (s *UniqueVectorSet) Len() int { return len(s.Vectors) }
