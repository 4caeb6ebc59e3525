package diffvec

import (
	"errors"

	"github.com/stemtools/diffvec/distance"
	"github.com/stemtools/diffvec/lattice"
)

var (
	// ErrEmptySeed is returned when the first scan position holds no
	// vectors, so the uniqueness reduction cannot bootstrap its accepted
	// set.
	ErrEmptySeed = errors.New("empty seed: first scan position has no vectors")
)

// ErrDimensionMismatch indicates vector lists of inconsistent coordinate
// dimensionality. Re-exported so callers can match without importing the
// distance package.
type ErrDimensionMismatch = distance.ErrDimensionMismatch

// ErrStructure indicates a crystal structure missing required
// reciprocal-lattice data. Re-exported from the lattice package.
type ErrStructure = lattice.ErrStructure

// IsDimensionMismatch reports whether err is a dimensionality error.
func IsDimensionMismatch(err error) bool {
	var dm *ErrDimensionMismatch
	return errors.As(err, &dm)
}

// IsStructureError reports whether err stems from missing or degenerate
// lattice data.
func IsStructureError(err error) bool {
	var se *ErrStructure
	return errors.As(err, &se)
}
