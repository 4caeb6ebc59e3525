// Package distance provides dense pairwise distance matrices and the
// threshold-based index selection used by unique-vector reduction.
package distance

import (
	"fmt"
	"math"

	"github.com/stemtools/diffvec/vector"
)

// ErrDimensionMismatch indicates vectors of inconsistent coordinate
// dimensionality fed to a distance computation.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Euclidean returns the Euclidean distance between a and b.
// Assumes equal length (caller's responsibility on the hot path).
func Euclidean(a, b vector.Vector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Dense is a dense row-major distance matrix. Entry (i, j) is the distance
// between candidate i and accepted vector j.
type Dense struct {
	rows int
	cols int
	data []float64
}

// Rows returns the number of candidate rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of accepted columns.
func (m *Dense) Cols() int { return m.cols }

// At returns entry (i, j).
func (m *Dense) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Row returns a view of row i.
func (m *Dense) Row(i int) []float64 { return m.data[i*m.cols : (i+1)*m.cols] }

// Matrix computes the full candidates × accepted Euclidean distance matrix.
// All vectors must share one dimensionality; a mismatch fails with
// *ErrDimensionMismatch. Either side may be empty, yielding a degenerate
// matrix with zero rows or columns.
func Matrix(candidates, accepted vector.List) (*Dense, error) {
	dim := -1
	check := func(v vector.Vector) error {
		if dim < 0 {
			dim = v.Dim()
			return nil
		}
		if v.Dim() != dim {
			return &ErrDimensionMismatch{Expected: dim, Actual: v.Dim()}
		}
		return nil
	}
	for _, v := range candidates {
		if err := check(v); err != nil {
			return nil, err
		}
	}
	for _, v := range accepted {
		if err := check(v); err != nil {
			return nil, err
		}
	}

	m := &Dense{
		rows: len(candidates),
		cols: len(accepted),
		data: make([]float64, len(candidates)*len(accepted)),
	}
	for i, c := range candidates {
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, a := range accepted {
			row[j] = Euclidean(c, a)
		}
	}
	return m, nil
}

// SelectNewIndices returns the candidate row indices for which every entry
// of the row exceeds threshold, i.e. candidates not within threshold of any
// accepted vector. With threshold 0 a candidate is excluded only if it
// exactly coincides with an accepted vector. A matrix with zero columns
// selects every row.
func SelectNewIndices(m *Dense, threshold float64) []int {
	out := make([]int, 0, m.rows)
	for i := 0; i < m.rows; i++ {
		isNew := true
		for _, d := range m.Row(i) {
			if d <= threshold {
				isNew = false
				break
			}
		}
		if isNew {
			out = append(out, i)
		}
	}
	return out
}
