package vector

import (
	"fmt"
	"math"
	"slices"
)

// Vector is a single diffraction vector: a reciprocal-space coordinate in
// (row, col) order for detector-plane peaks, or (x, y, z) for lattice work.
type Vector []float64

// Dim returns the coordinate dimensionality of the vector.
func (v Vector) Dim() int { return len(v) }

// Norm returns the Euclidean magnitude of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, c := range v {
		sum += c * c
	}
	return math.Sqrt(sum)
}

// Clone returns a deep copy of the vector.
func (v Vector) Clone() Vector {
	return slices.Clone(v)
}

// Equal reports whether v and o have identical coordinates.
func (v Vector) Equal(o Vector) bool {
	return slices.Equal(v, o)
}

// List is the ordered set of diffraction vectors measured at one scan
// position. Lists are ragged across positions and may be empty.
type List []Vector

// Norms returns the magnitude of every vector in the list, in order.
func (l List) Norms() []float64 {
	out := make([]float64, len(l))
	for i, v := range l {
		out[i] = v.Norm()
	}
	return out
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, v := range l {
		out[i] = v.Clone()
	}
	return out
}

// Grid holds one vector list per scan position of the navigation grid,
// stored row-major. A 1D scan is a Grid with a single row.
type Grid struct {
	rows  int
	cols  int
	lists []List
}

// NewGrid creates a rows × cols grid from row-major lists.
// len(lists) must equal rows*cols.
func NewGrid(rows, cols int, lists []List) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid shape %dx%d", rows, cols)
	}
	if len(lists) != rows*cols {
		return nil, fmt.Errorf("grid shape %dx%d requires %d lists, got %d", rows, cols, rows*cols, len(lists))
	}
	return &Grid{rows: rows, cols: cols, lists: lists}, nil
}

// NewLineGrid creates a 1D scan grid (single row).
func NewLineGrid(lists []List) (*Grid, error) {
	return NewGrid(1, len(lists), lists)
}

// Shape returns the navigation shape (rows, cols).
func (g *Grid) Shape() (rows, cols int) { return g.rows, g.cols }

// Len returns the number of scan positions.
func (g *Grid) Len() int { return g.rows * g.cols }

// At returns the vector list at navigation position (row, col).
func (g *Grid) At(row, col int) List {
	return g.lists[row*g.cols+col]
}

// AtIndex returns the vector list at the row-major position index.
func (g *Grid) AtIndex(i int) List { return g.lists[i] }

// Positions iterates over all scan positions in row-major order.
// The callback receives the flat index and the list; returning false stops
// the iteration.
func (g *Grid) Positions(fn func(i int, l List) bool) {
	for i, l := range g.lists {
		if !fn(i, l) {
			return
		}
	}
}

// Flatten returns all vectors across all positions, row-major, preserving
// within-position order.
func (g *Grid) Flatten() List {
	var n int
	for _, l := range g.lists {
		n += len(l)
	}
	out := make(List, 0, n)
	for _, l := range g.lists {
		out = append(out, l...)
	}
	return out
}
