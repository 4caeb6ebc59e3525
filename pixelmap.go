package diffvec

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/stemtools/diffvec/vector"
)

// PixelMap maps each scan position to the number of diffraction vectors
// detected there.
type PixelMap struct {
	rows   int
	cols   int
	counts []int

	// Diffracting marks the flat row-major indices of positions holding
	// at least one vector.
	Diffracting *roaring.Bitmap
}

// Shape returns the navigation shape of the map.
func (p *PixelMap) Shape() (rows, cols int) { return p.rows, p.cols }

// At returns the vector count at position (row, col).
func (p *PixelMap) At(row, col int) int { return p.counts[row*p.cols+col] }

// Binary returns the count clamped to {0, 1} at position (row, col).
func (p *PixelMap) Binary(row, col int) int {
	if p.At(row, col) > 0 {
		return 1
	}
	return 0
}

// DiffractingPixelsMap counts the vectors at each scan position, the
// row-major analog of a crystallinity map.
func (dv *DiffractionVectors) DiffractingPixelsMap() *PixelMap {
	rows, cols := dv.grid.Shape()
	p := &PixelMap{
		rows:        rows,
		cols:        cols,
		counts:      make([]int, dv.grid.Len()),
		Diffracting: roaring.New(),
	}
	dv.grid.Positions(func(i int, l vector.List) bool {
		p.counts[i] = len(l)
		if len(l) > 0 {
			p.Diffracting.Add(uint32(i))
		}
		return true
	})
	return p
}
