// Package vdf extracts virtual dark-field images from a diffraction
// pattern stack: for each unique diffraction vector, the intensity inside
// a circular window around that vector is integrated at every scan
// position, producing one navigation-shaped image per vector.
package vdf

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stemtools/diffvec/vector"
)

// Pattern is a single diffraction pattern: row-major intensities on the
// detector plane.
type Pattern struct {
	H, W int
	Data []float64
}

// At returns the intensity at detector pixel (row, col).
func (p *Pattern) At(row, col int) float64 { return p.Data[row*p.W+col] }

// Stack is a 4D dataset: one diffraction pattern per scan position,
// stored row-major over the navigation grid. All patterns share one
// detector shape.
type Stack struct {
	rows, cols int
	h, w       int
	patterns   []Pattern
}

// NewStack builds a rows × cols stack from row-major patterns.
func NewStack(rows, cols int, patterns []Pattern) (*Stack, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid stack shape %dx%d", rows, cols)
	}
	if len(patterns) != rows*cols {
		return nil, fmt.Errorf("stack shape %dx%d requires %d patterns, got %d", rows, cols, rows*cols, len(patterns))
	}
	h, w := patterns[0].H, patterns[0].W
	for i, p := range patterns {
		if p.H != h || p.W != w {
			return nil, fmt.Errorf("pattern %d has shape %dx%d, want %dx%d", i, p.H, p.W, h, w)
		}
		if len(p.Data) != p.H*p.W {
			return nil, fmt.Errorf("pattern %d holds %d values for shape %dx%d", i, len(p.Data), p.H, p.W)
		}
	}
	return &Stack{rows: rows, cols: cols, h: h, w: w, patterns: patterns}, nil
}

// Shape returns the navigation shape of the stack.
func (s *Stack) Shape() (rows, cols int) { return s.rows, s.cols }

// PatternShape returns the detector shape.
func (s *Stack) PatternShape() (h, w int) { return s.h, s.w }

// At returns the pattern at navigation position (row, col).
func (s *Stack) At(row, col int) *Pattern { return &s.patterns[row*s.cols+col] }

// Image is a navigation-shaped intensity map, one per diffraction vector.
type Image struct {
	Rows, Cols int
	Data       []float64

	// Vector is the diffraction vector the window was centered on.
	Vector vector.Vector
}

// At returns the integrated intensity at navigation position (row, col).
func (im *Image) At(row, col int) float64 { return im.Data[row*im.Cols+col] }

// MinMax returns the intensity range of the image.
func (im *Image) MinMax() (lo, hi float64) {
	if len(im.Data) == 0 {
		return 0, 0
	}
	lo, hi = im.Data[0], im.Data[0]
	for _, v := range im.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Extract integrates the stack inside a circular window of the given
// radius (in detector pixels) around each vector, in (row, col) detector
// coordinates. One Image per vector, in input order. Scan positions are
// independent and processed in parallel, bounded by workers (<= 0 means
// unbounded).
func Extract(ctx context.Context, stack *Stack, vectors vector.List, radius float64, workers int) ([]Image, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %v", radius)
	}
	for _, v := range vectors {
		if v.Dim() != 2 {
			return nil, fmt.Errorf("dark-field extraction requires 2D vectors, got dim %d", v.Dim())
		}
	}

	images := make([]Image, len(vectors))
	n := stack.rows * stack.cols
	for i, v := range vectors {
		images[i] = Image{
			Rows:   stack.rows,
			Cols:   stack.cols,
			Data:   make([]float64, n),
			Vector: v.Clone(),
		}
	}

	masks := make([][]int, len(vectors))
	for i, v := range vectors {
		masks[i] = windowPixels(stack.h, stack.w, v[0], v[1], radius)
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for pos := 0; pos < n; pos++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := &stack.patterns[pos]
			for vi := range vectors {
				var sum float64
				for _, px := range masks[vi] {
					sum += p.Data[px]
				}
				images[vi].Data[pos] = sum
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// windowPixels precomputes the flat detector indices inside the circle of
// the given radius centered at (cy, cx). Pixels outside the detector are
// clipped.
func windowPixels(h, w int, cy, cx, radius float64) []int {
	r2 := radius * radius
	minRow := int(cy - radius)
	maxRow := int(cy + radius)
	minCol := int(cx - radius)
	maxCol := int(cx + radius)
	if minRow < 0 {
		minRow = 0
	}
	if minCol < 0 {
		minCol = 0
	}
	if maxRow > h-1 {
		maxRow = h - 1
	}
	if maxCol > w-1 {
		maxCol = w - 1
	}

	var out []int
	for row := minRow; row <= maxRow; row++ {
		dy := float64(row) - cy
		for col := minCol; col <= maxCol; col++ {
			dx := float64(col) - cx
			if dy*dy+dx*dx <= r2 {
				out = append(out, row*w+col)
			}
		}
	}
	return out
}
