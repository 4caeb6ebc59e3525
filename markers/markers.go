// Package markers builds overlay marker sets from 4D peak arrays: one
// point (or line segment) plane per peak index, navigation-shaped, with
// off-detector fill at positions holding fewer peaks. Rendering is left
// to downstream display tooling.
package markers

import (
	"fmt"

	"github.com/stemtools/diffvec/vector"
)

// Offscreen is the fill coordinate for marker slots without a peak; it
// parks the marker far outside any realistic detector.
const Offscreen = -1000

// Axis calibrates detector pixel indices to physical signal values.
type Axis struct {
	Offset float64
	Scale  float64
}

// Value converts a pixel index to the calibrated axis value.
func (a Axis) Value(index int) float64 {
	return a.Offset + a.Scale*float64(index)
}

// PointPlane holds one marker per scan position for a single peak index.
// X and Y are navigation-shaped, row-major.
type PointPlane struct {
	X []float64
	Y []float64
}

// PointSet is a complete 4D point-marker set: one plane per peak index up
// to the maximum peak count of any position.
type PointSet struct {
	Rows, Cols int
	Planes     []PointPlane

	// Color and Size are display hints carried along for renderers.
	Color string
	Size  float64
}

// PointOptions configures point-marker construction.
type PointOptions struct {
	// SignalX and SignalY calibrate (col, row) pixel coordinates; nil
	// leaves coordinates in pixels.
	SignalX *Axis
	SignalY *Axis

	Color string // default "red"
	Size  float64
}

// Points builds a point-marker set from a grid of detected peaks. Peaks
// are (row, col) detector coordinates; plane count equals the maximum
// list length over the grid.
func Points(grid *vector.Grid, opts PointOptions) (*PointSet, error) {
	if opts.Color == "" {
		opts.Color = "red"
	}
	if opts.Size == 0 {
		opts.Size = 20
	}

	maxPeaks := 0
	var dimErr error
	grid.Positions(func(_ int, l vector.List) bool {
		for _, v := range l {
			if v.Dim() != 2 {
				dimErr = fmt.Errorf("point markers require 2D peaks, got dim %d", v.Dim())
				return false
			}
		}
		if len(l) > maxPeaks {
			maxPeaks = len(l)
		}
		return true
	})
	if dimErr != nil {
		return nil, dimErr
	}

	rows, cols := grid.Shape()
	set := &PointSet{
		Rows:   rows,
		Cols:   cols,
		Planes: make([]PointPlane, maxPeaks),
		Color:  opts.Color,
		Size:   opts.Size,
	}
	n := grid.Len()
	for i := range set.Planes {
		set.Planes[i] = PointPlane{X: fill(n, Offscreen), Y: fill(n, Offscreen)}
	}

	grid.Positions(func(pos int, l vector.List) bool {
		for pi, peak := range l {
			x, y := calibrate(peak[1], peak[0], opts.SignalX, opts.SignalY)
			set.Planes[pi].X[pos] = x
			set.Planes[pi].Y[pos] = y
		}
		return true
	})
	return set, nil
}

// LinePlane holds one line segment per scan position for a single line
// index, as calibrated (x1, y1) -> (x2, y2) endpoints.
type LinePlane struct {
	X1, Y1 []float64
	X2, Y2 []float64
}

// LineSet is a complete 4D line-segment marker set.
type LineSet struct {
	Rows, Cols int
	Planes     []LinePlane

	Color     string
	LineWidth float64
}

// LineOptions configures line-marker construction.
type LineOptions struct {
	SignalX *Axis
	SignalY *Axis

	Color     string  // default "red"
	LineWidth float64 // default 1
}

// Lines builds a line-segment marker set from a grid whose entries are
// 4-component vectors (y1, x1, y2, x2) in detector coordinates.
func Lines(grid *vector.Grid, opts LineOptions) (*LineSet, error) {
	if opts.Color == "" {
		opts.Color = "red"
	}
	if opts.LineWidth == 0 {
		opts.LineWidth = 1
	}

	maxLines := 0
	var dimErr error
	grid.Positions(func(_ int, l vector.List) bool {
		for _, v := range l {
			if v.Dim() != 4 {
				dimErr = fmt.Errorf("line markers require 4-component entries, got dim %d", v.Dim())
				return false
			}
		}
		if len(l) > maxLines {
			maxLines = len(l)
		}
		return true
	})
	if dimErr != nil {
		return nil, dimErr
	}

	rows, cols := grid.Shape()
	set := &LineSet{
		Rows:      rows,
		Cols:      cols,
		Planes:    make([]LinePlane, maxLines),
		Color:     opts.Color,
		LineWidth: opts.LineWidth,
	}
	n := grid.Len()
	for i := range set.Planes {
		set.Planes[i] = LinePlane{
			X1: fill(n, Offscreen), Y1: fill(n, Offscreen),
			X2: fill(n, Offscreen), Y2: fill(n, Offscreen),
		}
	}

	grid.Positions(func(pos int, l vector.List) bool {
		for li, line := range l {
			x1, y1 := calibrate(line[1], line[0], opts.SignalX, opts.SignalY)
			x2, y2 := calibrate(line[3], line[2], opts.SignalX, opts.SignalY)
			set.Planes[li].X1[pos] = x1
			set.Planes[li].Y1[pos] = y1
			set.Planes[li].X2[pos] = x2
			set.Planes[li].Y2[pos] = y2
		}
		return true
	})
	return set, nil
}

// calibrate maps detector pixel (x=col, y=row) through the optional axes.
// Calibration truncates to the integer pixel index first, matching how
// detector coordinates address axis bins.
func calibrate(x, y float64, ax, ay *Axis) (float64, float64) {
	if ax != nil {
		x = ax.Value(int(x))
	}
	if ay != nil {
		y = ay.Value(int(y))
	}
	return x, y
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
