package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemtools/diffvec/vector"
)

func mustGrid(t *testing.T, rows, cols int, lists []vector.List) *vector.Grid {
	t.Helper()
	g, err := vector.NewGrid(rows, cols, lists)
	require.NoError(t, err)
	return g
}

func TestPoints(t *testing.T) {
	t.Run("PlanesAndOffscreenFill", func(t *testing.T) {
		// Position (0,0) has two peaks, (0,1) one, (1,x) none.
		lists := []vector.List{
			{{2, 3}, {5, 7}}, {{1, 1}},
			{}, {},
		}
		set, err := Points(mustGrid(t, 2, 2, lists), PointOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, set.Rows)
		assert.Equal(t, 2, set.Cols)
		require.Len(t, set.Planes, 2)

		// Peaks are (row, col); marker planes carry x=col, y=row.
		assert.Equal(t, []float64{3, 1, Offscreen, Offscreen}, set.Planes[0].X)
		assert.Equal(t, []float64{2, 1, Offscreen, Offscreen}, set.Planes[0].Y)

		assert.Equal(t, []float64{7, Offscreen, Offscreen, Offscreen}, set.Planes[1].X)
		assert.Equal(t, []float64{5, Offscreen, Offscreen, Offscreen}, set.Planes[1].Y)
	})

	t.Run("Defaults", func(t *testing.T) {
		set, err := Points(mustGrid(t, 1, 1, []vector.List{{{1, 1}}}), PointOptions{})
		require.NoError(t, err)
		assert.Equal(t, "red", set.Color)
		assert.Equal(t, 20.0, set.Size)
	})

	t.Run("Calibrated", func(t *testing.T) {
		set, err := Points(mustGrid(t, 1, 1, []vector.List{{{4, 10}}}), PointOptions{
			SignalX: &Axis{Offset: -1, Scale: 0.5},
			SignalY: &Axis{Offset: 2, Scale: 0.25},
		})
		require.NoError(t, err)
		assert.InDelta(t, -1+0.5*10, set.Planes[0].X[0], 1e-12)
		assert.InDelta(t, 2+0.25*4, set.Planes[0].Y[0], 1e-12)
	})

	t.Run("NoPeaks", func(t *testing.T) {
		set, err := Points(mustGrid(t, 1, 2, []vector.List{{}, {}}), PointOptions{})
		require.NoError(t, err)
		assert.Empty(t, set.Planes)
	})

	t.Run("WrongDimension", func(t *testing.T) {
		_, err := Points(mustGrid(t, 1, 1, []vector.List{{{1, 2, 3}}}), PointOptions{})
		assert.Error(t, err)
	})
}

func TestLines(t *testing.T) {
	t.Run("EndpointsAndFill", func(t *testing.T) {
		lists := []vector.List{
			{{1, 2, 3, 4}}, {},
		}
		set, err := Lines(mustGrid(t, 1, 2, lists), LineOptions{})
		require.NoError(t, err)

		require.Len(t, set.Planes, 1)
		p := set.Planes[0]
		assert.Equal(t, []float64{2, Offscreen}, p.X1)
		assert.Equal(t, []float64{1, Offscreen}, p.Y1)
		assert.Equal(t, []float64{4, Offscreen}, p.X2)
		assert.Equal(t, []float64{3, Offscreen}, p.Y2)
		assert.Equal(t, 1.0, set.LineWidth)
	})

	t.Run("WrongDimension", func(t *testing.T) {
		_, err := Lines(mustGrid(t, 1, 1, []vector.List{{{1, 2}}}), LineOptions{})
		assert.Error(t, err)
	})
}

func TestAxisValue(t *testing.T) {
	a := Axis{Offset: 10, Scale: -0.5}
	assert.InDelta(t, 10.0, a.Value(0), 1e-12)
	assert.InDelta(t, 8.0, a.Value(4), 1e-12)
}
