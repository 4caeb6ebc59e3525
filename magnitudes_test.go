package diffvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemtools/diffvec/vector"
)

func TestMagnitudes(t *testing.T) {
	lists := []vector.List{
		{{3, 4}, {0, 0}}, {},
		{{1, 0}}, {{0, -2}},
	}
	dv := New(mustGrid(t, 2, 2, lists))

	mags := dv.Magnitudes()
	require.Len(t, mags, 4)
	assert.InDelta(t, 5.0, mags[0][0], 1e-12)
	assert.InDelta(t, 0.0, mags[0][1], 1e-12)
	assert.Empty(t, mags[1])
	assert.InDelta(t, 1.0, mags[2][0], 1e-12)
	assert.InDelta(t, 2.0, mags[3][0], 1e-12)
}

func TestMagnitudeHistogram(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		lists := []vector.List{
			{{3, 4}, {1, 0}}, {{0.5, 0}},
			{{2, 0}}, {{6, 8}},
		}
		dv := New(mustGrid(t, 2, 2, lists))

		h, err := dv.MagnitudeHistogram([]float64{0, 2, 4, 6, 8, 10})
		require.NoError(t, err)

		// Magnitudes: 5, 1, 0.5, 2, 10.
		assert.Equal(t, []int{2, 1, 1, 0, 1}, h.Counts)
	})

	t.Run("OutOfRangeDiscarded", func(t *testing.T) {
		lists := []vector.List{{{100, 0}, {1, 0}}}
		dv := New(mustGrid(t, 1, 1, lists))

		h, err := dv.MagnitudeHistogram([]float64{0, 2})
		require.NoError(t, err)
		assert.Equal(t, []int{1}, h.Counts)
	})

	t.Run("EdgeBelongsToRightBin", func(t *testing.T) {
		lists := []vector.List{{{2, 0}}}
		dv := New(mustGrid(t, 1, 1, lists))

		h, err := dv.MagnitudeHistogram([]float64{0, 2, 4})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, h.Counts)
	})

	t.Run("LastBinClosed", func(t *testing.T) {
		lists := []vector.List{{{4, 0}}}
		dv := New(mustGrid(t, 1, 1, lists))

		h, err := dv.MagnitudeHistogram([]float64{0, 2, 4})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, h.Counts)
	})

	t.Run("InvalidEdges", func(t *testing.T) {
		dv := New(mustGrid(t, 1, 1, []vector.List{{}}))

		_, err := dv.MagnitudeHistogram([]float64{1})
		assert.Error(t, err)

		_, err = dv.MagnitudeHistogram([]float64{1, 1})
		assert.Error(t, err)

		_, err = dv.MagnitudeHistogram([]float64{2, 1})
		assert.Error(t, err)
	})
}

func TestDiffractingPixelsMap(t *testing.T) {
	lists := []vector.List{
		{{0, 0}, {1, 1}}, {},
		{{2, 2}}, {},
	}
	dv := New(mustGrid(t, 2, 2, lists))

	p := dv.DiffractingPixelsMap()
	rows, cols := p.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	assert.Equal(t, 2, p.At(0, 0))
	assert.Equal(t, 0, p.At(0, 1))
	assert.Equal(t, 1, p.At(1, 0))
	assert.Equal(t, 0, p.At(1, 1))

	assert.Equal(t, 1, p.Binary(0, 0))
	assert.Equal(t, 0, p.Binary(0, 1))

	assert.EqualValues(t, 2, p.Diffracting.GetCardinality())
	assert.True(t, p.Diffracting.Contains(0))
	assert.True(t, p.Diffracting.Contains(2))
}
