package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemtools/diffvec/vector"
)

func TestEuclidean(t *testing.T) {
	tests := []struct {
		name     string
		a, b     vector.Vector
		expected float64
	}{
		{"Simple", vector.Vector{0, 0}, vector.Vector{3, 4}, 5},
		{"Identical", vector.Vector{1.5, -2.5}, vector.Vector{1.5, -2.5}, 0},
		{"Negative", vector.Vector{-1, -1}, vector.Vector{1, 1}, 2.8284271247461903},
		{"ThreeD", vector.Vector{0, 0, 0}, vector.Vector{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Euclidean(tt.a, tt.b), 1e-12)
		})
	}
}

func TestMatrix(t *testing.T) {
	t.Run("Shape", func(t *testing.T) {
		candidates := vector.List{{0, 0}, {1, 0}, {0, 2}}
		accepted := vector.List{{0, 0}, {3, 4}}

		m, err := Matrix(candidates, accepted)
		require.NoError(t, err)

		assert.Equal(t, 3, m.Rows())
		assert.Equal(t, 2, m.Cols())
		assert.InDelta(t, 0.0, m.At(0, 0), 1e-12)
		assert.InDelta(t, 5.0, m.At(0, 1), 1e-12)
		assert.InDelta(t, 1.0, m.At(1, 0), 1e-12)
		assert.InDelta(t, 2.0, m.At(2, 0), 1e-12)
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		m, err := Matrix(nil, vector.List{{0, 0}})
		require.NoError(t, err)
		assert.Equal(t, 0, m.Rows())
		assert.Equal(t, 1, m.Cols())
	})

	t.Run("EmptyAccepted", func(t *testing.T) {
		m, err := Matrix(vector.List{{0, 0}, {1, 1}}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, m.Rows())
		assert.Equal(t, 0, m.Cols())
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := Matrix(vector.List{{0, 0}}, vector.List{{0, 0, 0}})
		require.Error(t, err)

		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
	})
}

func TestSelectNewIndices(t *testing.T) {
	tests := []struct {
		name       string
		candidates vector.List
		accepted   vector.List
		threshold  float64
		expected   []int
	}{
		{
			name:       "AllNew",
			candidates: vector.List{{10, 10}, {20, 20}},
			accepted:   vector.List{{0, 0}},
			threshold:  0.5,
			expected:   []int{0, 1},
		},
		{
			name:       "AllWithinThreshold",
			candidates: vector.List{{0, 0.1}, {0.2, 0}},
			accepted:   vector.List{{0, 0}},
			threshold:  0.5,
			expected:   []int{},
		},
		{
			name:       "Mixed",
			candidates: vector.List{{0, 0.1}, {5, 5}, {0.1, 0}},
			accepted:   vector.List{{0, 0}},
			threshold:  0.5,
			expected:   []int{1},
		},
		{
			name:       "ZeroThresholdExactDuplicate",
			candidates: vector.List{{0, 0}, {0, 1e-9}},
			accepted:   vector.List{{0, 0}},
			threshold:  0,
			expected:   []int{1},
		},
		{
			name:       "NoAcceptedSelectsAll",
			candidates: vector.List{{0, 0}, {1, 1}},
			accepted:   nil,
			threshold:  0.5,
			expected:   []int{0, 1},
		},
		{
			name:       "BoundaryEqualsThresholdExcluded",
			candidates: vector.List{{1, 0}},
			accepted:   vector.List{{0, 0}},
			threshold:  1,
			expected:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Matrix(tt.candidates, tt.accepted)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, SelectNewIndices(m, tt.threshold))
		})
	}
}

// Property from the reduction contract: a selected row's minimum entry is
// strictly greater than the threshold, a rejected row's is not.
func TestSelectNewIndicesMinEntryRule(t *testing.T) {
	candidates := vector.List{{0, 0}, {0.4, 0}, {2, 2}, {3, 0}, {0, 0.6}}
	accepted := vector.List{{0, 0}, {3, 0.2}}

	m, err := Matrix(candidates, accepted)
	require.NoError(t, err)

	threshold := 0.5
	selected := SelectNewIndices(m, threshold)

	isSelected := make(map[int]bool, len(selected))
	for _, i := range selected {
		isSelected[i] = true
	}

	for i := 0; i < m.Rows(); i++ {
		minEntry := m.Row(i)[0]
		for _, d := range m.Row(i) {
			if d < minEntry {
				minEntry = d
			}
		}
		assert.Equal(t, minEntry > threshold, isSelected[i], "row %d", i)
	}
}
