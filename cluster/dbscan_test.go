package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemtools/diffvec/vector"
)

func TestDBSCAN(t *testing.T) {
	t.Run("TwoClustersAndNoise", func(t *testing.T) {
		points := vector.List{
			{0, 0}, {0, 0.1}, {0.1, 0}, // cluster around origin
			{10, 10}, {10, 10.1}, {10.1, 10}, // cluster around (10, 10)
			{50, 50}, // noise
		}

		res, err := DBSCAN(points, 0.5, 3)
		require.NoError(t, err)

		assert.Equal(t, 2, res.NumClusters)
		assert.Equal(t, res.Labels[0], res.Labels[1])
		assert.Equal(t, res.Labels[0], res.Labels[2])
		assert.Equal(t, res.Labels[3], res.Labels[4])
		assert.Equal(t, res.Labels[3], res.Labels[5])
		assert.NotEqual(t, res.Labels[0], res.Labels[3])
		assert.Equal(t, Noise, res.Labels[6])

		assert.EqualValues(t, 3, res.Members(res.Labels[0]).GetCardinality())
		assert.EqualValues(t, 1, res.NoisePoints().GetCardinality())
	})

	t.Run("EveryDistinctPointOwnCluster", func(t *testing.T) {
		// With minSamples 1 every point is a core point and eps smaller
		// than any pairwise gap yields one singleton cluster per point.
		points := vector.List{{0, 0}, {1, 0}, {0, 1}, {5, 5}}

		res, err := DBSCAN(points, 0.01, 1)
		require.NoError(t, err)

		assert.Equal(t, len(points), res.NumClusters)
		assert.EqualValues(t, len(points), res.CoreSamples.GetCardinality())
		assert.True(t, res.NoisePoints().IsEmpty())

		seen := make(map[int]bool)
		for _, l := range res.Labels {
			assert.False(t, seen[l])
			seen[l] = true
		}
	})

	t.Run("BorderPointJoinsCluster", func(t *testing.T) {
		// Middle point is within eps of the dense pair but is not core
		// itself once minSamples demands three neighbors.
		points := vector.List{{0, 0}, {0.1, 0}, {0.2, 0}, {0.65, 0}}

		res, err := DBSCAN(points, 0.5, 3)
		require.NoError(t, err)

		assert.Equal(t, 1, res.NumClusters)
		assert.Equal(t, res.Labels[0], res.Labels[3], "border point should be absorbed")
	})

	t.Run("Empty", func(t *testing.T) {
		res, err := DBSCAN(nil, 0.5, 2)
		require.NoError(t, err)
		assert.Empty(t, res.Labels)
		assert.Equal(t, 0, res.NumClusters)
	})

	t.Run("InvalidParams", func(t *testing.T) {
		_, err := DBSCAN(vector.List{{0, 0}}, -1, 1)
		assert.Error(t, err)

		_, err = DBSCAN(vector.List{{0, 0}}, 0.5, 0)
		assert.Error(t, err)
	})

	t.Run("AllDuplicatesOneCluster", func(t *testing.T) {
		points := vector.List{{1, 1}, {1, 1}, {1, 1}}

		res, err := DBSCAN(points, 0.01, 3)
		require.NoError(t, err)

		assert.Equal(t, 1, res.NumClusters)
		for _, l := range res.Labels {
			assert.Equal(t, 0, l)
		}
	})
}
