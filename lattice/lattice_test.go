package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromParameters(t *testing.T) {
	t.Run("Cubic", func(t *testing.T) {
		l, err := Cubic(2)
		require.NoError(t, err)

		a, b, c := l.Basis()
		assert.InDelta(t, 2.0, a.Norm(), 1e-12)
		assert.InDelta(t, 2.0, b.Norm(), 1e-12)
		assert.InDelta(t, 2.0, c.Norm(), 1e-12)
		assert.InDelta(t, 8.0, l.Volume(), 1e-12)
	})

	t.Run("Hexagonal", func(t *testing.T) {
		l, err := FromParameters(3, 3, 5, 90, 90, 120)
		require.NoError(t, err)
		// V = a*b*c*sin(gamma) for hexagonal cells
		assert.InDelta(t, 3*3*5*0.8660254037844387, l.Volume(), 1e-9)
	})

	t.Run("InvalidLength", func(t *testing.T) {
		_, err := FromParameters(0, 1, 1, 90, 90, 90)
		var se *ErrStructure
		require.ErrorAs(t, err, &se)
	})

	t.Run("DegenerateAngles", func(t *testing.T) {
		_, err := FromParameters(1, 1, 1, 10, 10, 170)
		assert.Error(t, err)
	})
}

func TestReciprocal(t *testing.T) {
	t.Run("CubicInverseLength", func(t *testing.T) {
		l, err := Cubic(4)
		require.NoError(t, err)

		rec, err := l.Reciprocal()
		require.NoError(t, err)

		a, b, c := rec.Basis()
		assert.InDelta(t, 0.25, a.Norm(), 1e-12)
		assert.InDelta(t, 0.25, b.Norm(), 1e-12)
		assert.InDelta(t, 0.25, c.Norm(), 1e-12)
	})

	t.Run("DualityRoundTrip", func(t *testing.T) {
		l, err := FromParameters(3, 4, 5, 80, 95, 110)
		require.NoError(t, err)

		rec, err := l.Reciprocal()
		require.NoError(t, err)
		back, err := rec.Reciprocal()
		require.NoError(t, err)

		la, lb, lc := l.Basis()
		ba, bb, bc := back.Basis()
		for i := 0; i < 3; i++ {
			assert.InDelta(t, la[i], ba[i], 1e-9)
			assert.InDelta(t, lb[i], bb[i], 1e-9)
			assert.InDelta(t, lc[i], bc[i], 1e-9)
		}
	})
}

func TestPointsInSphere(t *testing.T) {
	t.Run("CubicCount", func(t *testing.T) {
		l, err := Cubic(1)
		require.NoError(t, err)

		// Radius 1 on a unit cubic lattice: origin plus 6 nearest neighbors.
		points, err := l.PointsInSphere(1)
		require.NoError(t, err)
		assert.Len(t, points, 7)

		assert.Equal(t, [3]int{0, 0, 0}, points[0].HKL)
		assert.InDelta(t, 0.0, points[0].Magnitude, 1e-12)
		for _, p := range points[1:] {
			assert.InDelta(t, 1.0, p.Magnitude, 1e-12)
		}
	})

	t.Run("SortedAscendingMagnitude", func(t *testing.T) {
		l, err := Cubic(1)
		require.NoError(t, err)

		points, err := l.PointsInSphere(2)
		require.NoError(t, err)
		for i := 1; i < len(points); i++ {
			assert.LessOrEqual(t, points[i-1].Magnitude, points[i].Magnitude)
		}
	})

	t.Run("TieBreakDescendingHKL", func(t *testing.T) {
		l, err := Cubic(1)
		require.NoError(t, err)

		points, err := l.PointsInSphere(1)
		require.NoError(t, err)
		// The six unit-magnitude points must come in descending (h, k, l).
		expected := [][3]int{
			{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
			{0, 0, -1}, {0, -1, 0}, {-1, 0, 0},
		}
		for i, hkl := range expected {
			assert.Equal(t, hkl, points[i+1].HKL)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		l, err := FromParameters(2, 3, 4, 90, 100, 90)
		require.NoError(t, err)

		first, err := l.PointsInSphere(1.5)
		require.NoError(t, err)
		second, err := l.PointsInSphere(1.5)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("NegativeRadius", func(t *testing.T) {
		l, err := Cubic(1)
		require.NoError(t, err)
		_, err = l.PointsInSphere(-1)
		assert.Error(t, err)
	})
}

func TestStructure(t *testing.T) {
	t.Run("ReciprocalLattice", func(t *testing.T) {
		cell, err := Cubic(2)
		require.NoError(t, err)

		s := NewStructure("fcc-al", cell)
		rec, err := s.ReciprocalLattice()
		require.NoError(t, err)

		a, _, _ := rec.Basis()
		assert.InDelta(t, 0.5, a.Norm(), 1e-12)
	})

	t.Run("MissingLattice", func(t *testing.T) {
		s := &Structure{Name: "unknown"}
		_, err := s.ReciprocalLattice()

		var se *ErrStructure
		require.ErrorAs(t, err, &se)
	})

	t.Run("NilStructure", func(t *testing.T) {
		var s *Structure
		_, err := s.ReciprocalLattice()
		assert.Error(t, err)
	})
}
