// Package lattice models crystal lattices in direct and reciprocal space
// and enumerates reciprocal-lattice points for g-vector indexation.
package lattice

import (
	"fmt"
	"math"
	"slices"
)

// ErrStructure indicates a crystal structure missing required
// reciprocal-lattice data (no cell, or a degenerate cell).
type ErrStructure struct {
	Reason string
	cause  error
}

func (e *ErrStructure) Error() string {
	return fmt.Sprintf("invalid structure: %s", e.Reason)
}

func (e *ErrStructure) Unwrap() error { return e.cause }

// Vec3 is a Cartesian 3-vector.
type Vec3 [3]float64

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func dot(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Lattice is a 3D lattice defined by three basis vectors.
type Lattice struct {
	basis [3]Vec3
}

// FromBasis creates a lattice from explicit basis vectors.
func FromBasis(a, b, c Vec3) (*Lattice, error) {
	l := &Lattice{basis: [3]Vec3{a, b, c}}
	if v := l.Volume(); v == 0 || math.IsNaN(v) {
		return nil, &ErrStructure{Reason: "degenerate cell (zero volume)"}
	}
	return l, nil
}

// FromParameters creates a lattice from cell lengths (a, b, c) and angles
// alpha, beta, gamma in degrees, using the standard crystallographic
// Cartesian setting (a along x, b in the xy plane).
func FromParameters(a, b, c, alpha, beta, gamma float64) (*Lattice, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, &ErrStructure{Reason: fmt.Sprintf("non-positive cell length (%v, %v, %v)", a, b, c)}
	}

	ca := math.Cos(alpha * math.Pi / 180)
	cb := math.Cos(beta * math.Pi / 180)
	cg := math.Cos(gamma * math.Pi / 180)
	sg := math.Sin(gamma * math.Pi / 180)
	if sg == 0 {
		return nil, &ErrStructure{Reason: fmt.Sprintf("degenerate gamma angle %v", gamma)}
	}

	v2 := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if v2 <= 0 {
		return nil, &ErrStructure{Reason: "cell angles do not form a valid cell"}
	}

	av := Vec3{a, 0, 0}
	bv := Vec3{b * cg, b * sg, 0}
	cv := Vec3{c * cb, c * (ca - cb*cg) / sg, c * math.Sqrt(v2) / sg}
	return FromBasis(av, bv, cv)
}

// Cubic creates a cubic lattice with edge length a.
func Cubic(a float64) (*Lattice, error) {
	return FromParameters(a, a, a, 90, 90, 90)
}

// Basis returns the three basis vectors.
func (l *Lattice) Basis() (a, b, c Vec3) {
	return l.basis[0], l.basis[1], l.basis[2]
}

// Volume returns the signed cell volume a · (b × c).
func (l *Lattice) Volume() float64 {
	return dot(l.basis[0], cross(l.basis[1], l.basis[2]))
}

// Reciprocal returns the crystallographic reciprocal lattice (no 2π
// factor): b1 = (a2 × a3) / V and cyclic.
func (l *Lattice) Reciprocal() (*Lattice, error) {
	v := l.Volume()
	if v == 0 {
		return nil, &ErrStructure{Reason: "degenerate cell (zero volume)"}
	}
	inv := 1 / v
	return FromBasis(
		cross(l.basis[1], l.basis[2]).scale(inv),
		cross(l.basis[2], l.basis[0]).scale(inv),
		cross(l.basis[0], l.basis[1]).scale(inv),
	)
}

// Cartesian returns the Cartesian coordinates of the fractional point
// f1·a + f2·b + f3·c.
func (l *Lattice) Cartesian(f [3]float64) Vec3 {
	return Vec3{
		f[0]*l.basis[0][0] + f[1]*l.basis[1][0] + f[2]*l.basis[2][0],
		f[0]*l.basis[0][1] + f[1]*l.basis[1][1] + f[2]*l.basis[2][1],
		f[0]*l.basis[0][2] + f[1]*l.basis[1][2] + f[2]*l.basis[2][2],
	}
}

// dualNorms returns the lengths of the dual basis vectors, used to bound
// integer indices when enumerating points inside a sphere.
func (l *Lattice) dualNorms() ([3]float64, error) {
	rec, err := l.Reciprocal()
	if err != nil {
		return [3]float64{}, err
	}
	// Dual of the lattice basis are the reciprocal vectors: d_i · a_j = δ_ij.
	return [3]float64{
		rec.basis[0].Norm(),
		rec.basis[1].Norm(),
		rec.basis[2].Norm(),
	}, nil
}

// Point is one lattice point inside an enumeration sphere: its integer
// fractional coordinates and Cartesian magnitude.
type Point struct {
	// HKL are the integer fractional coordinates of the point.
	HKL [3]int

	// Cartesian is the point in Cartesian space.
	Cartesian Vec3

	// Magnitude is the Euclidean distance from the origin.
	Magnitude float64
}

// PointsInSphere enumerates all lattice points with magnitude ≤ radius,
// origin included. The result is sorted by ascending magnitude, with ties
// broken by descending h, then k, then l, so repeated calls with the same
// lattice and radius produce an identical sequence.
func (l *Lattice) PointsInSphere(radius float64) ([]Point, error) {
	if radius < 0 {
		return nil, fmt.Errorf("radius must be non-negative, got %v", radius)
	}

	dual, err := l.dualNorms()
	if err != nil {
		return nil, err
	}

	// |h_i| = |g · d_i| ≤ radius · |d_i| bounds each integer index.
	var bound [3]int
	for i := range bound {
		bound[i] = int(math.Ceil(radius * dual[i]))
	}

	var points []Point
	for h := -bound[0]; h <= bound[0]; h++ {
		for k := -bound[1]; k <= bound[1]; k++ {
			for m := -bound[2]; m <= bound[2]; m++ {
				cart := l.Cartesian([3]float64{float64(h), float64(k), float64(m)})
				mag := cart.Norm()
				if mag <= radius {
					points = append(points, Point{
						HKL:       [3]int{h, k, m},
						Cartesian: cart,
						Magnitude: mag,
					})
				}
			}
		}
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		switch {
		case a.Magnitude < b.Magnitude:
			return -1
		case a.Magnitude > b.Magnitude:
			return 1
		}
		for i := 0; i < 3; i++ {
			if a.HKL[i] != b.HKL[i] {
				if a.HKL[i] > b.HKL[i] {
					return -1
				}
				return 1
			}
		}
		return 0
	})
	return points, nil
}
