// Package cluster implements density-based clustering (DBSCAN) over
// diffraction vector sets.
package cluster

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/stemtools/diffvec/distance"
	"github.com/stemtools/diffvec/vector"
)

// Noise is the label assigned to points reachable from no core point.
const Noise = -1

// Result is a read-only cluster assignment for a flat point set.
type Result struct {
	// Labels holds one cluster id per input point, Noise (-1) for outliers.
	// Cluster ids are dense, starting at 0, in order of discovery.
	Labels []int

	// CoreSamples marks the indices of core points.
	CoreSamples *roaring.Bitmap

	// NumClusters is the number of clusters found (noise excluded).
	NumClusters int
}

// Members returns the bitmap of point indices assigned to cluster id.
func (r *Result) Members(id int) *roaring.Bitmap {
	out := roaring.New()
	for i, l := range r.Labels {
		if l == id {
			out.Add(uint32(i))
		}
	}
	return out
}

// NoisePoints returns the bitmap of point indices labeled as noise.
func (r *Result) NoisePoints() *roaring.Bitmap {
	return r.Members(Noise)
}

// DBSCAN clusters points with neighborhood radius eps and density threshold
// minSamples. A point is a core point if at least minSamples points
// (itself included) lie within eps of it; clusters grow by chaining core
// points through reachability, and points reachable from no core point are
// labeled Noise.
func DBSCAN(points vector.List, eps float64, minSamples int) (*Result, error) {
	if eps < 0 {
		return nil, fmt.Errorf("eps must be non-negative, got %v", eps)
	}
	if minSamples < 1 {
		return nil, fmt.Errorf("min samples must be at least 1, got %d", minSamples)
	}

	n := len(points)
	res := &Result{
		Labels:      make([]int, n),
		CoreSamples: roaring.New(),
	}
	if n == 0 {
		return res, nil
	}

	// Full pairwise matrix; the neighborhood predicate reuses the same
	// distance semantics as the unique-vector reduction.
	m, err := distance.Matrix(points, points)
	if err != nil {
		return nil, err
	}

	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		row := m.Row(i)
		for j, d := range row {
			if d <= eps {
				neighbors[i] = append(neighbors[i], j)
			}
		}
		if len(neighbors[i]) >= minSamples {
			res.CoreSamples.Add(uint32(i))
		}
	}

	const unvisited = -2
	for i := range res.Labels {
		res.Labels[i] = unvisited
	}

	next := 0
	for i := 0; i < n; i++ {
		if res.Labels[i] != unvisited {
			continue
		}
		if !res.CoreSamples.Contains(uint32(i)) {
			res.Labels[i] = Noise
			continue
		}

		// Expand a new cluster from this core point.
		id := next
		next++
		res.Labels[i] = id

		queue := append([]int(nil), neighbors[i]...)
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]

			if res.Labels[p] == Noise {
				// Border point previously shelved as noise.
				res.Labels[p] = id
				continue
			}
			if res.Labels[p] != unvisited {
				continue
			}
			res.Labels[p] = id
			if res.CoreSamples.Contains(uint32(p)) {
				queue = append(queue, neighbors[p]...)
			}
		}
	}

	res.NumClusters = next
	return res, nil
}
