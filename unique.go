package diffvec

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stemtools/diffvec/distance"
	"github.com/stemtools/diffvec/vector"
)

// UniqueVectors reduces the grid to its unique diffraction vectors: the
// set of vectors no two of which lie within distanceThreshold of each
// other (enforced by a post-hoc consistency pass, not continuously).
//
// The accumulation is greedy and order-dependent: positions are visited in
// row-major order, the accepted set is seeded with the first vector of the
// first position, and each position's candidates are tested against the
// accepted set as it stood when that position was reached. The result is
// therefore sensitive to scan order; this is a deliberate tradeoff for
// incremental single-pass scalability over large scan grids.
//
// After all positions are consumed, a global consistency pass removes any
// accepted vector with more than one within-threshold neighbor (itself
// included), evaluated against the full pre-deletion pairwise matrix and
// deleted in one batch.
//
// Fails with ErrEmptySeed when the first scan position holds no vectors.
func (dv *DiffractionVectors) UniqueVectors(ctx context.Context, distanceThreshold float64) (*UniqueVectorSet, error) {
	set, err := dv.uniqueVectors(ctx, distanceThreshold)
	dv.opts.logger.LogReduce(ctx, dv.grid.Len(), setLen(set), setDeleted(set), err)
	return set, err
}

func setLen(s *UniqueVectorSet) int {
	if s == nil {
		return 0
	}
	return s.Len()
}

func setDeleted(s *UniqueVectorSet) int {
	if s == nil {
		return 0
	}
	return s.Deleted
}

func (dv *DiffractionVectors) uniqueVectors(ctx context.Context, threshold float64) (*UniqueVectorSet, error) {
	seedList := dv.grid.AtIndex(0)
	if len(seedList) == 0 {
		return nil, ErrEmptySeed
	}

	// Only the first element of the seed list bootstraps the accepted
	// set; the rest of that list is evaluated as candidates like any
	// other position.
	accepted := vector.List{seedList[0].Clone()}

	var iterErr error
	dv.grid.Positions(func(_ int, list vector.List) bool {
		if len(list) == 0 {
			return true
		}
		m, err := distance.Matrix(list, accepted)
		if err != nil {
			iterErr = err
			return false
		}
		for _, idx := range distance.SelectNewIndices(m, threshold) {
			accepted = append(accepted, list[idx].Clone())
		}
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}

	crowded, err := dv.consistencyPass(ctx, accepted, threshold)
	if err != nil {
		return nil, err
	}

	kept := make(vector.List, 0, len(accepted)-len(crowded))
	drop := make(map[int]struct{}, len(crowded))
	for _, i := range crowded {
		drop[i] = struct{}{}
	}
	for i, v := range accepted {
		if _, ok := drop[i]; !ok {
			kept = append(kept, v)
		}
	}

	return &UniqueVectorSet{Vectors: kept, Deleted: len(crowded)}, nil
}

// consistencyPass returns the indices of accepted vectors that have more
// than one within-threshold neighbor in the full pairwise matrix, itself
// included. Every index is judged against the pre-deletion matrix, so the
// pass is order-independent and fans out across workers.
func (dv *DiffractionVectors) consistencyPass(ctx context.Context, accepted vector.List, threshold float64) ([]int, error) {
	m, err := distance.Matrix(accepted, accepted)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		crowded []int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dv.opts.workers)

	n := m.Rows()
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			within := 0
			for j := 0; j < n; j++ {
				if m.At(j, i) <= threshold {
					within++
				}
			}
			if within > 1 {
				mu.Lock()
				crowded = append(crowded, i)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Ints(crowded)
	return crowded, nil
}
