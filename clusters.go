package diffvec

import (
	"context"

	"github.com/stemtools/diffvec/cluster"
)

// VectorClusters runs density-based clustering over the vector list at
// the seed scan position (row 0, col 0).
//
// Only the seed position's vectors are clustered, not the full unique
// set; this mirrors the reference behavior and is a documented
// limitation. Cluster the result of UniqueVectors with cluster.DBSCAN
// directly to cover the whole grid.
func (dv *DiffractionVectors) VectorClusters(ctx context.Context, eps float64, minSamples int) (*cluster.Result, error) {
	seed := dv.grid.AtIndex(0)
	res, err := cluster.DBSCAN(seed, eps, minSamples)
	clusters := 0
	if res != nil {
		clusters = res.NumClusters
	}
	dv.opts.logger.LogClustering(ctx, len(seed), clusters, err)
	return res, err
}
