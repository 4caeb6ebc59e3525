// Package diffvec provides analysis utilities for diffraction-vector
// collections from 4D scanning electron diffraction datasets.
//
// A DiffractionVectors value wraps a ragged navigation grid of detected
// reciprocal-space peak coordinates (one list per scan position) and
// derives:
//
//   - Unique vectors: greedy incremental deduplication under a distance
//     threshold with a global consistency pass
//   - Density-based clusters (DBSCAN) of vector sets
//   - Crystallographic g-vector indexation against a theoretical
//     reciprocal lattice
//   - Magnitudes, magnitude histograms and diffracting-pixel maps
//
// # Quick Start
//
//	grid, _ := vector.NewGrid(rows, cols, lists)
//	dv := diffvec.New(grid, diffvec.WithWorkers(8))
//
//	unique, err := dv.UniqueVectors(ctx, 0.05)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cell, _ := lattice.Cubic(4.04)
//	result, err := dv.GVectorIndexation(ctx, lattice.NewStructure("al", cell),
//	    diffvec.IndexationOptions{MagnitudeThreshold: 0.01, MaximumLength: 1.5})
//
// Virtual dark-field extraction lives in the vdf subpackage, peak marker
// construction in markers, and persistence of grids and results in
// snapshot/blobstore/catalog.
//
// All analysis calls are synchronous and CPU-bound. The incremental
// reduction loop is sequential by construction; the consistency pass,
// indexation and dark-field extraction fan out across a bounded worker
// pool.
package diffvec
