package commands

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/stemtools/diffvec/blobstore"
	miniostore "github.com/stemtools/diffvec/blobstore/minio"
	s3store "github.com/stemtools/diffvec/blobstore/s3"
	"github.com/stemtools/diffvec/cache"
	"github.com/stemtools/diffvec/config"
	"github.com/stemtools/diffvec/resource"
)

// cacheBudgetBytes bounds the block cache in front of remote backends.
const cacheBudgetBytes = 256 << 20

// openStore resolves the configured snapshot backend. Remote backends
// read through a block cache and, when a transfer limit is set, pace
// uploads through a resource controller.
func openStore(ctx context.Context, cfg config.Config) (blobstore.BlobStore, error) {
	st := cfg.Storage

	var rc *resource.Controller
	if st.IOLimitBytesPerSec > 0 {
		rc = resource.NewController(resource.Config{
			MaxWorkers:         int64(max(cfg.Workers, 1)),
			IOLimitBytesPerSec: st.IOLimitBytesPerSec,
		})
	}

	switch st.Backend {
	case "", "local":
		return blobstore.NewLocalStore(st.Root)
	case "minio":
		client, err := minio.New(st.Endpoint, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: st.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		inner := miniostore.NewStore(client, st.Bucket, st.Prefix,
			miniostore.WithResourceController(rc))
		return cached(inner, rc), nil
	case "s3":
		inner, err := s3store.NewStoreFromEnv(ctx, st.Bucket, st.Prefix,
			s3store.WithResourceController(rc))
		if err != nil {
			return nil, err
		}
		return cached(inner, rc), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", st.Backend)
	}
}

func cached(inner blobstore.BlobStore, rc *resource.Controller) blobstore.BlobStore {
	blocks := cache.NewLRUBlockCache(cacheBudgetBytes, rc)
	return blobstore.NewCachingStore(inner, blocks, 0,
		blobstore.WithResourceController(rc))
}
