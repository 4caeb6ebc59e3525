package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/stemtools/diffvec/cache"
	"github.com/stemtools/diffvec/resource"
)

// CachingStore wraps a BlobStore with block-level read caching. Writes
// pass through and invalidate any cached blocks of the written blob.
// Meant for object-store backends where every ReadAt is a round trip.
type CachingStore struct {
	inner     BlobStore
	blocks    cache.BlockCache
	blockSize int64
	rc        *resource.Controller
}

// CachingOption configures a CachingStore.
type CachingOption func(*CachingStore)

// WithResourceController bounds concurrent backend block fetches with
// rc's worker slots instead of the fixed per-read limit.
func WithResourceController(rc *resource.Controller) CachingOption {
	return func(s *CachingStore) { s.rc = rc }
}

// NewCachingStore wraps inner with a block cache. blockSize defaults to
// 64KB if <= 0, matching the snapshot reader's access granularity.
func NewCachingStore(inner BlobStore, blocks cache.BlockCache, blockSize int64, opts ...CachingOption) *CachingStore {
	if blockSize <= 0 {
		blockSize = 64 * 1024
	}
	s := &CachingStore{inner: inner, blocks: blocks, blockSize: blockSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens a blob whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{inner: b, blocks: s.blocks, name: name, blockSize: s.blockSize, rc: s.rc}, nil
}

// Create passes through; blobs are immutable once committed, so there is
// nothing to invalidate for a new name.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put writes through and drops cached blocks of the overwritten blob.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob and its cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List passes through.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.blocks.Invalidate(func(k cache.BlockKey) bool { return k.Blob == name })
}

type cachingBlob struct {
	inner     Blob
	blocks    cache.BlockCache
	name      string
	blockSize int64
	rc        *resource.Controller
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if off >= b.Size() {
		return 0, io.EOF
	}

	startBlock := off / b.blockSize
	endBlock := (off + int64(len(p)) - 1) / b.blockSize

	if err := b.fetchMissing(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	total := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		data, err := b.block(ctx, blk)
		if err != nil {
			return total, err
		}

		blkStart := blk * b.blockSize
		from := max(blkStart, off)
		to := min(blkStart+b.blockSize, off+int64(len(p)))
		src := from - blkStart
		if src >= int64(len(data)) {
			break // past EOF within the last block
		}
		if to-blkStart > int64(len(data)) {
			to = blkStart + int64(len(data))
		}
		total += copy(p[from-off:to-off], data[src:])
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	return io.NopCloser(&blockSectionReader{blob: b, ctx: ctx, off: off, limit: off + length}), nil
}

// fetchMissing loads uncached blocks in the range, in parallel.
func (b *cachingBlob) fetchMissing(ctx context.Context, startBlock, endBlock int64) error {
	var missing []int64
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.blocks.Get(ctx, b.key(blk)); !ok {
			missing = append(missing, blk)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if b.rc == nil {
		g.SetLimit(8)
	}
	for _, blk := range missing {
		g.Go(func() error {
			if err := b.rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer b.rc.ReleaseWorker()
			_, err := b.fetchBlock(ctx, blk)
			return err
		})
	}
	return g.Wait()
}

func (b *cachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	if data, ok := b.blocks.Get(ctx, b.key(blk)); ok {
		return data, nil
	}
	return b.fetchBlock(ctx, blk)
}

func (b *cachingBlob) fetchBlock(ctx context.Context, blk int64) ([]byte, error) {
	off := blk * b.blockSize
	size := b.blockSize
	if off >= b.Size() {
		return nil, nil
	}
	if off+size > b.Size() {
		size = b.Size() - off
	}

	buf := make([]byte, size)
	n, err := b.inner.ReadAt(ctx, buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	buf = buf[:n]
	if n > 0 {
		b.blocks.Set(ctx, b.key(blk), buf)
	}
	return buf, nil
}

func (b *cachingBlob) key(blk int64) cache.BlockKey {
	return cache.BlockKey{Blob: b.name, Block: blk}
}

type blockSectionReader struct {
	blob  *cachingBlob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *blockSectionReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 && r.off >= min(r.limit, r.blob.Size()) {
		err = nil
	}
	return n, err
}
