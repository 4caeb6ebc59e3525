// Package snapshot persists analysis artifacts (vector grids, unique
// vector sets, indexation results) through a blobstore in a
// self-describing binary format.
//
// File layout, little-endian:
//
//	[Magic uint32][Version uint32]
//	[Compression uint8][CodecNameLen uint8][CodecName...]
//	[UncompressedSize uint64][Checksum uint32]
//	[compressed payload blocks...]
//
// The header records the codec by name and the payload checksum, so a
// file written with one configuration is always decoded with the same
// codec and validated on load.
package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/stemtools/diffvec/blobstore"
	"github.com/stemtools/diffvec/codec"
)

const (
	// Magic identifies snapshot files (ASCII "DVS0").
	Magic = 0x44565330
	// Version is the current format version.
	Version = 0x00010000
)

var (
	// ErrInvalidMagic marks a file that is not a snapshot.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrUnsupportedVersion marks a snapshot from an incompatible format
	// revision.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	// ErrChecksum marks a snapshot whose payload failed validation.
	ErrChecksum = errors.New("snapshot checksum mismatch")
	// ErrUnknownCodec marks a snapshot encoded with a codec this build
	// does not provide.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
)

// Options configures snapshot writes. The zero value uses the default
// codec with the default compression (ZSTD); an explicit
// CompressionNone writes uncompressed blocks.
type Options struct {
	Codec       codec.Codec
	Compression Compression
	BlockSize   int
}

func (o Options) withDefaults() (Options, error) {
	if o.Codec == nil {
		o.Codec = codec.Default
	}
	if o.Compression == CompressionDefault {
		o.Compression = CompressionZSTD
	}
	if !o.Compression.valid() {
		return o, fmt.Errorf("invalid compression type %d", o.Compression)
	}
	if len(o.Codec.Name()) > 255 {
		return o, fmt.Errorf("codec name %q too long", o.Codec.Name())
	}
	return o, nil
}

// Save encodes v and writes it to the store under name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, v any, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}

	payload, err := opts.Codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot payload: %w", err)
	}

	blocks, err := compressBlocks(payload, opts.Compression, opts.BlockSize)
	if err != nil {
		return fmt.Errorf("compress snapshot payload: %w", err)
	}

	codecName := opts.Codec.Name()
	header := make([]byte, 0, 22+len(codecName))
	header = binary.LittleEndian.AppendUint32(header, Magic)
	header = binary.LittleEndian.AppendUint32(header, Version)
	header = append(header, opts.Compression.wire(), byte(len(codecName)))
	header = append(header, codecName...)
	header = binary.LittleEndian.AppendUint64(header, uint64(len(payload)))
	header = binary.LittleEndian.AppendUint32(header, crc32.ChecksumIEEE(payload))

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		w.Close()
		return err
	}
	if _, err := w.Write(blocks); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Load reads the snapshot under name and decodes it into v.
func Load(ctx context.Context, store blobstore.BlobStore, name string, v any) error {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return err
	}

	// Fixed header prefix: magic, version, compression, codec name length.
	if len(data) < 10 {
		return ErrInvalidMagic
	}
	if got := binary.LittleEndian.Uint32(data[0:]); got != Magic {
		return fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, got)
	}
	if got := binary.LittleEndian.Uint32(data[4:]); got != Version {
		return fmt.Errorf("%w: got 0x%08x", ErrUnsupportedVersion, got)
	}
	compression, ok := compressionFromWire(data[8])
	if !ok {
		return fmt.Errorf("invalid compression type %d", data[8])
	}
	nameLen := int(data[9])

	rest := data[10:]
	if len(rest) < nameLen+12 {
		return fmt.Errorf("snapshot header truncated")
	}
	codecName := string(rest[:nameLen])
	rest = rest[nameLen:]

	uncompressedSize := binary.LittleEndian.Uint64(rest[0:])
	checksum := binary.LittleEndian.Uint32(rest[8:])
	blocks := rest[12:]

	c, ok := codec.ByName(codecName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	payload, err := decompressBlocks(blocks, compression)
	if err != nil {
		return fmt.Errorf("decompress snapshot payload: %w", err)
	}
	if uint64(len(payload)) != uncompressedSize {
		return fmt.Errorf("%w: payload size %d, header says %d", ErrChecksum, len(payload), uncompressedSize)
	}
	if crc32.ChecksumIEEE(payload) != checksum {
		return ErrChecksum
	}

	if err := c.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode snapshot payload: %w", err)
	}
	return nil
}
