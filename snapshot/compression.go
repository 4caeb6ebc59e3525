package snapshot

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression algorithm.
type Compression uint8

const (
	// CompressionDefault defers the choice to Options.withDefaults
	// (currently ZSTD). It never appears on disk.
	CompressionDefault Compression = 0
	// CompressionNone stores payload blocks verbatim.
	CompressionNone Compression = 1
	// CompressionLZ4 favors speed; good for snapshots on fast local disks.
	CompressionLZ4 Compression = 2
	// CompressionZSTD favors ratio; good for snapshots shipped to object
	// storage.
	CompressionZSTD Compression = 3
)

func (c Compression) valid() bool {
	return c == CompressionNone || c == CompressionLZ4 || c == CompressionZSTD
}

// wire returns the on-disk compression identifier. The mapping is part
// of the snapshot format and stays stable across releases.
func (c Compression) wire() byte {
	switch c {
	case CompressionLZ4:
		return 1
	case CompressionZSTD:
		return 2
	default:
		return 0
	}
}

func compressionFromWire(b byte) (Compression, bool) {
	switch b {
	case 0:
		return CompressionNone, true
	case 1:
		return CompressionLZ4, true
	case 2:
		return CompressionZSTD, true
	default:
		return 0, false
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Each block carries an 8-byte header:
// [UncompressedSize uint32][CompressedSize uint32][Data...]
// CompressedSize == 0 marks a block stored verbatim (incompressible or
// CompressionNone).
const blockHeaderSize = 8

// defaultBlockSize bounds per-block memory during decompression.
const defaultBlockSize = 256 * 1024

// compressBlocks splits data into blocks and compresses each one,
// returning the concatenated block stream.
func compressBlocks(data []byte, typ Compression, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}

	var out []byte
	for len(data) > 0 {
		n := blockSize
		if n > len(data) {
			n = len(data)
		}
		block, err := compressBlock(data[:n], typ)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		data = data[n:]
	}
	return out, nil
}

func compressBlock(data []byte, typ Compression) ([]byte, error) {
	var compressed []byte
	var err error

	switch typ {
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}
	if err != nil {
		return nil, err
	}

	// Store verbatim when compression saves less than 10%.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return buf[:n], nil
}

// decompressBlocks reads the full block stream back into contiguous data.
func decompressBlocks(data []byte, typ Compression) ([]byte, error) {
	var out []byte
	for len(data) > 0 {
		block, rest, err := decompressBlock(data, typ)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		data = rest
	}
	return out, nil
}

func decompressBlock(data []byte, typ Compression) (block, rest []byte, err error) {
	if len(data) < blockHeaderSize {
		return nil, nil, io.ErrUnexpectedEOF
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		end := blockHeaderSize + int(uncompressedSize)
		if len(data) < end {
			return nil, nil, io.ErrUnexpectedEOF
		}
		return data[blockHeaderSize:end], data[end:], nil
	}

	end := blockHeaderSize + int(compressedSize)
	if len(data) < end {
		return nil, nil, io.ErrUnexpectedEOF
	}
	payload := data[blockHeaderSize:end]
	out := make([]byte, uncompressedSize)

	switch typ {
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, out[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, nil, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, nil, errors.New("decompressed size mismatch")
		}
		return decoded, data[end:], nil

	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, nil, errors.New("decompressed size mismatch")
		}
		return out, data[end:], nil

	default:
		return nil, nil, errors.New("compressed block in uncompressed stream")
	}
}
