// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ArchiveTag identifies the whole-archive compression algorithm. The
// archive file carries no header of its own: the algorithm is
// recognised from the compressed stream itself, see
// [DecompressArchive].
type ArchiveTag uint8

const (
	// ArchiveDeflate is raw DEFLATE (RFC 1951) without a zlib or gzip
	// wrapper. Archives from older packers use this format, and it is
	// what DecompressArchive assumes when no frame magic matches.
	ArchiveDeflate ArchiveTag = 0

	// ArchiveZstd is a single zstd frame. Default for new archives:
	// best ratio on mixed text and binary assets.
	ArchiveZstd ArchiveTag = 1

	// ArchiveLZ4 is an LZ4 frame. Faster to decode than zstd at a
	// lower ratio.
	ArchiveLZ4 ArchiveTag = 2
)

// DefaultArchiveTag is used by the packer when no algorithm is chosen.
const DefaultArchiveTag = ArchiveZstd

// MaxArchiveSize bounds the decompressed size of an archive.
const MaxArchiveSize = 1 << 30

// ErrArchiveTooLarge is returned when an archive decompresses to more
// than MaxArchiveSize bytes.
var ErrArchiveTooLarge = errors.New("archive exceeds maximum decompressed size")

var errLZ4Truncated = errors.New("truncated lz4 frame")

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the human-readable name of an archive tag.
func (tag ArchiveTag) String() string {
	switch tag {
	case ArchiveDeflate:
		return "deflate"
	case ArchiveZstd:
		return "zstd"
	case ArchiveLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseArchiveTag parses an archive tag from its string representation.
func ParseArchiveTag(name string) (ArchiveTag, error) {
	switch name {
	case "deflate":
		return ArchiveDeflate, nil
	case "zstd":
		return ArchiveZstd, nil
	case "lz4":
		return ArchiveLZ4, nil
	default:
		return 0, fmt.Errorf("unknown archive compression: %q", name)
	}
}

// DetectArchiveTag returns the algorithm that produced data.
func DetectArchiveTag(data []byte) ArchiveTag {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return ArchiveZstd
	case bytes.HasPrefix(data, lz4Magic):
		return ArchiveLZ4
	default:
		return ArchiveDeflate
	}
}

// zstdEncoder and zstdDecoder are reused across calls. zstd.Encoder
// and zstd.Decoder are safe for concurrent use with EncodeAll and
// DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		// Without full zero frames an empty input encodes to nothing,
		// which DecompressArchive could not tell apart from DEFLATE.
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxArchiveSize))
	if err != nil {
		panic("compress: zstd decoder initialization failed: " + err.Error())
	}
}

// CompressArchive compresses a serialized archive with the given
// algorithm.
func CompressArchive(data []byte, tag ArchiveTag) ([]byte, error) {
	switch tag {
	case ArchiveZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case ArchiveLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if err := writer.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
			return nil, fmt.Errorf("lz4 options: %w", err)
		}
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil

	case ArchiveDeflate:
		var buffer bytes.Buffer
		writer, err := flate.NewWriter(&buffer, flate.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("deflate writer: %w", err)
		}
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("deflate compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("deflate compress: %w", err)
		}
		return buffer.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported archive compression: %s", tag)
	}
}

// DecompressArchive reverses CompressArchive. The algorithm is taken
// from the frame magic of zstd and LZ4 streams; anything else is
// decoded as raw DEFLATE. Output larger than [MaxArchiveSize] fails
// with [ErrArchiveTooLarge].
func DecompressArchive(data []byte) ([]byte, error) {
	return decompressArchive(data, MaxArchiveSize)
}

func decompressArchive(data []byte, limit int64) ([]byte, error) {
	tag := DetectArchiveTag(data)
	switch tag {
	case ArchiveZstd:
		result, err := zstdDecoder.DecodeAll(data, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return nil, fmt.Errorf("zstd decompress: %w", ErrArchiveTooLarge)
		}
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if int64(len(result)) > limit {
			return nil, fmt.Errorf("zstd decompress: %w", ErrArchiveTooLarge)
		}
		return result, nil

	case ArchiveLZ4:
		// The lz4 reader reports a clean EOF when the stream stops
		// inside the end mark or content checksum.
		if err := checkLZ4Frame(data); err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		result, err := readLimited(lz4.NewReader(bytes.NewReader(data)), limit)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return result, nil

	default:
		reader := flate.NewReader(bytes.NewReader(data))
		defer reader.Close()
		result, err := readLimited(reader, limit)
		if err != nil {
			return nil, fmt.Errorf("deflate decompress: %w", err)
		}
		return result, nil
	}
}

func readLimited(reader io.Reader, limit int64) ([]byte, error) {
	result, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(result)) > limit {
		return nil, ErrArchiveTooLarge
	}
	return result, nil
}

// LZ4 frame descriptor flags (FLG byte).
const (
	lz4FlagDictID          = 1 << 0
	lz4FlagContentChecksum = 1 << 2
	lz4FlagContentSize     = 1 << 3
	lz4FlagBlockChecksum   = 1 << 4
	lz4BlockSizeMask       = 0x7fffffff
)

// checkLZ4Frame walks the block headers of a single LZ4 frame and
// requires data to end exactly after the end mark and the content
// checksum, if the frame declares one.
func checkLZ4Frame(data []byte) error {
	// magic, FLG, BD
	offset := 6
	if len(data) < offset {
		return errLZ4Truncated
	}
	flags := data[4]
	if flags&lz4FlagContentSize != 0 {
		offset += 8
	}
	if flags&lz4FlagDictID != 0 {
		offset += 4
	}
	// header checksum
	offset++

	for {
		if len(data)-offset < 4 {
			return errLZ4Truncated
		}
		size := binary.LittleEndian.Uint32(data[offset:])
		offset += 4
		if size == 0 {
			break
		}
		offset += int(size & lz4BlockSizeMask)
		if flags&lz4FlagBlockChecksum != 0 {
			offset += 4
		}
		if offset > len(data) {
			return errLZ4Truncated
		}
	}
	if flags&lz4FlagContentChecksum != 0 {
		offset += 4
	}
	switch {
	case offset > len(data):
		return errLZ4Truncated
	case offset < len(data):
		return fmt.Errorf("%d bytes after lz4 frame", len(data)-offset)
	}
	return nil
}
