// Package compress implements the ClickHouse native "compressed block"
// framing: a 16-byte CityHash128 checksum, a 1-byte algorithm tag, two
// little-endian uint32 sizes and a payload.
package compress

import (
	"encoding/binary"
	"fmt"

	"github.com/go-faster/city"
	"github.com/go-faster/errors"
)

// Method is the compressed-block algorithm tag.
type Method byte

const (
	// None marks an uncompressed frame header (used by some callers to
	// probe the next byte without committing to decompression).
	None Method = 0x02
	// LZ4 is the default ClickHouse compression algorithm.
	LZ4 Method = 0x82
	// ZSTD selects zstd framing.
	ZSTD Method = 0x90
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(0x%x)", byte(m))
	}
}

// headerSize is algo(1) + compressed_size(4) + uncompressed_size(4).
const headerSize = 9

// checksumSize is the CityHash128 checksum preceding the header.
const checksumSize = 16

// CorruptedDataErr is returned when the checksum of a compressed block
// does not match its content.
type CorruptedDataErr struct {
	Actual    city.U128
	Reference city.U128
	RawSize   int
	DataSize  int
}

func (c *CorruptedDataErr) Error() string {
	return fmt.Sprintf("corrupted data: %s (actual), %s (reference), compressed size: %d, data size: %d",
		FormatU128(c.Actual), FormatU128(c.Reference), c.RawSize, c.DataSize,
	)
}

// FormatU128 renders a city.U128 as a hex string, low half first, matching
// the byte order ClickHouse uses on the wire.
func FormatU128(v city.U128) string {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], v.Low)
	binary.LittleEndian.PutUint64(buf[8:16], v.High)
	return fmt.Sprintf("%x", buf)
}

// checksum computes CityHash128 over algo || sizes || payload. frame must
// already start with the algorithm byte.
func checksum(frame []byte) city.U128 {
	return city.CH128(frame)
}

// errShortRead indicates the underlying source did not yet have a full
// compressed-block header available.
var errShortRead = errors.New("compress: short read")
