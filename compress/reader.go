package compress

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/go-faster/city"
	"github.com/go-faster/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Reader decompresses ClickHouse compressed-block frames read from an
// underlying buffered source. It is used by proto.Reader to transparently
// wrap the socket once compression is negotiated.
type Reader struct {
	r   *bufio.Reader
	Raw bool // if true, Decompress is a no-op passthrough (compression disabled)

	data []byte // decompressed scratch buffer, reused across calls
	zr   *zstd.Decoder
}

// NewReader creates a compression Reader over br.
func NewReader(br *bufio.Reader) *Reader {
	return &Reader{r: br}
}

// Data returns the most recently decompressed payload.
func (r *Reader) Data() []byte { return r.data }

// ReadCompressed reads one frame from the underlying reader, verifies the
// checksum, and decompresses it into r.data (see Data).
func (r *Reader) ReadCompressed() error {
	var header [checksumSize + headerSize]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		return errors.Wrap(err, "read compressed header")
	}

	wantChecksum := city128FromLE(header[:checksumSize])
	frame := header[checksumSize:]
	algo := Method(frame[0])
	compressedSizeWithHeader := binary.LittleEndian.Uint32(frame[1:5])
	uncompressedSize := binary.LittleEndian.Uint32(frame[5:9])

	if compressedSizeWithHeader < headerSize {
		return errors.Errorf("compress: invalid compressed size %d", compressedSizeWithHeader)
	}
	payloadSize := int(compressedSizeWithHeader) - headerSize

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		return errors.Wrap(err, "read compressed payload")
	}

	checkBuf := make([]byte, headerSize+payloadSize)
	copy(checkBuf, frame)
	copy(checkBuf[headerSize:], payload)
	gotChecksum := checksum(checkBuf)
	if gotChecksum != wantChecksum {
		return &CorruptedDataErr{
			Actual:    gotChecksum,
			Reference: wantChecksum,
			RawSize:   int(compressedSizeWithHeader),
			DataSize:  int(uncompressedSize),
		}
	}

	if cap(r.data) < int(uncompressedSize) {
		r.data = make([]byte, uncompressedSize)
	}
	r.data = r.data[:uncompressedSize]

	switch algo {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, r.data)
		if err != nil {
			return errors.Wrap(err, "lz4 decompress")
		}
		if n != int(uncompressedSize) {
			return errors.Errorf("lz4: decompressed %d bytes, want %d", n, uncompressedSize)
		}
	case ZSTD:
		if r.zr == nil {
			zr, err := zstd.NewReader(nil)
			if err != nil {
				return errors.Wrap(err, "zstd reader")
			}
			r.zr = zr
		}
		out, err := r.zr.DecodeAll(payload, r.data[:0])
		if err != nil {
			return errors.Wrap(err, "zstd decompress")
		}
		r.data = out
	default:
		return errors.Errorf("compress: unknown algorithm 0x%x", byte(algo))
	}
	return nil
}

func city128FromLE(b []byte) city.U128 {
	return city.U128{
		Low:  binary.LittleEndian.Uint64(b[0:8]),
		High: binary.LittleEndian.Uint64(b[8:16]),
	}
}
