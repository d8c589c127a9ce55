package compress

import (
	"encoding/binary"

	"github.com/go-faster/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Level is a compression level hint stored on Writer; neither the LZ4 nor
// the ZSTD path reads it, both compress at their library's default level.
type Level int

// Writer compresses data into the ClickHouse compressed-block frame.
//
// Data holds the frame produced by the last Compress call; each call
// replaces it with a newly allocated slice.
type Writer struct {
	Data   []byte
	Method Method
	Level  Level

	scratch []byte
	zw      *zstd.Encoder
}

// NewWriter creates a Writer using LZ4, matching the teacher's default.
func NewWriter() *Writer {
	return &Writer{Method: LZ4}
}

// Compress compresses data into a complete frame in w.Data, ready to be
// appended to an outgoing buffer.
func (w *Writer) Compress(data []byte) error {
	return w.CompressMethod(w.Method, data)
}

// CompressMethod compresses data using the given method.
func (w *Writer) CompressMethod(m Method, data []byte) error {
	switch m {
	case LZ4:
		return w.compressLZ4(data)
	case ZSTD:
		return w.compressZSTD(data)
	default:
		return errors.Errorf("compress: unsupported method %s", m)
	}
}

func (w *Writer) compressLZ4(data []byte) error {
	maxSize := lz4.CompressBlockBound(len(data))
	if cap(w.scratch) < maxSize {
		w.scratch = make([]byte, maxSize)
	}
	w.scratch = w.scratch[:maxSize]

	var c lz4.Compressor
	n, err := c.CompressBlock(data, w.scratch)
	if err != nil {
		return errors.Wrap(err, "lz4 compress")
	}
	if n == 0 {
		// Incompressible input; lz4 requires the literal-only path.
		return errors.New("lz4: data is not compressible")
	}

	w.writeFrame(LZ4, w.scratch[:n], len(data))
	return nil
}

func (w *Writer) compressZSTD(data []byte) error {
	if w.zw == nil {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return errors.Wrap(err, "zstd writer")
		}
		w.zw = enc
	}
	w.scratch = w.zw.EncodeAll(data, w.scratch[:0])
	w.writeFrame(ZSTD, w.scratch, len(data))
	return nil
}

// writeFrame assembles checksum || algo || sizes || payload into w.Data.
func (w *Writer) writeFrame(m Method, compressed []byte, uncompressedSize int) {
	compressedSizeWithHeader := headerSize + len(compressed)

	header := make([]byte, headerSize+len(compressed))
	header[0] = byte(m)
	binary.LittleEndian.PutUint32(header[1:5], uint32(compressedSizeWithHeader))
	binary.LittleEndian.PutUint32(header[5:9], uint32(uncompressedSize))
	copy(header[headerSize:], compressed)

	sum := checksum(header)

	out := make([]byte, checksumSize+len(header))
	binary.LittleEndian.PutUint64(out[0:8], sum.Low)
	binary.LittleEndian.PutUint64(out[8:16], sum.High)
	copy(out[checksumSize:], header)

	w.Data = out
}
