package proto

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/go-faster/errors"

	"github.com/chctl/ch-native/compress"
)

const defaultReaderBuf = 16 * 1024

// Reader reads ClickHouse wire primitives from a buffered byte source. It
// transparently switches to decompressing a stream of compressed-block
// frames once EnableCompression is called, matching the server's
// "some messages are compressed, some aren't" behavior described for
// ProfileEvents and friends.
type Reader struct {
	raw *bufio.Reader

	compressed bool
	creader    *compress.Reader
	block      []byte // current decompressed block, when compressed
	pos        int
}

// NewReader wraps r with a buffered, wire-aware reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{raw: bufio.NewReaderSize(r, defaultReaderBuf)}
}

// EnableCompression switches subsequent reads to decompress
// ClickHouse compressed-block frames transparently.
func (r *Reader) EnableCompression() {
	if r.creader == nil {
		r.creader = compress.NewReader(r.raw)
	}
	r.compressed = true
	r.block = nil
	r.pos = 0
}

// DisableCompression reverts to reading raw bytes.
func (r *Reader) DisableCompression() {
	r.compressed = false
	r.block = nil
	r.pos = 0
}

// fill ensures at least one byte is available in r.block when compression
// is active, pulling and decompressing the next frame as needed.
func (r *Reader) fill() error {
	for r.pos >= len(r.block) {
		if err := r.creader.ReadCompressed(); err != nil {
			return err
		}
		r.block = r.creader.Data()
		r.pos = 0
	}
	return nil
}

// ReadFull reads len(buf) bytes, decompressing transparently if enabled.
func (r *Reader) ReadFull(buf []byte) error {
	if !r.compressed {
		_, err := io.ReadFull(r.raw, buf)
		if err != nil {
			return errors.Wrap(err, "read")
		}
		return nil
	}
	n := 0
	for n < len(buf) {
		if err := r.fill(); err != nil {
			return errors.Wrap(err, "read compressed")
		}
		k := copy(buf[n:], r.block[r.pos:])
		r.pos += k
		n += k
	}
	return nil
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	if !r.compressed {
		v, err := r.raw.ReadByte()
		if err != nil {
			return 0, errors.Wrap(err, "read byte")
		}
		return v, nil
	}
	if err := r.fill(); err != nil {
		return 0, errors.Wrap(err, "read byte compressed")
	}
	v := r.block[r.pos]
	r.pos++
	return v, nil
}

// Bool reads a boolean byte.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Byte()
	if err != nil {
		return false, errors.Wrap(err, "bool")
	}
	return v != 0, nil
}

// UVarInt reads an unsigned LEB128 varint.
func (r *Reader) UVarInt() (uint64, error) {
	var (
		x uint64
		s uint
	)
	for i := 0; i < binary.MaxVarintLen64; i++ {
		b, err := r.Byte()
		if err != nil {
			return 0, errors.Wrap(err, "varint")
		}
		if b < 0x80 {
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, errors.New("proto: varint overflows 64 bits")
}

// Int reads a varint-encoded length, rejecting values above math.MaxInt32.
func (r *Reader) Int() (int, error) {
	v, err := r.UVarInt()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, errors.Errorf("proto: length %d out of range", v)
	}
	return int(v), nil
}

// Str reads a length-prefixed UTF-8 string.
func (r *Reader) Str() (string, error) {
	n, err := r.Int()
	if err != nil {
		return "", errors.Wrap(err, "str length")
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return "", errors.Wrap(err, "str data")
	}
	return string(buf), nil
}

// Int8 reads a signed 8-bit integer.
func (r *Reader) Int8() (int8, error) {
	v, err := r.Byte()
	return int8(v), err
}

// UInt8 reads an unsigned 8-bit integer.
func (r *Reader) UInt8() (uint8, error) {
	return r.Byte()
}

// Int16 reads a little-endian signed 16-bit integer.
func (r *Reader) Int16() (int16, error) {
	v, err := r.UInt16()
	return int16(v), err
}

// UInt16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) UInt16() (uint16, error) {
	var buf [2]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, errors.Wrap(err, "uint16")
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// Int32 reads a little-endian signed 32-bit integer.
func (r *Reader) Int32() (int32, error) {
	v, err := r.UInt32()
	return int32(v), err
}

// UInt32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) UInt32() (uint32, error) {
	var buf [4]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, errors.Wrap(err, "uint32")
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Int64 reads a little-endian signed 64-bit integer.
func (r *Reader) Int64() (int64, error) {
	v, err := r.UInt64()
	return int64(v), err
}

// UInt64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) UInt64() (uint64, error) {
	var buf [8]byte
	if err := r.ReadFull(buf[:]); err != nil {
		return 0, errors.Wrap(err, "uint64")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Float32 reads a little-endian IEEE754 float32.
func (r *Reader) Float32() (float32, error) {
	v, err := r.UInt32()
	return math.Float32frombits(v), err
}

// Float64 reads a little-endian IEEE754 float64.
func (r *Reader) Float64() (float64, error) {
	v, err := r.UInt64()
	return math.Float64frombits(v), err
}

// PeekByte returns the byte at offset bytes ahead without consuming it.
// Only supported on the uncompressed path, matching the spec's use of
// peek to detect compressed-block framing before committing to it.
func (r *Reader) PeekByte(offset int) (byte, error) {
	buf, err := r.raw.Peek(offset + 1)
	if err != nil {
		return 0, errors.Wrap(err, "peek")
	}
	return buf[offset], nil
}

// TrySkipString advances past a length-prefixed string without allocating
// or returning its contents, used by the non-destructive scan pass.
func (r *Reader) TrySkipString() error {
	n, err := r.Int()
	if err != nil {
		return errors.Wrap(err, "skip string length")
	}
	return r.Discard(n)
}

// Discard advances n bytes without allocating or returning them, working
// across both the raw and decompressing paths.
func (r *Reader) Discard(n int) error {
	if n == 0 {
		return nil
	}
	if !r.compressed {
		if _, err := r.raw.Discard(n); err != nil {
			return errors.Wrap(err, "discard")
		}
		return nil
	}
	for n > 0 {
		if err := r.fill(); err != nil {
			return errors.Wrap(err, "discard compressed")
		}
		k := len(r.block) - r.pos
		if k > n {
			k = n
		}
		r.pos += k
		n -= k
	}
	return nil
}
