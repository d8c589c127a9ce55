// Package proto implements the ClickHouse native wire protocol: varints,
// strings, fixed-width primitives, blocks, columns and client/server
// messages.
package proto

import (
	"encoding/binary"
	"math"

	"github.com/go-faster/errors"
)

// Buffer is an append-only scratch buffer for encoding wire messages.
type Buffer struct {
	Buf []byte
}

// Reset truncates the buffer, keeping the backing array.
func (b *Buffer) Reset() {
	b.Buf = b.Buf[:0]
}

// PutByte appends a single byte.
func (b *Buffer) PutByte(v byte) {
	b.Buf = append(b.Buf, v)
}

// PutBool appends a boolean as a single byte.
func (b *Buffer) PutBool(v bool) {
	if v {
		b.PutByte(1)
	} else {
		b.PutByte(0)
	}
}

// PutUVarInt appends v as an unsigned LEB128 varint.
func (b *Buffer) PutUVarInt(v uint64) {
	for v >= 0x80 {
		b.Buf = append(b.Buf, byte(v)|0x80)
		v >>= 7
	}
	b.Buf = append(b.Buf, byte(v))
}

// PutLen is an alias for PutUVarInt used at call sites that encode a
// length prefix, matching the teacher's naming for readability.
func (b *Buffer) PutLen(v int) {
	b.PutUVarInt(uint64(v))
}

// PutString appends a length-prefixed UTF-8 string.
func (b *Buffer) PutString(s string) {
	b.PutUVarInt(uint64(len(s)))
	b.Buf = append(b.Buf, s...)
}

// PutRaw appends raw bytes without any length prefix.
func (b *Buffer) PutRaw(v []byte) {
	b.Buf = append(b.Buf, v...)
}

// PutInt8 appends a signed 8-bit integer.
func (b *Buffer) PutInt8(v int8) { b.PutByte(byte(v)) }

// PutUInt8 appends an unsigned 8-bit integer.
func (b *Buffer) PutUInt8(v uint8) { b.PutByte(v) }

// PutInt16 appends a little-endian signed 16-bit integer.
func (b *Buffer) PutInt16(v int16) { b.PutUInt16(uint16(v)) }

// PutUInt16 appends a little-endian unsigned 16-bit integer.
func (b *Buffer) PutUInt16(v uint16) {
	b.Buf = binary.LittleEndian.AppendUint16(b.Buf, v)
}

// PutInt32 appends a little-endian signed 32-bit integer.
func (b *Buffer) PutInt32(v int32) { b.PutUInt32(uint32(v)) }

// PutUInt32 appends a little-endian unsigned 32-bit integer.
func (b *Buffer) PutUInt32(v uint32) {
	b.Buf = binary.LittleEndian.AppendUint32(b.Buf, v)
}

// PutInt64 appends a little-endian signed 64-bit integer.
func (b *Buffer) PutInt64(v int64) { b.PutUInt64(uint64(v)) }

// PutUInt64 appends a little-endian unsigned 64-bit integer.
func (b *Buffer) PutUInt64(v uint64) {
	b.Buf = binary.LittleEndian.AppendUint64(b.Buf, v)
}

// PutFloat32 appends a little-endian IEEE754 float32.
func (b *Buffer) PutFloat32(v float32) {
	b.PutUInt32(math.Float32bits(v))
}

// PutFloat64 appends a little-endian IEEE754 float64.
func (b *Buffer) PutFloat64(v float64) {
	b.PutUInt64(math.Float64bits(v))
}

// errShortBuffer is a sentinel for "incomplete, wait for more bytes". No
// read path returns it: Reader blocks on the underlying bufio.Reader until
// the bytes arrive, and a stream that ends early surfaces as an io error.
var errShortBuffer = errors.New("proto: short buffer")
