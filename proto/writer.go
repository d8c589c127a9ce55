package proto

import (
	"io"

	"github.com/go-faster/errors"
)

// Writer buffers outgoing wire data into a pooled Buffer and flushes it to
// an underlying io.Writer in one logical write.
type Writer struct {
	w   io.Writer
	buf *Buffer
}

// NewWriter creates a Writer flushing into w, using buf as scratch space.
func NewWriter(w io.Writer, buf *Buffer) *Writer {
	if buf == nil {
		buf = new(Buffer)
	}
	return &Writer{w: w, buf: buf}
}

// ChainBuffer runs f against the writer's scratch buffer, appending to any
// bytes already queued. Used to compose a message body without an
// intermediate allocation.
func (w *Writer) ChainBuffer(f func(b *Buffer)) {
	f(w.buf)
}

// Flush writes the queued bytes to the underlying writer and resets the
// scratch buffer.
func (w *Writer) Flush() (int, error) {
	if len(w.buf.Buf) == 0 {
		return 0, nil
	}
	n, err := w.w.Write(w.buf.Buf)
	if err != nil {
		return n, errors.Wrap(err, "write")
	}
	if n != len(w.buf.Buf) {
		return n, errors.New("proto: short write")
	}
	w.buf.Reset()
	return n, nil
}
