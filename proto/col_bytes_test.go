package proto

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func newByte128(v int) []byte {
	row := make([]byte, 128)
	row[0] = byte(v)
	return row
}

func TestFixedBytesColumn_DecodeColumn(t *testing.T) {
	t.Parallel()
	const rows = 50
	data := NewFixedBytesColumn(128, ColumnTypeFixedString.With("128"))
	for i := 0; i < rows; i++ {
		v := newByte128(i)
		data.Append(v)
		require.Equal(t, v, data.Row(i))
	}

	var buf Buffer
	data.EncodeColumn(&buf)

	t.Run("Ok", func(t *testing.T) {
		r := NewReader(bytes.NewReader(buf.Buf))

		dec := NewFixedBytesColumn(128, ColumnTypeFixedString.With("128"))
		require.NoError(t, dec.DecodeColumn(r, rows))
		require.Equal(t, rows, dec.Rows())
		for i := 0; i < rows; i++ {
			require.Equal(t, data.Row(i), dec.Row(i))
		}
		dec.Reset()
		require.Equal(t, 0, dec.Rows())
		require.Equal(t, ColumnTypeFixedString.With("128"), dec.Type())
	})
	t.Run("ZeroRows", func(t *testing.T) {
		r := NewReader(bytes.NewReader(nil))
		dec := NewFixedBytesColumn(128, ColumnTypeFixedString.With("128"))
		require.NoError(t, dec.DecodeColumn(r, 0))
	})
	t.Run("EOF", func(t *testing.T) {
		r := NewReader(bytes.NewReader(nil))
		dec := NewFixedBytesColumn(128, ColumnTypeFixedString.With("128"))
		require.ErrorIs(t, dec.DecodeColumn(r, rows), io.EOF)
	})
	t.Run("WriteColumn", checkWriteColumn(data))
}

func BenchmarkFixedBytesColumn_DecodeColumn(b *testing.B) {
	const rows = 1_000
	data := NewFixedBytesColumn(128, ColumnTypeFixedString.With("128"))
	for i := 0; i < rows; i++ {
		data.Append(newByte128(i))
	}

	var buf Buffer
	data.EncodeColumn(&buf)

	br := bytes.NewReader(buf.Buf)
	r := NewReader(br)

	dec := NewFixedBytesColumn(128, ColumnTypeFixedString.With("128"))
	if err := dec.DecodeColumn(r, rows); err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(buf.Buf)))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		br.Reset(buf.Buf)
		r.raw.Reset(br)
		dec.Reset()
		if err := dec.DecodeColumn(r, rows); err != nil {
			b.Fatal(err)
		}
	}
}
