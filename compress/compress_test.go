package compress

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	for _, m := range []Method{LZ4, ZSTD} {
		m := m
		t.Run(m.String(), func(t *testing.T) {
			t.Parallel()
			data := bytes.Repeat([]byte("clickhouse native protocol "), 200)

			w := NewWriter()
			require.NoError(t, w.CompressMethod(m, data))

			r := NewReader(bufio.NewReader(bytes.NewReader(w.Data)))
			require.NoError(t, r.ReadCompressed())
			require.Equal(t, data, r.Data())
		})
	}
}

func TestReaderDetectsCorruption(t *testing.T) {
	data := []byte("hello clickhouse")
	w := NewWriter()
	require.NoError(t, w.CompressMethod(LZ4, data))

	corrupt := append([]byte(nil), w.Data...)
	corrupt[len(corrupt)-1] ^= 0xFF

	r := NewReader(bufio.NewReader(bytes.NewReader(corrupt)))
	err := r.ReadCompressed()
	require.Error(t, err)
	var bad *CorruptedDataErr
	require.ErrorAs(t, err, &bad)
}
