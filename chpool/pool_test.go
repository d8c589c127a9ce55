package chpool

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ch "github.com/chctl/ch-native"
	"github.com/chctl/ch-native/proto"
)

// chAddr is the test server address, overridable for CI environments
// that don't run ClickHouse on localhost.
func chAddr() string {
	if v := os.Getenv("CH_NATIVE_TEST_ADDR"); v != "" {
		return v
	}
	return "localhost:9000"
}

// PoolConn builds a small Pool against the test server, closing it
// when the test ends.
func PoolConn(t *testing.T) *Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := New(ctx, Options{
		ClientOptions: ch.Options{Address: chAddr()},
		MaxConns:      5,
	})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

// testDo runs a trivial scalar query over conn and checks the result.
func testDo(t *testing.T, conn *Conn) {
	t.Helper()
	var result proto.ColInt32
	err := conn.Do(context.Background(), ch.Query{
		Body:   "SELECT 1",
		Result: proto.Result{{Name: "1", Data: &result}},
	})
	require.NoError(t, err)
	require.Equal(t, []int32{1}, result.Raw())
}
