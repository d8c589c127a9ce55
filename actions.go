package ch

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/chctl/ch-native/proto"
)

// ErrClosed is returned by any operation attempted on a closed Client.
var ErrClosed = errors.New("ch: client closed")

// Exception is the error type surfaced for a server-reported query
// failure; it satisfies error via proto.Exception.
type Exception = proto.Exception

// IsException reports whether err is (or wraps) a server Exception.
func IsException(err error) bool { return proto.IsException(err) }

// ctxQueryKey is the context key under which Do stashes the current
// query's metrics accumulator for metricsInc to find.
type ctxQueryKey struct{}

// queryMetrics accumulates the counters surfaced as OTel span
// attributes once a query finishes.
type queryMetrics struct {
	BlocksSent      int
	BlocksReceived  int
	RowsReceived    int
	ColumnsReceived int
	Rows            int
	Bytes           int
}

func (c *Client) metricsInc(ctx context.Context, delta queryMetrics) {
	m, ok := ctx.Value(ctxQueryKey{}).(*queryMetrics)
	if !ok {
		return
	}
	m.BlocksSent += delta.BlocksSent
	m.BlocksReceived += delta.BlocksReceived
	m.RowsReceived += delta.RowsReceived
	if delta.ColumnsReceived > 0 {
		m.ColumnsReceived = delta.ColumnsReceived
	}
	m.Rows += delta.Rows
	m.Bytes += delta.Bytes
}

// encodeAware is implemented by client messages whose wire shape is
// gated by the negotiated protocol revision.
type encodeAware interface {
	EncodeAware(b *proto.Buffer, revision int)
}

// encode queues msg into the writer's scratch buffer.
func (c *Client) encode(msg encodeAware) {
	c.writer.ChainBuffer(func(b *proto.Buffer) {
		msg.EncodeAware(b, c.protocolVersion)
	})
}

// flush writes any queued bytes to the socket, respecting ctx
// cancellation via the connection's deadline.
func (c *Client) flush(ctx context.Context) error {
	if err := c.applyDeadline(ctx); err != nil {
		return err
	}
	if _, err := c.writer.Flush(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

// flushBuf writes buf directly to the socket, bypassing the writer's
// own scratch buffer; used by cancelQuery since it must never race with
// a concurrently in-flight encode of the main query goroutine.
func (c *Client) flushBuf(ctx context.Context, buf *proto.Buffer) error {
	if err := c.applyDeadline(ctx); err != nil {
		return err
	}
	if _, err := c.conn.Write(buf.Buf); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

// decodable is implemented by server messages read without a revision
// argument (ServerHello takes one via DecodeAware, Progress as a second
// Decode argument).
type decodable interface {
	Decode(r *proto.Reader) error
}

func (c *Client) decode(msg decodable) error {
	if err := msg.Decode(c.reader); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

// packet reads the next server message kind byte.
func (c *Client) packet(ctx context.Context) (proto.ServerCode, error) {
	if err := c.applyReadDeadline(ctx); err != nil {
		return 0, err
	}
	v, err := c.reader.UVarInt()
	if err != nil {
		return 0, errors.Wrap(err, "packet code")
	}
	code := proto.ServerCode(v)
	if ce := c.lg.Check(zap.DebugLevel, "Packet"); ce != nil {
		ce.Write(zap.Stringer("code", code))
	}
	return code, nil
}

func (c *Client) exception() (*proto.Exception, error) {
	var e proto.Exception
	if err := e.Decode(c.reader); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) progress() (proto.Progress, error) {
	var p proto.Progress
	if err := p.Decode(c.reader, c.protocolVersion); err != nil {
		return p, err
	}
	return p, nil
}

func (c *Client) profile() (proto.Profile, error) {
	var p proto.Profile
	if err := p.Decode(c.reader); err != nil {
		return p, err
	}
	return p, nil
}

// IsClosed reports whether the client has been closed, either
// explicitly or by a fatal protocol error.
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
