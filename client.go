// Package ch implements a ClickHouse native protocol client: connect,
// negotiate, run queries and stream results or insert rows in bulk.
package ch

import (
	"context"
	"crypto/tls"
	"net"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chctl/ch-native/compress"
	"github.com/chctl/ch-native/proto"
)

// Options configure a new Client.
type Options struct {
	// Address is "host:port" of the ClickHouse server.
	Address string
	// Database selects the initial database; defaults to "default".
	Database string
	// User and Password authenticate the session.
	User     string
	Password string

	// TLS, if set, dials the connection over TLS using this config.
	TLS *tls.Config

	// Compression selects the on-wire compression method; defaults to
	// LZ4. Set to compress.None to disable compression.
	Compression compress.Method

	// Settings are applied to every query on this client, unless
	// overridden by the query's own Settings.
	Settings []Setting

	// QuotaKey is sent once during the handshake.
	QuotaKey string

	// DialTimeout bounds the TCP/TLS connect, independent of ctx.
	DialTimeout time.Duration

	// Logger receives structured diagnostics; defaults to zap.NewNop().
	Logger *zap.Logger

	// Tracer, if set, wraps every Do call in an OTel span.
	Tracer trace.Tracer
}

func (o *Options) setDefaults() {
	if o.Database == "" {
		o.Database = "default"
	}
	if o.Compression == 0 {
		o.Compression = compress.LZ4
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Client is a single ClickHouse native-protocol session: one TCP (or
// TLS) connection, one handshake, reused across queries while Idle.
type Client struct {
	conn   net.Conn
	reader *proto.Reader
	writer *proto.Writer

	lg *zap.Logger

	protocolVersion int
	version         Version
	server          string
	info            struct {
		User     string
		Database string
	}
	settings []Setting

	compression proto.Compression
	compressor  *compress.Writer

	otel   bool
	tracer trace.Tracer

	closed atomic.Bool
}

// Dial connects to a ClickHouse server and performs the handshake.
// The returned Client is Idle and ready for Do.
func Dial(ctx context.Context, opt Options) (*Client, error) {
	opt.setDefaults()

	dialer := &net.Dialer{Timeout: opt.DialTimeout}
	var (
		conn net.Conn
		err  error
	)
	if opt.TLS != nil {
		conn, err = tls.DialWithDialer(dialer, "tcp", opt.Address, opt.TLS)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", opt.Address)
	}
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}

	c := &Client{
		conn:     conn,
		lg:       opt.Logger,
		version:  clientVersion,
		server:   opt.Address,
		settings: opt.Settings,
		otel:     opt.Tracer != nil,
		tracer:   opt.Tracer,
	}
	c.info.User = opt.User
	c.info.Database = opt.Database
	c.reader = proto.NewReader(conn)
	c.writer = proto.NewWriter(conn, new(proto.Buffer))
	if opt.Compression != compress.None {
		c.compression = proto.CompressionEnabled
		c.compressor = compress.NewWriter()
		c.compressor.Method = opt.Compression
	} else {
		c.compression = proto.CompressionDisabled
	}

	if err := c.handshake(ctx, opt); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "handshake")
	}
	return c, nil
}

// handshake sends ClientHello, reads ServerHello, negotiates the
// session's protocol revision as min(client, server), and then sends
// the quota-key addendum if the negotiated revision requires one.
func (c *Client) handshake(ctx context.Context, opt Options) error {
	if err := c.applyDeadline(ctx); err != nil {
		return err
	}
	c.writer.ChainBuffer(func(b *proto.Buffer) {
		proto.ClientHello{
			Name:            c.version.Name,
			Major:           c.version.Major,
			Minor:           c.version.Minor,
			ProtocolVersion: clientProtocolVersion,
			Database:        opt.Database,
			User:            opt.User,
			Password:        opt.Password,
		}.Encode(b)
	})
	if _, err := c.writer.Flush(); err != nil {
		return errors.Wrap(err, "flush hello")
	}

	code, err := c.reader.UVarInt()
	if err != nil {
		return errors.Wrap(err, "read hello kind")
	}
	if proto.ServerCode(code) == proto.ServerCodeException {
		e, err := c.exception()
		if err != nil {
			return errors.Wrap(err, "decode exception")
		}
		return e
	}
	if proto.ServerCode(code) != proto.ServerCodeHello {
		return errors.Errorf("unexpected handshake response %q", proto.ServerCode(code))
	}

	var hello proto.ServerHello
	if err := hello.DecodeAware(c.reader, clientProtocolVersion); err != nil {
		return errors.Wrap(err, "decode hello")
	}
	revision := clientProtocolVersion
	if hello.Revision < revision {
		revision = hello.Revision
	}
	c.protocolVersion = revision
	c.version.Patch = hello.Patch
	c.server = hello.Name

	// HelloAddendum is sent after ServerHello, gated on the negotiated
	// revision (not the client's own max): the server only reads it once
	// it knows both sides speak WithAddendum, and it always expects one
	// (possibly empty) quota key once that revision is negotiated.
	if proto.FeatureAddendum.In(c.protocolVersion) {
		c.writer.ChainBuffer(func(b *proto.Buffer) {
			proto.HelloAddendum{QuotaKey: opt.QuotaKey}.Encode(b)
		})
		if _, err := c.writer.Flush(); err != nil {
			return errors.Wrap(err, "flush hello addendum")
		}
	}

	if ce := c.lg.Check(zap.DebugLevel, "Handshake"); ce != nil {
		ce.Write(
			zap.String("server", hello.Name),
			zap.Int("revision", revision),
			zap.String("timezone", hello.Timezone),
		)
	}
	return nil
}

func (c *Client) applyDeadline(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetWriteDeadline(dl)
	}
	return c.conn.SetWriteDeadline(time.Time{})
}

func (c *Client) applyReadDeadline(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetReadDeadline(dl)
	}
	return c.conn.SetReadDeadline(time.Time{})
}
