// Package chpool pools ch.Client sessions so callers can Acquire an
// Idle connection, run queries, and Release it for reuse instead of
// dialing and handshaking on every request.
package chpool

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/puddle/v2"

	ch "github.com/chctl/ch-native"
)

// Options configure a Pool.
type Options struct {
	// ClientOptions dials every pooled Client; Address, User, Password
	// and friends are shared across the whole pool.
	ClientOptions ch.Options
	// MaxConns bounds how many sockets the pool keeps open at once.
	// Defaults to 10.
	MaxConns int32
}

func (o *Options) setDefaults() {
	if o.MaxConns <= 0 {
		o.MaxConns = 10
	}
}

// Pool is a fixed-capacity pool of ClickHouse sessions. Connections are
// dialed lazily on first Acquire and handed out one at a time.
//
// A leased Client that is closed (by a fatal protocol error or a
// cancelled query, see the teacher's cancelQuery) is never returned to
// the pool; Conn.Release destroys it and a fresh one is dialed on the
// next Acquire that needs it.
type Pool struct {
	pool *puddle.Pool[*ch.Client]
}

// New creates a Pool. It does not dial any connection itself.
func New(ctx context.Context, opt Options) (*Pool, error) {
	opt.setDefaults()
	constructor := func(ctx context.Context) (*ch.Client, error) {
		return ch.Dial(ctx, opt.ClientOptions)
	}
	destructor := func(c *ch.Client) {
		_ = c.Close()
	}
	pool, err := puddle.NewPool(&puddle.Config[*ch.Client]{
		Constructor: constructor,
		Destructor:  destructor,
		MaxSize:     opt.MaxConns,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new puddle pool")
	}
	return &Pool{pool: pool}, nil
}

// Acquire leases an Idle Client, dialing one if the pool has spare
// capacity and none are idle, or blocking until one is Released.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	for {
		res, err := p.pool.Acquire(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "acquire")
		}
		if res.Value().IsClosed() {
			// Left behind by a prior cancellation or fatal error; drop
			// it and try again rather than handing out a dead socket.
			res.Destroy()
			continue
		}
		return &Conn{res: res}, nil
	}
}

// Stat reports the pool's current size and idle/acquired counts.
func (p *Pool) Stat() *puddle.Stat {
	return p.pool.Stat()
}

// Close closes every idle connection and rejects further Acquire
// calls once all leased Conns have been Released or Closed.
func (p *Pool) Close() {
	p.pool.Close()
}
