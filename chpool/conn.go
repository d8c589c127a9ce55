package chpool

import (
	"context"

	"github.com/jackc/puddle/v2"

	ch "github.com/chctl/ch-native"
)

// Conn is a Client leased from a Pool. Callers must Release or Close
// it when done; an un-Released Conn leaks a pool slot.
type Conn struct {
	res *puddle.Resource[*ch.Client]
}

// client exposes the underlying session for package-internal use and
// tests that need to assert on its state directly.
func (c *Conn) client() *ch.Client { return c.res.Value() }

// Do runs q against the leased session.
func (c *Conn) Do(ctx context.Context, q ch.Query) error {
	return c.client().Do(ctx, q)
}

// Ping checks that the leased session is alive.
func (c *Conn) Ping(ctx context.Context) error {
	return c.client().Ping(ctx)
}

// Release returns the Client to the pool for reuse, or destroys it if
// Do/Ping left it closed (fatal protocol error or a cancelled query).
func (c *Conn) Release() {
	if c.client().IsClosed() {
		c.res.Destroy()
		return
	}
	c.res.Release()
}

// Close closes the underlying Client and removes it from the pool.
func (c *Conn) Close() error {
	err := c.client().Close()
	c.res.Destroy()
	return err
}
