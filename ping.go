package ch

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/chctl/ch-native/proto"
)

// Ping sends a Ping message and waits for the matching Pong, verifying
// the session is alive and Idle.
func (c *Client) Ping(ctx context.Context) error {
	if c.IsClosed() {
		return ErrClosed
	}
	c.writer.ChainBuffer(func(b *proto.Buffer) {
		proto.ClientCodePing.Encode(b)
	})
	if err := c.flush(ctx); err != nil {
		return errors.Wrap(err, "flush")
	}
	code, err := c.packet(ctx)
	if err != nil {
		return errors.Wrap(err, "packet")
	}
	if code != proto.ServerCodePong {
		return errors.Errorf("ping: unexpected response %q", code)
	}
	return nil
}
