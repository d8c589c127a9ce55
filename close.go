package ch

// Close marks the client closed and closes the underlying connection.
// Safe to call more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}
