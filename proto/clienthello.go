package proto

// ClientHello is the first message a client sends after connecting.
type ClientHello struct {
	Name            string
	Major           int
	Minor           int
	ProtocolVersion int
	Database        string
	User            string
	Password        string
}

// Encode writes the Hello kind byte and body.
func (c ClientHello) Encode(b *Buffer) {
	ClientCodeHello.Encode(b)
	b.PutString(c.Name)
	b.PutUVarInt(uint64(c.Major))
	b.PutUVarInt(uint64(c.Minor))
	b.PutUVarInt(uint64(c.ProtocolVersion))
	b.PutString(c.Database)
	b.PutString(c.User)
	b.PutString(c.Password)
}

// HelloAddendum carries the optional quota key sent after ClientHello once
// the negotiated revision supports it.
type HelloAddendum struct {
	QuotaKey string
}

// Encode writes the addendum body (no kind byte; it is a trailer, not a
// standalone message).
func (h HelloAddendum) Encode(b *Buffer) {
	b.PutString(h.QuotaKey)
}
