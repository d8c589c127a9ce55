package proto

// ClientCode is the kind byte of a client-to-server message.
type ClientCode byte

const (
	ClientCodeHello  ClientCode = 0
	ClientCodeQuery  ClientCode = 1
	ClientCodeData   ClientCode = 2
	ClientCodeCancel ClientCode = 3
	ClientCodePing   ClientCode = 4
)

func (c ClientCode) String() string {
	switch c {
	case ClientCodeHello:
		return "Hello"
	case ClientCodeQuery:
		return "Query"
	case ClientCodeData:
		return "Data"
	case ClientCodeCancel:
		return "Cancel"
	case ClientCodePing:
		return "Ping"
	default:
		return "Unknown"
	}
}

// Encode writes the kind byte to b.
func (c ClientCode) Encode(b *Buffer) {
	b.PutUVarInt(uint64(c))
}
