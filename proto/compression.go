package proto

// Compression is the per-query compression flag transmitted in the Query
// message body.
type Compression byte

const (
	CompressionDisabled Compression = 0
	CompressionEnabled  Compression = 1
)

func (c Compression) Encode(b *Buffer) {
	b.PutByte(byte(c))
}

// Interface identifies the client transport in ClientInfo.
type Interface byte

const (
	InterfaceTCP  Interface = 1
	InterfaceHTTP Interface = 2
)

// ClientQueryKind distinguishes an initial query from one issued on
// behalf of another server (distributed query forwarding).
type ClientQueryKind byte

const (
	ClientQueryInitial   ClientQueryKind = 1
	ClientQuerySecondary ClientQueryKind = 2
)

// Stage is the query processing stage requested from the server.
type Stage byte

const (
	StageFetchColumns     Stage = 0
	StageWithMergeableState Stage = 1
	StageComplete         Stage = 2
)
