package proto

// ClientData precedes every client-sent Data block (used only for
// INSERT and external-data payloads); it names the target table, empty
// for the default.
type ClientData struct {
	TableName string
}

// EncodeAware writes the client data header. Revision is accepted for
// symmetry with other EncodeAware methods; no field is currently gated.
func (d ClientData) EncodeAware(b *Buffer, _ int) {
	b.PutString(d.TableName)
}
