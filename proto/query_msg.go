package proto

// Query is the client Query message body (field order matches the wire
// layout described in the protocol spec).
type Query struct {
	ID          string
	Info        ClientInfo
	Settings    []Setting
	Secret      string
	Stage       Stage
	Compression Compression
	Body        string
	Parameters  []Parameter
}

// EncodeAware writes the Query kind byte and body, gating the trailing
// parameters section on the negotiated revision.
func (q Query) EncodeAware(b *Buffer, revision int) {
	ClientCodeQuery.Encode(b)
	b.PutString(q.ID)

	q.Info.ProtocolVersion = revision
	q.Info.EncodeAware(b, revision)

	EncodeSettings(b, q.Settings)

	if FeatureInterserverSecret.In(revision) {
		b.PutString(q.Secret)
	}

	b.PutUVarInt(uint64(q.Stage))
	q.Compression.Encode(b)
	b.PutString(q.Body)

	if FeatureParameters.In(revision) {
		EncodeParameters(b, q.Parameters)
	}
}
