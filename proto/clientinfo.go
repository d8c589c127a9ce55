package proto

import "go.opentelemetry.io/otel/trace"

// ClientInfo describes the querying client, embedded in the Query message.
type ClientInfo struct {
	ProtocolVersion int
	Major           int
	Minor           int
	Patch           int
	Interface       Interface
	Query           ClientQueryKind

	InitialUser    string
	InitialQueryID string
	InitialAddress string

	OSUser         string
	ClientHostname string
	ClientName     string

	QuotaKey string

	Span trace.SpanContext
}

// EncodeAware writes the client info block, gating trailing fields on the
// negotiated revision.
func (c ClientInfo) EncodeAware(b *Buffer, revision int) {
	b.PutByte(byte(c.Query))
	b.PutString(c.InitialUser)
	b.PutString(c.InitialQueryID)
	b.PutString(c.InitialAddress)
	if FeatureClientWriteInfo.In(revision) {
		// initial_query_start_time_microseconds
		b.PutInt64(0)
	}
	b.PutByte(byte(c.Interface))
	b.PutString(c.OSUser)
	b.PutString(c.ClientHostname)
	b.PutString(c.ClientName)
	b.PutUVarInt(uint64(c.Major))
	b.PutUVarInt(uint64(c.Minor))
	b.PutUVarInt(uint64(c.ProtocolVersion))

	if FeatureQuotaKeyInClientInfo.In(revision) {
		b.PutString(c.QuotaKey)
	}
	if FeatureVersionPatch.In(revision) {
		b.PutUVarInt(uint64(c.Patch))
	}
	if FeatureOpenTelemetry.In(revision) {
		if c.Span.IsValid() {
			b.PutByte(1)
			traceID := c.Span.TraceID()
			spanID := c.Span.SpanID()
			b.PutRaw(traceID[:])
			b.PutRaw(spanID[:])
			b.PutString(c.Span.TraceState().String())
		} else {
			b.PutByte(0)
		}
	}
	if FeatureParameters.In(revision) {
		// distributed_depth
		b.PutUVarInt(0)
	}
}
