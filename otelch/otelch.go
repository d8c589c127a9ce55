// Package otelch provides OpenTelemetry span attribute helpers for the
// client's "Do" span, mirroring the teacher's own otelch package.
package otelch

import "go.opentelemetry.io/otel/attribute"

const prefix = "clickhouse."

// ProtocolVersion records the negotiated wire protocol revision.
func ProtocolVersion(v int) attribute.KeyValue {
	return attribute.Int(prefix+"protocol_version", v)
}

// QuotaKey records the query's quota key, if any.
func QuotaKey(v string) attribute.KeyValue {
	return attribute.String(prefix+"quota_key", v)
}

// QueryID records the query's ID.
func QueryID(v string) attribute.KeyValue {
	return attribute.String(prefix+"query_id", v)
}

// BlocksSent records the number of Data blocks the client wrote.
func BlocksSent(v int) attribute.KeyValue {
	return attribute.Int(prefix+"blocks_sent", v)
}

// BlocksReceived records the number of Data blocks the client read.
func BlocksReceived(v int) attribute.KeyValue {
	return attribute.Int(prefix+"blocks_received", v)
}

// RowsReceived records the total row count across received blocks.
func RowsReceived(v int) attribute.KeyValue {
	return attribute.Int(prefix+"rows_received", v)
}

// ColumnsReceived records the column count of the last received block.
func ColumnsReceived(v int) attribute.KeyValue {
	return attribute.Int(prefix+"columns_received", v)
}

// Rows records the cumulative Progress row count.
func Rows(v int) attribute.KeyValue {
	return attribute.Int(prefix+"rows", v)
}

// Bytes records the cumulative Progress byte count.
func Bytes(v int) attribute.KeyValue {
	return attribute.Int(prefix+"bytes", v)
}

// ErrorCode records a server Exception's numeric code.
func ErrorCode(v int) attribute.KeyValue {
	return attribute.Int(prefix+"error_code", v)
}

// ErrorName records a server Exception's name.
func ErrorName(v string) attribute.KeyValue {
	return attribute.String(prefix+"error_name", v)
}
