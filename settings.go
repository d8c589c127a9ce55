package ch

// Setting is a client- or query-scoped ClickHouse setting.
type Setting struct {
	Key       string
	Value     any
	Important bool
}
