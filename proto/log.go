package proto

// Log is one row of a server Log block (sent when the session
// requested server-side query logs, gated on FeatureServerLogs).
type Log struct {
	Time             uint32
	TimeMicroseconds uint32
	HostName         string
	QueryID          string
	ThreadID         uint64
	Priority         int8
	Source           string
	Text             string
}

// Logs is the column-bound view of a Log server message: a block with a
// fixed eight-column schema. Result() hands the bound columns to
// DecodeBlock; All() converts the filled columns to typed rows
// afterwards.
type Logs struct {
	time     *ColUInt32
	timeUs   *ColUInt32
	host     *ColStr
	queryID  *ColStr
	threadID *ColUInt64
	priority *ColInt8
	source   *ColStr
	text     *ColStr
}

// Result returns the column bindings for DecodeBlock to fill.
func (l *Logs) Result() Result {
	l.time = NewColUInt32()
	l.timeUs = NewColUInt32()
	l.host = NewColStr()
	l.queryID = NewColStr()
	l.threadID = NewColUInt64()
	l.priority = NewColInt8()
	l.source = NewColStr()
	l.text = NewColStr()
	return Result{
		{Name: "event_time", Data: l.time},
		{Name: "event_time_microseconds", Data: l.timeUs},
		{Name: "host_name", Data: l.host},
		{Name: "query_id", Data: l.queryID},
		{Name: "thread_id", Data: l.threadID},
		{Name: "priority", Data: l.priority},
		{Name: "source", Data: l.source},
		{Name: "text", Data: l.text},
	}
}

// All converts the columns DecodeBlock filled into typed rows.
func (l *Logs) All() []Log {
	n := l.time.Rows()
	out := make([]Log, n)
	for i := 0; i < n; i++ {
		out[i] = Log{
			Time:             l.time.Row(i),
			TimeMicroseconds: l.timeUs.Row(i),
			HostName:         l.host.Row(i),
			QueryID:          l.queryID.Row(i),
			ThreadID:         l.threadID.Row(i),
			Priority:         l.priority.Row(i),
			Source:           l.source.Row(i),
			Text:             l.text.Row(i),
		}
	}
	return out
}
