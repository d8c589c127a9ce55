package proto

// ProfileEventType distinguishes an incrementing counter from a
// point-in-time gauge in a ProfileEvents row.
type ProfileEventType int8

const (
	ProfileEventIncrement ProfileEventType = 1
	ProfileEventGauge     ProfileEventType = 2
)

// ProfileEvent is one row of a ProfileEvents block: a named counter
// snapshot, optionally scoped to a specific host/thread.
type ProfileEvent struct {
	HostName string
	Time     uint32
	ThreadID uint64
	Type     ProfileEventType
	Name     string
	Value    int64
}

// ProfileEvents is the column-bound view of the ProfileEvents server
// message. Result() hands the bound columns to DecodeBlock; All()
// converts the filled columns to typed rows afterwards.
type ProfileEvents struct {
	host     *ColStr
	time     *ColUInt32
	threadID *ColUInt64
	typ      *ColInt8
	name     *ColStr
	value    *ColInt64
}

// Result returns the column bindings for DecodeBlock to fill.
func (p *ProfileEvents) Result() Result {
	p.host = NewColStr()
	p.time = NewColUInt32()
	p.threadID = NewColUInt64()
	p.typ = NewColInt8()
	p.name = NewColStr()
	p.value = NewColInt64()
	return Result{
		{Name: "host_name", Data: p.host},
		{Name: "current_time", Data: p.time},
		{Name: "thread_id", Data: p.threadID},
		{Name: "type", Data: p.typ},
		{Name: "name", Data: p.name},
		{Name: "value", Data: p.value},
	}
}

// All converts the columns DecodeBlock filled into typed rows.
func (p *ProfileEvents) All() []ProfileEvent {
	n := p.host.Rows()
	out := make([]ProfileEvent, n)
	for i := 0; i < n; i++ {
		out[i] = ProfileEvent{
			HostName: p.host.Row(i),
			Time:     p.time.Row(i),
			ThreadID: p.threadID.Row(i),
			Type:     ProfileEventType(p.typ.Row(i)),
			Name:     p.name.Row(i),
			Value:    p.value.Row(i),
		}
	}
	return out
}

// Aggregate sums same-named counters across rows into a flat map.
func (p *ProfileEvents) Aggregate() map[string]int64 {
	out := make(map[string]int64)
	for _, e := range p.All() {
		out[e.Name] += e.Value
	}
	return out
}
