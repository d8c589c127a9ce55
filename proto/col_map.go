package proto

// Pair is one key/value entry of a Map column.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// pairColumn implements ColumnOf[Pair[K,V]] over two independently coded
// columns, giving Map(K,V) the identical wire shape as Array(Tuple(K,V)).
type pairColumn[K, V any] struct {
	keys   ColumnOf[K]
	values ColumnOf[V]
}

func (p *pairColumn[K, V]) Type() ColumnType { return ColumnTypeTuple.Sub(p.keys.Type() + "," + p.values.Type()) }
func (p *pairColumn[K, V]) Rows() int        { return p.keys.Rows() }
func (p *pairColumn[K, V]) Reset() {
	p.keys.Reset()
	p.values.Reset()
}
func (p *pairColumn[K, V]) Row(i int) Pair[K, V] {
	return Pair[K, V]{Key: p.keys.Row(i), Value: p.values.Row(i)}
}
func (p *pairColumn[K, V]) Append(v Pair[K, V]) {
	p.keys.Append(v.Key)
	p.values.Append(v.Value)
}
func (p *pairColumn[K, V]) DecodeColumn(r *Reader, rows int) error {
	if err := p.keys.DecodeColumn(r, rows); err != nil {
		return err
	}
	return p.values.DecodeColumn(r, rows)
}
func (p *pairColumn[K, V]) EncodeColumn(b *Buffer) {
	p.keys.EncodeColumn(b)
	p.values.EncodeColumn(b)
}

// ColMap is Map(K,V): on the wire, identical to Array(Tuple(K,V)).
type ColMap[K, V any] struct {
	*ColArr[Pair[K, V]]
	kv *pairColumn[K, V]
}

// NewMap wraps independently-typed key/value columns as Map(K,V).
func NewMap[K, V any](keys ColumnOf[K], values ColumnOf[V]) *ColMap[K, V] {
	kv := &pairColumn[K, V]{keys: keys, values: values}
	return &ColMap[K, V]{ColArr: NewArray[Pair[K, V]](kv), kv: kv}
}

func (c *ColMap[K, V]) Type() ColumnType {
	return ColumnTypeMap.Sub(c.kv.keys.Type() + "," + c.kv.values.Type())
}
