package proto

import "github.com/go-faster/errors"

// Block is BlockInfo, column count, row count, then per-column
// (name, type_spec[, custom_serialization_flag], payload). The
// enclosing table name (see ClientData) is not part of the block
// itself.
type Block struct {
	Info    BlockInfo
	Columns int
	Rows    int
	// Names/Types record the schema as the wire reported it, populated
	// by DecodeBlock; callers building an outgoing block via
	// EncodeBlock/WriteBlock supply an Input instead.
	Names []string
	Types []string
}

// End reports whether the block is the empty sentinel (0 columns, 0
// rows) used to mark end-of-client-data or request the INSERT schema.
func (b Block) End() bool { return b.Columns == 0 && b.Rows == 0 }

// DecodeBlock reads a block's header and, for each wire column, either
// decodes it into the matching entry of result (by name) or skips it
// via Registry if the caller did not ask for it. A nil result skips
// every column.
func DecodeBlock(r *Reader, revision int, result ResultSet) (Block, error) {
	var blk Block
	if err := blk.Info.Decode(r); err != nil {
		return blk, errors.Wrap(err, "block info")
	}
	cols, err := r.UVarInt()
	if err != nil {
		return blk, errors.Wrap(err, "column count")
	}
	rows, err := r.UVarInt()
	if err != nil {
		return blk, errors.Wrap(err, "row count")
	}
	blk.Columns = int(cols)
	blk.Rows = int(rows)
	blk.Names = make([]string, cols)
	blk.Types = make([]string, cols)

	for i := 0; i < int(cols); i++ {
		name, err := r.Str()
		if err != nil {
			return blk, errors.Wrapf(err, "column %d name", i)
		}
		typ, err := r.Str()
		if err != nil {
			return blk, errors.Wrapf(err, "column %d type", i)
		}
		blk.Names[i] = name
		blk.Types[i] = typ

		if FeatureCustomSerialization.In(revision) {
			flag, err := r.Byte()
			if err != nil {
				return blk, errors.Wrapf(err, "column %d serialization flag", i)
			}
			if flag != 0 {
				return blk, errors.Errorf("column %q: custom serialization not supported", name)
			}
		}

		if result != nil {
			if data, ok := result.resolve(name, typ); ok {
				if err := data.DecodeColumn(r, blk.Rows); err != nil {
					return blk, errors.Wrapf(err, "column %q", name)
				}
				continue
			}
		}
		spec, err := ParseColumnType(typ)
		if err != nil {
			return blk, errors.Wrapf(err, "column %q type", name)
		}
		if err := (Registry{}).Skip(r, spec, blk.Rows); err != nil {
			return blk, errors.Wrapf(err, "skip column %q", name)
		}
	}
	return blk, nil
}

// EncodeBlock writes a block header and every input column's payload
// into b.
func EncodeBlock(b *Buffer, revision int, input Input) error {
	info := defaultBlockInfo()
	info.Encode(b)
	rows := input.Rows()
	b.PutUVarInt(uint64(len(input)))
	b.PutUVarInt(uint64(rows))
	for _, col := range input {
		if col.Data.Rows() != rows {
			return errors.Errorf("column %q: %d rows, expected %d", col.Name, col.Data.Rows(), rows)
		}
		b.PutString(col.Name)
		b.PutString(string(col.Data.Type()))
		if FeatureCustomSerialization.In(revision) {
			b.PutByte(0)
		}
		col.Data.EncodeColumn(b)
	}
	return nil
}

// WriteBlock is EncodeBlock via the writer's own scratch buffer, so
// large blocks avoid a separate intermediate allocation.
func WriteBlock(w *Writer, revision int, input Input) error {
	var encErr error
	w.ChainBuffer(func(b *Buffer) {
		if err := EncodeBlock(b, revision, input); err != nil {
			encErr = err
		}
	})
	return encErr
}

// EncodeBlankBlock writes the empty sentinel block (0 columns, 0 rows).
func EncodeBlankBlock(b *Buffer) {
	defaultBlockInfo().Encode(b)
	b.PutUVarInt(0)
	b.PutUVarInt(0)
}
