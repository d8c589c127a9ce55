package proto

import "github.com/go-faster/errors"

// BlockInfo carries the two optional block-level flags transmitted
// ahead of every Block: whether it is a totals/extremes "overflows" row
// and, for GROUP BY ... WITH TOTALS queries split across buckets, which
// bucket it belongs to.
type BlockInfo struct {
	IsOverflows bool
	BucketNum   int32
}

// defaultBlockInfo is what a BlockInfo decodes to when the server sends
// no fields at all (field_num 0 immediately).
func defaultBlockInfo() BlockInfo { return BlockInfo{BucketNum: -1} }

// Decode reads a field_num-tagged BlockInfo, terminated by a 0 field
// number; unknown field numbers are rejected rather than skipped, since
// a field we don't understand also has unknown width.
func (info *BlockInfo) Decode(r *Reader) error {
	*info = defaultBlockInfo()
	for {
		num, err := r.UVarInt()
		if err != nil {
			return errors.Wrap(err, "field num")
		}
		switch num {
		case 0:
			return nil
		case 1:
			v, err := r.Bool()
			if err != nil {
				return errors.Wrap(err, "is_overflows")
			}
			info.IsOverflows = v
		case 2:
			v, err := r.Int32()
			if err != nil {
				return errors.Wrap(err, "bucket_num")
			}
			info.BucketNum = v
		default:
			return errors.Errorf("block info: unknown field %d", num)
		}
	}
}

// Encode writes the two known fields followed by the field_num=0
// terminator.
func (info BlockInfo) Encode(b *Buffer) {
	b.PutUVarInt(1)
	b.PutBool(info.IsOverflows)
	b.PutUVarInt(2)
	b.PutInt32(info.BucketNum)
	b.PutUVarInt(0)
}
