package proto

import (
	"net/netip"

	"github.com/go-faster/errors"
)

// ColIPv4 stores addresses as a little-endian UInt32.
type ColIPv4 struct {
	*NumericColumn[uint32]
}

func NewColIPv4() *ColIPv4 { return &ColIPv4{NewNumericColumn[uint32](ColumnTypeIPv4)} }

func (c *ColIPv4) Addr(i int) netip.Addr {
	v := c.Row(i)
	return netip.AddrFrom4([4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func (c *ColIPv4) AppendAddr(a netip.Addr) error {
	if !a.Is4() {
		return errors.Errorf("ipv4: %s is not a v4 address", a)
	}
	b := a.As4()
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	c.Append(v)
	return nil
}

// ColIPv6 stores addresses as 16 raw bytes in network byte order.
type ColIPv6 struct {
	*FixedBytesColumn
}

func NewColIPv6() *ColIPv6 { return &ColIPv6{NewFixedBytesColumn(16, ColumnTypeIPv6)} }

func (c *ColIPv6) Addr(i int) netip.Addr {
	var b [16]byte
	copy(b[:], c.Row(i))
	return netip.AddrFrom16(b)
}

func (c *ColIPv6) AppendAddr(a netip.Addr) error {
	if !a.Is6() && !a.Is4In6() {
		return errors.Errorf("ipv6: %s is not a v6 address", a)
	}
	b := a.As16()
	c.FixedBytesColumn.Append(b[:])
	return nil
}
