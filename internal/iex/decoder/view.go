// Package decoder implements IEX-TP segment framing and TOPS/DEEP message
// decoding.
package decoder

import (
	"encoding/binary"
	"fmt"
	"strings"

	"firestige.xyz/iexcap/internal/iex"
)

// view is a bounds-checked reader over one message body. A read past the end
// records the failure and yields zero instead of touching memory out of
// range; decode routines check err once after reading all fields.
type view struct {
	data []byte
	err  error
}

func newView(data []byte) *view {
	return &view{data: data}
}

func (v *view) fail(off, width int) {
	if v.err == nil {
		v.err = fmt.Errorf("%w: need %d bytes at offset %d, body has %d",
			iex.ErrBlockDecode, width, off, len(v.data))
	}
}

func (v *view) uint8At(off int) uint8 {
	if off < 0 || off+1 > len(v.data) {
		v.fail(off, 1)
		return 0
	}
	return v.data[off]
}

func (v *view) uint16At(off int) uint16 {
	if off < 0 || off+2 > len(v.data) {
		v.fail(off, 2)
		return 0
	}
	return binary.LittleEndian.Uint16(v.data[off:])
}

func (v *view) uint32At(off int) uint32 {
	if off < 0 || off+4 > len(v.data) {
		v.fail(off, 4)
		return 0
	}
	return binary.LittleEndian.Uint32(v.data[off:])
}

func (v *view) uint64At(off int) uint64 {
	if off < 0 || off+8 > len(v.data) {
		v.fail(off, 8)
		return 0
	}
	return binary.LittleEndian.Uint64(v.data[off:])
}

// priceAt reads an 8-byte signed fixed-point price (1/10000 units).
func (v *view) priceAt(off int) iex.Price {
	return iex.Price(v.uint64At(off))
}

// textAt reads width raw bytes and strips the trailing space padding. The
// conversion copies, so the result stays valid after the packet buffer is
// recycled.
func (v *view) textAt(off, width int) string {
	if off < 0 || off+width > len(v.data) {
		v.fail(off, width)
		return ""
	}
	return strings.TrimRight(string(v.data[off:off+width]), " ")
}
