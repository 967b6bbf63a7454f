package codec

import (
	"encoding/binary"
	"math"

	"github.com/danmuck/binfmt/internal/protocol/format"
)

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func orderFor(littleEndian bool) byteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// reader walks buf from offset 0. off only moves forward and never passes
// len(buf).
type reader struct {
	buf   []byte
	off   int
	order byteOrder
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, ErrOutOfRange
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// takeLen is take for lengths read off the wire, which may exceed int.
func (r *reader) takeLen(n uint64) ([]byte, error) {
	if n > uint64(r.remaining()) {
		return nil, ErrOutOfRange
	}
	return r.take(int(n))
}

func (r *reader) u8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

func (r *reader) f64() (float64, error) {
	v, err := r.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// prefix reads a VarString length. The one-byte prefix has no byte order.
func (r *reader) prefix(p format.SizePrefix) (uint64, error) {
	switch p.Resolve() {
	case format.PrefixByte:
		v, err := r.u8()
		return uint64(v), err
	case format.PrefixUShort:
		v, err := r.u16()
		return uint64(v), err
	case format.PrefixUInt:
		v, err := r.u32()
		return uint64(v), err
	case format.PrefixULong:
		return r.u64()
	default:
		return 0, ErrUnsupportedPrefix
	}
}

// writer appends to buf; it has no fixed destination length.
type writer struct {
	buf   []byte
	order byteOrder
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16) { w.buf = w.order.AppendUint16(w.buf, v) }
func (w *writer) u32(v uint32) { w.buf = w.order.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64) { w.buf = w.order.AppendUint64(w.buf, v) }

func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }

// padded writes exactly n bytes of b, truncating or filling with NUL.
func (w *writer) padded(b []byte, n int) {
	if len(b) >= n {
		w.buf = append(w.buf, b[:n]...)
		return
	}
	w.buf = append(w.buf, b...)
	for i := len(b); i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

func (w *writer) prefix(p format.SizePrefix, n int) error {
	length := uint64(n)
	if length > p.Max() {
		return ErrLengthOverflow
	}
	switch p.Resolve() {
	case format.PrefixByte:
		w.u8(uint8(length))
	case format.PrefixUShort:
		w.u16(uint16(length))
	case format.PrefixUInt:
		w.u32(uint32(length))
	case format.PrefixULong:
		w.u64(length)
	default:
		return ErrUnsupportedPrefix
	}
	return nil
}
