package codec

import (
	"math"

	"github.com/danmuck/binfmt/internal/protocol/format"
)

func (c *Codec) encode(rec *Record, f *format.Format) ([]byte, error) {
	if f == nil {
		return nil, ErrNilFormat
	}
	w := writer{buf: make([]byte, 0, sizeHint(rec, f)), order: c.order}
	for i := 0; i < f.Len(); i++ {
		s := f.At(i)
		start := len(w.buf)
		var v any
		if s.Kind != format.KindPadding {
			var ok bool
			if v, ok = rec.Get(s.Name); !ok {
				return nil, fieldError(i, s, start, ErrMissingField)
			}
		}
		if err := w.field(s, v); err != nil {
			return nil, fieldError(i, s, start, err)
		}
	}
	return w.buf, nil
}

// maxSizeHint caps the up-front allocation; declared sizes are not trusted
// until each field is checked against its value.
const maxSizeHint = 64 << 10

// sizeHint is the exact output size for well-formed input, capped at
// maxSizeHint.
func sizeHint(rec *Record, f *format.Format) int {
	n := f.MinSize()
	if n >= maxSizeHint {
		return maxSizeHint
	}
	for i := 0; i < f.Len(); i++ {
		s := f.At(i)
		if s.Kind != format.KindVarString {
			continue
		}
		switch v, _ := rec.Get(s.Name); x := v.(type) {
		case string:
			n += len(x)
		case []byte:
			n += len(x)
		}
		if n >= maxSizeHint {
			return maxSizeHint
		}
	}
	return n
}

// field appends one value. Nothing is written when an error is returned.
func (w *writer) field(s format.Spec, v any) error {
	switch s.Kind {
	case format.KindPadding:
		w.u8(0)
	case format.KindByte:
		u, err := asUnsigned(v, math.MaxUint8)
		if err != nil {
			return err
		}
		w.u8(uint8(u))
	case format.KindShort:
		i, err := asSigned(v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		w.u16(uint16(i))
	case format.KindUShort:
		u, err := asUnsigned(v, math.MaxUint16)
		if err != nil {
			return err
		}
		w.u16(uint16(u))
	case format.KindInt:
		i, err := asSigned(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		w.u32(uint32(i))
	case format.KindUInt:
		u, err := asUnsigned(v, math.MaxUint32)
		if err != nil {
			return err
		}
		w.u32(uint32(u))
	case format.KindLong:
		i, err := asSigned(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		w.u64(uint64(i))
	case format.KindULong:
		u, err := asUnsigned(v, math.MaxUint64)
		if err != nil {
			return err
		}
		w.u64(u)
	case format.KindFloat:
		x, err := asFloat(v)
		if err != nil {
			return err
		}
		w.f64(x)
	case format.KindFixedChars:
		if s.Size < 0 || s.Size > math.MaxInt-len(w.buf) {
			return ErrInvalidSize
		}
		b, err := asChars(v)
		if err != nil {
			return err
		}
		w.padded(b, s.Size)
	case format.KindVarString:
		b, err := asChars(v)
		if err != nil {
			return err
		}
		if err := w.prefix(s.Prefix, len(b)); err != nil {
			return err
		}
		w.bytes(b)
	case format.KindBinary:
		if s.Size <= 0 {
			return ErrMissingSize
		}
		b, err := asBinary(v)
		if err != nil {
			return err
		}
		if len(b) != s.Size {
			return ErrSizeMismatch
		}
		w.bytes(b)
	default:
		return ErrUnsupportedKind
	}
	return nil
}
