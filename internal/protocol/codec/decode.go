package codec

import (
	"bytes"

	"github.com/danmuck/binfmt/internal/protocol/format"
)

func (c *Codec) decode(buf []byte, f *format.Format) (*Record, int, error) {
	if f == nil {
		return nil, 0, ErrNilFormat
	}
	r := reader{buf: buf, order: c.order}
	rec := newRecord(f.Len())
	for i := 0; i < f.Len(); i++ {
		s := f.At(i)
		start := r.off
		v, err := r.field(s)
		if err != nil {
			return nil, 0, fieldError(i, s, start, err)
		}
		if s.Kind == format.KindPadding {
			continue
		}
		rec.Set(s.Name, v)
	}
	return rec, r.off, nil
}

// field reads one value at the cursor. Padding returns a nil value.
func (r *reader) field(s format.Spec) (any, error) {
	switch s.Kind {
	case format.KindPadding:
		_, err := r.take(1)
		return nil, err
	case format.KindByte:
		return r.u8()
	case format.KindShort:
		v, err := r.u16()
		return int16(v), err
	case format.KindUShort:
		return r.u16()
	case format.KindInt:
		v, err := r.u32()
		return int32(v), err
	case format.KindUInt:
		return r.u32()
	case format.KindLong:
		v, err := r.u64()
		return int64(v), err
	case format.KindULong:
		return r.u64()
	case format.KindFloat:
		return r.f64()
	case format.KindFixedChars:
		if s.Size < 0 {
			return nil, ErrInvalidSize
		}
		b, err := r.take(s.Size)
		if err != nil {
			return nil, err
		}
		return decodeChars(b)
	case format.KindVarString:
		n, err := r.prefix(s.Prefix)
		if err != nil {
			return nil, err
		}
		b, err := r.takeLen(n)
		if err != nil {
			return nil, err
		}
		return decodeChars(b)
	case format.KindBinary:
		if s.Size <= 0 {
			return nil, ErrMissingSize
		}
		b, err := r.take(s.Size)
		if err != nil {
			return nil, err
		}
		return bytes.Clone(b), nil
	default:
		return nil, ErrUnsupportedKind
	}
}
