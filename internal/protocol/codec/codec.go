package codec

import (
	"time"

	"github.com/danmuck/binfmt/internal/protocol/format"
	"github.com/rs/zerolog"
)

// Op names a codec direction for observers.
type Op string

const (
	OpDecode Op = "decode"
	OpEncode Op = "encode"
)

// Observer is told about every completed call. n is the number of bytes
// consumed (decode) or produced (encode); it is 0 when err is non-nil.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveCodec(op Op, formatName string, n int, elapsed time.Duration, err error)
}

// Codec decodes and encodes with one fixed byte order. A Codec holds no
// per-call state and may be shared between goroutines.
type Codec struct {
	littleEndian bool
	order        byteOrder
	log          zerolog.Logger
	observer     Observer
}

type Option func(*Codec)

// WithLogger sets the logger used for per-call debug and error lines.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Codec) { c.log = l }
}

// WithObserver registers o to receive call results.
func WithObserver(o Observer) Option {
	return func(c *Codec) { c.observer = o }
}

// New returns a codec for the given byte order.
func New(littleEndian bool, opts ...Option) *Codec {
	c := &Codec{
		littleEndian: littleEndian,
		order:        orderFor(littleEndian),
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) LittleEndian() bool { return c.littleEndian }

// Decode reads buf according to f. Bytes left over after the last field are
// ignored.
func Decode(buf []byte, f *format.Format, littleEndian bool) (*Record, error) {
	return New(littleEndian).Decode(buf, f)
}

// Encode writes rec according to f into a new buffer.
func Encode(rec *Record, f *format.Format, littleEndian bool) ([]byte, error) {
	return New(littleEndian).Encode(rec, f)
}

// Decode reads buf according to f. On error no record is returned.
func (c *Codec) Decode(buf []byte, f *format.Format) (*Record, error) {
	rec, _, err := c.DecodeN(buf, f)
	return rec, err
}

// DecodeN is Decode that also reports how many bytes the format consumed.
func (c *Codec) DecodeN(buf []byte, f *format.Format) (*Record, int, error) {
	start := time.Now()
	c.log.Debug().
		Str("format", f.Name()).
		Int("fields", f.Len()).
		Int("len", len(buf)).
		Bool("little_endian", c.littleEndian).
		Msg("codec.Decode")

	rec, n, err := c.decode(buf, f)
	if err != nil {
		c.log.Error().Err(err).Str("format", f.Name()).Msg("codec.Decode failed")
		c.observe(OpDecode, f, 0, start, err)
		return nil, 0, err
	}
	c.observe(OpDecode, f, n, start, nil)
	return rec, n, nil
}

// Encode writes rec according to f. Every named field must be present in
// rec; padding fields are written as a zero byte. On error no bytes are
// returned.
func (c *Codec) Encode(rec *Record, f *format.Format) ([]byte, error) {
	start := time.Now()
	c.log.Debug().
		Str("format", f.Name()).
		Int("fields", f.Len()).
		Int("values", rec.Len()).
		Bool("little_endian", c.littleEndian).
		Msg("codec.Encode")

	out, err := c.encode(rec, f)
	if err != nil {
		c.log.Error().Err(err).Str("format", f.Name()).Msg("codec.Encode failed")
		c.observe(OpEncode, f, 0, start, err)
		return nil, err
	}
	c.observe(OpEncode, f, len(out), start, nil)
	return out, nil
}

func (c *Codec) observe(op Op, f *format.Format, n int, start time.Time, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveCodec(op, f.Name(), n, time.Since(start), err)
}
