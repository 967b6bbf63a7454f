package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/binfmt/internal/protocol/codec"
	"github.com/danmuck/binfmt/internal/protocol/format"
)

const (
	FixedHeaderLen uint16 = 32
	FlagHasAuth    uint32 = 0x01
	FlagIsResponse uint32 = 0x02
	FlagIsError    uint32 = 0x04
)

var (
	ErrShortHeader       = errors.New("frame: short fixed header")
	ErrHeaderLenTooSmall = errors.New("frame: header_len smaller than fixed header")
	ErrHeaderLenMismatch = errors.New("frame: auth present but header_len has no auth bytes")
	ErrPayloadTooLarge   = errors.New("frame: payload too large")
	ErrAuthTooLarge      = errors.New("frame: auth too large")
)

// Header is the fixed wire header.
type Header struct {
	Magic       uint32
	Version     uint16
	HeaderLen   uint16
	MessageID   uint64
	MessageType uint32
	Flags       uint32
	PayloadLen  uint64
}

// Frame is one complete wire message.
type Frame struct {
	Header  Header
	Auth    []byte
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxAuthBytes    uint64
	MaxPayloadBytes uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxAuthBytes:    64 * 1024,
		MaxPayloadBytes: 8 * 1024 * 1024,
	}
}

var headerFormat = format.New("frame.header").
	UInt("magic").
	UShort("version").
	UShort("header_len").
	ULong("message_id").
	UInt("message_type").
	UInt("flags").
	ULong("payload_len")

var headerCodec = codec.New(false)

// HeaderFormat returns the big-endian layout of the fixed header.
func HeaderFormat() *format.Format {
	return format.FromSpecs(headerFormat.Name(), headerFormat.Fields())
}

func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Frame{}, err
	}

	if h.HeaderLen < FixedHeaderLen {
		return Frame{}, ErrHeaderLenTooSmall
	}

	authLen := uint64(h.HeaderLen - FixedHeaderLen)
	if h.Flags&FlagHasAuth != 0 && authLen == 0 {
		return Frame{}, ErrHeaderLenMismatch
	}
	if authLen > limits.MaxAuthBytes {
		return Frame{}, ErrAuthTooLarge
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	auth := make([]byte, authLen)
	if authLen > 0 {
		if _, err := io.ReadFull(r, auth); err != nil {
			return Frame{}, err
		}
	}

	payload := make([]byte, h.PayloadLen)
	if h.PayloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, err
		}
	}

	return Frame{Header: h, Auth: auth, Payload: payload}, nil
}

func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	authLen := uint64(len(f.Auth))
	payloadLen := uint64(len(f.Payload))
	if authLen > limits.MaxAuthBytes || authLen > uint64(^uint16(0)-FixedHeaderLen) {
		return ErrAuthTooLarge
	}
	if payloadLen > limits.MaxPayloadBytes {
		return ErrPayloadTooLarge
	}

	h := f.Header
	h.HeaderLen = FixedHeaderLen + uint16(authLen)
	h.PayloadLen = payloadLen
	if authLen > 0 {
		h.Flags |= FlagHasAuth
	} else {
		h.Flags &^= FlagHasAuth
	}

	hb, err := EncodeHeader(h)
	if err != nil {
		return err
	}
	if _, err := w.Write(hb); err != nil {
		return err
	}
	if authLen > 0 {
		if _, err := w.Write(f.Auth); err != nil {
			return err
		}
	}
	if payloadLen > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return err
		}
	}
	return nil
}

// HeaderRecord converts h to a record laid out by HeaderFormat.
func HeaderRecord(h Header) *codec.Record {
	return codec.NewRecord().
		Set("magic", h.Magic).
		Set("version", h.Version).
		Set("header_len", h.HeaderLen).
		Set("message_id", h.MessageID).
		Set("message_type", h.MessageType).
		Set("flags", h.Flags).
		Set("payload_len", h.PayloadLen)
}

func EncodeHeader(h Header) ([]byte, error) {
	buf, err := headerCodec.Encode(HeaderRecord(h), headerFormat)
	if err != nil {
		return nil, fmt.Errorf("frame: encode header: %w", err)
	}
	return buf, nil
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != int(FixedHeaderLen) {
		return Header{}, fmt.Errorf("frame: invalid fixed header length: %d", len(b))
	}
	rec, err := headerCodec.Decode(b, headerFormat)
	if err != nil {
		return Header{}, fmt.Errorf("frame: decode header: %w", err)
	}
	return headerFromRecord(rec)
}

func headerFromRecord(rec *codec.Record) (Header, error) {
	var (
		h   Header
		err error
	)
	if h.Magic, err = codec.Field[uint32](rec, "magic"); err != nil {
		return Header{}, err
	}
	if h.Version, err = codec.Field[uint16](rec, "version"); err != nil {
		return Header{}, err
	}
	if h.HeaderLen, err = codec.Field[uint16](rec, "header_len"); err != nil {
		return Header{}, err
	}
	if h.MessageID, err = codec.Field[uint64](rec, "message_id"); err != nil {
		return Header{}, err
	}
	if h.MessageType, err = codec.Field[uint32](rec, "message_type"); err != nil {
		return Header{}, err
	}
	if h.Flags, err = codec.Field[uint32](rec, "flags"); err != nil {
		return Header{}, err
	}
	if h.PayloadLen, err = codec.Field[uint64](rec, "payload_len"); err != nil {
		return Header{}, err
	}
	return h, nil
}
