package tlv

import (
	"errors"
	"fmt"

	"github.com/danmuck/binfmt/internal/protocol/codec"
	"github.com/danmuck/binfmt/internal/protocol/format"
)

const HeaderLen = 7

var (
	ErrShortFieldHeader = errors.New("tlv: short field header")
	ErrShortFieldValue  = errors.New("tlv: short field value")
)

// Type IDs from tlv contract.
const (
	TypeU8     uint8 = 1
	TypeU16    uint8 = 2
	TypeU32    uint8 = 3
	TypeU64    uint8 = 4
	TypeBool   uint8 = 5
	TypeString uint8 = 6
	TypeBytes  uint8 = 7
)

// Field is one decoded TLV field.
type Field struct {
	ID    uint16
	Type  uint8
	Value []byte
}

var headerFormat = format.New("tlv.field").UShort("id").Byte("type").UInt("length")

var wire = codec.New(false)

// HeaderFormat returns the big-endian layout of a field header. The value
// body follows it and is length bytes long.
func HeaderFormat() *format.Format {
	return format.FromSpecs(headerFormat.Name(), headerFormat.Fields())
}

func EncodeField(f Field) ([]byte, error) {
	rec := codec.NewRecord().
		Set("id", f.ID).
		Set("type", f.Type).
		Set("length", len(f.Value))
	head, err := wire.Encode(rec, headerFormat)
	if err != nil {
		return nil, fmt.Errorf("tlv: field %d: %w", f.ID, err)
	}
	return append(head, f.Value...), nil
}

func DecodeFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0)
	i := 0
	for i < len(payload) {
		rec, n, err := wire.DecodeN(payload[i:], headerFormat)
		if errors.Is(err, codec.ErrOutOfRange) {
			return nil, ErrShortFieldHeader
		}
		if err != nil {
			return nil, err
		}
		id, err := codec.Field[uint16](rec, "id")
		if err != nil {
			return nil, err
		}
		typeID, err := codec.Field[uint8](rec, "type")
		if err != nil {
			return nil, err
		}
		l, err := codec.Field[uint32](rec, "length")
		if err != nil {
			return nil, err
		}
		i += n
		if uint32(len(payload)-i) < l {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+int(l)])
		i += int(l)
		fields = append(fields, Field{ID: id, Type: typeID, Value: val})
	}
	return fields, nil
}

func EncodeFields(fields []Field) ([]byte, error) {
	out := make([]byte, 0)
	for _, f := range fields {
		b, err := EncodeField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func GetField(fields []Field, id uint16) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func MustType(f Field, expected uint8) error {
	if f.Type != expected {
		return fmt.Errorf("tlv: field %d type mismatch: got %d want %d", f.ID, f.Type, expected)
	}
	return nil
}

// U32FromBytes reads a big-endian uint32 value body.
func U32FromBytes(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("tlv: invalid u32 length: %d", len(b))
	}
	rec, err := wire.Decode(b, u32Format)
	if err != nil {
		return 0, err
	}
	return codec.Field[uint32](rec, "v")
}

var u32Format = format.New("tlv.u32").UInt("v")
