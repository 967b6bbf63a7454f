package format

import "fmt"

// Kind identifies how a field is laid out on the wire.
type Kind uint8

// Field kinds. The zero value is never produced by the builder.
const (
	KindInvalid Kind = iota
	KindByte
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindFloat
	KindFixedChars
	KindVarString
	KindBinary
	KindPadding
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindByte:       "byte",
	KindShort:      "short",
	KindUShort:     "ushort",
	KindInt:        "int",
	KindUInt:       "uint",
	KindLong:       "long",
	KindULong:      "ulong",
	KindFloat:      "float",
	KindFixedChars: "fixed",
	KindVarString:  "string",
	KindBinary:     "binary",
	KindPadding:    "pad",
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindByte; k <= KindPadding; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindByte && k <= KindPadding
}

// Width returns the fixed number of bytes a field of kind k occupies.
// FixedChars and Binary take their width from the spec size; VarString
// has no fixed width and reports false.
func (k Kind) Width() (int, bool) {
	switch k {
	case KindByte, KindPadding:
		return 1, true
	case KindShort, KindUShort:
		return 2, true
	case KindInt, KindUInt:
		return 4, true
	case KindLong, KindULong, KindFloat:
		return 8, true
	default:
		return 0, false
	}
}

// SizePrefix selects the integer width of a VarString length prefix.
type SizePrefix uint8

// Size prefixes. PrefixDefault resolves to PrefixULong.
const (
	PrefixDefault SizePrefix = iota
	PrefixByte
	PrefixUShort
	PrefixUInt
	PrefixULong
)

// Resolve maps PrefixDefault to PrefixULong.
func (p SizePrefix) Resolve() SizePrefix {
	if p == PrefixDefault {
		return PrefixULong
	}
	return p
}

// Width returns the encoded width of the prefix in bytes, or 0 for an
// unknown prefix.
func (p SizePrefix) Width() int {
	switch p.Resolve() {
	case PrefixByte:
		return 1
	case PrefixUShort:
		return 2
	case PrefixUInt:
		return 4
	case PrefixULong:
		return 8
	default:
		return 0
	}
}

// Max returns the largest body length the prefix can describe.
func (p SizePrefix) Max() uint64 {
	switch p.Resolve() {
	case PrefixByte:
		return 0xFF
	case PrefixUShort:
		return 0xFFFF
	case PrefixUInt:
		return 0xFFFFFFFF
	default:
		return ^uint64(0)
	}
}

func (p SizePrefix) String() string {
	switch p {
	case PrefixDefault:
		return "default"
	case PrefixByte:
		return "byte"
	case PrefixUShort:
		return "ushort"
	case PrefixUInt:
		return "uint"
	case PrefixULong:
		return "ulong"
	default:
		return fmt.Sprintf("prefix(%d)", uint8(p))
	}
}
