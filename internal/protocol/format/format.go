package format

import (
	"errors"
	"fmt"
	"math"
)

// Spec declares one field of a Format.
type Spec struct {
	Name   string
	Kind   Kind
	Size   int        // FixedChars and Binary only
	Prefix SizePrefix // VarString only
}

func (s Spec) String() string {
	switch s.Kind {
	case KindPadding:
		return "pad"
	case KindFixedChars, KindBinary:
		return fmt.Sprintf("%s %s[%d]", s.Kind, s.Name, s.Size)
	case KindVarString:
		return fmt.Sprintf("%s %s<%s>", s.Kind, s.Name, s.Prefix.Resolve())
	default:
		return fmt.Sprintf("%s %s", s.Kind, s.Name)
	}
}

// Format is an ordered list of field specs. Each builder method appends one
// spec and returns the same Format so declarations can be chained:
//
//	f := format.New("greeting").Byte("flag").UShort("count").VarString("name", format.PrefixByte)
//
// Nothing is validated while building; the codec reports bad sizes when the
// format is used. Call Validate to check eagerly.
type Format struct {
	name  string
	specs []Spec
}

// New returns an empty format. The name is only used in logs and metrics.
func New(name string) *Format {
	return &Format{name: name}
}

// FromSpecs builds a format from an existing spec list.
func FromSpecs(name string, specs []Spec) *Format {
	f := &Format{name: name, specs: make([]Spec, len(specs))}
	copy(f.specs, specs)
	return f
}

// Name returns the descriptive name given to New.
func (f *Format) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

func (f *Format) add(s Spec) *Format {
	f.specs = append(f.specs, s)
	return f
}

func (f *Format) Byte(name string) *Format   { return f.add(Spec{Name: name, Kind: KindByte}) }
func (f *Format) Short(name string) *Format  { return f.add(Spec{Name: name, Kind: KindShort}) }
func (f *Format) UShort(name string) *Format { return f.add(Spec{Name: name, Kind: KindUShort}) }
func (f *Format) Int(name string) *Format    { return f.add(Spec{Name: name, Kind: KindInt}) }
func (f *Format) UInt(name string) *Format   { return f.add(Spec{Name: name, Kind: KindUInt}) }
func (f *Format) Long(name string) *Format   { return f.add(Spec{Name: name, Kind: KindLong}) }
func (f *Format) ULong(name string) *Format  { return f.add(Spec{Name: name, Kind: KindULong}) }

// Float declares an 8-byte IEEE-754 double.
func (f *Format) Float(name string) *Format { return f.add(Spec{Name: name, Kind: KindFloat}) }

// Fixed declares a run of exactly size one-byte characters.
func (f *Format) Fixed(name string, size int) *Format {
	return f.add(Spec{Name: name, Kind: KindFixedChars, Size: size})
}

// VarString declares a length-prefixed string. The optional prefix defaults
// to PrefixULong; only the first value is used.
func (f *Format) VarString(name string, prefix ...SizePrefix) *Format {
	p := PrefixDefault
	if len(prefix) > 0 {
		p = prefix[0]
	}
	return f.add(Spec{Name: name, Kind: KindVarString, Prefix: p})
}

// Binary declares exactly size uninterpreted bytes.
func (f *Format) Binary(name string, size int) *Format {
	return f.add(Spec{Name: name, Kind: KindBinary, Size: size})
}

// Pad declares one skipped byte.
func (f *Format) Pad() *Format { return f.add(Spec{Kind: KindPadding}) }

// Null is an alias for Pad.
func (f *Format) Null() *Format { return f.Pad() }

// Fields returns a copy of the declared specs in order.
func (f *Format) Fields() []Spec {
	if f == nil {
		return nil
	}
	out := make([]Spec, len(f.specs))
	copy(out, f.specs)
	return out
}

// Len returns the number of declared specs, padding included.
func (f *Format) Len() int {
	if f == nil {
		return 0
	}
	return len(f.specs)
}

// At returns the i-th spec without copying the list.
func (f *Format) At(i int) Spec {
	return f.specs[i]
}

// Names returns the names of all non-padding fields in declaration order.
// A name declared twice appears twice.
func (f *Format) Names() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.specs))
	for _, s := range f.specs {
		if s.Kind == KindPadding {
			continue
		}
		out = append(out, s.Name)
	}
	return out
}

// MinSize returns the number of bytes the format occupies when every
// VarString body is empty. Negative sizes count as zero and the total
// saturates at math.MaxInt.
func (f *Format) MinSize() int {
	if f == nil {
		return 0
	}
	total := 0
	for _, s := range f.specs {
		if w, ok := s.Kind.Width(); ok {
			total = addSat(total, w)
			continue
		}
		switch s.Kind {
		case KindFixedChars, KindBinary:
			if s.Size > 0 {
				total = addSat(total, s.Size)
			}
		case KindVarString:
			total = addSat(total, s.Prefix.Width())
		}
	}
	return total
}

func addSat(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

var (
	ErrEmptyName     = errors.New("format: field name is empty")
	ErrBadKind       = errors.New("format: unknown field kind")
	ErrBadSize       = errors.New("format: invalid size")
	ErrBadPrefix     = errors.New("format: unknown size prefix")
	ErrUnexpectedArg = errors.New("format: size or prefix set on a kind that does not use it")
)

// SpecError reports which spec failed Validate.
type SpecError struct {
	Index int
	Spec  Spec
	Err   error
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("format: field %d (%s): %v", e.Index, e.Spec, e.Err)
}

func (e *SpecError) Unwrap() error { return e.Err }

// Validate checks every spec and returns the first problem found. It is
// stricter than the codec: zero-size Fixed fields are accepted by both, but
// Validate also rejects empty names and stray size/prefix settings.
func (f *Format) Validate() error {
	if f == nil {
		return nil
	}
	for i, s := range f.specs {
		if err := validateSpec(s); err != nil {
			return &SpecError{Index: i, Spec: s, Err: err}
		}
	}
	return nil
}

func validateSpec(s Spec) error {
	if !s.Kind.Valid() {
		return ErrBadKind
	}
	if s.Kind != KindPadding && s.Name == "" {
		return ErrEmptyName
	}
	switch s.Kind {
	case KindFixedChars:
		if s.Size < 0 {
			return ErrBadSize
		}
	case KindBinary:
		if s.Size <= 0 {
			return ErrBadSize
		}
	case KindVarString:
		if s.Prefix.Width() == 0 {
			return ErrBadPrefix
		}
	}
	if s.Kind != KindFixedChars && s.Kind != KindBinary && s.Size != 0 {
		return ErrUnexpectedArg
	}
	if s.Kind != KindVarString && s.Prefix != PrefixDefault {
		return ErrUnexpectedArg
	}
	return nil
}
