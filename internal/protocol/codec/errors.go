package codec

import (
	"errors"
	"fmt"

	"github.com/danmuck/binfmt/internal/protocol/format"
)

var (
	ErrOutOfRange        = errors.New("codec: read out of range")
	ErrMissingSize       = errors.New("codec: binary field needs a positive size")
	ErrSizeMismatch      = errors.New("codec: binary value length does not match size")
	ErrInvalidSize       = errors.New("codec: negative field size")
	ErrUnsupportedKind   = errors.New("codec: unsupported field kind")
	ErrUnsupportedPrefix = errors.New("codec: unsupported size prefix")
	ErrMissingField      = errors.New("codec: missing field value")
	ErrValueType         = errors.New("codec: value type does not match field kind")
	ErrValueRange        = errors.New("codec: value out of range for field kind")
	ErrLengthOverflow    = errors.New("codec: string length does not fit size prefix")
	ErrCharset           = errors.New("codec: character outside one-byte range")
	ErrNilFormat         = errors.New("codec: nil format")
)

// FieldError reports the field a decode or encode call failed on. Offset is
// the cursor position at the start of the field.
type FieldError struct {
	Index  int
	Name   string
	Kind   format.Kind
	Offset int
	Err    error
}

func (e *FieldError) Error() string {
	if e.Kind == format.KindPadding {
		return fmt.Sprintf("field %d (pad) at offset %d: %v", e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("field %d %q (%s) at offset %d: %v", e.Index, e.Name, e.Kind, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldError(i int, s format.Spec, offset int, err error) error {
	return &FieldError{Index: i, Name: s.Name, Kind: s.Kind, Offset: offset, Err: err}
}
