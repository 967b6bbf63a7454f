package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/danmuck/binfmt/internal/protocol/codec"
	"github.com/danmuck/binfmt/internal/protocol/format"
	"github.com/danmuck/binfmt/internal/protocol/frame"
	"github.com/danmuck/binfmt/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

// Built-in format names.
const (
	FormatFrameHeader = "frame.header"
	FormatTLVField    = "tlv.field"
	FormatGreeting    = "greeting"
	FormatPaddedID    = "padded-id"
	FormatSample      = "sample"
)

var (
	ErrUnknownFormat   = errors.New("schema: unknown format")
	ErrDuplicateFormat = errors.New("schema: format already registered")
	ErrUnnamedFormat   = errors.New("schema: format has no name")
)

// ValidationError reports a record that does not satisfy a format.
type ValidationError struct {
	Format string
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: format=%s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("schema: format=%s field=%s: %s", e.Format, e.Field, e.Reason)
}

// Registry maps names to formats. Stored formats are copies; callers can't
// mutate a registered format through the pointer they passed or got back.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]*format.Format
}

func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]*format.Format)}
}

// Register validates f and stores it under f.Name().
func (r *Registry) Register(f *format.Format) error {
	name := f.Name()
	if name == "" {
		return ErrUnnamedFormat
	}
	if err := f.Validate(); err != nil {
		log.Error().Err(err).Str("format", name).Msg("schema.Register invalid format")
		return fmt.Errorf("schema: register %s: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formats[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFormat, name)
	}
	r.formats[name] = format.FromSpecs(name, f.Fields())
	log.Debug().Str("format", name).Int("fields", f.Len()).Msg("schema.Register")
	return nil
}

// Lookup returns a copy of the format registered as name.
func (r *Registry) Lookup(name string) (*format.Format, error) {
	r.mu.RLock()
	f, ok := r.formats[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return format.FromSpecs(name, f.Fields()), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that rec carries a value for every named field of the
// format registered as name. Extra record entries are ignored.
func (r *Registry) Validate(name string, rec *codec.Record) error {
	log.Debug().Str("format", name).Int("fields", rec.Len()).Msg("schema.Validate")
	f, err := r.Lookup(name)
	if err != nil {
		log.Error().Str("format", name).Msg("schema.Validate unknown format")
		return ValidationError{Format: name, Reason: "unknown format"}
	}
	for _, field := range f.Names() {
		if _, ok := rec.Get(field); !ok {
			log.Error().Str("format", name).Str("field", field).Msg("schema.Validate missing field")
			return ValidationError{Format: name, Field: field, Reason: "missing required field"}
		}
	}
	log.Info().Str("format", name).Msg("schema.Validate ok")
	return nil
}

// Builtin returns a registry holding the formats that ship with binfmt.
func Builtin() *Registry {
	r := NewRegistry()
	for _, f := range builtinFormats() {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	return r
}

func builtinFormats() []*format.Format {
	return []*format.Format{
		frame.HeaderFormat(),
		tlv.HeaderFormat(),
		format.New(FormatGreeting).
			Byte("flag").
			UShort("count").
			VarString("name", format.PrefixByte),
		format.New(FormatPaddedID).
			Pad().
			UInt("id"),
		format.New(FormatSample).
			Fixed("code", 4).
			Short("delta").
			Int("offset").
			Long("stamp").
			Float("ratio").
			Binary("digest", 8).
			VarString("note", format.PrefixUShort),
	}
}

var defaultRegistry = Builtin()

// Register adds f to the process-wide registry.
func Register(f *format.Format) error { return defaultRegistry.Register(f) }

// Lookup reads from the process-wide registry.
func Lookup(name string) (*format.Format, error) { return defaultRegistry.Lookup(name) }

// Names lists the process-wide registry.
func Names() []string { return defaultRegistry.Names() }

// Validate checks rec against a format in the process-wide registry.
func Validate(name string, rec *codec.Record) error { return defaultRegistry.Validate(name, rec) }
