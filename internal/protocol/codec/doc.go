// Package codec reads and writes flat binary records described by a
// format.Format.
//
// Fields are laid out back to back with no alignment. Multi-byte numbers
// and VarString length prefixes use the codec's byte order; Float is an
// IEEE-754 double. Strings carry one byte per character (ISO-8859-1), so
// any rune above U+00FF is rejected on encode.
//
// Errors from Decode and Encode are *FieldError values wrapping one of the
// Err* sentinels, so both errors.Is and errors.As work.
package codec
