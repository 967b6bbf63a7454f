// Package protocol holds the binary layout primitives.
//
// Ownership boundary:
// - format: field kinds and ordered format declarations
// - codec: decode/encode of records against a format
// - frame and tlv: the wire headers used in this repo, declared as formats
// - schema: named format registry
package protocol
