package codec

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Character fields carry one byte per character: byte value N decodes to
// code point U+00NN. ISO-8859-1 is exactly that mapping.

func decodeChars(b []byte) (string, error) {
	if isASCII(b) {
		return string(b), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func encodeChars(s string) ([]byte, error) {
	if isASCIIString(s) {
		return []byte(s), nil
	}
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return nil, ErrCharset
	}
	return []byte(out), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isASCIIString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
