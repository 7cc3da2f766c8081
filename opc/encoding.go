package opc

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// UTF-16 byte order marks. Some producers emit XML parts in UTF-16;
// encoding/xml only accepts UTF-8 input.
var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// DecodeXML normalizes an XML part to UTF-8. UTF-16 input is
// transcoded based on its BOM; a UTF-8 BOM is stripped; anything else
// passes through unchanged.
func DecodeXML(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		return out, err
	case bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		return out, err
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	default:
		return data, nil
	}
}
