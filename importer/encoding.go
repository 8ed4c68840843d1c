package importer

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw export bytes into UTF-8 text.
// UTF-8 content is passed through untouched, so a leading byte-order mark
// survives and is stripped from the first header cell later.
func DecodeText(content []byte, encoding string) (string, error) {
	var decoder transform.Transformer
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return string(content), nil
	case "utf-16":
		// BOM decides the byte order; little-endian without one, as Windows tools write it.
		decoder = unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	case "utf-16le":
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case "utf-16be":
		decoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return "", fmt.Errorf("unsupported text encoding: %s", encoding)
	}

	decoded, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", encoding, err)
	}
	return string(decoded), nil
}
