// Package encoding converts between the legacy Japanese encodings used by dat
// files and Go strings.
//
// Dat files and archived pages are overwhelmingly Shift_JIS. Detection is a
// best-effort heuristic, so DecodeAuto falls back to Shift_JIS whenever the
// detector cannot decide, and dat output is always written as Shift_JIS.
package encoding

import (
	"errors"
	"fmt"
	"strings"

	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ErrUnsupported is returned when converting with the Unknown tag.
var ErrUnsupported = errors.New("unsupported encoding")

// Tag identifies a detected or requested text encoding.
type Tag int

const (
	Unknown Tag = iota
	ShiftJIS
	EUCJP
	UTF8
)

func (t Tag) String() string {
	switch t {
	case ShiftJIS:
		return "Shift_JIS"
	case EUCJP:
		return "EUC-JP"
	case UTF8:
		return "UTF-8"
	default:
		return "unknown"
	}
}

// ParseTag returns the tag for an encoding name. Unrecognized names give Unknown.
func ParseTag(name string) Tag {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SHIFT_JIS", "SHIFT-JIS", "SHIFTJIS", "SJIS", "CP932", "WINDOWS-31J", "MS932":
		return ShiftJIS
	case "EUC-JP", "EUC_JP", "EUCJP", "CP51932":
		return EUCJP
	case "UTF-8", "UTF8":
		return UTF8
	default:
		return Unknown
	}
}

func codec(tag Tag) (xenc.Encoding, error) {
	switch tag {
	case ShiftJIS:
		return japanese.ShiftJIS, nil
	case EUCJP:
		return japanese.EUCJP, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, tag)
	}
}

// Decode converts data in the given encoding to a string.
// Invalid byte sequences decode to U+FFFD.
func Decode(data []byte, tag Tag) (string, error) {
	if tag == UTF8 {
		return string(data), nil
	}

	enc, err := codec(tag)
	if err != nil {
		return "", err
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", tag, err)
	}

	return string(out), nil
}

// Encode converts text to the given encoding. Runes the target encoding cannot
// represent are replaced rather than reported.
func Encode(text string, tag Tag) ([]byte, error) {
	if tag == UTF8 {
		return []byte(text), nil
	}

	enc, err := codec(tag)
	if err != nil {
		return nil, err
	}

	out, _, err := transform.Bytes(xenc.ReplaceUnsupported(enc.NewEncoder()), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", tag, err)
	}

	return out, nil
}

// DecodeAuto detects the encoding of data and decodes it. Only a Shift_JIS or
// EUC-JP detection is trusted; any other result, UTF-8 included, decodes as
// Shift_JIS, since short Shift_JIS buffers can also be valid UTF-8. The
// returned tag is the one used for decoding.
func DecodeAuto(data []byte) (string, Tag, error) {
	tag := Detect(data)
	switch tag {
	case ShiftJIS, EUCJP:
	default:
		tag = ShiftJIS
	}

	text, err := Decode(data, tag)
	if err != nil {
		return "", tag, err
	}

	return text, tag, nil
}
