package encoding

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Encoding names a textual representation of a byte sequence.
type Encoding string

const (
	UTF8      Encoding = "utf8"
	Base64    Encoding = "base64"
	Base64URL Encoding = "base64url"
	Hex       Encoding = "hex"
	Latin1    Encoding = "latin1"
	ASCII     Encoding = "ascii"
)

// Default is used when the caller names no encoding.
const Default = UTF8

var aliases = map[string]Encoding{
	"utf8":      UTF8,
	"utf-8":     UTF8,
	"base64":    Base64,
	"base64url": Base64URL,
	"hex":       Hex,
	"latin1":    Latin1,
	"binary":    Latin1,
	"ascii":     ASCII,
}

// UnknownEncodingError reports an encoding name outside the supported set.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("Unknown encoding: %s", e.Name)
}

// Parse resolves an encoding name, case-insensitively. The empty name
// resolves to Default.
func Parse(name string) (Encoding, error) {
	if name == "" {
		return Default, nil
	}
	if enc, ok := aliases[strings.ToLower(name)]; ok {
		return enc, nil
	}
	return "", &UnknownEncodingError{Name: name}
}

// IsEncoding reports whether name is a supported encoding.
func IsEncoding(name string) bool {
	_, ok := aliases[strings.ToLower(name)]
	return ok
}

// Decode renders b as text in the given encoding.
func Decode(b []byte, enc Encoding) (string, error) {
	switch enc {
	case UTF8, "":
		return toValidUTF8(b), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(b), nil
	case Base64URL:
		return base64.RawURLEncoding.EncodeToString(b), nil
	case Hex:
		return hex.EncodeToString(b), nil
	case Latin1:
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c)
		}
		return string(runes), nil
	case ASCII:
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c & 0x7f)
		}
		return string(runes), nil
	default:
		return "", &UnknownEncodingError{Name: string(enc)}
	}
}

// Encode converts text in the given encoding back to bytes. base64 and hex
// input is decoded leniently: decoding stops at the first character that
// does not belong to the alphabet.
func Encode(s string, enc Encoding) ([]byte, error) {
	switch enc {
	case UTF8, "":
		return []byte(toValidUTF8([]byte(s))), nil
	case Base64, Base64URL:
		return decodeBase64(s), nil
	case Hex:
		return decodeHex(s), nil
	case Latin1, ASCII:
		out := make([]byte, 0, len(s))
		for _, r := range s {
			out = append(out, byte(r))
		}
		return out, nil
	default:
		return nil, &UnknownEncodingError{Name: string(enc)}
	}
}

func toValidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}

// decodeBase64 accepts both the standard and URL-safe alphabets, with or
// without padding, and ignores whitespace.
func decodeBase64(s string) []byte {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			continue
		case c == '-':
			sb.WriteByte('+')
		case c == '_':
			sb.WriteByte('/')
		case c == '=':
			i = len(s)
		case isBase64Char(c):
			sb.WriteByte(c)
		default:
			i = len(s)
		}
	}

	clean := sb.String()
	// A single trailing sextet carries no complete byte.
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}
	out, err := base64.RawStdEncoding.DecodeString(clean)
	if err != nil {
		return []byte{}
	}
	return out
}

func isBase64Char(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '+' || c == '/'
}

// decodeHex decodes pairs until the first invalid pair; a dangling nibble
// is dropped.
func decodeHex(s string) []byte {
	out := make([]byte, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		hi, ok1 := fromHexChar(s[i])
		lo, ok2 := fromHexChar(s[i+1])
		if !ok1 || !ok2 {
			break
		}
		out = append(out, hi<<4|lo)
	}
	return out
}

func fromHexChar(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
