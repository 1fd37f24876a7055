package jsonapi

import (
	"bytes"

	"github.com/goccy/go-json"
)

// EscapeFlags selects characters that are hex-escaped inside JSON strings.
type EscapeFlags uint16

const (
	// EscapeTag escapes < and > as \u003C and \u003E.
	EscapeTag EscapeFlags = 1 << iota
	// EscapeApos escapes ' as \u0027.
	EscapeApos
	// EscapeAmp escapes & as \u0026.
	EscapeAmp
	// EscapeQuot escapes " as \u0022.
	EscapeQuot
	// EscapeSlash escapes / as \/.
	EscapeSlash

	// EscapeNone disables escaping and overrides every other flag. The zero
	// value of EscapeFlags inherits the configured set instead.
	EscapeNone EscapeFlags = 1 << 15
)

// EscapeDefault is the escape set used when none is configured. Slashes are
// not part of it, so "/" is written as is; add EscapeSlash to get "\/".
const EscapeDefault = EscapeTag | EscapeApos | EscapeAmp | EscapeQuot

// effective resolves f against the inherited flags.
func (f EscapeFlags) effective(inherited EscapeFlags) EscapeFlags {
	if f == 0 {
		f = inherited
	}
	if f == 0 {
		f = EscapeDefault
	}
	if f&EscapeNone != 0 {
		return 0
	}
	return f
}

const hexDigits = "0123456789ABCDEF"

// escapeJSON rewrites string contents of the JSON text src according to f.
// src must be valid JSON. Hex escapes of the characters covered by the flags
// are decoded first, so HTML escaping applied by the JSON encoder never
// survives when the flags do not ask for it.
func escapeJSON(src []byte, f EscapeFlags) []byte {
	dst := make([]byte, 0, len(src)+len(src)/8)
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			dst = append(dst, c)
			continue
		}
		switch {
		case c == '"':
			inString = false
			dst = append(dst, c)
		case c == '\\' && i+1 < len(src):
			n := src[i+1]
			switch {
			case n == '"' || n == '/':
				dst = appendEscaped(dst, n, f)
				i++
			case n == 'u' && i+5 < len(src) && src[i+2] == '0' && src[i+3] == '0':
				if h, ok := unhex(src[i+4], src[i+5]); ok && isFlagged(h) {
					dst = appendEscaped(dst, h, f)
					i += 5
					continue
				}
				dst = append(dst, c, n)
				i++
			default:
				dst = append(dst, c, n)
				i++
			}
		default:
			dst = appendEscaped(dst, c, f)
		}
	}
	return dst
}

// isFlagged reports whether c is controlled by an escape flag.
func isFlagged(c byte) bool {
	switch c {
	case '<', '>', '\'', '&', '"', '/':
		return true
	}
	return false
}

// appendEscaped appends the in-string form of c under f.
func appendEscaped(dst []byte, c byte, f EscapeFlags) []byte {
	switch c {
	case '"':
		if f&EscapeQuot != 0 {
			return appendHex(dst, c)
		}
		return append(dst, '\\', c)
	case '/':
		if f&EscapeSlash != 0 {
			return append(dst, '\\', c)
		}
	case '<', '>':
		if f&EscapeTag != 0 {
			return appendHex(dst, c)
		}
	case '\'':
		if f&EscapeApos != 0 {
			return appendHex(dst, c)
		}
	case '&':
		if f&EscapeAmp != 0 {
			return appendHex(dst, c)
		}
	}
	return append(dst, c)
}

func unhex(hi, lo byte) (byte, bool) {
	h, ok1 := hexValue(hi)
	l, ok2 := hexValue(lo)
	return h<<4 | l, ok1 && ok2
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func appendHex(dst []byte, c byte) []byte {
	return append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
}

// marshalRaw encodes v as compact JSON without HTML escaping.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return escapeJSON(bytes.TrimRight(buf.Bytes(), "\n"), 0), nil
}
