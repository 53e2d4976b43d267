package records

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrUndecodable is returned when a stored body is not a base64 UTF-8 JSON array
var ErrUndecodable = errors.New("records: undecodable file body")

// Decode turns a stored base64 body into an array of T
// GitHub wraps base64 content at 60 columns, so whitespace is ignored
func Decode[T any](content string) ([]T, error) {
	raw, err := base64.StdEncoding.DecodeString(stripSpace(content))
	if err != nil {
		return nil, errors.Join(ErrUndecodable, err)
	}
	if !utf8.Valid(raw) {
		return nil, errors.Join(ErrUndecodable, errors.New("body is not valid UTF-8"))
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.Join(ErrUndecodable, errors.New("body is not a JSON array"))
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, errors.Join(ErrUndecodable, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Marshal renders items as a 2-space indented JSON array without HTML escaping
// U+2028 and U+2029 are written raw as JSON.stringify does; strings are assumed valid UTF-8
func Marshal[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return unescapeSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeSeparators turns the encoder's \u2028 and \u2029 escapes back into raw runes
func unescapeSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if rest := b[i:]; len(rest) >= 6 && rest[1] == 'u' && string(rest[2:5]) == "202" && (rest[5] == '8' || rest[5] == '9') {
			if rest[5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		// other escape pairs are copied whole
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// Encode is Marshal followed by standard base64, ready for the contents API
func Encode[T any](items []T) (string, error) {
	b, err := Marshal(items)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func stripSpace(s string) string {
	if !strings.ContainsAny(s, " \r\n\t") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\r', '\n', '\t':
			return -1
		}
		return r
	}, s)
}
