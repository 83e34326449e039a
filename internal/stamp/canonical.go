package stamp

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

// Serialize encodes parts as a compact JSON array of strings.
//
// This is the only encoding used for hashing. It must stay byte-compatible
// with stamps already committed to repositories, which means:
//  1. No whitespace between elements
//  2. No HTML escaping (< > & are written as-is)
//  3. U+2028 and U+2029 are written as-is
//  4. Control characters, quote and backslash are escaped
//  5. Strings are NOT Unicode-normalized
//
// Each invalid UTF-8 byte becomes a literal U+FFFD, matching how the
// content decodes when read as text.
func Serialize(parts []string) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, part := range parts {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(marshalString(part))
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// Quote renders s as a JSON string literal using the same rules as Serialize.
// Diagnostics use it so that quoted content reads the same everywhere.
func Quote(s string) string {
	return string(marshalString(s))
}

func marshalString(s string) []byte {
	if !utf8.ValidString(s) {
		// encoding/json would write the escape text \ufffd instead.
		s = string([]rune(s))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // < > & must NOT be escaped; stamps contain << and >>
	// A string always encodes and bytes.Buffer writes cannot fail.
	_ = enc.Encode(s)

	// json.Encoder adds trailing newline, remove it
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	return unescapeLineSeparators(result)
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes produced by
// encoding/json back into literal characters, leaving \\u2028 (an escaped
// backslash followed by the text u2028) untouched.
func unescapeLineSeparators(data []byte) []byte {
	// Fast path: if no \u202 sequences, return unchanged
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	result := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			result = append(result, data[i])
			continue
		}

		// Every backslash starts an escape sequence, so walking escape by
		// escape keeps us aligned: a \\ pair is consumed whole and can never
		// be mistaken for the start of \u2028.
		if i+5 < len(data) && data[i+1] == 'u' && data[i+2] == '2' && data[i+3] == '0' && data[i+4] == '2' {
			switch data[i+5] {
			case '8':
				result = append(result, "\u2028"...)
				i += 5
				continue
			case '9':
				result = append(result, "\u2029"...)
				i += 5
				continue
			}
		}

		result = append(result, data[i])
		if i+1 < len(data) {
			i++
			result = append(result, data[i])
		}
	}
	return result
}
