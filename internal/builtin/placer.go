package builtin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/roach88/codestamp/internal/stamp"
)

// Placer names.
const (
	PlacerDefault   = "default"
	PlacerJSONField = "json-field"
)

// StampField is the top-level key JSONField writes the stamp to.
const StampField = "stamp"

var placers = map[string]stamp.PlacerFunc{
	PlacerDefault:   stamp.DefaultPlacer,
	PlacerJSONField: JSONField,
}

// LookupPlacer returns the placer registered under name. PlacerDefault
// resolves to the zero Placer so that existing default banners are not
// migrated.
func LookupPlacer(name string) (stamp.Placer, error) {
	fn, ok := placers[name]
	if !ok {
		return stamp.Placer{}, fmt.Errorf("unknown placer %q (available: %s)", name, strings.Join(PlacerNames(), ", "))
	}
	if name == PlacerDefault {
		return stamp.Placer{}, nil
	}
	return stamp.NamedPlacer(name, fn), nil
}

// PlacerNames lists the registered placer names, sorted.
func PlacerNames() []string {
	names := make([]string, 0, len(placers))
	for name := range placers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JSONField places the stamp as the top-level "stamp" field of a JSON
// object and re-indents the object with two spaces. Key order is kept; an
// existing "stamp" field is overwritten where it stands, otherwise the field
// is appended. Comments and trailing commas are accepted on input.
//
// Content that is not a JSON object is returned unchanged, which the engine
// reports as a placer that didn't return a stamp.
func JSONField(content, stampText string) string {
	fields, err := objectFields(jsonc.ToJSON([]byte(content)))
	if err != nil {
		return content
	}

	value := json.RawMessage(stamp.Quote(stampText))
	replaced := false
	for i := range fields {
		if fields[i].key == StampField {
			fields[i].value = value
			replaced = true
		}
	}
	if !replaced {
		fields = append(fields, field{key: StampField, value: value})
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range fields {
		var indented bytes.Buffer
		if err := json.Indent(&indented, f.value, "  ", "  "); err != nil {
			return content
		}
		b.WriteString("  ")
		b.WriteString(stamp.Quote(f.key))
		b.WriteString(": ")
		b.Write(indented.Bytes())
		if i < len(fields)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}

type field struct {
	key   string
	value json.RawMessage
}

// objectFields splits a JSON object into its members in document order.
func objectFields(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return fields, nil
}
