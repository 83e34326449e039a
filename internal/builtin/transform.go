// Package builtin provides the named hashing transforms and placers that the
// command line and batch configuration refer to by name.
package builtin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/codestamp/internal/stamp"
)

// Transform names.
const (
	TransformIdentity         = "identity"
	TransformJSON             = "json"
	TransformNFC              = "nfc"
	TransformExcludeStampLine = "exclude-stamp-line"
)

var transforms = map[string]stamp.Transformer{
	TransformIdentity:         Identity,
	TransformJSON:             CompactJSON,
	TransformNFC:              NFC,
	TransformExcludeStampLine: ExcludeStampLine,
}

// Identity returns content unchanged.
func Identity(content, _ string) string {
	return content
}

// CompactJSON hashes JSON by value rather than by layout: comments and
// trailing commas are stripped and insignificant whitespace is removed.
// Content that is not valid JSON is returned unchanged.
func CompactJSON(content, _ string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, jsonc.ToJSON([]byte(content))); err != nil {
		return content
	}
	return buf.String()
}

// NFC normalizes content to Unicode Normalization Form C, so composed and
// decomposed spellings of the same text hash alike.
func NFC(content, _ string) string {
	return norm.NFC.String(content)
}

// ExcludeStampLine drops every line containing the stamp, so the hash does
// not depend on how the stamp line is formatted.
func ExcludeStampLine(content, stamp string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !strings.Contains(line, stamp) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// LookupTransform returns the transform registered under name.
func LookupTransform(name string) (stamp.Transformer, error) {
	t, ok := transforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform %q (available: %s)", name, strings.Join(TransformNames(), ", "))
	}
	return t, nil
}

// TransformNames lists the registered transform names, sorted.
func TransformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain resolves names and composes them left to right. An empty list
// returns nil, which the engine treats as identity.
func Chain(names []string) (stamp.Transformer, error) {
	if len(names) == 0 {
		return nil, nil
	}

	chain := make([]stamp.Transformer, 0, len(names))
	for _, name := range names {
		t, err := LookupTransform(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, t)
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return func(content, stamp string) string {
		for _, t := range chain {
			content = t(content, stamp)
		}
		return content
	}, nil
}
