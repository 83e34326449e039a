package stamp

import "regexp"

const (
	// HashLength is the number of hex characters kept from the digest.
	HashLength = 32

	stampPrefix = "CodeStamp<<"
	stampSuffix = ">>"
)

// stampRegex captures prefix, payload and suffix. The payload must be a
// non-empty run of lowercase hex; its length is not enforced so that stale
// or hand-written stamps of any length are still recognised.
var stampRegex = regexp.MustCompile(`(CodeStamp<<)([a-f0-9]+)(>>)`)

var (
	// PlaceholderHash is the payload used while the real hash is unknown.
	PlaceholderHash = digest("placeholder")

	// PlaceholderStamp is PlaceholderHash wrapped as a full stamp.
	PlaceholderStamp = FormatStamp(PlaceholderHash)
)

// Match is a single stamp located in content.
type Match struct {
	Stamp string // full text, e.g. CodeStamp<<abc>>
	Hash  string // hex payload only
	Start int    // byte offset of the stamp
	End   int    // byte offset just past the stamp
}

// FormatStamp wraps a hex payload in the stamp prefix and suffix.
func FormatStamp(hash string) string {
	return stampPrefix + hash + stampSuffix
}

// Extract returns every stamp in content, left to right.
func Extract(content string) []Match {
	locs := stampRegex.FindAllStringSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{
			Stamp: content[loc[0]:loc[1]],
			Hash:  content[loc[4]:loc[5]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return matches
}

// CountStamps returns the number of stamps in content.
func CountStamps(content string) int {
	return len(stampRegex.FindAllStringIndex(content, -1))
}

// replaceHash swaps the payload of the first stamp in content for hash.
// Everything around the payload, including the prefix and suffix, is kept
// byte for byte. Content without a stamp is returned unchanged.
func replaceHash(content, hash string) string {
	loc := stampRegex.FindStringSubmatchIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[4]] + hash + content[loc[5]:]
}
