package deps

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/roach88/codestamp/internal/stamp"
)

// FileTransformer rewrites a dependency's content before it is hashed.
type FileTransformer func(item Item) string

// Rule applies Transform to dependencies whose RelativePath matches
// Pattern.
type Rule struct {
	Pattern   string
	Transform stamp.Transformer
}

// RuleTransformer returns a FileTransformer applying every matching rule in
// pattern order. Transforms receive the dependency's own stamp when it has
// exactly one, so a generated dependency can drop its stamp line. Rules
// without a Transform are ignored. A nil result means no rules.
func RuleTransformer(rules []Rule) FileTransformer {
	var sorted []Rule
	for _, rule := range rules {
		if rule.Transform != nil {
			sorted = append(sorted, rule)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Pattern < sorted[j].Pattern })

	return func(item Item) string {
		content := item.Content
		stampText := ownStamp(content)
		for _, rule := range sorted {
			if ok, _ := doublestar.Match(rule.Pattern, item.RelativePath); ok {
				content = rule.Transform(content, stampText)
			}
		}
		return content
	}
}

// ContentList returns the contents to hash, in item order, each passed
// through transform when it is non-nil.
func ContentList(items []Item, transform FileTransformer) []string {
	list := make([]string, len(items))
	for i, item := range items {
		if transform != nil {
			list[i] = transform(item)
		} else {
			list[i] = item.Content
		}
	}
	return list
}

func ownStamp(content string) string {
	if matches := stamp.Extract(content); len(matches) == 1 {
		return matches[0].Stamp
	}
	return stamp.PlaceholderStamp
}
