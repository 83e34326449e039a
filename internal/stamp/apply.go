package stamp

import "strings"

// Transformer rewrites placed content before it is hashed. It never affects
// the content that is returned, only the hash; use it to ignore formatting
// noise. stamp is the placeholder stamp present in content.
type Transformer func(content, stamp string) string

// Params is the input to Apply.
type Params struct {
	// DependencyContentList holds the contents of every dependency, in
	// order. Order is part of the hash. Use nil for no dependencies.
	DependencyContentList []string

	// TargetContent is the content to stamp.
	TargetContent string

	// InitialStampPlacer places the stamp when TargetContent has none, and
	// replaces a stamp that DefaultPlacer placed earlier. The zero value
	// uses DefaultPlacer and never moves an existing stamp.
	InitialStampPlacer Placer

	// ContentTransformerForHashing is applied to the placed content right
	// before hashing. Nil means identity.
	ContentTransformerForHashing Transformer
}

// Engine reconciles and verifies stamps using its own Hasher.
type Engine struct {
	hasher *Hasher
}

// NewEngine returns an Engine backed by hasher. A nil hasher shares the
// package-wide default cache.
func NewEngine(hasher *Hasher) *Engine {
	if hasher == nil {
		hasher = defaultHasher
	}
	return &Engine{hasher: hasher}
}

var defaultEngine = NewEngine(nil)

// Apply reconciles p with the default engine. See Engine.Apply.
func Apply(p Params) Outcome {
	return defaultEngine.Apply(p)
}

// Apply adds or refreshes the stamp in p.TargetContent.
//
// With no stamp present the placer inserts one. With one stamp present its
// payload is updated in place, and if it sits in the default banner while a
// placer was given, the banner is swapped for that placer's format. A stamp
// placed by a custom placer is never moved. Two or more stamps are an error.
//
// The returned content always has exactly one stamp, and applying again
// with the same inputs returns OKOutcome.
func (e *Engine) Apply(p Params) Outcome {
	matches := Extract(p.TargetContent)

	var placed string
	switch len(matches) {
	case 0:
		out, failure := place(p.InitialStampPlacer, p.TargetContent)
		if failure != nil {
			return *failure
		}
		placed = out

	case 1:
		placed = replaceHash(p.TargetContent, PlaceholderHash)

		if !p.InitialStampPlacer.IsZero() {
			withoutBanner := strings.Replace(placed, defaultBanner, "", 1)
			if withoutBanner != placed {
				// The banner came from DefaultPlacer, so it is safe to
				// remove and re-place with the requested placer.
				out, failure := place(p.InitialStampPlacer, withoutBanner)
				if failure != nil {
					return *failure
				}
				placed = out
			}
		}

	default:
		return multipleStamps(matches)
	}

	hash := e.hash(p.DependencyContentList, placed, p.ContentTransformerForHashing)
	newContent := replaceHash(placed, hash)
	newStamp := FormatStamp(hash)

	if newContent == p.TargetContent {
		return OKOutcome{Stamp: newStamp}
	}
	if len(matches) == 0 {
		return NewOutcome{NewStamp: newStamp, NewContent: newContent}
	}
	return UpdateOutcome{
		OldStamp:   matches[0].Stamp,
		NewStamp:   newStamp,
		NewContent: newContent,
	}
}

// hash computes the stamp hash for content that carries the placeholder.
func (e *Engine) hash(deps []string, placed string, transform Transformer) string {
	if transform != nil {
		placed = transform(placed, PlaceholderStamp)
	}

	parts := make([]string, 0, len(deps)+1)
	parts = append(parts, deps...)
	parts = append(parts, placed)
	return e.hasher.Hash(parts)
}
