package stamp

import (
	"reflect"
	"runtime"
	"strings"
)

// Template tokens replaced by TemplatePlacer, stamp first.
const (
	StampToken   = "%STAMP%"
	ContentToken = "%CONTENT%"
)

// PlacerFunc returns content with stamp embedded exactly once.
type PlacerFunc func(content, stamp string) string

// DefaultPlacer prepends a generated banner carrying the stamp.
func DefaultPlacer(content, stamp string) string {
	return "/* @generated " + stamp + " */\n" + content
}

// defaultBanner is what DefaultPlacer adds around the placeholder. Finding it
// in stamped content means the stamp was placed by DefaultPlacer.
var defaultBanner = DefaultPlacer("", PlaceholderStamp)

type placerKind int

const (
	placerDefault placerKind = iota
	placerTemplate
	placerFunc
)

// Placer is the placement strategy for a stamp that is not present yet.
//
// The zero value means "not specified" and places the default banner.
// Build other placers with TemplatePlacer, FuncPlacer or NamedPlacer.
type Placer struct {
	kind     placerKind
	template string
	fn       PlacerFunc
	name     string
}

// TemplatePlacer places the stamp by substituting %STAMP% and %CONTENT% in
// template.
func TemplatePlacer(template string) Placer {
	return Placer{kind: placerTemplate, template: template}
}

// FuncPlacer places the stamp by calling fn. Diagnostics name the placer
// after the function.
func FuncPlacer(fn PlacerFunc) Placer {
	return Placer{kind: placerFunc, fn: fn, name: funcName(fn)}
}

// NamedPlacer is FuncPlacer with an explicit diagnostic name.
func NamedPlacer(name string, fn PlacerFunc) Placer {
	return Placer{kind: placerFunc, fn: fn, name: name}
}

// IsZero reports whether no placement strategy was specified.
func (p Placer) IsZero() bool {
	return p.kind == placerDefault
}

// String renders the placer for diagnostics: the template text for
// templates, the name for functions.
func (p Placer) String() string {
	switch p.kind {
	case placerTemplate:
		return p.template
	case placerFunc:
		if p.name == "" {
			return "<nil>"
		}
		return p.name
	default:
		return "default"
	}
}

// resolve normalizes the placer to a single function shape. It returns false
// for a function placer built around a nil function.
func (p Placer) resolve() (PlacerFunc, bool) {
	switch p.kind {
	case placerTemplate:
		template := p.template
		return func(content, stamp string) string {
			return strings.ReplaceAll(
				strings.ReplaceAll(template, StampToken, stamp),
				ContentToken,
				content,
			)
		}, true
	case placerFunc:
		if p.fn == nil {
			return nil, false
		}
		return p.fn, true
	default:
		return DefaultPlacer, true
	}
}

// place runs the placer against content with the placeholder stamp and
// validates that the result carries exactly one stamp.
func place(p Placer, content string) (string, *PlacerOutcome) {
	fn, ok := p.resolve()
	if !ok {
		return "", &PlacerOutcome{
			Description: "`InitialStampPlacer` is not a string or a function.",
			Placer:      p.String(),
		}
	}

	placed := fn(content, PlaceholderStamp)

	switch CountStamps(placed) {
	case 1:
		return placed, nil
	case 0:
		return "", &PlacerOutcome{
			Description:       "`InitialStampPlacer` didn't return a stamp.",
			Placer:            p.String(),
			PlacerReturnValue: &placed,
		}
	default:
		return "", &PlacerOutcome{
			Description:       "`InitialStampPlacer` returned multiple stamps.",
			Placer:            p.String(),
			PlacerReturnValue: &placed,
		}
	}
}

func funcName(fn PlacerFunc) string {
	if fn == nil {
		return ""
	}
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return "func"
}
