package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/roach88/codestamp/internal/builtin"
)

// Validate checks f and returns every problem found, joined. Each joined
// error is a *LoadError.
func Validate(f *File) error {
	var errs []error
	add := func(code, field, format string, args ...any) {
		errs = append(errs, &LoadError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if f.Version != CurrentVersion {
		add(ErrCodeVersion, "version", "unsupported version %d (want %d)", f.Version, CurrentVersion)
	}
	if len(f.Targets) == 0 {
		add(ErrCodeNoTargets, "targets", "no targets listed")
	}

	seen := make(map[string]int)
	for i, t := range f.Targets {
		field := fmt.Sprintf("targets[%d]", i)

		if t.Path == "" {
			add(ErrCodeMissingPath, field+".path", "path is required")
		} else {
			resolved := f.TargetPath(t)
			if first, dup := seen[resolved]; dup {
				add(ErrCodeDuplicateTarget, field+".path", "%q is already listed as targets[%d]", t.Path, first)
			} else {
				seen[resolved] = i
			}
		}

		if t.Template != "" && t.Placer != "" {
			add(ErrCodePlacerConflict, field, "template and placer are mutually exclusive")
		}
		if t.Placer != "" {
			if _, err := builtin.LookupPlacer(t.Placer); err != nil {
				add(ErrCodeUnknownPlacer, field+".placer", "%v", err)
			}
		}

		for j, name := range t.Transforms {
			if _, err := builtin.LookupTransform(name); err != nil {
				add(ErrCodeUnknownTransform, fmt.Sprintf("%s.transforms[%d]", field, j), "%v", err)
			}
		}

		for _, pattern := range sortedKeys(t.DepTransforms) {
			depField := fmt.Sprintf("%s.dep_transforms[%q]", field, pattern)
			if !doublestar.ValidatePattern(pattern) {
				add(ErrCodeBadPattern, depField, "malformed glob %q", pattern)
			}
			for _, name := range t.DepTransforms[pattern] {
				if _, err := builtin.LookupTransform(name); err != nil {
					add(ErrCodeUnknownTransform, depField, "%v", err)
				}
			}
		}
	}

	return errors.Join(errs...)
}

// Errors flattens err into its *LoadError parts.
func Errors(err error) []*LoadError {
	if err == nil {
		return nil
	}

	var out []*LoadError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Errors(e)...)
		}
		return out
	}

	var le *LoadError
	if errors.As(err, &le) {
		return []*LoadError{le}
	}
	return []*LoadError{{Code: ErrCodeGeneric, Message: err.Error()}}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
