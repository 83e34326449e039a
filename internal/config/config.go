// Package config loads batch configuration files listing the targets to
// stamp. YAML (.yaml, .yml) and CUE (.cue) are supported; both decode into
// the same File.
//
// Example:
//
//	version: 1
//	targets:
//	  - path: output.json
//	    deps: ["../source.json", "codegen.js"]
//	    placer: json-field
//	    transforms: [json]
//	    dep_transforms:
//	      "**/*.json": [json]
//
// Relative paths resolve against the directory containing the file.
package config

import "path/filepath"

// CurrentVersion is the only supported config version.
const CurrentVersion = 1

// File is a loaded configuration.
type File struct {
	Version int      `yaml:"version" json:"version"`
	Targets []Target `yaml:"targets" json:"targets"`

	// Path is the file the configuration was loaded from. Dir is its
	// directory, the base for every relative path in the file.
	Path string `yaml:"-" json:"-"`
	Dir  string `yaml:"-" json:"-"`
}

// Target is one file to stamp.
type Target struct {
	// Path is the target file.
	Path string `yaml:"path" json:"path"`

	// Deps are dependency paths or glob patterns.
	Deps []string `yaml:"deps,omitempty" json:"deps,omitempty"`

	// Template is a placement template with %STAMP% and %CONTENT% tokens.
	// Mutually exclusive with Placer.
	Template string `yaml:"template,omitempty" json:"template,omitempty"`

	// Placer names a built-in placer.
	Placer string `yaml:"placer,omitempty" json:"placer,omitempty"`

	// Transforms name built-in hashing transforms for the target, applied
	// in order.
	Transforms []string `yaml:"transforms,omitempty" json:"transforms,omitempty"`

	// DepTransforms maps a glob over dependency paths (relative to Dir) to
	// the transforms applied to matching dependencies before hashing.
	DepTransforms map[string][]string `yaml:"dep_transforms,omitempty" json:"dep_transforms,omitempty"`
}

// TargetPath returns t.Path resolved against the config directory.
func (f *File) TargetPath(t Target) string {
	if filepath.IsAbs(t.Path) {
		return t.Path
	}
	return filepath.Join(f.Dir, t.Path)
}
