package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Load reads, decodes and validates the configuration at path. The format
// is chosen by extension. Validation errors are collected, not fail-fast;
// use Errors to list them.
func Load(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}

	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}

	f, err := Parse(data, abs)
	if err != nil {
		return nil, err
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes data as the format implied by filename's extension without
// validating it. filename also sets the base directory for relative paths.
func Parse(data []byte, filename string) (*File, error) {
	f := &File{Path: filename, Dir: filepath.Dir(filename)}

	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, f)
	case ".cue":
		err = decodeCUE(data, filename, f)
	default:
		err = &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported config format %q (want .yaml, .yml or .cue)", filepath.Ext(filename))}
	}
	if err != nil {
		return nil, err
	}

	if f.Version == 0 {
		f.Version = CurrentVersion
	}
	return f, nil
}

func decodeYAML(data []byte, f *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML: %v", err)}
	}
	return nil
}

func decodeCUE(data []byte, filename string, f *File) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("building schema: %v", err)}
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing CUE: %v", err)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("validating CUE: %v", err)}
	}
	if err := unified.Decode(f); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("decoding CUE: %v", err)}
	}
	return nil
}
