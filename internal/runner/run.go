package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/codestamp/internal/deps"
	"github.com/roach88/codestamp/internal/diffview"
	"github.com/roach88/codestamp/internal/stamp"
)

// Params configures one run.
type Params struct {
	// TargetFilePath is the file to stamp, relative to Cwd unless absolute.
	// It is printed as given.
	TargetFilePath string

	// ShouldWrite rewrites the target in place. Otherwise the run only
	// verifies it.
	ShouldWrite bool

	// DependencyGlobList holds dependency paths and globs, relative to Cwd.
	DependencyGlobList []string

	// InitialStampPlacer places the stamp when the target has none.
	InitialStampPlacer stamp.Placer

	// ContentTransformerForHashing rewrites the target before hashing.
	ContentTransformerForHashing stamp.Transformer

	// FileTransformerForHashing rewrites each dependency before hashing.
	FileTransformerForHashing deps.FileTransformer

	// Cwd is the base for relative paths. Empty means the process working
	// directory.
	Cwd string

	// Silent suppresses console output and logging.
	Silent bool

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Out receives status lines, Err receives diffs and errors. Nil means
	// os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer

	// Engine reconciles the stamp. Nil uses the shared default engine.
	Engine *stamp.Engine
}

// Result is the outcome of one run.
type Result struct {
	// Path is Params.TargetFilePath.
	Path string

	// Outcome is the stamp engine's verdict.
	Outcome stamp.Outcome

	// DidWrite reports that the target was rewritten.
	DidWrite bool

	// ShouldFatalIfDesired reports that a CLI should exit non-zero: the
	// outcome is ERROR, or the target is out of date and was not written.
	ShouldFatalIfDesired bool
}

// Run stamps or verifies one target file.
func Run(ctx context.Context, p Params) (*Result, error) {
	p, err := p.withDefaults()
	if err != nil {
		return nil, err
	}
	logger := p.Logger.With("target", p.TargetFilePath)

	targetPath := p.TargetFilePath
	if !filepath.IsAbs(targetPath) {
		targetPath = filepath.Join(p.Cwd, targetPath)
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return nil, fmt.Errorf("reading target %q: %w", p.TargetFilePath, err)
	}
	data, err := os.ReadFile(targetPath)
	if err != nil {
		return nil, fmt.Errorf("reading target %q: %w", p.TargetFilePath, err)
	}
	content := string(data)

	items, err := deps.NewResolver(p.Cwd, p.Logger).Resolve(ctx, p.DependencyGlobList)
	if err != nil {
		return nil, fmt.Errorf("resolving dependencies of %q: %w", p.TargetFilePath, err)
	}
	logger.Debug("resolved dependencies", "count", len(items), "patterns", p.DependencyGlobList)

	engine := p.Engine
	if engine == nil {
		engine = stamp.NewEngine(nil)
	}
	outcome := engine.Apply(stamp.Params{
		DependencyContentList:        deps.ContentList(items, p.FileTransformerForHashing),
		TargetContent:                content,
		InitialStampPlacer:           p.InitialStampPlacer,
		ContentTransformerForHashing: p.ContentTransformerForHashing,
	})
	logger.Debug("reconciled", "status", outcome.Status())

	result := &Result{Path: p.TargetFilePath, Outcome: outcome}

	switch o := outcome.(type) {
	case stamp.OKOutcome:
		p.printf(p.Out, "CodeStamp: ✅ Verified `%s`.\n", p.TargetFilePath)

	case stamp.NewOutcome, stamp.UpdateOutcome:
		newContent, _ := stamp.NewContent(o)
		if p.ShouldWrite {
			if err := os.WriteFile(targetPath, []byte(newContent), info.Mode().Perm()); err != nil {
				return nil, fmt.Errorf("writing target %q: %w", p.TargetFilePath, err)
			}
			result.DidWrite = true
			logger.Debug("stamped", "status", outcome.Status())
			p.printf(p.Out, "CodeStamp: 🔏 Stamped `%s`.\n", p.TargetFilePath)
		} else {
			result.ShouldFatalIfDesired = true
			if !p.Silent {
				if err := diffview.Render(p.Err, content, newContent); err != nil {
					return nil, fmt.Errorf("rendering diff: %w", err)
				}
			}
		}

	default:
		result.ShouldFatalIfDesired = true
		p.printf(p.Err, "CodeStamp: %v\n", stamp.OutcomeErr(outcome))
	}

	return result, nil
}

func (p Params) withDefaults() (Params, error) {
	if p.TargetFilePath == "" {
		return p, fmt.Errorf("target file path is required")
	}
	if p.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return p, fmt.Errorf("getting working directory: %w", err)
		}
		p.Cwd = wd
	}
	if p.Out == nil {
		p.Out = os.Stdout
	}
	if p.Err == nil {
		p.Err = os.Stderr
	}
	switch {
	case p.Silent:
		p.Logger = slog.New(slog.DiscardHandler)
	case p.Logger == nil:
		p.Logger = slog.Default()
	}
	return p, nil
}

func (p Params) printf(w io.Writer, format string, args ...any) {
	if p.Silent {
		return
	}
	fmt.Fprintf(w, format, args...)
}
