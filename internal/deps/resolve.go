// Package deps expands dependency glob patterns into file contents for
// hashing.
//
// Resolution is deterministic: matches from every pattern are merged,
// deduplicated and strictly sorted by absolute path before their contents
// are handed to the stamp engine, because dependency order is part of the
// hash. Directory iteration order never leaks into the result.
package deps

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many dependency files are read at once.
const DefaultConcurrency = 8

// Item is one resolved dependency file.
type Item struct {
	// AbsolutePath is the cleaned absolute path. Items sort by it.
	AbsolutePath string

	// RelativePath is AbsolutePath relative to the resolver's Cwd, with
	// forward slashes.
	RelativePath string

	// Content is the file content as read from disk.
	Content string
}

// Resolver expands patterns relative to Cwd.
type Resolver struct {
	// Cwd is the directory relative patterns resolve against.
	Cwd string

	// Concurrency bounds parallel reads. Zero means DefaultConcurrency.
	Concurrency int

	// Logger receives a warning for each pattern that matches nothing.
	// Nil discards.
	Logger *slog.Logger
}

// NewResolver returns a Resolver rooted at cwd.
func NewResolver(cwd string, logger *slog.Logger) *Resolver {
	return &Resolver{Cwd: cwd, Logger: logger}
}

// Resolve expands patterns and reads every matching file.
//
// Patterns support "**" for any number of directories. A pattern without
// glob characters names a single file. Directories never match. A pattern
// that matches nothing contributes nothing; it is not an error.
func (r *Resolver) Resolve(ctx context.Context, patterns []string) ([]Item, error) {
	if len(patterns) == 0 {
		return []Item{}, nil
	}

	seen := make(map[string]struct{})
	var paths []string

	for _, pattern := range patterns {
		matches, err := r.expand(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			r.logger().Warn("dependency pattern matched no files", "pattern", pattern, "cwd", r.Cwd)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}

	sort.Strings(paths)

	items := make([]Item, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading dependency %q: %w", path, err)
			}
			items[i] = Item{
				AbsolutePath: path,
				RelativePath: r.relative(path),
				Content:      string(content),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// expand returns the absolute, cleaned paths of the files pattern matches.
//
// Only the pattern is glob syntax. The leading literal part of the pattern
// is joined onto Cwd as a plain directory, so a Cwd such as proj[1] is never
// read as a character class.
func (r *Resolver) expand(pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(filepath.Clean(pattern)))

	root := filepath.FromSlash(base)
	if !filepath.IsAbs(root) {
		root = filepath.Join(r.Cwd, root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		abs, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(m)))
		if err != nil {
			return nil, err
		}
		out = append(out, abs)
	}
	return out, nil
}

func (r *Resolver) relative(path string) string {
	rel, err := filepath.Rel(r.Cwd, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (r *Resolver) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return DefaultConcurrency
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
