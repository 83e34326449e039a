package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/codestamp/internal/builtin"
	"github.com/roach88/codestamp/internal/config"
	"github.com/roach88/codestamp/internal/deps"
	"github.com/roach88/codestamp/internal/stamp"
)

// DefaultBatchConcurrency bounds how many targets a batch processes at once.
const DefaultBatchConcurrency = 4

// RunIDGenerator generates batch run IDs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// BatchOptions configures RunBatch.
type BatchOptions struct {
	// Concurrency bounds parallel targets. Zero means
	// DefaultBatchConcurrency.
	Concurrency int

	// RunIDs generates the batch ID. Nil means UUIDv7Generator.
	RunIDs RunIDGenerator

	// Out and Err receive each target's console output, flushed in target
	// order once the batch finishes. Nil means os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer
}

// Batch is the outcome of RunBatch.
type Batch struct {
	RunID   string    `json:"run_id"`
	Results []*Result `json:"results"`
}

// ShouldFatalIfDesired reports whether any result asks for a non-zero exit.
func (b *Batch) ShouldFatalIfDesired() bool {
	for _, r := range b.Results {
		if r.ShouldFatalIfDesired {
			return true
		}
	}
	return false
}

// RunBatch runs every target concurrently. Results are returned in params
// order. The first I/O failure cancels the remaining runs and is returned.
func RunBatch(ctx context.Context, params []Params, opts BatchOptions) (*Batch, error) {
	ids := opts.RunIDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	out, errOut := opts.Out, opts.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	batch := &Batch{RunID: ids.Generate(), Results: make([]*Result, len(params))}
	outBufs := make([]bytes.Buffer, len(params))
	errBufs := make([]bytes.Buffer, len(params))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, p := range params {
		g.Go(func() error {
			p.Out = &outBufs[i]
			p.Err = &errBufs[i]
			logger := p.Logger
			if logger == nil {
				logger = slog.Default()
			}
			p.Logger = logger.With("run_id", batch.RunID)

			result, err := Run(gctx, p)
			if err != nil {
				return err
			}
			batch.Results[i] = result
			return nil
		})
	}

	waitErr := g.Wait()
	for i := range params {
		if _, err := outBufs[i].WriteTo(out); err != nil {
			return nil, err
		}
		if _, err := errBufs[i].WriteTo(errOut); err != nil {
			return nil, err
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return batch, nil
}

// ParamsFromConfig builds one Params per configured target. base supplies
// the run-wide settings (ShouldWrite, Silent, Logger, Engine); paths resolve
// against the config file's directory.
func ParamsFromConfig(f *config.File, base Params) ([]Params, error) {
	params := make([]Params, 0, len(f.Targets))
	for i, t := range f.Targets {
		p := base
		p.TargetFilePath = t.Path
		p.DependencyGlobList = t.Deps
		p.Cwd = f.Dir
		p.InitialStampPlacer = stamp.Placer{}

		switch {
		case t.Template != "":
			p.InitialStampPlacer = stamp.TemplatePlacer(t.Template)
		case t.Placer != "":
			placer, err := builtin.LookupPlacer(t.Placer)
			if err != nil {
				return nil, fmt.Errorf("targets[%d]: %w", i, err)
			}
			p.InitialStampPlacer = placer
		}

		transform, err := builtin.Chain(t.Transforms)
		if err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		p.ContentTransformerForHashing = transform

		var rules []deps.Rule
		for pattern, names := range t.DepTransforms {
			chain, err := builtin.Chain(names)
			if err != nil {
				return nil, fmt.Errorf("targets[%d].dep_transforms[%q]: %w", i, pattern, err)
			}
			if chain != nil {
				rules = append(rules, deps.Rule{Pattern: pattern, Transform: chain})
			}
		}
		p.FileTransformerForHashing = deps.RuleTransformer(rules)

		params = append(params, p)
	}
	return params, nil
}
