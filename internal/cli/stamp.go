package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/codestamp/internal/builtin"
	"github.com/roach88/codestamp/internal/config"
	"github.com/roach88/codestamp/internal/deps"
	"github.com/roach88/codestamp/internal/runner"
	"github.com/roach88/codestamp/internal/stamp"
)

func runStamp(cmd *cobra.Command, opts *StampOptions, args []string) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	err := stampFiles(cmd, opts, args, formatter)

	// JSON output reports command errors on stdout; the exit code still
	// reflects them.
	var exitErr *ExitError
	if opts.Format == "json" && errors.As(err, &exitErr) && exitErr.Code == ExitCommandError {
		code := ErrCodeUsage
		var loadErr *config.LoadError
		switch {
		case errors.As(exitErr.Err, &loadErr):
			code = loadErr.Code
		case exitErr.Err != nil:
			code = ErrCodeIO
		}
		_ = formatter.Error(code, exitErr.Error(), nil)
		return &ExitError{Code: exitErr.Code}
	}
	return err
}

func stampFiles(cmd *cobra.Command, opts *StampOptions, args []string, formatter *OutputFormatter) error {
	flags := cmd.Flags()
	if flags.Changed("template") && opts.Template == "" {
		return usageError("Received empty value for option `-t, --template`.")
	}
	depList := splitDeps(opts.Deps)
	if flags.Changed("deps") && len(depList) == 0 {
		return usageError("Received empty value for option `-d, --deps`.")
	}
	if opts.Template != "" && opts.Placer != "" {
		return usageError("Options `-t, --template` and `--placer` are mutually exclusive.")
	}

	base := runner.Params{
		ShouldWrite: opts.Write,
		Silent:      opts.Silent,
		Logger:      newLogger(cmd.ErrOrStderr(), opts),
		Out:         cmd.OutOrStdout(),
		Err:         cmd.ErrOrStderr(),
	}
	if opts.Format == "json" {
		base.Out = io.Discard
	}

	if opts.Config != "" {
		if len(args) > 0 {
			return usageError("Argument `target_file` cannot be combined with `--config`.")
		}
		return runConfig(cmd, opts, base, formatter)
	}

	if len(args) != 1 {
		return usageError("Missing required argument `target_file`.")
	}

	p := base
	p.TargetFilePath = args[0]
	p.DependencyGlobList = depList
	p.Cwd = opts.Cwd

	switch {
	case opts.Template != "":
		p.InitialStampPlacer = stamp.TemplatePlacer(unescapeTemplate(opts.Template))
	case opts.Placer != "":
		placer, err := builtin.LookupPlacer(opts.Placer)
		if err != nil {
			return usageError(err.Error())
		}
		p.InitialStampPlacer = placer
	}

	transform, err := builtin.Chain(opts.Transforms)
	if err != nil {
		return usageError(err.Error())
	}
	p.ContentTransformerForHashing = transform

	fileTransform, err := parseDepTransforms(opts.DepTransforms)
	if err != nil {
		return usageError(err.Error())
	}
	p.FileTransformerForHashing = fileTransform

	result, err := runner.Run(cmd.Context(), p)
	if err != nil {
		return WrapExitError(ExitCommandError, "CodeStamp Error", err)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	}
	if result.ShouldFatalIfDesired {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

func runConfig(cmd *cobra.Command, opts *StampOptions, base runner.Params, formatter *OutputFormatter) error {
	f, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "CodeStamp Error: invalid config "+opts.Config, err)
	}

	params, err := runner.ParamsFromConfig(f, base)
	if err != nil {
		return WrapExitError(ExitCommandError, "CodeStamp Error", err)
	}

	batch, err := runner.RunBatch(cmd.Context(), params, runner.BatchOptions{
		Concurrency: opts.Concurrency,
		RunIDs:      opts.RunIDs,
		Out:         base.Out,
		Err:         base.Err,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "CodeStamp Error", err)
	}

	if opts.Format == "json" {
		if err := formatter.Success(batch); err != nil {
			return err
		}
	}
	if batch.ShouldFatalIfDesired() {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

func newLogger(w io.Writer, opts *StampOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// splitDeps splits a comma-separated list, dropping empty entries.
func splitDeps(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// unescapeTemplate turns escapes typed on a shell, such as \n, into the
// characters they stand for. Input that is not a valid JSON string body is
// returned as is.
func unescapeTemplate(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return raw
	}
	return s
}

// parseDepTransforms parses GLOB=NAME[,NAME] flags into a file transformer.
func parseDepTransforms(values []string) (deps.FileTransformer, error) {
	var rules []deps.Rule
	for _, v := range values {
		pattern, names, ok := strings.Cut(v, "=")
		nameList := splitDeps(names)
		if !ok || pattern == "" || len(nameList) == 0 {
			return nil, fmt.Errorf("invalid --dep-transform %q: want GLOB=NAME[,NAME]", v)
		}
		chain, err := builtin.Chain(nameList)
		if err != nil {
			return nil, err
		}
		rules = append(rules, deps.Rule{Pattern: pattern, Transform: chain})
	}
	return deps.RuleTransformer(rules), nil
}
