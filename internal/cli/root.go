package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/codestamp/internal/runner"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// StampOptions holds flags for stamping.
type StampOptions struct {
	*RootOptions
	Write         bool
	Deps          string
	Template      string
	Placer        string
	Transforms    []string
	DepTransforms []string
	Cwd           string
	Config        string
	Silent        bool
	Concurrency   int

	// RunIDs allows overriding the batch run ID generator (for testing).
	// If nil, defaults to runner.UUIDv7Generator.
	RunIDs runner.RunIDGenerator
}

// NewRootCommand creates the codestamp command.
func NewRootCommand() *cobra.Command {
	opts := &StampOptions{RootOptions: &RootOptions{}}

	cmd := &cobra.Command{
		Use:   "codestamp [target_file]",
		Short: "Stamp and verify your files and contents",
		Long: `codestamp signs generated files with a stamp computed from their content and
their dependencies, and verifies that the stamp is still valid.

Without --write, codestamp runs in verification mode: it prints the diff to
stderr and exits 1 when the stamp is no longer valid.

Make sure to quote globs so that codestamp expands them, not your shell.

Example:
  codestamp types.ts --deps ffi.rs,data.json
  codestamp types.ts --deps 'data/**/*.json,types/*.ts' --write
  codestamp target.py -t '# @codegen %STAMP%\n%CONTENT%' --write
  codestamp output.json --deps source.json --placer json-field --transform json
  codestamp --config codestamp.yaml --write`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return usageError(fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStamp(cmd, opts, args)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "CodeStamp Error", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Write, "write", "w", false, "rewrite the file in place")
	flags.StringVarP(&opts.Deps, "deps", "d", "", "comma-separated dependency paths or globs")
	flags.StringVarP(&opts.Template, "template", "t", "", "placement template with %STAMP% and %CONTENT%")
	flags.StringVar(&opts.Placer, "placer", "", "built-in placer name (see 'codestamp presets')")
	flags.StringSliceVar(&opts.Transforms, "transform", nil, "built-in hashing transform for the target, repeatable")
	flags.StringArrayVar(&opts.DepTransforms, "dep-transform", nil, "GLOB=NAME[,NAME] hashing transforms for matching dependencies, repeatable")
	flags.StringVar(&opts.Cwd, "cwd", "", "directory dependency globs resolve against (default: working directory)")
	flags.StringVarP(&opts.Config, "config", "c", "", "batch config file (.yaml, .yml or .cue)")
	flags.BoolVar(&opts.Silent, "silent", false, "print nothing; report through the exit code only")
	flags.IntVarP(&opts.Concurrency, "concurrency", "j", runner.DefaultBatchConcurrency, "targets processed in parallel with --config")

	cmd.AddCommand(NewPresetsCommand(opts.RootOptions))

	return cmd
}

func usageError(message string) *ExitError {
	return NewExitError(ExitCommandError, "CodeStamp Error: "+message+"\n\nRun `codestamp --help` to see the quick guide and examples.")
}
