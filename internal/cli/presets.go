package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/codestamp/internal/builtin"
)

// PresetList is the JSON payload of the presets command.
type PresetList struct {
	Placers    []string `json:"placers"`
	Transforms []string `json:"transforms"`
}

// String renders the text listing, one indented name per line.
func (l PresetList) String() string {
	var b strings.Builder
	b.WriteString("Placers:")
	for _, name := range l.Placers {
		b.WriteString("\n  " + name)
	}
	b.WriteString("\nTransforms:")
	for _, name := range l.Transforms {
		b.WriteString("\n  " + name)
	}
	return b.String()
}

// NewPresetsCommand creates the presets command.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "presets",
		Short:         "List built-in placers and hashing transforms",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Success(PresetList{
				Placers:    builtin.PlacerNames(),
				Transforms: builtin.TransformNames(),
			})
		},
	}
}
