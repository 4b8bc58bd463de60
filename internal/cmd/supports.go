package cmd

import (
	_ "embed"
	"errors"

	"github.com/JasMoH/mdbook-wavedrom/internal/wavedrom"
	"github.com/spf13/cobra"
)

//go:embed help/supports.md
var supportsHelp string

func supportsCmd() *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "supports renderer",
		Short: "Check whether a renderer is supported by this preprocessor",
		Long:  supportsHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if !wavedrom.NewPreprocessor(nil).SupportsRenderer(args[0]) {
				return errUnsupported
			}

			return nil
		},

		DisableAutoGenTag: true,
	}

	return cmd
}

var errUnsupported = errors.New("renderer not supported")
