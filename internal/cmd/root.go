// Package cmd implements the mdbook-wavedrom command line.
package cmd

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JasMoH/mdbook-wavedrom/internal/logging"
	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

type statusFunc func(format string, args ...interface{})

type options struct {
	logLevel string
	logger   *slog.Logger
	status   statusFunc
}

func (opts *options) createStatus(out io.Writer) {
	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(out, format, args...)
	}
}

// Execute runs the command line with args and exits the process with its
// status code.
func Execute(args []string, stdout, stderr io.Writer) {
	os.Exit(run(args, os.Stdin, stdout, stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := rootCmd()

	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}

	if !errors.Is(err, errUnsupported) {
		fmt.Fprintln(stderr, err)
	}

	return 1
}

func rootCmd() *cobra.Command {
	opts := new(options)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "mdbook-wavedrom",
		Short: "mdBook preprocessor to add WaveDrom support",
		Long:  rootHelp,
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}

			opts.logger = logger
			opts.createStatus(cmd.ErrOrStderr())

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return preprocessRun(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},

		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", logging.LevelFromEnv(), "log level: debug, info, warn or error")

	cmd.AddCommand(
		supportsCmd(),
		installCmd(opts),
		renderCmd(opts),
		blocksCmd(opts),
	)

	return cmd
}
