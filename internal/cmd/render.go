package cmd

import (
	_ "embed"
	"io"
	"os"

	"github.com/JasMoH/mdbook-wavedrom/internal/wavedrom"
	"github.com/spf13/cobra"
)

//go:embed help/render.md
var renderHelp string

const fileMode = 0o644

func renderCmd(opts *options) *cobra.Command {
	var (
		write   bool
		include string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "render [flags] [path...]",
		Aliases: []string{"r"},
		Short:   "Rewrite wavedrom blocks of markdown files",
		Long:    renderHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			rewriter := wavedrom.NewRewriter(wavedrom.Tag, opts.logger)

			if len(args) == 0 {
				return renderStream(rewriter, cmd.InOrStdin(), cmd.OutOrStdout())
			}

			files, err := markdownFiles(args, include)
			if err != nil {
				return err
			}

			for _, file := range files {
				if err := renderFile(rewriter, file, write, cmd.OutOrStdout(), opts); err != nil {
					return err
				}
			}

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place instead of printing them")
	cmd.Flags().StringVar(&include, "include", defaultInclude, "glob selecting files in directories")

	return cmd
}

func renderStream(rewriter *wavedrom.Rewriter, in io.Reader, out io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	res, err := rewriter.Rewrite(string(src))
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, res)

	return err
}

func renderFile(rewriter *wavedrom.Rewriter, filename string, write bool, out io.Writer, opts *options) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	res, err := rewriter.Rewrite(string(src))
	if err != nil {
		return err
	}

	if !write {
		_, err = io.WriteString(out, res)

		return err
	}

	if res == string(src) {
		opts.logger.Debug("unchanged", "file", filename)

		return nil
	}

	opts.logger.Info("rewriting", "file", filename)

	return os.WriteFile(filename, []byte(res), fileMode)
}
