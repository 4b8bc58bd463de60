package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/JasMoH/mdbook-wavedrom/internal/mdcode"
	"github.com/JasMoH/mdbook-wavedrom/internal/wavedrom"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/blocks.md
var blocksHelp string

const (
	statusRewrite      = "rewrite"
	statusUnterminated = "unterminated"
	statusIgnored      = "-"
)

func blocksCmd(opts *options) *cobra.Command {
	var (
		all     bool
		include string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "blocks [flags] [path...]",
		Aliases: []string{"ls"},
		Short:   "List fenced code blocks of markdown files",
		Long:    blocksHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := table.New("FILE", "LINES", "LANG", "ATTRIBUTES", "STATUS").WithWriter(cmd.OutOrStdout())

			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}

				if err := addBlockRows(tbl, "-", src, all); err != nil {
					return err
				}

				tbl.Print()

				return nil
			}

			files, err := markdownFiles(args, include)
			if err != nil {
				return err
			}

			for _, file := range files {
				src, err := os.ReadFile(file)
				if err != nil {
					return err
				}

				if err := addBlockRows(tbl, file, src, all); err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
			}

			opts.logger.Debug("listed blocks", "files", len(files))

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every fenced block, not only wavedrom ones")
	cmd.Flags().StringVar(&include, "include", defaultInclude, "glob selecting files in directories")

	return cmd
}

func addBlockRows(tbl table.Table, file string, src []byte, all bool) error {
	blocks, err := mdcode.Unfence(src)
	if err != nil {
		return err
	}

	if !all {
		blocks = blocks.Tagged(wavedrom.Tag)
	}

	for _, block := range blocks {
		tbl.AddRow(file, fmt.Sprintf("%d-%d", block.StartLine, block.EndLine), block.Lang, block.Meta.String(), blockStatus(block))
	}

	return nil
}

func blockStatus(block *mdcode.Block) string {
	switch {
	case block.Info != wavedrom.Tag:
		return statusIgnored
	case !block.Closed:
		return statusUnterminated
	default:
		return statusRewrite
	}
}
