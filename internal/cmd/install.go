package cmd

import (
	_ "embed"
	"os"

	"github.com/JasMoH/mdbook-wavedrom/internal/install"
	"github.com/spf13/cobra"
)

//go:embed help/install.md
var installHelp string

const exampleBlock = "```wavedrom\n" +
	"{signal: [\n" +
	"  {name: 'clk', wave: 'p.....|...'},\n" +
	"  {name: 'dat', wave: 'x.345x|=.x', data: ['head', 'body', 'tail', 'data']},\n" +
	"  {name: 'req', wave: '0.1..0|1.0'},\n" +
	"  {},\n" +
	"  {name: 'ack', wave: '1.....|01.'}\n" +
	"]}\n" +
	"```"

func installCmd(opts *options) *cobra.Command {
	var (
		command    string
		skipAssets bool
		assetsFrom string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "install [dir]",
		Short: "Install the required asset files and include them in the config",
		Long:  installHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) != 0 {
				dir = args[0]
			}

			iopts := install.Options{
				Command:    command,
				SkipAssets: skipAssets,
				Logger:     opts.logger,
			}

			if len(assetsFrom) != 0 {
				iopts.Fetcher = install.DirFetcher{FS: os.DirFS(assetsFrom)}
			}

			return installRun(cmd, dir, iopts, opts)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVar(&command, "command", install.DefaultCommand, "preprocessor executable written to book.toml")
	cmd.Flags().BoolVar(&skipAssets, "skip-assets", false, "don't download the WaveDrom scripts")
	cmd.Flags().StringVar(&assetsFrom, "assets-from", "", "copy the WaveDrom scripts from an unpacked wavedrom package instead of downloading them")

	return cmd
}

func installRun(cmd *cobra.Command, dir string, iopts install.Options, opts *options) error {
	report, err := install.Install(cmd.Context(), install.DirFS(dir), iopts)
	if err != nil {
		return err
	}

	if len(report.WroteAssets) != 0 {
		opts.logger.Info("wrote additional files", "dir", dir, "files", report.WroteAssets)
	}

	opts.logger.Info("files and configuration for mdbook-wavedrom are installed, you can start using it in your book")
	opts.status("Add a code block like:\n%s\n", exampleBlock)

	return nil
}
