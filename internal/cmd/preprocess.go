package cmd

import (
	"io"

	"github.com/JasMoH/mdbook-wavedrom/internal/book"
	"github.com/JasMoH/mdbook-wavedrom/internal/wavedrom"
)

func preprocessRun(in io.Reader, out io.Writer, opts *options) error {
	ctx, b, err := book.ParseInput(in)
	if err != nil {
		return err
	}

	opts.logger.Debug("preprocessing book", "root", ctx.Root, "renderer", ctx.Renderer, "sections", len(b.Sections))

	if err := wavedrom.NewPreprocessor(opts.logger).Run(ctx, b); err != nil {
		return err
	}

	return b.Write(out)
}
