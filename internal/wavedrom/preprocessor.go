package wavedrom

import (
	"fmt"
	"log/slog"

	"github.com/JasMoH/mdbook-wavedrom/internal/book"
)

// Name is the preprocessor name mdBook knows this tool by.
const Name = "wavedrom"

// Preprocessor rewrites the wavedrom blocks of every chapter of a book.
type Preprocessor struct {
	rewriter *Rewriter
	logger   *slog.Logger
}

// NewPreprocessor returns a Preprocessor logging to logger.
func NewPreprocessor(logger *slog.Logger) *Preprocessor {
	r := NewRewriter(Tag, logger)

	return &Preprocessor{rewriter: r, logger: r.logger}
}

func (p *Preprocessor) Name() string {
	return Name
}

// SupportsRenderer reports whether the rewritten output makes sense for the
// named mdBook renderer. Only the HTML renderer runs the WaveDrom loader.
func (p *Preprocessor) SupportsRenderer(renderer string) bool {
	return renderer == "html"
}

// Run rewrites the content of every chapter in place. It stops at the first
// chapter that fails; the book must then be discarded.
func (p *Preprocessor) Run(ctx *book.Context, b *book.Book) error {
	if ctx != nil && !ctx.VersionMatches() {
		p.logger.Warn("mdbook version mismatch",
			"preprocessor", Name,
			"built_against", book.MdbookVersion,
			"called_from", ctx.MdbookVersion)
	}

	return b.ForEachChapter(func(ch *book.Chapter) error {
		content, err := p.rewriter.Rewrite(ch.Content)
		if err != nil {
			return fmt.Errorf("chapter %q: %w", ch.Name, err)
		}

		ch.Content = content

		return nil
	})
}
