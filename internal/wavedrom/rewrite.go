// Package wavedrom rewrites ```wavedrom fenced code blocks into the script
// fragment the WaveDrom loader renders in the browser.
package wavedrom

import (
	"io"
	"log/slog"

	"github.com/JasMoH/mdbook-wavedrom/internal/mdcode"
)

// Tag is the info string of the blocks the preprocessor rewrites.
const Tag = "wavedrom"

const (
	loader      = "<body onload=\"WaveDrom.ProcessAll()\">\n\n"
	scriptOpen  = "<script type=\"WaveDrom\">"
	scriptClose = "</script>\n\n"
)

// Rewriter replaces fenced code blocks carrying a fixed tag. It holds no
// per-document state and may be shared between goroutines.
type Rewriter struct {
	tag    string
	logger *slog.Logger
}

// NewRewriter returns a Rewriter for blocks whose info string is exactly tag.
// A nil logger discards all output.
func NewRewriter(tag string, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Rewriter{tag: tag, logger: logger}
}

// Rewrite replaces every block of document tagged tag with its embedded form.
func Rewrite(document, tag string) (string, error) {
	return NewRewriter(tag, nil).Rewrite(document)
}

// Rewrite returns document with every complete tagged block replaced by the
// WaveDrom embedding of its content. Everything outside those blocks is
// returned byte for byte. A tagged block without a closing fence is left
// as it is.
func (r *Rewriter) Rewrite(document string) (string, error) {
	source := []byte(document)

	events, err := mdcode.Events(source)
	if err != nil {
		return "", err
	}

	var (
		inBlock bool
		pending mdcode.Span
		edits   []mdcode.Edit
	)

	for _, event := range events {
		if event.Kind == mdcode.BlockStart {
			r.logger.Debug("fenced code block", "info", event.Info, "start", event.Span.Start, "end", event.Span.End)

			if event.Info == r.tag {
				if inBlock {
					r.logger.Debug("dropping unterminated block", "tag", r.tag, "start", pending.Start)
				}

				pending = event.Span
				inBlock = true
			}

			continue
		}

		if !inBlock || event.Kind != mdcode.BlockEnd || event.Span.Start != pending.Start {
			continue
		}

		inBlock = false

		edits = append(edits, mdcode.Edit{
			Span: mdcode.Span{Start: pending.Start, End: event.Span.End},
			Text: Embed(source[event.Body.Start:event.Body.End]),
		})
	}

	if inBlock {
		r.logger.Debug("dropping unterminated block", "tag", r.tag, "start", pending.Start)
	}

	if len(edits) == 0 {
		return document, nil
	}

	res, err := mdcode.Splice(source, edits)
	if err != nil {
		return "", err
	}

	return string(res), nil
}

// Embed wraps a raw block payload into the WaveDrom loader and script tags.
// The leading newline puts the loader on a line of its own even when the
// fence followed a list marker or a blockquote prefix.
func Embed(payload []byte) []byte {
	escaped := Escape(payload)

	res := make([]byte, 0, 1+len(loader)+len(scriptOpen)+len(escaped)+len(scriptClose))
	res = append(res, '\n')
	res = append(res, loader...)
	res = append(res, scriptOpen...)
	res = append(res, escaped...)
	res = append(res, scriptClose...)

	return res
}
