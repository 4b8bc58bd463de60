package mdcode

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// NewParser returns a goldmark parser with the same block extensions mdBook
// enables for its HTML renderer: tables, footnotes, strikethrough and task
// lists. Block boundaries around those constructs depend on them being on.
func NewParser() parser.Parser {
	md := goldmark.New(goldmark.WithExtensions(
		extension.Table,
		extension.Footnote,
		extension.Strikethrough,
		extension.TaskList,
	))

	return md.Parser()
}
