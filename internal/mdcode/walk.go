package mdcode

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
)

var reInfo = regexp.MustCompile(`\s*(\w+)\s*(.*)\s*`)

// Walker is a callback invoked for each fenced code block found in a Markdown
// document.
type Walker func(block *Block) error

// Walk parses a Markdown document and calls walker for every fenced code
// block, in document order. The first error returned by walker stops the walk.
func Walk(source []byte, walker Walker) error {
	fences, err := scan(source)
	if err != nil {
		return err
	}

	for _, f := range fences {
		block, err := extractBlock(f, source)
		if err != nil {
			return err
		}

		if err := walker(block); err != nil {
			return err
		}
	}

	return nil
}

func extractBlock(f *fence, source []byte) (*Block, error) {
	lang, meta, err := parseInfo([]byte(f.info))
	if err != nil {
		return nil, err
	}

	block := &Block{
		Lang:   lang,
		Info:   f.info,
		Meta:   meta,
		Code:   extractCode(f.node, source),
		Span:   f.span,
		Body:   f.body,
		Closed: f.closed,
	}

	block.StartLine = lineAt(source, f.span.Start)
	block.EndLine = lineAt(source, f.span.End-1)

	return block, nil
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	if offset < 0 {
		offset = 0
	}

	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buff.Write(seg.Value(source))
	}

	return buff.Bytes()
}

func parseInfo(text []byte) (string, Meta, error) {
	all := reInfo.FindSubmatch(text)
	if all == nil {
		return "", nil, nil
	}

	var (
		lang string
		meta Meta
		err  error
	)

	if len(all) > 1 {
		lang = string(all[1])
	}

	if len(all) <= 2 { //nolint:gomnd
		return lang, meta, nil
	}

	meta, err = parseMeta(all[2])

	return lang, meta, err
}
