package mdcode

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// EventKind tells block-start events from block-end events.
type EventKind int

const (
	BlockStart EventKind = iota + 1
	BlockEnd
)

func (k EventKind) String() string {
	switch k {
	case BlockStart:
		return "start"
	case BlockEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is a structural event for a fenced code block.
//
// Span covers the opening fence through the closing fence. Body is the text
// strictly between the opening and closing fence lines. A block without a
// closing fence only produces a BlockStart event, whose Span then ends with
// the block content.
type Event struct {
	Kind EventKind
	Info string
	Span Span
	Body Span
}

type fence struct {
	node   *ast.FencedCodeBlock
	char   byte
	length int
	info   string
	span   Span
	body   Span
	closed bool
}

// Events parses a markdown document and returns the start and end events of
// its fenced code blocks in document order.
//
// Fenced blocks that have neither an info string nor content lines carry no
// source position in the syntax tree and are not reported.
func Events(source []byte) ([]Event, error) {
	fences, err := scan(source)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, 2*len(fences)) //nolint:gomnd

	for _, f := range fences {
		events = append(events, Event{Kind: BlockStart, Info: f.info, Span: f.span, Body: f.body})

		if f.closed {
			events = append(events, Event{Kind: BlockEnd, Info: f.info, Span: f.span, Body: f.body})
		}
	}

	return events, nil
}

func scan(source []byte) ([]*fence, error) {
	root := NewParser().Parse(text.NewReader(source))

	var fences []*fence

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}

		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		if f := openFence(fcb, source); f != nil {
			fences = append(fences, f)
		}

		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	opening := make(map[int]bool, len(fences))
	for _, f := range fences {
		opening[f.span.Start] = true
	}

	for _, f := range fences {
		closeFence(f, source, opening)
	}

	return fences, nil
}

func isFenceChar(c byte) bool {
	return c == '`' || c == '~'
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

// openFence finds the opening delimiter of fcb by walking back from the
// first position goldmark recorded after it: the info string, or else the
// end of the line before the first content line.
func openFence(fcb *ast.FencedCodeBlock, source []byte) *fence {
	var (
		stop int
		info string
	)

	lines := fcb.Lines()

	switch {
	case fcb.Info != nil:
		stop = fcb.Info.Segment.Start
		info = string(fcb.Info.Segment.Value(source))
	case lines.Len() > 0:
		stop = bytes.LastIndexByte(source[:lines.At(0).Start], '\n')
		if stop < 0 {
			return nil
		}
	default:
		return nil
	}

	for stop > 0 && isBlank(source[stop-1]) {
		stop--
	}

	if stop == 0 || !isFenceChar(source[stop-1]) {
		return nil
	}

	char := source[stop-1]
	start := stop

	for start > 0 && source[start-1] == char {
		start--
	}

	const minFence = 3
	if stop-start < minFence {
		return nil
	}

	bodyStart := len(source)
	if idx := bytes.IndexByte(source[stop:], '\n'); idx >= 0 {
		bodyStart = stop + idx + 1
	}

	bodyEnd := bodyStart
	if lines.Len() > 0 {
		bodyEnd = lines.At(lines.Len() - 1).Stop
	}

	return &fence{
		node:   fcb,
		char:   char,
		length: stop - start,
		info:   info,
		span:   Span{Start: start, End: bodyEnd},
		body:   Span{Start: bodyStart, End: bodyEnd},
	}
}

// closeFence checks whether the line right after the block content is a
// closing fence for f. goldmark also ends a block when one of its containers
// ends, so the line must first continue every list item, blockquote and
// footnote the block sits in. It must then hold a long enough run of the
// fence character, and must not open another block.
func closeFence(f *fence, source []byte, opening map[int]bool) {
	pos := f.body.End
	if pos >= len(source) || (f.body.Len() > 0 && source[pos-1] != '\n') {
		return
	}

	eol := len(source)
	if idx := bytes.IndexByte(source[pos:], '\n'); idx >= 0 {
		eol = pos + idx
	}

	line := source[pos:eol]

	at, col, ok := continuation(line, containers(f.node))
	if !ok {
		return
	}

	const maxIndent = 4
	width, skip := util.IndentWidth(line[at:], col)
	if width >= maxIndent {
		return
	}

	at += skip
	run := at
	for run < len(line) && line[run] == f.char {
		run++
	}

	if run-at < f.length || opening[pos+at] || !util.IsBlank(line[run:]) {
		return
	}

	f.span.End = pos + run
	f.closed = true
}

// containers returns the ancestors of node that need a prefix on each of
// their lines, outermost first.
func containers(node ast.Node) []ast.Node {
	var chain []ast.Node

	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case ast.KindBlockquote, ast.KindListItem, east.KindFootnote:
			chain = append(chain, p)
		}
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain
}

// continuation consumes the prefixes chain requires from line, the way
// goldmark's block parsers continue their blocks. It returns the byte
// position and column after them, or false when a container ends on line.
func continuation(line []byte, chain []ast.Node) (int, int, bool) {
	const (
		maxQuoteIndent = 3
		footnoteIndent = 4
	)

	pos, col := 0, 0

	for _, node := range chain {
		var ok bool

		switch n := node.(type) {
		case *ast.Blockquote:
			width, skip := util.IndentWidth(line[pos:], col)
			if width > maxQuoteIndent || pos+skip >= len(line) || line[pos+skip] != '>' {
				return 0, 0, false
			}

			pos, col = pos+skip+1, col+width+1

			if pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
				col += columns(line[pos], col)
				pos++
			}

			continue
		case *ast.ListItem:
			pos, col, ok = indent(line, pos, col, n.Offset)
		default:
			pos, col, ok = indent(line, pos, col, footnoteIndent)
		}

		if !ok {
			return 0, 0, false
		}
	}

	return pos, col, true
}

// indent consumes width columns of spaces and tabs from line.
func indent(line []byte, pos, col, width int) (int, int, bool) {
	for consumed := 0; consumed < width; pos++ {
		if pos >= len(line) || (line[pos] != ' ' && line[pos] != '\t') {
			return 0, 0, false
		}

		w := columns(line[pos], col)
		consumed += w
		col += w
	}

	return pos, col, true
}

func columns(c byte, col int) int {
	if c == '\t' {
		return util.TabWidth(col)
	}

	return 1
}
