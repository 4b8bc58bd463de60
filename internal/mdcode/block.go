package mdcode

// Span is a half-open byte range [Start, End) into a markdown source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Block is a fenced code block found in a markdown document.
type Block struct {
	Lang      string
	Info      string
	Meta      Meta
	Code      []byte
	Span      Span
	Body      Span
	StartLine int
	EndLine   int
	Closed    bool
}

type Blocks []*Block
