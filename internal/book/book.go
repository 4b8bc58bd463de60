// Package book implements the JSON protocol mdBook uses to talk to
// preprocessors over standard input and output.
package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MdbookVersion is the mdBook release this preprocessor is built against.
const MdbookVersion = "0.4.40"

// Context is the first element of the preprocessor input.
type Context struct {
	Root          string                 `json:"root"`
	Config        map[string]interface{} `json:"config"`
	Renderer      string                 `json:"renderer"`
	MdbookVersion string                 `json:"mdbook_version"`
}

// VersionMatches reports whether the calling mdBook is the release this
// preprocessor was built against.
func (c *Context) VersionMatches() bool {
	return c.MdbookVersion == MdbookVersion
}

// Book is the second element of the preprocessor input, and the whole output.
type Book struct {
	Sections []*Item `json:"sections"`
	// mdBook refuses a book without this field, so it is kept as received.
	NonExhaustive json.RawMessage `json:"__non_exhaustive"`
}

// Chapter is a single page of the book.
type Chapter struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Number      []int    `json:"number"`
	SubItems    []*Item  `json:"sub_items"`
	Path        *string  `json:"path"`
	SourcePath  *string  `json:"source_path"`
	ParentNames []string `json:"parent_names"`
}

// MarshalJSON encodes nil sub-items and parent names as empty arrays, which
// mdBook requires.
func (c *Chapter) MarshalJSON() ([]byte, error) {
	type plain Chapter

	out := plain(*c)

	if out.SubItems == nil {
		out.SubItems = []*Item{}
	}

	if out.ParentNames == nil {
		out.ParentNames = []string{}
	}

	return json.Marshal(out)
}

const separator = "Separator"

// Item is an entry of the book's table of contents. Exactly one of Chapter,
// Separator or PartTitle is set, unless the entry is of a kind this package
// does not know, in which case it is carried through unchanged.
type Item struct {
	Chapter   *Chapter
	Separator bool
	PartTitle *string

	raw json.RawMessage
}

type taggedItem struct {
	Chapter   *Chapter `json:"Chapter,omitempty"`
	PartTitle *string  `json:"PartTitle,omitempty"`
}

func (i *Item) UnmarshalJSON(data []byte) error {
	*i = Item{}

	trimmed := bytes.TrimSpace(data)

	var name string
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}

		if name == separator {
			i.Separator = true

			return nil
		}

		i.raw = append(json.RawMessage(nil), trimmed...)

		return nil
	}

	var tagged taggedItem
	if err := json.Unmarshal(trimmed, &tagged); err != nil {
		return fmt.Errorf("book item: %w", err)
	}

	switch {
	case tagged.Chapter != nil:
		i.Chapter = tagged.Chapter
	case tagged.PartTitle != nil:
		i.PartTitle = tagged.PartTitle
	default:
		i.raw = append(json.RawMessage(nil), trimmed...)
	}

	return nil
}

func (i *Item) MarshalJSON() ([]byte, error) {
	switch {
	case i.Chapter != nil:
		return json.Marshal(taggedItem{Chapter: i.Chapter})
	case i.PartTitle != nil:
		return json.Marshal(taggedItem{PartTitle: i.PartTitle})
	case i.Separator:
		return json.Marshal(separator)
	case i.raw != nil:
		return i.raw, nil
	default:
		return nil, errEmptyItem
	}
}

// ForEachChapter calls fn for every chapter of the book, depth first, a
// chapter before its sub-chapters. The first error stops the iteration.
func (b *Book) ForEachChapter(fn func(*Chapter) error) error {
	return forEachChapter(b.Sections, fn)
}

func forEachChapter(items []*Item, fn func(*Chapter) error) error {
	for _, item := range items {
		if item == nil || item.Chapter == nil {
			continue
		}

		if err := fn(item.Chapter); err != nil {
			return err
		}

		if err := forEachChapter(item.Chapter.SubItems, fn); err != nil {
			return err
		}
	}

	return nil
}

// ParseInput decodes the `[context, book]` pair mdBook writes to a
// preprocessor's standard input.
func ParseInput(r io.Reader) (*Context, *Book, error) {
	var input []json.RawMessage

	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	const pair = 2
	if len(input) != pair {
		return nil, nil, fmt.Errorf("%w: expected [context, book], got %d elements", ErrInvalidInput, len(input))
	}

	var (
		ctx  Context
		book Book
	)

	if err := json.Unmarshal(input[0], &ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: context: %w", ErrInvalidInput, err)
	}

	if err := json.Unmarshal(input[1], &book); err != nil {
		return nil, nil, fmt.Errorf("%w: book: %w", ErrInvalidInput, err)
	}

	return &ctx, &book, nil
}

// Write encodes the book as the preprocessor output.
func (b *Book) Write(w io.Writer) error {
	out := *b
	if out.Sections == nil {
		out.Sections = []*Item{}
	}

	return json.NewEncoder(w).Encode(&out)
}

var (
	// ErrInvalidInput is returned by [ParseInput] for malformed input.
	ErrInvalidInput = errors.New("invalid preprocessor input")
	errEmptyItem    = errors.New("empty book item")
)
