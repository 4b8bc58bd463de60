package book

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `[
  {
    "root": "/books/signals",
    "config": {"book": {"title": "Signals"}, "preprocessor": {"wavedrom": {"command": "mdbook-wavedrom"}}},
    "renderer": "html",
    "mdbook_version": "0.4.40"
  },
  {
    "sections": [
      {"Chapter": {
        "name": "Intro",
        "content": "# Intro\n",
        "number": [1],
        "sub_items": [
          {"Chapter": {
            "name": "Clock",
            "content": "clock",
            "number": [1, 1],
            "sub_items": [],
            "path": "intro/clock.md",
            "source_path": "intro/clock.md",
            "parent_names": ["Intro"]
          }}
        ],
        "path": "intro.md",
        "source_path": "intro.md",
        "parent_names": []
      }},
      "Separator",
      {"PartTitle": "Reference"},
      {"Chapter": {
        "name": "Draft",
        "content": "",
        "number": null,
        "sub_items": [],
        "path": null,
        "source_path": null,
        "parent_names": []
      }}
    ],
    "__non_exhaustive": null
  }
]`

func TestParseInput(t *testing.T) {
	t.Parallel()

	ctx, book, err := ParseInput(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "/books/signals", ctx.Root)
	assert.Equal(t, "html", ctx.Renderer)
	assert.True(t, ctx.VersionMatches())
	assert.Contains(t, ctx.Config, "preprocessor")

	require.Len(t, book.Sections, 4)

	intro := book.Sections[0].Chapter
	require.NotNil(t, intro)
	assert.Equal(t, "Intro", intro.Name)
	assert.Equal(t, []int{1}, intro.Number)
	require.Len(t, intro.SubItems, 1)
	assert.Equal(t, []string{"Intro"}, intro.SubItems[0].Chapter.ParentNames)

	assert.True(t, book.Sections[1].Separator)
	require.NotNil(t, book.Sections[2].PartTitle)
	assert.Equal(t, "Reference", *book.Sections[2].PartTitle)

	draft := book.Sections[3].Chapter
	assert.Nil(t, draft.Number)
	assert.Nil(t, draft.Path)
}

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()

	_, book, err := ParseInput(strings.NewReader(input))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, book.Write(&out))

	start := strings.Index(input, `{
    "sections"`)
	end := strings.LastIndex(input, "]")
	assert.JSONEq(t, input[start:end], out.String())
}

func TestWriteEmptyArrays(t *testing.T) {
	t.Parallel()

	book := &Book{Sections: []*Item{{Chapter: &Chapter{Name: "New"}}}}

	var out bytes.Buffer
	require.NoError(t, book.Write(&out))

	assert.JSONEq(t, `{
		"sections": [{"Chapter": {
			"name": "New",
			"content": "",
			"number": null,
			"sub_items": [],
			"path": null,
			"source_path": null,
			"parent_names": []
		}}],
		"__non_exhaustive": null
	}`, out.String())
}

func TestUnknownItemsAreKept(t *testing.T) {
	t.Parallel()

	in := `[{}, {"sections": ["Spacer", {"Appendix": {"name": "x"}}], "__non_exhaustive": null}]`

	_, book, err := ParseInput(strings.NewReader(in))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, book.Write(&out))
	assert.JSONEq(t, `{"sections": ["Spacer", {"Appendix": {"name": "x"}}], "__non_exhaustive": null}`, out.String())
}

func TestForEachChapter(t *testing.T) {
	t.Parallel()

	_, book, err := ParseInput(strings.NewReader(input))
	require.NoError(t, err)

	var names []string

	err = book.ForEachChapter(func(ch *Chapter) error {
		names = append(names, ch.Name)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Clock", "Draft"}, names)

	errStop := errors.New("stop")
	calls := 0

	err = book.ForEachChapter(func(*Chapter) error {
		calls++

		return errStop
	})
	require.ErrorIs(t, err, errStop)
	assert.Equal(t, 1, calls)
}

func TestParseInputErrors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{``, `{}`, `[{}]`, `[{}, {"sections": 3}]`, `[[], {}]`} {
		_, _, err := ParseInput(strings.NewReader(in))
		require.ErrorIs(t, err, ErrInvalidInput, in)
	}
}
