package mdcode

import (
	"errors"
	"fmt"
	"sort"
)

// Edit replaces the bytes of Span with Text.
type Edit struct {
	Span Span
	Text []byte
}

// Splice applies edits to a copy of source and returns it. Edits must lie
// within source and must not overlap. They are applied from the highest
// offset down, so the offsets of edits not yet applied stay valid however
// the length of the replaced text changes.
func Splice(source []byte, edits []Edit) ([]byte, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	prev := 0

	for _, edit := range sorted {
		if edit.Span.Start < 0 || edit.Span.End > len(source) || edit.Span.Start > edit.Span.End {
			return nil, fmt.Errorf("%w: [%d, %d) in %d bytes", ErrEditRange, edit.Span.Start, edit.Span.End, len(source))
		}

		if edit.Span.Start < prev {
			return nil, fmt.Errorf("%w: [%d, %d)", ErrEditOverlap, edit.Span.Start, edit.Span.End)
		}

		prev = edit.Span.End
	}

	res := make([]byte, len(source))
	copy(res, source)

	for i := len(sorted) - 1; i >= 0; i-- {
		edit := sorted[i]

		next := make([]byte, 0, len(res)-edit.Span.Len()+len(edit.Text))
		next = append(next, res[:edit.Span.Start]...)
		next = append(next, edit.Text...)
		next = append(next, res[edit.Span.End:]...)

		res = next
	}

	return res, nil
}

var (
	// ErrEditRange is returned by [Splice] for an edit outside the source.
	ErrEditRange = errors.New("edit out of range")
	// ErrEditOverlap is returned by [Splice] when two edits overlap.
	ErrEditOverlap = errors.New("overlapping edits")
)
