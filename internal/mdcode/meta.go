package mdcode

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// Meta holds key-value attributes parsed from a fenced code block's info
// string, e.g. `wavedrom width=400` or `wavedrom {"width": 400}`.
type Meta map[string]interface{}

// Get returns the attribute value for the given key as a string.
// It returns an empty string if the key is missing or the Meta is nil.
func (m Meta) Get(name string) string {
	if m == nil {
		return ""
	}

	value, has := m[name]
	if !has {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

// String renders the attributes as space separated key=value pairs, sorted
// by key.
func (m Meta) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m.Get(k)
	}

	return strings.Join(pairs, " ")
}

var (
	reJSON     = regexp.MustCompile(`^\s*{\s*["}]`)
	reBrackets = regexp.MustCompile(`^\s*{(.*)}$`)
)

func parseMeta(input []byte) (Meta, error) {
	if len(input) == 0 {
		return Meta{}, nil
	}

	if reJSON.Match(input) {
		var meta Meta

		if err := json.Unmarshal(input, &meta); err != nil {
			return nil, fmt.Errorf("info string attributes: %w", err)
		}

		return meta, nil
	}

	if subs := reBrackets.FindSubmatch(input); subs != nil {
		input = subs[1]
	}

	words, err := shlex.Split(string(input))
	if err != nil {
		return nil, fmt.Errorf("info string attributes: %w", err)
	}

	dict := make(Meta, len(words))

	for _, word := range words {
		if key, value, found := strings.Cut(word, "="); found {
			dict[key] = value
		}
	}

	return dict, nil
}
