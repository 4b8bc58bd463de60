package install

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"
	"mvdan.cc/sh/v3/syntax"
)

// bookConfig is a decoded book.toml. Tables are kept as generic maps so keys
// this package does not know about survive a rewrite.
type bookConfig map[string]interface{}

func parseConfig(data []byte) (bookConfig, error) {
	cfg := make(bookConfig)

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func (c bookConfig) encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := toml.NewEncoder(&buf).Encode(map[string]interface{}(c)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// table returns the nested table at path, creating missing tables when
// create is set. It returns nil when a key on the path holds a non-table.
func (c bookConfig) table(create bool, path ...string) map[string]interface{} {
	cur := map[string]interface{}(c)

	for _, key := range path {
		next, has := cur[key]
		if !has {
			if !create {
				return nil
			}

			child := make(map[string]interface{})
			cur[key] = child
			cur = child

			continue
		}

		child, ok := next.(map[string]interface{})
		if !ok {
			return nil
		}

		cur = child
	}

	return cur
}

func (c bookConfig) hasPreprocessor(name string) bool {
	return c.table(false, "preprocessor", name) != nil
}

func (c bookConfig) addPreprocessor(name, command string) error {
	pre := c.table(true, "preprocessor", name)
	if pre == nil {
		return fmt.Errorf("%w: preprocessor.%s is not a table", ErrInvalidConfig, name)
	}

	pre["command"] = command

	return nil
}

// hasAdditional reports whether output.html.additional-<kind> lists a path
// ending in file. An entry that is not a string may name anything, so it
// counts as a match.
func (c bookConfig) hasAdditional(kind, file string) bool {
	html := c.table(false, "output", "html")
	if html == nil {
		return false
	}

	list, _ := html["additional-"+kind].([]interface{})

	for _, elem := range list {
		s, ok := elem.(string)
		if !ok || strings.HasSuffix(s, file) {
			return true
		}
	}

	return false
}

func (c bookConfig) addAdditional(kind, file string) error {
	html := c.table(true, "output", "html")
	if html == nil {
		return fmt.Errorf("%w: output.html is not a table", ErrInvalidConfig)
	}

	key := "additional-" + kind

	var list []interface{}

	switch current := html[key].(type) {
	case nil:
	case []interface{}:
		list = current
	default:
		return fmt.Errorf("%w: output.html.%s is not an array", ErrInvalidConfig, key)
	}

	html[key] = append(list, file)

	return nil
}

// quoteCommand quotes a preprocessor executable path so that mdBook, which
// splits the command line shell-style, sees it as a single word.
func quoteCommand(command string) (string, error) {
	quoted, err := syntax.Quote(command, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	words, err := shlex.Split(quoted)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	if len(words) != 1 || words[0] != command {
		return "", fmt.Errorf("%w: %q does not split into one word", ErrInvalidCommand, command)
	}

	return quoted, nil
}
