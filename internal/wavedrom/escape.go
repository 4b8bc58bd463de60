package wavedrom

import "github.com/yuin/goldmark/util"

// Escape replaces `<`, `>`, `"` and `&` with their HTML entities so the
// payload cannot end or corrupt the script element. Every byte is looked at
// once, so an ampersand introduced by one substitution is never escaped
// again. The result may share memory with payload when nothing is escaped.
func Escape(payload []byte) []byte {
	return util.EscapeHTML(payload)
}
