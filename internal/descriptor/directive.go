package descriptor

import (
	"go/ast"
	"strconv"
	"strings"
	"unicode/utf8"
)

const directivePrefix = "//errgen:"

type directiveKind uint8

const (
	dirUnknown directiveKind = iota
	dirEnum
	dirTopLevel
	dirError
	dirHelp
)

var directiveNames = map[string]directiveKind{
	"enum":      dirEnum,
	"top_level": dirTopLevel,
	"error":     dirError,
	"help":      dirHelp,
}

// directive is one //errgen: comment line.
type directive struct {
	kind    directiveKind
	name    string
	arg     string // trimmed text after the name
	argOff  int    // file offset of arg
	off     int    // file offset of the comment
	end     int
	comment *ast.Comment
}

func (d directive) enumLevel() bool {
	return d.kind == dirEnum || d.kind == dirTopLevel
}

func isDirective(c *ast.Comment) bool {
	return strings.HasPrefix(c.Text, directivePrefix)
}

// parseDirective splits a directive comment; off is the comment's offset in
// the file.
func parseDirective(c *ast.Comment, off int) directive {
	body := c.Text[len(directivePrefix):]
	name, rest := body, ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		name, rest = body[:i], body[i:]
	}
	trimmed := strings.TrimLeft(rest, " \t")
	return directive{
		kind:    directiveNames[name],
		name:    name,
		arg:     strings.TrimRight(trimmed, " \t"),
		argOff:  off + len(directivePrefix) + len(name) + len(rest) - len(trimmed),
		off:     off,
		end:     off + len(c.Text),
		comment: c,
	}
}

// literal is a decoded Go string literal from a directive.
type literal struct {
	raw   string // as written, quotes included
	value string
	off   int // file offset of the opening quote
	// offsets[i] is the offset in raw of the escape or character that
	// decodes to value[i]; the final entry is the closing quote. Nil when
	// value is raw[1:len(raw)-1] byte for byte.
	offsets []int
}

func decodeLiteral(d directive) (literal, bool) {
	if d.arg == "" || (d.arg[0] != '"' && d.arg[0] != '`') {
		return literal{}, false
	}
	value, err := strconv.Unquote(d.arg)
	if err != nil {
		return literal{}, false
	}
	lit := literal{raw: d.arg, value: value, off: d.argOff}
	if d.arg[0] == '"' && strings.Contains(d.arg, `\`) {
		lit.offsets = escapeOffsets(d.arg, len(value))
	}
	return lit, true
}

// escapeOffsets walks an interpreted literal the way strconv.Unquote does
// and records where each decoded byte comes from.
func escapeOffsets(raw string, n int) []int {
	offs := make([]int, 0, n+1)
	body := raw[1 : len(raw)-1]
	pos := 1
	for body != "" {
		r, multibyte, tail, err := strconv.UnquoteChar(body, '"')
		if err != nil {
			break
		}
		width := 1
		if r >= utf8.RuneSelf && multibyte {
			width = utf8.RuneLen(r)
		}
		for range width {
			offs = append(offs, pos)
		}
		pos += len(body) - len(tail)
		body = tail
	}
	for len(offs) <= n {
		offs = append(offs, len(raw)-1)
	}
	return offs
}

// valueSpan maps [start, end) in the decoded value to file offsets.
func (l literal) valueSpan(start, end int) (int, int) {
	if l.offsets == nil {
		return l.off + 1 + start, l.off + 1 + end
	}
	last := len(l.offsets) - 1
	start, end = min(max(start, 0), last), min(max(end, 0), last)
	return l.off + l.offsets[start], l.off + l.offsets[end]
}
