package codegen

import (
	"fmt"
	"strings"
)

// writer accumulates generated source and tracks indentation.
type writer struct {
	buf         []byte
	indentLevel int
	atLineStart bool
}

func newWriter(sizeHint int) *writer {
	return &writer{
		buf:         make([]byte, 0, sizeHint),
		atLineStart: true,
	}
}

func (w *writer) Bytes() []byte {
	return w.buf
}

func (w *writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for range w.indentLevel {
		w.buf = append(w.buf, '\t')
	}
	w.atLineStart = false
}

// WriteString writes s, indenting every line that s starts.
func (w *writer) WriteString(s string) {
	for s != "" {
		line, rest, nl := strings.Cut(s, "\n")
		if line != "" {
			w.writeIndent()
			w.buf = append(w.buf, line...)
		}
		if nl {
			w.buf = append(w.buf, '\n')
			w.atLineStart = true
		}
		s = rest
	}
}

// Linef writes one formatted line.
func (w *writer) Linef(format string, args ...any) {
	w.WriteString(fmt.Sprintf(format, args...))
	w.Newline()
}

// Newline ends the current line.
func (w *writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// BlankLine makes sure the output ends with exactly one empty line.
func (w *writer) BlankLine() {
	n := len(w.buf)
	switch {
	case n == 0:
		return
	case w.buf[n-1] != '\n':
		w.buf = append(w.buf, '\n', '\n')
	case n < 2 || w.buf[n-2] != '\n':
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

func (w *writer) IndentPush() {
	w.indentLevel++
}

func (w *writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Block writes "header {", the body one level deeper, and the closing brace.
func (w *writer) Block(header string, body func()) {
	w.BlockClose(header, "}", body)
}

// BlockClose is Block with a custom closing line, e.g. "})" for a function
// literal passed as the last argument.
func (w *writer) BlockClose(header, closing string, body func()) {
	w.Linef("%s {", header)
	w.IndentPush()
	body()
	w.IndentPop()
	w.Linef("%s", closing)
}

// Group writes a parenthesized declaration group such as an import block.
func (w *writer) Group(keyword string, body func()) {
	w.Linef("%s (", keyword)
	w.IndentPush()
	body()
	w.IndentPop()
	w.Linef(")")
}

// Comment writes text as // lines.
func (w *writer) Comment(text string) {
	for line := range strings.SplitSeq(text, "\n") {
		if line == "" {
			w.Linef("//")
			continue
		}
		w.Linef("// %s", line)
	}
}
