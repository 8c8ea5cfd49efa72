package fmtstr

import "fmt"

// ErrorKind classifies a compile failure.
type ErrorKind uint8

const (
	ErrUnterminated ErrorKind = iota + 1
	ErrEmptyArgument
	ErrUnmatchedClose
)

var kindMessage = map[ErrorKind]string{
	ErrUnterminated:   "malformed format string: unterminated placeholder",
	ErrEmptyArgument:  "positional argument in format string, but no arguments were given",
	ErrUnmatchedClose: "unmatched '}' in format string",
}

// Error is a compile failure inside a literal. Offset and Len are bytes in
// the decoded literal value.
type Error struct {
	Kind   ErrorKind
	Offset int
	Len    int
}

func (e *Error) Error() string {
	if msg, ok := kindMessage[e.Kind]; ok {
		return msg
	}
	return fmt.Sprintf("format string error %d", e.Kind)
}

// SpecError reports a format spec that has no fmt equivalent.
type SpecError struct {
	Index int // placeholder index, 0-based
	Spec  string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("placeholder %d: format spec %q has no Go equivalent", e.Index, e.Spec)
}
