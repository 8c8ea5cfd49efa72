package fmtstr

import (
	"fmt"
	"strings"
)

// Policy selects how Compile treats the shapes the two historical scanners
// disagreed on.
type Policy uint8

const (
	// PolicyStrict rejects empty argument names and lone closing braces.
	PolicyStrict Policy = iota
	// PolicyLenient keeps {} as literal text, swallows a placeholder that is
	// directly followed by '}', and escapes a lone '}'.
	PolicyLenient
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyLenient:
		return "lenient"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	}
	return PolicyStrict, fmt.Errorf("unknown format policy %q (want strict or lenient)", s)
}

// Arg is one argument pulled out of a placeholder.
type Arg struct {
	Name   string `json:"name"`   // raw, untrimmed
	Offset int    `json:"offset"` // byte offset of Name in the literal
}

// Template is a compiled message literal.
type Template struct {
	Output string `json:"output"`
	Args   []Arg  `json:"args"`
}

// Compile compiles s with PolicyStrict.
func Compile(s string) (Template, error) {
	return CompileWith(s, PolicyStrict)
}

// CompileWith compiles s under the given policy. Failures are *Error.
func CompileWith(s string, policy Policy) (Template, error) {
	var out strings.Builder
	out.Grow(len(s))
	var args []Arg

	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				out.WriteString("{{")
				i += 2
				continue
			}
			rel := strings.IndexByte(s[i+1:], '}')
			if rel < 0 {
				return Template{}, &Error{Kind: ErrUnterminated, Offset: i, Len: len(s) - i}
			}
			open, closing := i, i+1+rel
			inner := s[open+1 : closing]
			name, spec, hasSpec := strings.Cut(inner, ":")
			i = closing + 1

			if policy == PolicyLenient && i < len(s) && s[i] == '}' {
				// historical behavior: "{x}}" drops the placeholder and the brace
				i++
				continue
			}
			if name == "" {
				if policy == PolicyStrict {
					return Template{}, &Error{Kind: ErrEmptyArgument, Offset: open, Len: closing + 1 - open}
				}
				out.WriteString("{{")
				out.WriteString(inner)
				out.WriteString("}}")
				continue
			}

			out.WriteByte('{')
			if hasSpec {
				out.WriteByte(':')
				out.WriteString(spec)
			}
			out.WriteByte('}')
			args = append(args, Arg{Name: name, Offset: open + 1})

		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				out.WriteString("}}")
				i += 2
				continue
			}
			if policy == PolicyStrict {
				return Template{}, &Error{Kind: ErrUnmatchedClose, Offset: i, Len: 1}
			}
			out.WriteString("}}")
			i++

		default:
			next := strings.IndexAny(s[i:], "{}")
			if next < 0 {
				out.WriteString(s[i:])
				i = len(s)
				continue
			}
			out.WriteString(s[i : i+next])
			i += next
		}
	}
	return Template{Output: out.String(), Args: args}, nil
}
