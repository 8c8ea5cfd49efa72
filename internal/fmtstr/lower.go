package fmtstr

import (
	"go/token"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const verbs = "vTtbcdoOqxXUeEfFgGsp"

// Lower converts t.Output into a format string for fmt.Sprintf, with one
// verb per placeholder in order:
//
//	{{ }}    -> { }
//	%        -> %%
//	{}       -> %v
//	{:?}     -> %+v
//	{:#?}    -> %#v
//	{:spec}  -> %spec (v appended when spec has no verb)
func Lower(t Template) (string, error) {
	s := t.Output
	var b strings.Builder
	b.Grow(len(s) + 4)

	index := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '%':
			b.WriteString("%%")
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return "", &SpecError{Index: index, Spec: s[i+1:]}
			}
			inner := s[i+1 : i+end]
			verb, err := lowerSpec(inner, index)
			if err != nil {
				return "", err
			}
			b.WriteString(verb)
			index++
			i += end
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func lowerSpec(inner string, index int) (string, error) {
	if inner == "" {
		return "%v", nil
	}
	spec, ok := strings.CutPrefix(inner, ":")
	if !ok {
		return "", &SpecError{Index: index, Spec: inner}
	}
	switch spec {
	case "", "v":
		return "%v", nil
	case "?":
		return "%+v", nil
	case "#?":
		return "%#v", nil
	}
	if !validSpec(spec) {
		return "", &SpecError{Index: index, Spec: spec}
	}
	if !strings.ContainsRune(verbs, rune(spec[len(spec)-1])) {
		spec += "v"
	}
	return "%" + spec, nil
}

// validSpec accepts fmt's [flags][width][.precision][verb] syntax.
func validSpec(spec string) bool {
	i := 0
	for i < len(spec) && strings.IndexByte("+-# 0", spec[i]) >= 0 {
		i++
	}
	for i < len(spec) && isDigit(spec[i]) {
		i++
	}
	if i < len(spec) && spec[i] == '.' {
		i++
		for i < len(spec) && isDigit(spec[i]) {
			i++
		}
	}
	if i == len(spec) {
		return true
	}
	return i == len(spec)-1 && strings.IndexByte(verbs, spec[i]) >= 0
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// Normalize returns name in Unicode NFC form, the form identifiers are
// compared in.
func Normalize(name string) string {
	return norm.NFC.String(name)
}

// IsIdent reports whether name is a bare Go identifier (not a keyword).
func IsIdent(name string) bool {
	return token.IsIdentifier(Normalize(name))
}
