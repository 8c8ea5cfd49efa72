package fmtstr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileDebugSpec(t *testing.T) {
	s := "cannot open cache: encountered {source} while looking for file {file:?}"
	tpl, err := Compile(s)
	require.NoError(t, err)

	assert.Equal(t, "cannot open cache: encountered {} while looking for file {:?}", tpl.Output)
	assert.Equal(t, []Arg{{Name: "source", Offset: 32}, {Name: "file", Offset: 64}}, tpl.Args)
}

func TestCompileEscapes(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		output string
		args   []Arg
	}{
		{
			name:   "trailing escape",
			in:     "Index {index_id} Archive {archive_id}: Crc does not match: {crc} !=  {{crc2}}",
			output: "Index {} Archive {}: Crc does not match: {} !=  {{crc2}}",
			args:   []Arg{{"index_id", 7}, {"archive_id", 26}, {"crc", 60}},
		},
		{
			name:   "early escape",
			in:     "Index {index_id} Archive {archive_id}: Crc does not match: {{crc2}} != {crc}",
			output: "Index {} Archive {}: Crc does not match: {{crc2}} != {}",
			args:   []Arg{{"index_id", 7}, {"archive_id", 26}, {"crc", 72}},
		},
		{
			name:   "value escaped",
			in:     "value {{escaped}} but got {x}",
			output: "value {{escaped}} but got {}",
			args:   []Arg{{"x", 27}},
		},
		{
			name:   "escape right after placeholder",
			in:     "{x}}}",
			output: "{}}}",
			args:   []Arg{{"x", 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := Compile(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.output, tpl.Output)
			assert.Equal(t, tt.args, tpl.Args)
		})
	}
}

func TestCompileScenarioOpen(t *testing.T) {
	s := "cannot open {file}: {source}"
	tpl, err := Compile(s)
	require.NoError(t, err)

	assert.Equal(t, "cannot open {}: {}", tpl.Output)
	require.Len(t, tpl.Args, 2)
	for _, a := range tpl.Args {
		assert.Equal(t, a.Name, s[a.Offset:a.Offset+len(a.Name)], "offset must point at the name")
	}
}

func TestCompileNoBracesIsIdentity(t *testing.T) {
	for _, s := range []string{"", "plain", "100% sure", "ошибка: файл не найден", "tab\tand\nnewline"} {
		tpl, err := Compile(s)
		require.NoError(t, err)
		assert.Equal(t, s, tpl.Output)
		assert.Empty(t, tpl.Args)
	}
}

func TestCompilePlaceholderShapes(t *testing.T) {
	tpl, err := Compile("a {x:>8} b {y:#?} c {self.n} d {α}")
	require.NoError(t, err)

	assert.Equal(t, "a {:>8} b {:#?} c {} d {}", tpl.Output)
	names := make([]string, len(tpl.Args))
	for i, a := range tpl.Args {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"x", "y", "self.n", "α"}, names)
	assert.Equal(t, strings.Index("a {x:>8} b {y:#?} c {self.n} d {α}", "α"), tpl.Args[3].Offset)
}

func TestCompileKeepsRawNames(t *testing.T) {
	tpl, err := Compile("{ x }")
	require.NoError(t, err)
	assert.Equal(t, []Arg{{Name: " x ", Offset: 1}}, tpl.Args)
}

func TestCompileIsPure(t *testing.T) {
	s := "{a} {{b}} {c:x} }} {d}"
	first, err := Compile(s)
	require.NoError(t, err)
	second, err := Compile(s)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompileArgCountMatchesPlaceholders(t *testing.T) {
	inputs := []string{
		"{a}{b}{c}",
		"{{}} {a} {{ {b:?} }}",
		"x {a:08.3f} y {b} z {c:q} {d}",
	}
	for _, s := range inputs {
		tpl, err := Compile(s)
		require.NoError(t, err, s)
		format, err := Lower(tpl)
		require.NoError(t, err, s)
		verbs := strings.Count(format, "%") - 2*strings.Count(format, "%%")
		assert.Equal(t, len(tpl.Args), verbs, s)
	}
}

func TestCompileErrorsStrict(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		kind   ErrorKind
		offset int
		length int
		msg    string
	}{
		{"unterminated", "open {file", ErrUnterminated, 5, 5, "malformed format string: unterminated placeholder"},
		{"empty arg", "whatever {}", ErrEmptyArgument, 9, 2, "positional argument in format string, but no arguments were given"},
		{"empty arg with spec", "n={:x}", ErrEmptyArgument, 2, 4, "positional argument in format string, but no arguments were given"},
		{"lone close", "oops } here", ErrUnmatchedClose, 5, 1, "unmatched '}' in format string"},
		{"close after placeholder", "{x}}", ErrUnmatchedClose, 3, 1, "unmatched '}' in format string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.in)
			require.Error(t, err)
			var ferr *Error
			require.True(t, errors.As(err, &ferr))
			assert.Equal(t, tt.kind, ferr.Kind)
			assert.Equal(t, tt.offset, ferr.Offset)
			assert.Equal(t, tt.length, ferr.Len)
			assert.Equal(t, tt.msg, ferr.Error())
		})
	}
}

func TestCompileLenient(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		output string
		args   []Arg
	}{
		{"empty arg kept literal", "whatever {}", "whatever {{}}", nil},
		{"empty arg with spec kept literal", "n={:x} {v}", "n={{:x}} {}", []Arg{{"v", 8}}},
		{"placeholder swallowed by close", "a{x}}b {y}", "ab {}", []Arg{{"y", 8}}},
		{"lone close escaped", "oops } here", "oops }} here", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := CompileWith(tt.in, PolicyLenient)
			require.NoError(t, err)
			assert.Equal(t, tt.output, tpl.Output)
			assert.Equal(t, tt.args, tpl.Args)
		})
	}

	_, err := CompileWith("open {file", PolicyLenient)
	require.Error(t, err, "unterminated placeholders fail under every policy")
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	p, err = ParsePolicy("lenient")
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, p)
	assert.Equal(t, "lenient", p.String())

	_, err = ParsePolicy("loose")
	assert.Error(t, err)
}
