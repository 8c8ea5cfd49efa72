package fmtstr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLower(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cannot open {file}: {source}", "cannot open %v: %v"},
		{"value {{escaped}} but got {x}", "value {escaped} but got %v"},
		{"100% of {n}", "100%% of %v"},
		{"{a:?} {b:#?}", "%+v %#v"},
		{"{a:q} {b:x} {c:08.3f}", "%q %x %08.3f"},
		{"{a:5} {b:-10} {c:+}", "%5v %-10v %+v"},
		{"{{}}", "{}"},
		{"}} {a}", "} %v"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tpl, err := Compile(tt.in)
			require.NoError(t, err)
			got, err := Lower(tpl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLowerRendersLikeTemplate(t *testing.T) {
	tpl, err := Compile("cannot open {file}: {source} ({{retry}})")
	require.NoError(t, err)
	format, err := Lower(tpl)
	require.NoError(t, err)

	got := fmt.Sprintf(format, "cache.db", errors.New("permission denied"))
	assert.Equal(t, "cannot open cache.db: permission denied ({retry})", got)
}

func TestLowerLenientLiteral(t *testing.T) {
	tpl, err := CompileWith("whatever {} or {:x}", PolicyLenient)
	require.NoError(t, err)
	got, err := Lower(tpl)
	require.NoError(t, err)
	assert.Equal(t, "whatever {} or {:x}", got)
}

func TestLowerRejectsForeignSpecs(t *testing.T) {
	for _, in := range []string{"{a} {b:>8}", "{a} {b:x?}", "{a} {b:10.2.3}"} {
		t.Run(in, func(t *testing.T) {
			tpl, err := Compile(in)
			require.NoError(t, err)
			_, err = Lower(tpl)
			var serr *SpecError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, 1, serr.Index)
		})
	}
}

func TestIsIdent(t *testing.T) {
	assert.True(t, IsIdent("file"))
	assert.True(t, IsIdent("_x1"))
	assert.True(t, IsIdent("α"))
	assert.False(t, IsIdent(""))
	assert.False(t, IsIdent(" x"))
	assert.False(t, IsIdent("self.n"))
	assert.False(t, IsIdent("1x"))
	assert.False(t, IsIdent("func"))
}

func TestNormalizeComposes(t *testing.T) {
	decomposed := "e\u0301"
	assert.Equal(t, "\u00e9", Normalize(decomposed))
	assert.True(t, IsIdent(decomposed))
}
