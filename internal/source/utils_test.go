package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")
	for _, d := range []string{baseDir, otherDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}

	target := filepath.Join(otherDir, "errors.go")
	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Errorf("RelativePath = %q, want %q", got, want)
	}
}

func TestRelativePathInsideBase(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "pkg", "errors.go")

	got, err := RelativePath(target, tmp)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if got != "pkg/errors.go" {
		t.Errorf("RelativePath = %q, want pkg/errors.go", got)
	}
}

func TestNormalizeCRLFKeepsLoneCR(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Errorf("normalizeCRLF = %q, %v", out, changed)
	}
	out, changed = normalizeCRLF([]byte("plain"))
	if changed || string(out) != "plain" {
		t.Errorf("normalizeCRLF(plain) = %q, %v", out, changed)
	}
}

func TestToLineCol(t *testing.T) {
	idx := buildLineIndex([]byte("ab\ncd\n"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
	}
	for _, c := range cases {
		if got := toLineCol(idx, c.off); got != c.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", c.off, got, c.want)
		}
	}
}
