package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"errgen/internal/diag"
	"errgen/internal/source"
)

func loadTemp(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "errors.go")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func withFix(id source.FileID, start, end uint32, text string) diag.Diagnostic {
	span := source.Span{File: id, Start: start, End: end}
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.DescSourceMustBeNamed,
		Message:  "m",
		Primary:  span,
		Fixes:    []diag.Fix{{Title: "replace", Edits: []diag.FixEdit{{Span: span, NewText: text}}}},
	}
}

func TestApplyAllWritesFile(t *testing.T) {
	fs, id, path := loadTemp(t, "package p\n\nvar cause error\n")
	diags := []diag.Diagnostic{
		withFix(id, 15, 20, "source"),
		withFix(id, 0, 0, "//go:build errgen\n\n"),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.FileChanges) != 1 {
		t.Fatalf("applied=%d changes=%d", len(res.Applied), len(res.FileChanges))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "//go:build errgen\n\npackage p\n\nvar source error\n"
	if string(got) != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if info, _ := os.Stat(path); info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}
}

func TestApplyOnceAndConflicts(t *testing.T) {
	fs, id, path := loadTemp(t, "package p\n\nvar cause error\n")
	diags := []diag.Diagnostic{
		withFix(id, 15, 20, "source"),
		withFix(id, 17, 19, "xx"),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%d skipped=%d", len(res.Applied), len(res.Skipped))
	}
	if res.Skipped[0].Reason != "conflicts with a previously applied edit" {
		t.Errorf("reason = %q", res.Skipped[0].Reason)
	}
	if got, _ := os.ReadFile(path); string(got) != "package p\n\nvar cause error\n" {
		t.Error("dry run modified the file")
	}

	res, err = Apply(fs, []diag.Diagnostic{withFix(id, 0, 0, "// a\n"), withFix(id, 15, 20, "source")}, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || string(res.FileChanges[0].Content) != "// a\npackage p\n\nvar cause error\n" {
		t.Fatalf("once: %+v", res.Applied)
	}
}

func TestApplySkipsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem.go", []byte("package p\n"))
	res, err := Apply(fs, []diag.Diagnostic{withFix(id, 0, 0, "x")}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	if _, err := Apply(fs, nil, ApplyOptions{}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("no diagnostics: %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	cases := []struct {
		a, b source.Span
		want bool
	}{
		{source.Span{Start: 0, End: 2}, source.Span{Start: 2, End: 4}, false},
		{source.Span{Start: 0, End: 3}, source.Span{Start: 2, End: 4}, true},
		{source.Span{Start: 1, End: 1}, source.Span{Start: 0, End: 2}, true},
		{source.Span{Start: 2, End: 2}, source.Span{Start: 0, End: 2}, false},
		{source.Span{Start: 1, End: 1}, source.Span{Start: 1, End: 1}, true},
	}
	for i, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("case %d: got %v", i, got)
		}
	}
}
