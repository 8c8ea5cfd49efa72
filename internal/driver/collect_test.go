package driver

import (
	"context"
	"path/filepath"
	"testing"
)

func TestCollect(t *testing.T) {
	root := t.TempDir()
	tagged := "//go:build errgen\n\npackage p\n\ntype E struct{}\n"
	files := map[string]string{
		"errors.go":              storeDescriptor,
		"errors_errgen.go":       "package store\n//errgen:enum\n",
		"errors_test.go":         "package store\n//errgen:enum\n",
		"plain.go":               "package store\n",
		"tagged.go":              tagged,
		"sub/errors.go":          storeDescriptor,
		"sub/testdata/errors.go": storeDescriptor,
		"sub/.hidden/errors.go":  storeDescriptor,
		"_skip/errors.go":        storeDescriptor,
		"sub/deeper/more.go":     storeDescriptor,
	}
	for name, content := range files {
		writeTestFile(t, filepath.Join(root, name), content)
	}

	paths := func(targets []Target) []string {
		out := make([]string, len(targets))
		for i, tg := range targets {
			rel, err := filepath.Rel(root, tg.Path)
			if err != nil {
				t.Fatal(err)
			}
			out[i] = filepath.ToSlash(rel)
		}
		return out
	}
	check := func(t *testing.T, got, want []string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	}

	t.Run("flat", func(t *testing.T) {
		got, err := Collect(context.Background(), []string{root}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		check(t, paths(got), []string{"errors.go"})
	})
	t.Run("recursive", func(t *testing.T) {
		got, err := Collect(context.Background(), []string{root + "/..."}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		check(t, paths(got), []string{"errors.go", "sub/deeper/more.go", "sub/errors.go"})
	})
	t.Run("types pick tagged files", func(t *testing.T) {
		got, err := Collect(context.Background(), []string{root}, Options{Types: []string{"E"}})
		if err != nil {
			t.Fatal(err)
		}
		check(t, paths(got), []string{"errors.go", "tagged.go"})
	})
	t.Run("explicit file", func(t *testing.T) {
		plain := filepath.Join(root, "plain.go")
		got, err := Collect(context.Background(), []string{plain, plain}, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || !got[0].Explicit {
			t.Fatalf("got %+v", got)
		}
	})
	t.Run("missing", func(t *testing.T) {
		if _, err := Collect(context.Background(), []string{filepath.Join(root, "nope")}, Options{}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRequiresTag(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"//go:build errgen\n\npackage p\n", true},
		{"//go:build errgen && linux\n\npackage p\n", true},
		{"//go:build !errgen\n\npackage p\n", false},
		{"//go:build linux\n\npackage p\n", false},
		{"package p\n\n//go:build errgen\n", false},
		{"// comment\n//go:build gen\n\npackage p\n", false},
	}
	for _, tt := range tests {
		if got := requiresTag([]byte(tt.src), "errgen"); got != tt.want {
			t.Errorf("requiresTag(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}
