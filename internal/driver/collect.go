package driver

import (
	"bytes"
	"context"
	"fmt"
	"go/build/constraint"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Target is a descriptor file picked by Collect. Explicit targets were named
// on the command line and are processed even without errgen directives.
type Target struct {
	Path     string
	Explicit bool
}

// Collect expands command-line arguments into descriptor files. A directory
// is scanned non-recursively; "dir/..." walks it recursively, skipping
// testdata, vendor and directories starting with "." or "_".
func Collect(ctx context.Context, args []string, opts Options) ([]Target, error) {
	opts = opts.withDefaults()
	seen := make(map[string]bool)
	var targets []Target
	add := func(path string, explicit bool) {
		path = filepath.Clean(path)
		if seen[path] {
			return
		}
		seen[path] = true
		targets = append(targets, Target{Path: path, Explicit: explicit})
	}

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		root, recursive := strings.CutSuffix(arg, "...")
		if recursive {
			root = strings.TrimSuffix(root, string(filepath.Separator))
			root = strings.TrimSuffix(root, "/")
			if root == "" {
				root = "."
			}
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if recursive {
				return nil, fmt.Errorf("%s: \"...\" needs a directory", arg)
			}
			add(root, true)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path == root {
					return nil
				}
				if !recursive || skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isGoSource(d.Name(), opts.Suffix) {
				return nil
			}
			ok, err := isDescriptor(path, opts)
			if err != nil {
				return err
			}
			if ok {
				add(path, false)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.SortFunc(targets, func(a, b Target) int { return strings.Compare(a.Path, b.Path) })
	return targets, nil
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isGoSource(name, suffix string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, suffix)
}

var enumDirective = []byte("//errgen:enum")

// isDescriptor: файл помечен директивой, либо при заданных -type требует наш
// build tag.
func isDescriptor(path string, opts Options) (bool, error) {
	// #nosec G304 -- path comes from a directory walk
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if bytes.Contains(content, enumDirective) {
		return true, nil
	}
	return len(opts.Types) > 0 && requiresTag(content, opts.BuildTag), nil
}

// requiresTag reports whether the //go:build line before the package clause
// is satisfied only when tag is set.
func requiresTag(content []byte, tag string) bool {
	for line := range bytes.Lines(content) {
		text := string(bytes.TrimSpace(line))
		if strings.HasPrefix(text, "package ") {
			return false
		}
		if !constraint.IsGoBuild(text) {
			continue
		}
		expr, err := constraint.Parse(text)
		if err != nil {
			return false
		}
		return !expr.Eval(func(t string) bool { return t != tag }) && expr.Eval(func(string) bool { return true })
	}
	return false
}
