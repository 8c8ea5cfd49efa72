package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 1 << 16
)

var enumDirective = []byte("//errgen:enum")

// addDescriptorSeeds добавляет все дескрипторы из дерева модуля.
func addDescriptorSeeds(f *testing.F) {
	root := filepath.Join("..", "..")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_errgen.go") {
			return nil
		}
		// #nosec G304 -- path comes from a module tree walk
		src, err := os.ReadFile(path)
		if err != nil || !bytes.Contains(src, enumDirective) {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
	f.Add([]byte{})
	f.Add([]byte("//go:build errgen\n\npackage p\n\n//errgen:enum\ntype E struct {\n\t//errgen:error \"x {a:?} {{\"\n\tX struct{ a int }\n}\n"))
	f.Add([]byte("package p\n//errgen:enum\ntype E struct {\n\t//errgen:error\n\tX struct{}\n}\n"))
	f.Add([]byte("//go:build errgen\npackage p\n//errgen:enum\ntype E struct {\n\t//errgen:error \"{\"\n\tX struct{ source error `errgen:\"source\"` }\n}\n"))
}

func clamp(src []byte, n int) []byte {
	if len(src) <= n {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:n]...)
}
