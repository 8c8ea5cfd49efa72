package source

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("errors.go", []byte("package a"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("errors.go", []byte("package b"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latest, ok := fs.GetLatest("errors.go")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "package a" {
		t.Errorf("old version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.go", []byte("a\nbc\n\nd"))
	f := fs.Get(id)

	want := []uint32{1, 4, 5}
	if len(f.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
	}
	for i := range want {
		if f.LineIdx[i] != want[i] {
			t.Fatalf("LineIdx = %v, want %v", f.LineIdx, want)
		}
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.go", []byte("package x\n\n//errgen:error \"oops\"\n"))

	start, end := fs.Resolve(Span{File: id, Start: 11, End: 13})
	if start != (LineCol{Line: 3, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 3, Col: 3}) {
		t.Errorf("end = %+v", end)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("mem.go", []byte("one\ntwo\nthree")))

	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for line, want := range cases {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestSpanOfClamps(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.go", []byte("abcdef"))

	sp := fs.SpanOf(id, -3, 100)
	if sp.Start != 0 || sp.End != 6 {
		t.Errorf("SpanOf clamped = %+v", sp)
	}
	if got := fs.Snippet(fs.SpanOf(id, 2, 4)); got != "cd" {
		t.Errorf("Snippet = %q, want cd", got)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "errors.go")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFpackage x\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "package x\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fs.AddVirtual("f.go", []byte("x"))
			_ = fs.Get(id)
		}()
	}
	wg.Wait()
	if fs.Len() != 32 {
		t.Errorf("Len = %d, want 32", fs.Len())
	}
}

func TestFormatPathModes(t *testing.T) {
	f := &File{Path: "/very/long/absolute/path/to/some/package/errors.go"}
	if got := f.FormatPath("basename", ""); got != "errors.go" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "errors.go" {
		t.Errorf("auto = %q", got)
	}
	short := &File{Path: "pkg/errors.go"}
	if got := short.FormatPath("auto", ""); got != "pkg/errors.go" {
		t.Errorf("auto short = %q", got)
	}
	virt := &File{Path: "mem.go", Flags: FileVirtual}
	if got := virt.FormatPath("relative", "/tmp"); got != "mem.go" {
		t.Errorf("relative virtual = %q", got)
	}
}
