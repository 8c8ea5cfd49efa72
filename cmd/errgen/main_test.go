package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const descriptorSrc = `//go:build errgen

package store

//errgen:enum
type StoreError struct {
	//errgen:error "cannot read {path}"
	Read struct {
		path   string
		source error ` + "`errgen:\"source\"`" + `
	}
}
`

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	runCleanups()
	return out.String(), errOut.String(), err
}

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "errors.go")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateWritesFile(t *testing.T) {
	path := writeDescriptor(t, descriptorSrc)
	_, stderr, err := execute(t, "generate", "--ui=off", path)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, stderr)
	}
	out, err := os.ReadFile(filepath.Join(filepath.Dir(path), "errors_errgen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("// Code generated by errgen. DO NOT EDIT.")) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(stderr, "errgen generate: 1 written") {
		t.Fatalf("summary missing: %q", stderr)
	}

	_, stderr, err = execute(t, "generate", "--ui=off", path)
	if err != nil || !strings.Contains(stderr, "1 unchanged") {
		t.Fatalf("second run: %v %q", err, stderr)
	}
}

func TestGenerateDryRunPrintsCode(t *testing.T) {
	path := writeDescriptor(t, descriptorSrc)
	stdout, _, err := execute(t, "generate", "--dry-run", "--quiet", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "type StoreErrorRead struct") {
		t.Fatalf("stdout:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "errors_errgen.go")); !os.IsNotExist(err) {
		t.Fatal("dry run wrote a file")
	}
}

func TestCheckReportsErrors(t *testing.T) {
	path := writeDescriptor(t, strings.Replace(descriptorSrc, "\t//errgen:error \"cannot read {path}\"\n", "", 1))
	_, stderr, err := execute(t, "check", "--format=short", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "GEN2006") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestCheckJSONGoesToStdout(t *testing.T) {
	path := writeDescriptor(t, descriptorSrc)
	stdout, stderr, err := execute(t, "check", "--format=json", path)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, stderr)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "GEN3003") {
		t.Fatalf("missing stale warning:\n%s", stdout)
	}
}

func TestDumpPrintsIR(t *testing.T) {
	path := writeDescriptor(t, descriptorSrc)
	stdout, _, err := execute(t, "dump", path)
	if err != nil {
		t.Fatal(err)
	}
	var ir struct {
		Package string `json:"package"`
		Enums   []struct {
			Name     string `json:"name"`
			Variants []struct {
				Name string `json:"name"`
			} `json:"variants"`
		} `json:"enums"`
	}
	if err := json.Unmarshal([]byte(stdout), &ir); err != nil {
		t.Fatalf("%v\n%s", err, stdout)
	}
	if ir.Package != "store" || len(ir.Enums) != 1 || ir.Enums[0].Variants[0].Name != "Read" {
		t.Fatalf("ir = %+v", ir)
	}
}

func TestConfigFlagOverridesDiscovery(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(cfg, []byte("[generate]\nsuffix = \".gen.go\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := execute(t, "config", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `suffix = ".gen.go"`) || !strings.Contains(stdout, `runtime = "errgen/errkit"`) {
		t.Fatalf("stdout:\n%s", stdout)
	}

	path := writeDescriptor(t, descriptorSrc)
	if _, stderr, err := execute(t, "generate", "--config", cfg, path); err != nil {
		t.Fatalf("%v\n%s", err, stderr)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "errors.gen.go")); err != nil {
		t.Fatalf("suffix from config not used: %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format=json")
	if err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(stdout), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "errgen" || p.Version == "" || p.Fingerprint == "" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestInvalidFlags(t *testing.T) {
	if _, _, err := execute(t, "--color=maybe", "version"); err == nil {
		t.Fatal("expected error for --color")
	}
	path := writeDescriptor(t, descriptorSrc)
	if _, _, err := execute(t, "generate", "--ui=sometimes", path); err == nil {
		t.Fatal("expected error for --ui")
	}
	if _, _, err := execute(t, "--trace-level=loud", "version"); err == nil {
		t.Fatal("expected error for --trace-level")
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if shouldUseTUI(uiModeAuto, 1) {
		t.Error("a single file never gets the progress UI in auto mode")
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	if _, _, err := execute(t, "--cpu-profile", cpu, "--mem-profile", mem, "version"); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("profile not written: %v", err)
		}
	}
}

func TestFixAddsBuildConstraint(t *testing.T) {
	path := writeDescriptor(t, strings.TrimPrefix(descriptorSrc, "//go:build errgen\n\n"))
	_, stderr, err := execute(t, "fix", path)
	if err != nil {
		t.Fatalf("fix: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "add build constraint") {
		t.Fatalf("stderr:\n%s", stderr)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != descriptorSrc {
		t.Fatalf("fixed file:\n%s", got)
	}

	_, stderr, err = execute(t, "fix", path)
	if err != nil || !strings.Contains(stderr, "nothing to fix") {
		t.Fatalf("second fix: %v %q", err, stderr)
	}
}
