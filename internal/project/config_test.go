package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"errgen/internal/fmtstr"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if p, _ := cfg.Policy(); p != fmtstr.PolicyStrict {
		t.Fatalf("default policy = %v", p)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFile)
	writeFile(t, path, `
[generate]
runtime = "example.com/rt"
policy  = "lenient"

[diagnostics]
max = 5

[cache]
dir = ".errgen-cache"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generate.Runtime != "example.com/rt" || cfg.Generate.Policy != "lenient" {
		t.Fatalf("generate = %+v", cfg.Generate)
	}
	if cfg.Generate.Suffix != "_errgen.go" || cfg.Generate.BuildTag != "errgen" {
		t.Fatalf("unset keys must keep defaults: %+v", cfg.Generate)
	}
	if cfg.Diagnostics.Max != 5 || cfg.Diagnostics.Format != "pretty" {
		t.Fatalf("diagnostics = %+v", cfg.Diagnostics)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != filepath.Join(dir, ".errgen-cache") {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[generate]\nruntim = \"x\"\n", "unknown keys: generate.runtim"},
		{"bad policy", "[generate]\npolicy = \"loose\"\n", "[generate].policy"},
		{"bad suffix", "[generate]\nsuffix = \"_gen\"\n", "[generate].suffix"},
		{"bad tag", "[generate]\nbuild_tag = \"a b\"\n", "[generate].build_tag"},
		{"bad format", "[diagnostics]\nformat = \"xml\"\n", "[diagnostics].format"},
		{"negative max", "[diagnostics]\nmax = -1\n", "[diagnostics].max"},
		{"syntax", "[generate\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFile)
			writeFile(t, path, tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFile), "[generate]\nsuffix = \".gen.go\"\n")
	target := filepath.Join(root, "internal", "cache", "errors.go")
	writeFile(t, target, "package cache\n")

	cfg, path, err := Discover(target)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, ConfigFile) || cfg.Generate.Suffix != ".gen.go" {
		t.Fatalf("Discover = %q %+v", path, cfg.Generate)
	}
}

func TestLoadOrDiscoverExplicitMissing(t *testing.T) {
	_, _, err := LoadOrDiscover(filepath.Join(t.TempDir(), "nope.toml"), ".")
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("err = %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var sb strings.Builder
	if err := Default().Encode(&sb); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), ConfigFile)
	writeFile(t, path, sb.String())
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("encoded config does not load: %v\n%s", err, sb.String())
	}
	if cfg != Default() {
		t.Fatalf("round trip changed config: %+v", cfg)
	}
}

func TestCombineSeparatesParts(t *testing.T) {
	if Combine([]byte("ab"), []byte("c")) == Combine([]byte("a"), []byte("bc")) {
		t.Fatal("part boundaries must matter")
	}
	if Sum(nil).IsZero() || len(Sum(nil).String()) != 64 {
		t.Fatal("unexpected digest")
	}
}
