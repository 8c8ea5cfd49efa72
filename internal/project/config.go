package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"errgen/internal/codegen"
	"errgen/internal/descriptor"
	"errgen/internal/diagfmt"
	"errgen/internal/fmtstr"
)

// Config is the decoded errgen.toml.
type Config struct {
	Generate    GenerateConfig    `toml:"generate"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Cache       CacheConfig       `toml:"cache"`
}

type GenerateConfig struct {
	Runtime  string `toml:"runtime"`
	Suffix   string `toml:"suffix"`
	BuildTag string `toml:"build_tag"`
	Policy   string `toml:"policy"`
}

type DiagnosticsConfig struct {
	Format string `toml:"format"`
	Max    int    `toml:"max"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // пусто: $XDG_CACHE_HOME/errgen
}

// Default returns the configuration used when no errgen.toml is found.
func Default() Config {
	return Config{
		Generate: GenerateConfig{
			Runtime:  codegen.DefaultRuntime,
			Suffix:   codegen.DefaultSuffix,
			BuildTag: descriptor.DefaultBuildTag,
			Policy:   fmtstr.PolicyStrict.String(),
		},
		Diagnostics: DiagnosticsConfig{
			Format: string(diagfmt.FormatPretty),
			Max:    100,
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// Load decodes path on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds errgen.toml above start and loads it. Without a file it
// returns Default and an empty path.
func Discover(start string) (cfg Config, path string, err error) {
	path, ok, err := FindConfig(start)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err = Load(path)
	return cfg, path, err
}

// LoadOrDiscover loads explicit when given, otherwise discovers from start.
func LoadOrDiscover(explicit, start string) (Config, string, error) {
	if explicit == "" {
		return Discover(start)
	}
	if _, err := os.Stat(explicit); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, "", fmt.Errorf("config file %s does not exist", explicit)
		}
		return Config{}, "", err
	}
	cfg, err := Load(explicit)
	return cfg, explicit, err
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Generate.Runtime) == "" {
		return errors.New("[generate].runtime must not be empty")
	}
	if !strings.HasSuffix(c.Generate.Suffix, ".go") || c.Generate.Suffix == ".go" {
		return fmt.Errorf("[generate].suffix %q must end in \".go\" and add a name part", c.Generate.Suffix)
	}
	if !isTag(c.Generate.BuildTag) {
		return fmt.Errorf("[generate].build_tag %q is not a valid build tag", c.Generate.BuildTag)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("[generate].policy: %w", err)
	}
	if _, err := diagfmt.ParseFormat(c.Diagnostics.Format); err != nil {
		return fmt.Errorf("[diagnostics].format: %w", err)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must be >= 0, got %d", c.Diagnostics.Max)
	}
	return nil
}

func (c Config) Policy() (fmtstr.Policy, error) {
	return fmtstr.ParsePolicy(c.Generate.Policy)
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func isTag(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r == '_' || r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
