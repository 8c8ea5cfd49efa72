package driver

import (
	"errgen/internal/codegen"
	"errgen/internal/descriptor"
	"errgen/internal/fmtstr"
	"errgen/internal/observ"
	"errgen/internal/project"
)

// Mode selects what Run does with the generated source.
type Mode uint8

const (
	// ModeGenerate writes generated files next to their descriptors.
	ModeGenerate Mode = iota
	// ModeCheck only reports diagnostics, plus a warning for generated files
	// that differ from what would be written.
	ModeCheck
)

func (m Mode) String() string {
	if m == ModeCheck {
		return "check"
	}
	return "generate"
}

// Options configures a driver run.
type Options struct {
	Mode   Mode
	DryRun bool // generate without writing; the result carries the source

	Types    []string
	Policy   fmtstr.Policy
	Runtime  string
	Suffix   string
	BuildTag string

	MaxDiagnostics int
	Jobs           int

	Cache    *DiskCache // nil disables caching
	Timer    *observ.Timer
	Progress ProgressFunc
}

// OptionsFromConfig maps errgen.toml settings onto Options.
func OptionsFromConfig(cfg project.Config) (Options, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Policy:         policy,
		Runtime:        cfg.Generate.Runtime,
		Suffix:         cfg.Generate.Suffix,
		BuildTag:       cfg.Generate.BuildTag,
		MaxDiagnostics: cfg.Diagnostics.Max,
	}, nil
}

func (o Options) withDefaults() Options {
	if o.Runtime == "" {
		o.Runtime = codegen.DefaultRuntime
	}
	if o.Suffix == "" {
		o.Suffix = codegen.DefaultSuffix
	}
	if o.BuildTag == "" {
		o.BuildTag = descriptor.DefaultBuildTag
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 100
	}
	return o
}

func (o Options) parseOptions() descriptor.Options {
	return descriptor.Options{Types: o.Types, Policy: o.Policy, BuildTag: o.BuildTag, Runtime: o.Runtime}
}

func (o Options) genOptions() codegen.Options {
	return codegen.Options{Runtime: o.Runtime, BuildTag: o.BuildTag}
}
