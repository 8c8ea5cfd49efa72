// Package golangci registers the errgen analyzer as a golangci-lint module
// plugin. Reference it from .custom-gcl.yml and enable it as "errgen":
//
//	linters-settings:
//	  custom:
//	    errgen:
//	      type: module
//	      settings:
//	        stale: true
package golangci

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"errgen/internal/analyzer"
	"errgen/internal/fmtstr"
)

func init() {
	register.Plugin("errgen", New)
}

// Settings mirrors the errgen-vet flags.
type Settings struct {
	Runtime  string `json:"runtime"`
	Suffix   string `json:"suffix"`
	BuildTag string `json:"build-tag"`
	Lenient  bool   `json:"lenient"`
	Stale    bool   `json:"stale"`
}

// Plugin is the errgen linter plugin.
type Plugin struct {
	settings Settings
}

// New decodes the plugin settings.
func New(settings any) (register.LinterPlugin, error) {
	s, err := register.DecodeSettings[Settings](settings)
	if err != nil {
		return nil, err
	}
	return &Plugin{settings: s}, nil
}

// BuildAnalyzers returns the errgen analyzer configured from the settings.
func (p *Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	opts := analyzer.Options{
		Runtime:  p.settings.Runtime,
		Suffix:   p.settings.Suffix,
		BuildTag: p.settings.BuildTag,
		Stale:    p.settings.Stale,
	}
	if p.settings.Lenient {
		opts.Policy = fmtstr.PolicyLenient
	}
	return []*analysis.Analyzer{analyzer.New(opts)}, nil
}

// GetLoadMode: дескрипторам хватает синтаксиса, типы не нужны.
func (p *Plugin) GetLoadMode() string {
	return register.LoadModeSyntax
}
