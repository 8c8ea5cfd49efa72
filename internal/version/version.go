package version

import (
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Version information for the errgen CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the generator.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Commit returns GitCommit, falling back to the vcs.revision recorded by
// the go command.
func Commit() string {
	if c := strings.TrimSpace(GitCommit); c != "" {
		return c
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// Fingerprint identifies the generator build; generated output of two builds
// with the same fingerprint is identical.
func Fingerprint() string {
	fp := strings.TrimSpace(Version)
	if c := Commit(); c != "" {
		fp += "+" + c
	}
	return fp
}

// Pretty renders Version with colored major/minor/patch parts. Colors are
// dropped when color.NoColor is set.
func Pretty() string {
	v := strings.TrimSpace(Version)
	core, rest, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if rest != "" {
		out += "-" + rest
	}
	return out
}
