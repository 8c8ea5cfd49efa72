package diagfmt

import (
	"fmt"
	"io"

	"errgen/internal/diag"
	"errgen/internal/source"
)

// Format names an output format accepted by --format.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatShort  Format = "short"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPretty, FormatJSON, FormatShort:
		return f, nil
	case "":
		return FormatPretty, nil
	default:
		return "", fmt.Errorf("unknown diagnostics format %q (want pretty, json or short)", s)
	}
}

// Options bundles everything Write needs to render a bag.
type Options struct {
	Format   Format
	Color    bool
	PathMode PathMode
	Context  int8
	Max      int
}

// Write renders bag in the chosen format.
func Write(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return JSON(w, bag, fs, JSONOpts{
			IncludePositions: true,
			PathMode:         opts.PathMode,
			Max:              opts.Max,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case FormatShort:
		return Short(w, bag, fs, opts.PathMode, true)
	default:
		Pretty(w, bag, fs, PrettyOpts{
			Color:     opts.Color,
			Context:   opts.Context,
			PathMode:  opts.PathMode,
			ShowNotes: true,
			ShowFixes: true,
		})
		return nil
	}
}
