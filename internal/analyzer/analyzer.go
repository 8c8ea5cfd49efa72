// Package analyzer exposes descriptor diagnostics as a go/analysis pass, so
// that go vet and gopls report them next to ordinary compiler errors.
package analyzer

import (
	"bytes"
	"fmt"
	"go/token"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"

	"errgen/internal/codegen"
	"errgen/internal/descriptor"
	"errgen/internal/diag"
	"errgen/internal/fmtstr"
	"errgen/internal/source"
)

const doc = `report errgen descriptor diagnostics

The errgen analyzer parses every file of the package that carries an
//errgen:enum directive, including files excluded by the errgen build tag,
and reports the same diagnostics as "errgen check". With -stale it also
reports generated files that are missing or out of date.`

// Analyzer is the errgen vet pass configured from its flags.
var Analyzer = newAnalyzer(optionsFromFlags)

// New returns an analyzer with fixed options, for drivers without flags.
func New(opts Options) *analysis.Analyzer {
	opts = opts.withDefaults()
	return newAnalyzer(func() Options { return opts })
}

func newAnalyzer(options func() Options) *analysis.Analyzer {
	return &analysis.Analyzer{
		Name: "errgen",
		Doc:  doc,
		URL:  "https://pkg.go.dev/errgen/cmd/errgen-vet",
		Run: func(pass *analysis.Pass) (any, error) {
			return run(pass, options())
		},
	}
}

var (
	flagRuntime  string
	flagSuffix   string
	flagBuildTag string
	flagLenient  bool
	flagStale    bool
)

func init() {
	Analyzer.Flags.StringVar(&flagRuntime, "runtime", codegen.DefaultRuntime, "import path of the errkit runtime")
	Analyzer.Flags.StringVar(&flagSuffix, "suffix", codegen.DefaultSuffix, "suffix of generated files")
	Analyzer.Flags.StringVar(&flagBuildTag, "buildtag", descriptor.DefaultBuildTag, "build tag that excludes descriptors")
	Analyzer.Flags.BoolVar(&flagLenient, "lenient", false, "accept {} and lone } in templates as literal text")
	Analyzer.Flags.BoolVar(&flagStale, "stale", false, "report missing or out-of-date generated files")
}

// Options mirrors the analyzer flags.
type Options struct {
	Runtime  string
	Suffix   string
	BuildTag string
	Policy   fmtstr.Policy
	Stale    bool
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
	return o
}

func optionsFromFlags() Options {
	opts := Options{
		Runtime:  flagRuntime,
		Suffix:   flagSuffix,
		BuildTag: flagBuildTag,
		Stale:    flagStale,
	}
	if flagLenient {
		opts.Policy = fmtstr.PolicyLenient
	}
	return opts
}

var enumDirective = []byte("//errgen:enum")

func run(pass *analysis.Pass, opts Options) (any, error) {
	// файлы пакета уже лежат в pass.Fset, исключённые тегом добавляем сами
	known := make(map[string]*token.File, len(pass.Files))
	for _, f := range pass.Files {
		if tf := pass.Fset.File(f.Pos()); tf != nil {
			known[tf.Name()] = tf
		}
	}
	names := append(slices.Sorted(maps.Keys(known)), pass.IgnoredFiles...)

	for _, name := range names {
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, opts.Suffix) {
			continue
		}
		content, err := pass.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if !bytes.Contains(content, enumDirective) {
			continue
		}
		tf := known[name]
		if tf == nil {
			tf = pass.Fset.AddFile(name, -1, len(content))
			tf.SetLinesForContent(content)
		}
		for _, d := range Check(tf, content, opts) {
			pass.Report(d)
		}
	}
	return nil, nil
}

// Check parses one descriptor and converts its diagnostics to positions in
// tf, which must describe content.
func Check(tf *token.File, content []byte, opts Options) []analysis.Diagnostic {
	fs := source.NewFileSet()
	id := fs.AddVirtual(tf.Name(), content)
	bag := diag.NewBag(200)
	ir, ok := descriptor.Parse(fs, id, diag.BagReporter{Bag: bag}, descriptor.Options{
		Policy:   opts.Policy,
		BuildTag: opts.BuildTag,
		Runtime:  opts.Runtime,
	})
	if ok && opts.Stale && !bag.HasErrors() {
		checkStale(fs, id, ir, tf.Name(), content, opts, bag)
	}
	bag.Sort()

	out := make([]analysis.Diagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, convert(tf, d))
	}
	return out
}

func checkStale(fs *source.FileSet, id source.FileID, ir *descriptor.File, name string, content []byte, opts Options, bag *diag.Bag) {
	rep := diag.BagReporter{Bag: bag}
	code, err := codegen.Generate(ir, codegen.Options{Runtime: opts.Runtime, BuildTag: opts.BuildTag})
	if err != nil {
		diag.ReportError(rep, diag.GenFailed, headerSpan(fs, id, content), err.Error()).Emit()
		return
	}
	output := codegen.OutputPath(name, opts.Suffix)
	// #nosec G304 -- sibling of a package file
	onDisk, err := os.ReadFile(output)
	switch {
	case os.IsNotExist(err):
		diag.ReportWarning(rep, diag.GenStale, headerSpan(fs, id, content),
			fmt.Sprintf("generated file %s is missing; run errgen generate", filepath.Base(output))).Emit()
	case err != nil:
		diag.ReportError(rep, diag.IOLoadFileError, headerSpan(fs, id, content), err.Error()).Emit()
	case !bytes.Equal(onDisk, code):
		diag.ReportWarning(rep, diag.GenStale, headerSpan(fs, id, content),
			fmt.Sprintf("generated file %s is out of date; run errgen generate", filepath.Base(output))).Emit()
	}
}

// headerSpan указывает на package clause.
func headerSpan(fs *source.FileSet, id source.FileID, content []byte) source.Span {
	start := bytes.Index(content, []byte("package "))
	if start < 0 {
		return fs.SpanOf(id, 0, 0)
	}
	end := start + bytes.IndexByte(content[start:], '\n')
	if end < start {
		end = len(content)
	}
	return fs.SpanOf(id, start, end)
}

func convert(tf *token.File, d diag.Diagnostic) analysis.Diagnostic {
	pos, end := spanPos(tf, d.Primary)
	out := analysis.Diagnostic{
		Pos:      pos,
		End:      end,
		Category: d.Code.ID(),
		Message:  fmt.Sprintf("%s: %s", d.Code.ID(), d.Message),
	}
	for _, n := range d.Notes {
		npos, nend := spanPos(tf, n.Span)
		out.Related = append(out.Related, analysis.RelatedInformation{Pos: npos, End: nend, Message: n.Msg})
	}
	for _, fix := range d.Fixes {
		sf := analysis.SuggestedFix{Message: fix.Title}
		for _, e := range fix.Edits {
			epos, eend := spanPos(tf, e.Span)
			sf.TextEdits = append(sf.TextEdits, analysis.TextEdit{Pos: epos, End: eend, NewText: []byte(e.NewText)})
		}
		out.SuggestedFixes = append(out.SuggestedFixes, sf)
	}
	return out
}

func spanPos(tf *token.File, s source.Span) (token.Pos, token.Pos) {
	clamp := func(off uint32) int {
		return min(int(off), tf.Size())
	}
	return tf.Pos(clamp(s.Start)), tf.Pos(clamp(s.End))
}
