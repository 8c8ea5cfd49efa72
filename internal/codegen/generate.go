package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	goformat "go/format"
	goparser "go/parser"
	"go/token"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"errgen/internal/descriptor"
)

const (
	// DefaultRuntime is the import path of the runtime package.
	DefaultRuntime = "errgen/errkit"
	// DefaultSuffix replaces the ".go" extension of the descriptor.
	DefaultSuffix = "_errgen.go"

	header = "// Code generated by errgen. DO NOT EDIT."
)

// Options configures Generate.
type Options struct {
	Runtime  string
	BuildTag string
}

func (o Options) withDefaults() Options {
	if o.Runtime == "" {
		o.Runtime = DefaultRuntime
	}
	if o.BuildTag == "" {
		o.BuildTag = descriptor.DefaultBuildTag
	}
	return o
}

// ErrFormat wraps failures of go/format on the assembled source. The raw
// source is still returned alongside it.
var ErrFormat = errors.New("codegen: generated source does not format")

// OutputPath returns the generated file path for a descriptor path.
func OutputPath(descPath, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return strings.TrimSuffix(descPath, ".go") + suffix
}

// gen is the state of one Generate call.
type gen struct {
	w    *writer
	file *descriptor.File
	opt  Options
	rt   string // package name the runtime is referenced by
	err  error
}

func (g *gen) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// Generate emits the Go source for every enum of f.
func Generate(f *descriptor.File, opt Options) ([]byte, error) {
	if f == nil {
		return nil, errors.New("codegen: nil descriptor file")
	}
	opt = opt.withDefaults()
	g := &gen{
		w:    newWriter(4096),
		file: f,
		opt:  opt,
		rt:   runtimeName(f, opt.Runtime),
	}
	g.prologue()
	for _, e := range f.Enums {
		g.enum(e)
	}
	if g.err != nil {
		return nil, g.err
	}
	return finish(g.w.Bytes())
}

func runtimeName(f *descriptor.File, runtime string) string {
	for _, imp := range f.Imports {
		if imp.Path == runtime && imp.Name != "" && imp.Name != "_" && imp.Name != "." {
			return imp.Name
		}
	}
	return path.Base(runtime)
}

func (g *gen) prologue() {
	w := g.w
	w.Linef("%s", header)
	w.BlankLine()
	w.Linef("//go:build !%s", g.opt.BuildTag)
	w.BlankLine()
	w.Linef("package %s", g.file.Package)
	w.BlankLine()

	std := []string{"fmt", "io", "strings"}
	w.Group("import", func() {
		for _, p := range std {
			w.Linef("%s", strconv.Quote(p))
		}
		w.BlankLine()
		rtImported := false
		for _, imp := range g.file.Imports {
			switch {
			case imp.Path == g.opt.Runtime:
				rtImported = true
			case imp.Name == "" && slices.Contains(std, imp.Path):
				continue
			}
			if imp.Name != "" {
				w.Linef("%s %s", imp.Name, strconv.Quote(imp.Path))
			} else {
				w.Linef("%s", strconv.Quote(imp.Path))
			}
		}
		if !rtImported {
			w.Linef("%s", strconv.Quote(g.opt.Runtime))
		}
	})
}

func (g *gen) enum(e *descriptor.Enum) {
	g.iface(e)
	for _, v := range e.Variants {
		g.variantType(e, v)
	}
	g.render(e)
	g.cause(e)
	g.provide(e)
	for _, v := range e.Variants {
		g.selector(v)
	}
}

// finish drops unused imports and gofmts the result.
func finish(src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, "gen.go", src, goparser.ParseComments)
	if err != nil {
		return src, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	pruneImports(fset, file)

	var buf bytes.Buffer
	if err := goformat.Node(&buf, fset, file); err != nil {
		return src, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return buf.Bytes(), nil
}

func pruneImports(fset *token.FileSet, file *ast.File) {
	var unused []*ast.ImportSpec
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if !astutil.UsesImport(file, p) {
			unused = append(unused, spec)
		}
	}
	for _, spec := range slices.Backward(unused) {
		p, _ := strconv.Unquote(spec.Path.Value)
		name := ""
		if spec.Name != nil {
			name = spec.Name.Name
		}
		astutil.DeleteNamedImport(fset, file, name, p)
	}
}
