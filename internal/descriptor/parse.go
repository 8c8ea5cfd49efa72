package descriptor

import (
	"errors"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/scanner"
	"go/token"
	"slices"
	"strconv"

	"errgen/internal/diag"
	"errgen/internal/fmtstr"
	"errgen/internal/source"
)

// DefaultBuildTag is the build tag that hides descriptor files from normal
// builds.
const DefaultBuildTag = "errgen"

// Options configures Parse.
type Options struct {
	// Types names struct types to treat as enumerations even without an
	// //errgen:enum directive.
	Types    []string
	Policy   fmtstr.Policy
	BuildTag string
	// Runtime is the import path whose Location a location field must use.
	// Empty accepts Location from any imported package.
	Runtime string
}

type parser struct {
	fs    *source.FileSet
	id    source.FileID
	src   []byte
	tfile *token.File
	file  *ast.File
	rep   diag.Reporter
	opts  Options

	errors int
	names  map[string]string // generated identifier -> owner
}

// Parse parses descriptor file id and reports findings to r. Enums with an
// error are left out of the result; ok is false when any error was reported.
func Parse(fs *source.FileSet, id source.FileID, r diag.Reporter, opts Options) (*File, bool) {
	if opts.BuildTag == "" {
		opts.BuildTag = DefaultBuildTag
	}
	f := fs.Get(id)
	p := &parser{
		fs:    fs,
		id:    id,
		src:   f.Content,
		rep:   r,
		opts:  opts,
		names: make(map[string]string),
	}

	tfs := token.NewFileSet()
	astFile, err := goparser.ParseFile(tfs, f.Path, f.Content, goparser.ParseComments|goparser.SkipObjectResolution)
	if err != nil {
		p.reportSyntax(err)
		return nil, false
	}
	p.file = astFile
	p.tfile = tfs.File(astFile.Package)

	out := &File{
		Path:    f.Path,
		Package: astFile.Name.Name,
		ID:      id,
		Imports: p.imports(),
	}
	out.BuildTagged = p.checkBuildConstraint()
	out.Enums = p.enums()
	return out, p.errors == 0
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	p.errors++
	return diag.ReportError(p.rep, code, sp, msg)
}

func (p *parser) offset(pos token.Pos) int {
	return p.tfile.Offset(pos)
}

func (p *parser) span(from, to token.Pos) source.Span {
	return p.fs.SpanOf(p.id, p.offset(from), p.offset(to))
}

func (p *parser) nodeSpan(n ast.Node) source.Span {
	return p.span(n.Pos(), n.End())
}

func (p *parser) text(n ast.Node) string {
	return string(p.src[p.offset(n.Pos()):p.offset(n.End())])
}

func (p *parser) reportSyntax(err error) {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		p.report(diag.DescSyntax, source.Span{File: p.id}, err.Error()).Emit()
		return
	}
	for i, e := range list {
		if i == 10 {
			break
		}
		off := lineColOffset(p.src, e.Pos.Line, e.Pos.Column)
		p.report(diag.DescSyntax, p.fs.SpanOf(p.id, off, off), e.Msg).Emit()
	}
}

// lineColOffset converts a 1-based line and byte column to an offset.
func lineColOffset(src []byte, line, col int) int {
	off := 0
	for l := 1; l < line && off < len(src); off++ {
		if src[off] == '\n' {
			l++
		}
	}
	return min(off+max(col-1, 0), len(src))
}

func (p *parser) imports() []Import {
	out := make([]Import, 0, len(p.file.Imports))
	for _, spec := range p.file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := Import{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		out = append(out, imp)
	}
	return out
}

// typeDecl is a type spec with the directives from its doc comment.
type typeDecl struct {
	spec *ast.TypeSpec
	dirs []directive
}

func (p *parser) docDirectives(doc *ast.CommentGroup) []directive {
	if doc == nil {
		return nil
	}
	var out []directive
	for _, c := range doc.List {
		if isDirective(c) {
			out = append(out, parseDirective(c, p.offset(c.Slash)))
		}
	}
	return out
}

func (p *parser) enums() []*Enum {
	var decls []typeDecl
	found := make(map[string]bool)
	for _, decl := range p.file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gd.Lparen.IsValid() {
				doc = gd.Doc
			}
			dirs := p.docDirectives(doc)
			marked := slices.ContainsFunc(dirs, func(d directive) bool { return d.kind == dirEnum })
			if !marked && !slices.Contains(p.opts.Types, ts.Name.Name) {
				continue
			}
			found[ts.Name.Name] = true
			decls = append(decls, typeDecl{spec: ts, dirs: dirs})
		}
	}

	for _, name := range p.opts.Types {
		if !found[name] {
			p.report(diag.DescTypeNotFound, p.nodeSpan(p.file.Name), fmt.Sprintf(msgTypeNotFound, name)).Emit()
		}
	}
	if len(decls) == 0 && len(p.opts.Types) == 0 {
		diag.ReportWarning(p.rep, diag.DescNoEnums, p.nodeSpan(p.file.Name), msgNoEnums).Emit()
	}

	// Enum names are claimed first so variants cannot shadow them.
	for _, d := range decls {
		p.names[d.spec.Name.Name] = "enum " + d.spec.Name.Name
	}

	enums := make([]*Enum, 0, len(decls))
	for _, d := range decls {
		if e := p.enum(d); e != nil {
			enums = append(enums, e)
		}
	}
	return enums
}

func (p *parser) enum(d typeDecl) *Enum {
	ts := d.spec
	e := &Enum{Name: ts.Name.Name, Span: p.nodeSpan(ts.Name)}

	if ts.TypeParams != nil {
		p.report(diag.DescOnlyEnum, p.nodeSpan(ts.TypeParams), msgGeneric).Emit()
		return nil
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		p.report(diag.DescOnlyEnum, e.Span, msgOnlyEnum).Emit()
		return nil
	}

	var topLevel *directive
	for i := range d.dirs {
		dir := &d.dirs[i]
		sp := p.fs.SpanOf(p.id, dir.off, dir.end)
		switch dir.kind {
		case dirEnum, dirTopLevel:
			if dir.arg != "" {
				p.report(diag.DescUnknownDirective, sp, fmt.Sprintf(msgDirectiveTakesNoArgs, dir.name)).Emit()
				return nil
			}
			if dir.kind == dirTopLevel {
				if topLevel != nil {
					p.report(diag.DescDupeTopLevel, sp, msgDupeTopLevel).
						WithNote(p.fs.SpanOf(p.id, topLevel.off, topLevel.end), "first `//errgen:top_level` is here").
						Emit()
					return nil
				}
				topLevel = dir
			}
		case dirError, dirHelp:
			p.report(diag.DescInnerAttribute, sp, msgNoInner).
				WithNote(e.Span, "error and help directives belong on variants").
				Emit()
			return nil
		default:
			p.report(diag.DescUnknownDirective, sp, fmt.Sprintf(msgUnknownDirective, dir.name)).Emit()
			return nil
		}
	}
	e.TopLevel = topLevel != nil

	if !p.checkInner(st) {
		return nil
	}

	for _, fld := range st.Fields.List {
		if len(fld.Names) == 0 {
			p.report(diag.DescOnlyNamedFields, p.nodeSpan(fld), msgOnlyNamedFields).Emit()
			return nil
		}
		for _, name := range fld.Names {
			v := p.variant(e, name, fld)
			if v == nil {
				return nil
			}
			e.Variants = append(e.Variants, v)
		}
	}

	if !p.claimNames(e) {
		return nil
	}
	return e
}

// checkInner rejects directives inside the enum body that are not on a
// variant's own doc comment: trailing comments, directives on fields of a
// variant, floating comments, and enum-level directives on variants.
func (p *parser) checkInner(st *ast.StructType) bool {
	variantDocs := make(map[*ast.CommentGroup]bool)
	for _, fld := range st.Fields.List {
		if fld.Doc != nil {
			variantDocs[fld.Doc] = true
		}
		if fld.Tag != nil && hasErrgenTag(fld.Tag) {
			p.report(diag.DescInnerAttribute, p.nodeSpan(fld.Tag), msgNoInner).
				WithNote(p.nodeSpan(fld), "errgen tags belong on fields inside a variant").
				Emit()
			return false
		}
	}
	open, closing := st.Fields.Opening, st.Fields.Closing
	for _, cg := range p.file.Comments {
		if cg.Pos() <= open || cg.End() >= closing {
			continue
		}
		for _, c := range cg.List {
			if !isDirective(c) {
				continue
			}
			d := parseDirective(c, p.offset(c.Slash))
			if variantDocs[cg] && !d.enumLevel() {
				continue
			}
			p.report(diag.DescInnerAttribute, p.fs.SpanOf(p.id, d.off, d.end), msgNoInner).Emit()
			return false
		}
	}
	return true
}

// claimNames reserves every top-level identifier generated for e.
func (p *parser) claimNames(e *Enum) bool {
	claim := func(name, owner string, sp source.Span) bool {
		if prev, taken := p.names[name]; taken {
			p.report(diag.DescDupeVariant, sp, fmt.Sprintf(msgNameCollision, name, owner, prev)).Emit()
			return false
		}
		p.names[name] = owner
		return true
	}
	for _, v := range e.Variants {
		owner := "variant " + e.Name + "." + v.Name
		if !claim(v.TypeName(), owner, v.Span) || !claim(v.Name, owner, v.Span) {
			return false
		}
		if v.Source == nil && !claim("New"+v.TypeName(), owner, v.Span) {
			return false
		}
	}
	return true
}
