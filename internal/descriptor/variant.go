package descriptor

import (
	"errors"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"path"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"errgen/internal/diag"
	"errgen/internal/fmtstr"
)

// generatedMethods are method names on variant and selector types.
var generatedMethods = map[string]bool{
	"Error":       true,
	"Format":      true,
	"Unwrap":      true,
	"Provide":     true,
	"Bind":        true,
	"BindMissing": true,
}

func (p *parser) variant(e *Enum, name *ast.Ident, fld *ast.Field) *Variant {
	v := &Variant{
		Enum: e.Name,
		Name: name.Name,
		Span: p.nodeSpan(name),
	}

	type text struct {
		help bool
		msg  Message
		lit  literal
	}
	var texts []text
	for _, d := range p.docDirectives(fld.Doc) {
		if d.kind != dirError && d.kind != dirHelp {
			p.report(diag.DescUnknownDirective, p.fs.SpanOf(p.id, d.off, d.end), fmt.Sprintf(msgUnknownDirective, d.name)).Emit()
			return nil
		}
		msg, lit, ok := p.message(d)
		if !ok {
			return nil
		}
		texts = append(texts, text{help: d.kind == dirHelp, msg: msg, lit: lit})
	}
	if !slices.ContainsFunc(texts, func(t text) bool { return !t.help }) {
		p.report(diag.DescNeedErrorText, v.Span, msgNeedErrorText).Emit()
		return nil
	}

	st, ok := fld.Type.(*ast.StructType)
	if !ok {
		p.report(diag.DescOnlyNamedFields, p.nodeSpan(fld.Type), msgOnlyNamedFields).
			WithNote(v.Span, "variants are declared as `Name struct{ ... }`").
			Emit()
		return nil
	}
	if !p.fields(v, st) {
		return nil
	}

	for i := range texts {
		t := &texts[i]
		if !p.resolveArgs(v, &t.msg, t.lit) {
			return nil
		}
		if t.help {
			v.Help = append(v.Help, t.msg)
		} else {
			v.Messages = append(v.Messages, t.msg)
		}
	}
	return v
}

// message decodes and compiles one error or help directive.
func (p *parser) message(d directive) (Message, literal, bool) {
	lit, ok := decodeLiteral(d)
	if !ok {
		sp := p.fs.SpanOf(p.id, d.argOff, d.argOff+len(d.arg))
		if d.arg == "" {
			sp = p.fs.SpanOf(p.id, d.off, d.end)
		}
		p.report(diag.FmtNotStringLiteral, sp, fmt.Sprintf(msgNotStringLiteral, d.name)).Emit()
		return Message{}, literal{}, false
	}
	m := Message{
		Literal: lit.raw,
		Value:   lit.value,
		Span:    p.fs.SpanOf(p.id, lit.off, lit.off+len(lit.raw)),
	}

	tpl, err := fmtstr.CompileWith(lit.value, p.opts.Policy)
	if err != nil {
		var ferr *fmtstr.Error
		if errors.As(err, &ferr) {
			start, end := lit.valueSpan(ferr.Offset, ferr.Offset+ferr.Len)
			p.report(fmtCode(ferr.Kind), p.fs.SpanOf(p.id, start, end), ferr.Error()).Emit()
		} else {
			p.report(diag.FmtUnterminated, m.Span, err.Error()).Emit()
		}
		return Message{}, literal{}, false
	}
	m.Template = tpl

	format, err := fmtstr.Lower(tpl)
	if err != nil {
		sp := m.Span
		var serr *fmtstr.SpecError
		if errors.As(err, &serr) && serr.Index < len(tpl.Args) {
			a := tpl.Args[serr.Index]
			start, end := lit.valueSpan(a.Offset, a.Offset+len(a.Name))
			sp = p.fs.SpanOf(p.id, start, end)
			err = fmt.Errorf(msgBadSpec, serr.Spec)
		}
		p.report(diag.FmtBadSpec, sp, err.Error()).Emit()
		return Message{}, literal{}, false
	}
	m.Format = format
	return m, lit, true
}

func fmtCode(k fmtstr.ErrorKind) diag.Code {
	switch k {
	case fmtstr.ErrEmptyArgument:
		return diag.FmtEmptyArgument
	case fmtstr.ErrUnmatchedClose:
		return diag.FmtUnmatchedClose
	default:
		return diag.FmtUnterminated
	}
}

func hasErrgenTag(tag *ast.BasicLit) bool {
	_, ok := errgenTag(tag)
	return ok
}

func errgenTag(tag *ast.BasicLit) (string, bool) {
	if tag == nil {
		return "", false
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return "", false
	}
	return reflect.StructTag(raw).Lookup("errgen")
}

// fields classifies the fields of a variant body.
func (p *parser) fields(v *Variant, st *ast.StructType) bool {
	byGoName := make(map[string]*Field)
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			p.report(diag.DescOnlyNamedFields, p.nodeSpan(f), msgOnlyNamedFields).Emit()
			return false
		}
		role := RoleSelector
		if val, ok := errgenTag(f.Tag); ok {
			switch val {
			case "source":
				role = RoleSource
			case "location":
				role = RoleLocation
			default:
				p.report(diag.DescUnknownTag, p.nodeSpan(f.Tag), fmt.Sprintf(msgUnknownTag, val)).Emit()
				return false
			}
		}
		typ := p.text(f.Type)
		for _, name := range f.Names {
			field := &Field{
				Name:   name.Name,
				GoName: ExportName(name.Name),
				Type:   typ,
				Role:   role,
				Span:   p.nodeSpan(name),
			}
			if !p.classify(v, field, f) {
				return false
			}
			if generatedMethods[field.GoName] {
				p.report(diag.DescMethodCollision, field.Span, fmt.Sprintf(msgMethodCollision, field.Name, field.GoName)).Emit()
				return false
			}
			if prev, dup := byGoName[field.GoName]; dup {
				p.report(diag.DescFieldCollision, field.Span, fmt.Sprintf(msgFieldCollision, prev.Name, field.Name, field.GoName)).
					WithNote(prev.Span, "previous field is here").
					Emit()
				return false
			}
			byGoName[field.GoName] = field
			v.Fields = append(v.Fields, field)
			v.FieldNames = append(v.FieldNames, field.Name)
			if role == RoleSelector {
				v.Selectors = append(v.Selectors, field)
				v.SelectorNames = append(v.SelectorNames, field.Name)
			}
		}
	}
	return true
}

func (p *parser) classify(v *Variant, field *Field, f *ast.Field) bool {
	var slot **Field
	var want, dupeMsg, nameMsg string
	var dupeCode, nameCode diag.Code
	switch field.Role {
	case RoleSource:
		slot, want = &v.Source, "source"
		dupeMsg, nameMsg = msgDupeSource, msgMustBeNamedSource
		dupeCode, nameCode = diag.DescDupeSource, diag.DescSourceMustBeNamed
	case RoleLocation:
		slot, want = &v.Location, "location"
		dupeMsg, nameMsg = msgDupeLocation, msgMustBeNamedLocation
		dupeCode, nameCode = diag.DescDupeLocation, diag.DescLocationMustBeNamed
	default:
		return true
	}
	if *slot != nil {
		p.report(dupeCode, p.nodeSpan(f.Tag), dupeMsg).
			WithNote((*slot).Span, fmt.Sprintf("first `errgen:%q` field is here", want)).
			Emit()
		return false
	}
	if field.Name != want {
		p.report(nameCode, field.Span, nameMsg).
			WithFix(fmt.Sprintf("rename field to `%s`", want), diag.FixEdit{Span: field.Span, NewText: want}).
			Emit()
		return false
	}
	if field.Role == RoleLocation && !p.isLocationType(f.Type) {
		p.report(diag.DescLocationType, p.nodeSpan(f.Type), fmt.Sprintf(msgLocationType, p.runtimeName(), field.Type)).Emit()
		return false
	}
	*slot = field
	return true
}

// isLocationType reports whether t is Location qualified by an import of
// the runtime. Without Options.Runtime any imported package qualifies.
func (p *parser) isLocationType(t ast.Expr) bool {
	sel, ok := t.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Location" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	for _, imp := range p.imports() {
		if importName(imp) != pkg.Name {
			continue
		}
		if p.opts.Runtime == "" || imp.Path == p.opts.Runtime {
			return true
		}
	}
	return false
}

func (p *parser) runtimeName() string {
	if p.opts.Runtime == "" {
		return "errkit"
	}
	for _, imp := range p.imports() {
		if imp.Path == p.opts.Runtime && imp.Name != "" && imp.Name != "_" && imp.Name != "." {
			return imp.Name
		}
	}
	return path.Base(p.opts.Runtime)
}

func importName(imp Import) string {
	if imp.Name != "" {
		return imp.Name
	}
	return path.Base(imp.Path)
}

// reservedNames are in scope wherever the generated render and provide
// functions evaluate template arguments. A free identifier with one of
// these names would bind to the local instead of a package-level name.
var reservedNames = map[string]bool{
	"err": true,
	"e":   true,
	"sb":  true,
	"r":   true,
}

// resolveArgs binds every placeholder argument of m against v's fields.
func (p *parser) resolveArgs(v *Variant, m *Message, lit literal) bool {
	m.Args = make([]Arg, 0, len(m.Template.Args))
	for _, a := range m.Template.Args {
		start, end := lit.valueSpan(a.Offset, a.Offset+len(a.Name))
		arg := Arg{
			Name: a.Name,
			Span: p.fs.SpanOf(p.id, start, end),
		}
		if fmtstr.IsIdent(a.Name) {
			name := fmtstr.Normalize(a.Name)
			arg.Text = name
			if f := v.field(name); f != nil {
				arg.Kind = ArgField
				arg.Field = f
			} else {
				if reservedNames[name] {
					p.report(diag.DescReservedName, arg.Span, fmt.Sprintf(msgReservedName, name)).Emit()
					return false
				}
				arg.Kind = ArgExpr
				arg.Expr = ast.NewIdent(name)
			}
			m.Args = append(m.Args, arg)
			continue
		}

		expr, err := goparser.ParseExpr(a.Name)
		if err != nil {
			p.report(diag.FmtBadExpression, arg.Span, fmt.Sprintf(msgBadExpression, a.Name)).Emit()
			return false
		}
		for _, id := range FreeNames(expr, v.field) {
			if !reservedNames[id.Name] {
				continue
			}
			sp := arg.Span
			// ParseExpr кладёт выражение в файл с base 1
			if off := int(id.Pos()) - 1; off >= 0 && off+len(id.Name) <= len(a.Name) {
				from, to := lit.valueSpan(a.Offset+off, a.Offset+off+len(id.Name))
				sp = p.fs.SpanOf(p.id, from, to)
			}
			p.report(diag.DescReservedName, sp, fmt.Sprintf(msgReservedName, id.Name)).Emit()
			return false
		}
		arg.Kind = ArgExpr
		arg.Text = strings.TrimSpace(a.Name)
		arg.Expr = expr
		arg.Refs = FieldRefs(expr, v.field)
		m.Args = append(m.Args, arg)
	}
	return true
}

func (v *Variant) field(name string) *Field {
	for _, f := range v.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field returns the field declared as name, or nil.
func (v *Variant) Field(name string) *Field { return v.field(name) }

// ExportName capitalizes name so it can be used as an exported field.
// Names that cannot be capitalized get an F prefix.
func ExportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if up := unicode.ToUpper(r); unicode.IsUpper(up) {
		return string(up) + name[size:]
	}
	return "F" + name
}
