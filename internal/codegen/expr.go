package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	goformat "go/format"
	goparser "go/parser"
	"go/token"
	"strconv"
	"strings"

	"errgen/internal/descriptor"
)

// argExpr returns the Go source of a placeholder argument, reading variant
// fields through recv.
func argExpr(v *descriptor.Variant, a descriptor.Arg, recv string) (string, error) {
	if a.Kind == descriptor.ArgField {
		return recv + "." + a.Field.GoName, nil
	}
	if len(a.Refs) == 0 && a.Expr != nil {
		if id, ok := a.Expr.(*ast.Ident); ok {
			return id.Name, nil
		}
	}
	// parsed fresh: the descriptor tree is shared with other consumers
	expr, err := goparser.ParseExpr(a.Text)
	if err != nil {
		return "", fmt.Errorf("argument %q of %s: %w", a.Text, v.TypeName(), err)
	}
	expr = descriptor.RewriteFieldRefs(expr, v.Field, func(_ *ast.Ident, f *descriptor.Field) ast.Expr {
		return &ast.SelectorExpr{X: ast.NewIdent(recv), Sel: ast.NewIdent(f.GoName)}
	})
	var buf bytes.Buffer
	if err := goformat.Node(&buf, token.NewFileSet(), expr); err != nil {
		return "", fmt.Errorf("argument %q of %s: %w", a.Text, v.TypeName(), err)
	}
	return buf.String(), nil
}

// usesRecv reports whether any argument of msgs reads a variant field.
func usesRecv(msgs []descriptor.Message) bool {
	for _, m := range msgs {
		for _, a := range m.Args {
			if a.Kind == descriptor.ArgField || len(a.Refs) > 0 {
				return true
			}
		}
	}
	return false
}

// writeMessage emits the statements that append m to the builder sb.
func (g *gen) writeMessage(v *descriptor.Variant, m descriptor.Message, sb, recv string) {
	if len(m.Args) == 0 {
		g.w.Linef("%s.WriteString(%s)", sb, strconv.Quote(strings.ReplaceAll(m.Format, "%%", "%")))
		return
	}
	args := make([]string, 0, len(m.Args))
	for _, a := range m.Args {
		src, err := argExpr(v, a, recv)
		if err != nil {
			g.fail(err)
			return
		}
		args = append(args, src)
	}
	g.w.Linef("fmt.Fprintf(&%s, %s, %s)", sb, strconv.Quote(m.Format), strings.Join(args, ", "))
}
