package descriptor

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"
)

// RewriteFieldRefs walks expr and calls replace for every identifier that
// names a field according to lookup. A non-nil result replaces the
// identifier. Selector names and composite literal keys are not field
// references. The possibly rewritten root is returned.
func RewriteFieldRefs(expr ast.Expr, lookup func(string) *Field, replace func(*ast.Ident, *Field) ast.Expr) ast.Expr {
	return walkNames(expr, func(c *astutil.Cursor, id *ast.Ident) {
		f := lookup(id.Name)
		if f == nil {
			return
		}
		if repl := replace(id, f); repl != nil {
			c.Replace(repl)
		}
	})
}

// FieldRefs lists the distinct fields expr refers to, in order of first use.
func FieldRefs(expr ast.Expr, lookup func(string) *Field) []*Field {
	var refs []*Field
	seen := make(map[*Field]bool)
	RewriteFieldRefs(expr, lookup, func(_ *ast.Ident, f *Field) ast.Expr {
		if !seen[f] {
			seen[f] = true
			refs = append(refs, f)
		}
		return nil
	})
	return refs
}

// FreeNames returns the identifiers of expr that lookup does not resolve
// to a field. They reach the generated code unchanged.
func FreeNames(expr ast.Expr, lookup func(string) *Field) []*ast.Ident {
	var out []*ast.Ident
	walkNames(expr, func(_ *astutil.Cursor, id *ast.Ident) {
		if lookup(id.Name) == nil {
			out = append(out, id)
		}
	})
	return out
}

// walkNames visits every identifier of expr that is a name use.
func walkNames(expr ast.Expr, visit func(*astutil.Cursor, *ast.Ident)) ast.Expr {
	root := astutil.Apply(expr, func(c *astutil.Cursor) bool {
		id, ok := c.Node().(*ast.Ident)
		if !ok {
			return true
		}
		switch c.Parent().(type) {
		case *ast.SelectorExpr:
			if c.Name() == "Sel" {
				return true
			}
		case *ast.KeyValueExpr:
			if c.Name() == "Key" {
				return true
			}
		case *ast.Field:
			// func literal parameters and results
			return true
		}
		visit(c, id)
		return true
	}, nil)
	return root.(ast.Expr)
}
