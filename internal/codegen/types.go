package codegen

import (
	"fmt"
	"strings"

	"errgen/internal/descriptor"
)

func (g *gen) iface(e *descriptor.Enum) {
	w := g.w
	names := make([]string, 0, len(e.Variants))
	for _, v := range e.Variants {
		names = append(names, v.TypeName())
	}
	w.BlankLine()
	if len(names) == 0 {
		w.Comment(e.Name + " has no variants.")
	} else {
		w.Comment(fmt.Sprintf("%s is implemented by %s.", e.Name, strings.Join(names, ", ")))
	}
	w.Block("type "+e.Name+" interface", func() {
		w.Linef("error")
		w.Linef("fmt.Formatter")
		w.Linef("%s.Provider", g.rt)
		w.Linef("Unwrap() error")
		w.Linef("is%s()", e.Name)
	})
	if len(names) == 0 {
		return
	}
	w.BlankLine()
	w.Group("var", func() {
		for _, n := range names {
			w.Linef("_ %s = (*%s)(nil)", e.Name, n)
		}
	})
}

func (g *gen) variantType(e *descriptor.Enum, v *descriptor.Variant) {
	w := g.w
	tn := v.TypeName()
	w.BlankLine()
	w.Linef("// %s is the %s variant of %s.", tn, v.Name, e.Name)
	if v.IsUnit() {
		w.Linef("type %s struct{}", tn)
	} else {
		w.Block("type "+tn+" struct", func() {
			for _, f := range v.Fields {
				w.Linef("%s %s", f.GoName, f.Type)
			}
		})
	}
	w.BlankLine()
	w.Linef("func (*%s) is%s() {}", tn, e.Name)
	w.BlankLine()
	w.Linef("func (e *%s) Error() string { return render%s(e) }", tn, e.Name)
	w.BlankLine()
	w.Linef("// Format writes the same text as Error for every verb.")
	w.Block("func (e *"+tn+") Format(f fmt.State, _ rune)", func() {
		w.Linef("_, _ = io.WriteString(f, render%s(e))", e.Name)
	})
	w.BlankLine()
	w.Linef("func (e *%s) Unwrap() error { return cause%s(e) }", tn, e.Name)
	w.BlankLine()
	w.Linef("func (e *%s) Provide(r *%s.Request) { provide%s(e, r) }", tn, g.rt, e.Name)
}
