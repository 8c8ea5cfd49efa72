package codegen

import (
	"slices"

	"errgen/internal/descriptor"
)

// typeSwitch writes a type switch over err for the given variants, binding
// the variant to e only when some case needs it.
func (g *gen) typeSwitch(variants []*descriptor.Variant, bind bool, body func(v *descriptor.Variant), tail func()) {
	w := g.w
	head := "switch err.(type)"
	if bind {
		head = "switch e := err.(type)"
	}
	w.Block(head, func() {
		for _, v := range variants {
			w.Linef("case *%s:", v.TypeName())
			w.IndentPush()
			body(v)
			w.IndentPop()
		}
		if tail != nil {
			tail()
		}
	})
}

func (g *gen) render(e *descriptor.Enum) {
	w := g.w
	fn := "render" + e.Name
	bind := slices.ContainsFunc(e.Variants, func(v *descriptor.Variant) bool {
		return v.Location != nil || usesRecv(v.Messages)
	})

	w.BlankLine()
	w.Linef("// %s writes the text shared by Error and Format.", fn)
	w.Block("func "+fn+"(err "+e.Name+") string", func() {
		w.Linef("var sb strings.Builder")
		g.typeSwitch(e.Variants, bind, func(v *descriptor.Variant) {
			for _, m := range v.Messages {
				g.writeMessage(v, m, "sb", "e")
			}
			if v.Location != nil {
				w.Linef("fmt.Fprintf(&sb, \" (at %%v)\", e.%s)", v.Location.GoName)
			}
			w.Linef("sb.WriteString(\"\\n\")")
		}, func() {
			w.Linef("default:")
			w.IndentPush()
			w.Linef("panic(fmt.Sprintf(\"errgen: unknown %s variant %%T\", err))", e.Name)
			w.IndentPop()
		})
		w.Block("if cause := err.Unwrap(); cause != nil", func() {
			w.Linef("sb.WriteString(\"Caused by: \")")
			w.Linef("sb.WriteString(cause.Error())")
		})
		if e.TopLevel {
			w.Linef("sb.WriteString(\"\\n\")")
			w.Block("for _, help := range "+g.rt+".Helps(err)", func() {
				w.Linef("sb.WriteString(help.String())")
			})
		}
		w.Linef("return sb.String()")
	})
}

func (g *gen) cause(e *descriptor.Enum) {
	w := g.w
	fn := "cause" + e.Name
	var withCause []*descriptor.Variant
	for _, v := range e.Variants {
		if v.Source != nil {
			withCause = append(withCause, v)
		}
	}

	w.BlankLine()
	if len(withCause) == 0 {
		w.Linef("func %s(%s) error { return nil }", fn, e.Name)
		return
	}
	w.Block("func "+fn+"(err "+e.Name+") error", func() {
		g.typeSwitch(withCause, true, func(v *descriptor.Variant) {
			w.Linef("return %s.Cause(e.%s)", g.rt, v.Source.GoName)
		}, nil)
		w.Linef("return nil")
	})
}

func (g *gen) provide(e *descriptor.Enum) {
	w := g.w
	fn := "provide" + e.Name
	var helped []*descriptor.Variant
	for _, v := range e.Variants {
		if len(v.Help) > 0 {
			helped = append(helped, v)
		}
	}

	w.BlankLine()
	if len(helped) == 0 {
		w.Linef("func %s(%s, *%s.Request) {}", fn, e.Name, g.rt)
		return
	}
	bind := slices.ContainsFunc(helped, func(v *descriptor.Variant) bool { return usesRecv(v.Help) })
	w.Block("func "+fn+"(err "+e.Name+", r *"+g.rt+".Request)", func() {
		g.typeSwitch(helped, bind, func(v *descriptor.Variant) {
			w.BlockClose(g.rt+".ProvideValueWith(r, func() "+g.rt+".Help", "})", func() {
				w.Linef("var sb strings.Builder")
				for _, m := range v.Help {
					w.Linef("sb.WriteString(\"Help: \")")
					g.writeMessage(v, m, "sb", "e")
					w.Linef("sb.WriteString(\"\\n\")")
				}
				w.Linef("return %s.NewHelp(sb.String())", g.rt)
			})
		}, nil)
	})
}
