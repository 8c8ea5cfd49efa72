package codegen

import (
	"strings"

	"errgen/internal/descriptor"
)

// bindShape is the kind of failure a binding method consumes. Every shape
// funnels into the same build method; only cause extraction differs.
type bindShape uint8

const (
	shapeCause   bindShape = iota // Bind(source T): the failure becomes the cause
	shapeError                    // Bind(error): the failure is dropped
	shapeMissing                  // BindMissing(): an absent optional value
)

func shapesOf(v *descriptor.Variant) []bindShape {
	if v.Source != nil {
		return []bindShape{shapeCause}
	}
	return []bindShape{shapeError, shapeMissing}
}

func (g *gen) selector(v *descriptor.Variant) {
	w := g.w
	tn := v.TypeName()

	w.BlankLine()
	if v.Source != nil {
		w.Linef("// %s selects %s; Bind attaches the cause.", v.Name, tn)
	} else {
		w.Linef("// %s selects %s.", v.Name, tn)
	}
	if len(v.Selectors) == 0 {
		w.Linef("type %s struct{}", v.Name)
	} else {
		w.Block("type "+v.Name+" struct", func() {
			for _, f := range v.Selectors {
				w.Linef("%s %s", f.GoName, f.Type)
			}
		})
	}

	if v.Source == nil {
		g.constructor(v)
	}
	for _, shape := range shapesOf(v) {
		g.bindMethod(v, shape)
	}
	g.build(v)
}

func (g *gen) constructor(v *descriptor.Variant) {
	w := g.w
	tn := v.TypeName()
	params := make([]string, 0, len(v.Selectors))
	inits := make([]string, 0, len(v.Selectors))
	for _, f := range v.Selectors {
		params = append(params, f.Name+" "+f.Type)
		inits = append(inits, f.GoName+": "+f.Name)
	}

	w.BlankLine()
	if v.Location != nil {
		w.Linef("// New%s builds %s and records the caller's location.", tn, tn)
	} else {
		w.Linef("// New%s builds %s.", tn, tn)
	}
	w.Block("func New"+tn+"("+strings.Join(params, ", ")+") *"+tn, func() {
		w.Linef("return %s{%s}.build()", v.Name, strings.Join(inits, ", "))
	})
}

func (g *gen) bindMethod(v *descriptor.Variant, shape bindShape) {
	w := g.w
	tn := v.TypeName()
	w.BlankLine()
	switch shape {
	case shapeCause:
		w.Linef("// Bind builds %s caused by source.", tn)
		w.Linef("func (s %s) Bind(source %s) error { return s.build(source) }", v.Name, v.Source.Type)
	case shapeError:
		w.Linef("// Bind builds %s; the failure itself is not kept.", tn)
		w.Linef("func (s %s) Bind(error) error { return s.build() }", v.Name)
	case shapeMissing:
		w.Linef("// BindMissing builds %s for an absent value.", tn)
		w.Linef("func (s %s) BindMissing() error { return s.build() }", v.Name)
	}
}

// build is shared by the constructor and every bind shape. It is always
// called one frame below the user's call, or below the runtime's Context.
func (g *gen) build(v *descriptor.Variant) {
	w := g.w
	tn := v.TypeName()
	param := ""
	if v.Source != nil {
		param = "source " + v.Source.Type
	}

	w.BlankLine()
	w.Block("func (s "+v.Name+") build("+param+") *"+tn, func() {
		if v.IsUnit() {
			w.Linef("return &%s{}", tn)
			return
		}
		w.Block("return &"+tn, func() {
			for _, f := range v.Fields {
				switch f.Role {
				case descriptor.RoleSource:
					w.Linef("%s: source,", f.GoName)
				case descriptor.RoleLocation:
					w.Linef("%s: %s.Capture(1),", f.GoName, g.rt)
				default:
					w.Linef("%s: s.%s,", f.GoName, f.GoName)
				}
			}
		})
	})
}
