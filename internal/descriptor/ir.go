package descriptor

import (
	"go/ast"

	"errgen/internal/fmtstr"
	"errgen/internal/source"
)

// File is one descriptor file after parsing.
type File struct {
	Path    string        `json:"path"`
	Package string        `json:"package"`
	Imports []Import      `json:"imports,omitempty"`
	Enums   []*Enum       `json:"enums"`
	ID      source.FileID `json:"-"`
	// BuildTagged is true when a //go:build line keeps the file out of
	// builds that do not set the errgen tag.
	BuildTagged bool `json:"build_tagged"`
}

// Import is an import spec copied from the descriptor.
type Import struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path"`
}

// Enum is one error enumeration.
type Enum struct {
	Name     string      `json:"name"`
	TopLevel bool        `json:"top_level"`
	Span     source.Span `json:"span"`
	Variants []*Variant  `json:"variants"`
}

// Variant is one case of an enumeration.
type Variant struct {
	Enum     string      `json:"enum"`
	Name     string      `json:"name"`
	Span     source.Span `json:"span"`
	Messages []Message   `json:"messages"`
	Help     []Message   `json:"help,omitempty"`
	Source   *Field      `json:"source,omitempty"`
	Location *Field      `json:"location,omitempty"`
	// Fields lists every field in declaration order; Selectors drops the
	// source and location fields.
	Fields        []*Field `json:"fields"`
	Selectors     []*Field `json:"-"`
	SelectorNames []string `json:"selector_names"`
	FieldNames    []string `json:"field_names"`
}

// TypeName is the generated struct name, e.g. CacheErrorOpen.
func (v *Variant) TypeName() string { return v.Enum + v.Name }

// IsUnit reports whether the variant has no fields.
func (v *Variant) IsUnit() bool { return len(v.Fields) == 0 }

// FieldRole says what a field does in its variant.
type FieldRole uint8

const (
	RoleSelector FieldRole = iota
	RoleSource
	RoleLocation
)

func (r FieldRole) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleLocation:
		return "location"
	default:
		return "selector"
	}
}

func (r FieldRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Field is a named field of a variant.
type Field struct {
	Name   string      `json:"name"`
	GoName string      `json:"go_name"`
	Type   string      `json:"type"`
	Role   FieldRole   `json:"role"`
	Span   source.Span `json:"span"`
}

// Message is a compiled error or help directive.
type Message struct {
	Literal  string          `json:"literal"`
	Value    string          `json:"value"`
	Template fmtstr.Template `json:"template"`
	Format   string          `json:"format"`
	Args     []Arg           `json:"args"`
	Span     source.Span     `json:"span"`
}

// ArgKind separates field references from free expressions.
type ArgKind uint8

const (
	ArgField ArgKind = iota
	ArgExpr
)

func (k ArgKind) String() string {
	if k == ArgField {
		return "field"
	}
	return "expr"
}

func (k ArgKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Arg is a resolved placeholder argument. Field is set for ArgField; Expr
// holds the parsed form of Text for ArgExpr and Refs the variant fields it
// mentions.
type Arg struct {
	Name  string      `json:"name"`
	Kind  ArgKind     `json:"kind"`
	Text  string      `json:"text"`
	Span  source.Span `json:"span"`
	Field *Field      `json:"-"`
	Expr  ast.Expr    `json:"-"`
	Refs  []*Field    `json:"-"`
}
