// Package source converts a parsed TypeScript/TSX module into plain Go data:
// type declarations, imports, component functions and the variant tables it
// declares. Files hold no tree-sitter references, so they can be cached and
// shared between goroutines after the tree is closed.
package source

import (
	"github.com/gnana997/uireg/pkg/tsutil"
	"github.com/gnana997/uireg/pkg/variants"
)

// TypeKind classifies a type expression.
type TypeKind int

const (
	TypeOther TypeKind = iota
	TypePrimitive
	TypeLiteral
	TypeRef
	TypeObject
	TypeUnion
	TypeIntersection
	TypeArray
	TypeTuple
	TypeFunction
	TypeQuery
)

var typeKindNames = [...]string{
	"other", "primitive", "literal", "ref", "object", "union",
	"intersection", "array", "tuple", "function", "typeof",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// TypeExpr is a type as written in source.
//
// Name holds the primitive name, the literal text, the referenced type name
// (possibly qualified, e.g. React.ReactNode) or the typeof target. Args holds
// type arguments of a reference, the members of a union or intersection, or
// the element of an array.
type TypeExpr struct {
	Kind    TypeKind
	Name    string
	Args    []*TypeExpr
	Members []*Member
	Text    string
}

// Member is one property of an object type or interface.
type Member struct {
	Name     string
	Optional bool
	Type     *TypeExpr
	Doc      tsutil.Doc
}

// DeclKind classifies a type declaration.
type DeclKind int

const (
	DeclInterface DeclKind = iota
	DeclAlias
	DeclEnum
)

// Decl is a named type declaration. For interfaces Type is the body as an
// object type and Extends lists the heritage clause.
type Decl struct {
	Name       string
	Kind       DeclKind
	Extends    []*TypeExpr
	Type       *TypeExpr
	EnumValues []string
	Doc        tsutil.Doc
	Exported   bool
}

// Function is a component function: a function declaration, an arrow or
// function expression bound to a const, or either of those wrapped in
// forwardRef/memo.
type Function struct {
	Name string
	// Params is the type of the first parameter, nil when unannotated.
	Params *TypeExpr
	// Defaults are the literal defaults of the destructured first parameter.
	Defaults map[string]any
	Doc      tsutil.Doc
	Exported bool
}

// File is the extracted model of one module.
type File struct {
	Path string

	Decls     map[string]*Decl
	Functions map[string]*Function

	// Imports is keyed by local binding name.
	Imports map[string]tsutil.Import
	// ReExports is keyed by exported name.
	ReExports   map[string]tsutil.Import
	StarExports []string

	Tables  []*variants.Table
	Styling map[string]any

	// Strings holds every static string literal, in source order.
	Strings []string
	// JSXNames lists the capitalised JSX element roots rendered anywhere
	// in the file, sorted and unique.
	JSXNames []string

	HasErrors bool
}

// Table returns the variant table bound to name.
func (f *File) Table(name string) *variants.Table {
	for _, t := range f.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}
