package source

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uireg/pkg/tsutil"
)

// typeExpr converts a type node. Nil in, nil out.
func typeExpr(n *ts.Node, src []byte) *TypeExpr {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "type_annotation", "parenthesized_type", "readonly_type", "opting_type_annotation":
		if inner := n.NamedChild(0); inner != nil {
			return typeExpr(inner, src)
		}
		return nil
	}

	t := &TypeExpr{Text: n.Utf8Text(src)}
	switch n.Kind() {
	case "predefined_type":
		t.Kind, t.Name = TypePrimitive, t.Text
	case "undefined", "null":
		t.Kind, t.Name = TypePrimitive, t.Text
	case "literal_type":
		if t.Text == "null" || t.Text == "undefined" {
			t.Kind, t.Name = TypePrimitive, t.Text
		} else {
			t.Kind, t.Name = TypeLiteral, t.Text
		}
	case "string", "number", "true", "false":
		t.Kind, t.Name = TypeLiteral, t.Text
	case "template_literal_type":
		t.Kind, t.Name = TypePrimitive, "string"
	case "type_identifier", "nested_type_identifier", "identifier":
		t.Kind, t.Name = TypeRef, t.Text
		if t.Text == "undefined" {
			t.Kind = TypePrimitive
		}
	case "generic_type":
		t.Kind = TypeRef
		t.Name = tsutil.Text(n.ChildByFieldName("name"), src)
		for _, arg := range tsutil.NamedChildren(n.ChildByFieldName("type_arguments")) {
			if arg.Kind() == "comment" {
				continue
			}
			t.Args = append(t.Args, typeExpr(arg, src))
		}
	case "object_type", "interface_body":
		t.Kind = TypeObject
		t.Members = members(n, src)
	case "union_type":
		t.Kind = TypeUnion
		t.Args = flatten(n, "union_type", src)
	case "intersection_type":
		t.Kind = TypeIntersection
		t.Args = flatten(n, "intersection_type", src)
	case "array_type":
		t.Kind = TypeArray
		if elem := n.NamedChild(0); elem != nil {
			t.Args = []*TypeExpr{typeExpr(elem, src)}
		}
	case "tuple_type":
		t.Kind = TypeTuple
	case "function_type", "constructor_type":
		t.Kind = TypeFunction
	case "type_query":
		t.Kind = TypeQuery
		t.Name = tsutil.Text(n.NamedChild(0), src)
	default:
		t.Kind = TypeOther
	}
	return t
}

// flatten collects the operands of a left-nested union or intersection.
func flatten(n *ts.Node, kind string, src []byte) []*TypeExpr {
	var out []*TypeExpr
	for _, child := range tsutil.NamedChildren(n) {
		if child.Kind() == "comment" {
			continue
		}
		if child.Kind() == kind {
			out = append(out, flatten(child, kind, src)...)
			continue
		}
		if te := typeExpr(child, src); te != nil {
			out = append(out, te)
		}
	}
	return out
}

func members(body *ts.Node, src []byte) []*Member {
	var out []*Member
	for _, child := range tsutil.NamedChildren(body) {
		switch child.Kind() {
		case "property_signature":
			name := child.ChildByFieldName("name")
			if name == nil || name.Kind() == "computed_property_name" {
				continue
			}
			out = append(out, &Member{
				Name:     tsutil.Unquote(name.Utf8Text(src)),
				Optional: tsutil.HasChild(child, "?"),
				Type:     typeExpr(child.ChildByFieldName("type"), src),
				Doc:      tsutil.LeadingDoc(child, src),
			})
		case "method_signature":
			name := child.ChildByFieldName("name")
			if name == nil || name.Kind() == "computed_property_name" {
				continue
			}
			out = append(out, &Member{
				Name:     tsutil.Unquote(name.Utf8Text(src)),
				Optional: tsutil.HasChild(child, "?"),
				Type:     &TypeExpr{Kind: TypeFunction, Text: child.Utf8Text(src)},
				Doc:      tsutil.LeadingDoc(child, src),
			})
		}
	}
	return out
}
