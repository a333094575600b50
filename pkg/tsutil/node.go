// Package tsutil holds the small tree-sitter helpers shared by the
// extraction packages: child lookup, literal decoding, JSDoc parsing and
// object-literal conversion.
package tsutil

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// ChildByKind returns the first direct child of the given kind.
func ChildByKind(node *ts.Node, kind string) *ts.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// HasChild reports whether node has a direct child of the given kind.
// Anonymous tokens such as "?" count.
func HasChild(node *ts.Node, kind string) bool {
	return ChildByKind(node, kind) != nil
}

// NamedChildren returns the named children of node in source order.
func NamedChildren(node *ts.Node) []*ts.Node {
	if node == nil {
		return nil
	}
	out := make([]*ts.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Walk visits node and its descendants in pre-order. Returning false from
// visit skips the node's children.
func Walk(node *ts.Node, visit func(*ts.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(node.Child(i), visit)
	}
}

// Text returns the source text of node, or "" for nil.
func Text(node *ts.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(src)
}

// Unwrap strips expression wrappers that do not change the value:
// parentheses, `as`, `satisfies` and non-null assertions.
func Unwrap(node *ts.Node) *ts.Node {
	for node != nil {
		switch node.Kind() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			inner := node.NamedChild(0)
			if inner == nil {
				return node
			}
			node = inner
		default:
			return node
		}
	}
	return nil
}

// CallArguments returns the argument expressions of a call_expression.
func CallArguments(call *ts.Node) []*ts.Node {
	if call == nil || call.Kind() != "call_expression" {
		return nil
	}
	var out []*ts.Node
	for _, arg := range NamedChildren(call.ChildByFieldName("arguments")) {
		if arg.Kind() != "comment" {
			out = append(out, arg)
		}
	}
	return out
}

// Callee returns the source text of a call's function expression.
func Callee(call *ts.Node, src []byte) string {
	if call == nil || call.Kind() != "call_expression" {
		return ""
	}
	return Text(call.ChildByFieldName("function"), src)
}
