package tsutil

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// Pair is one entry of an object literal.
type Pair struct {
	Key   string
	Value *ts.Node
}

// ObjectPairs returns the key/value entries of an object literal in source
// order. Shorthand properties map to their identifier node. Spreads, methods
// and computed keys are skipped.
func ObjectPairs(obj *ts.Node, src []byte) []Pair {
	obj = Unwrap(obj)
	if obj == nil || obj.Kind() != "object" {
		return nil
	}
	var pairs []Pair
	for _, child := range NamedChildren(obj) {
		switch child.Kind() {
		case "pair":
			key := child.ChildByFieldName("key")
			value := child.ChildByFieldName("value")
			if key == nil || value == nil || key.Kind() == "computed_property_name" {
				continue
			}
			pairs = append(pairs, Pair{Key: Unquote(key.Utf8Text(src)), Value: value})
		case "shorthand_property_identifier":
			pairs = append(pairs, Pair{Key: child.Utf8Text(src), Value: child})
		}
	}
	return pairs
}

// Lookup returns the value node for key in an object literal.
func Lookup(obj *ts.Node, src []byte, key string) *ts.Node {
	for _, p := range ObjectPairs(obj, src) {
		if p.Key == key {
			return p.Value
		}
	}
	return nil
}

// Value converts a literal expression to a JSON-compatible Go value.
// Objects become map[string]any, arrays []any. Non-literal expressions
// (identifiers, calls, functions) are kept as their source text so the
// shape survives even when it cannot be evaluated statically.
func Value(node *ts.Node, src []byte) any {
	node = Unwrap(node)
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case "object":
		out := make(map[string]any)
		for _, p := range ObjectPairs(node, src) {
			out[p.Key] = Value(p.Value, src)
		}
		return out
	case "array":
		out := make([]any, 0, node.NamedChildCount())
		for _, el := range NamedChildren(node) {
			if el.Kind() == "comment" {
				continue
			}
			out = append(out, Value(el, src))
		}
		return out
	case "string", "template_string":
		if s, ok := StringValue(node, src); ok {
			return s
		}
	case "number", "true", "false", "null":
		return LiteralValue(node.Utf8Text(src))
	case "undefined":
		return nil
	case "unary_expression":
		return LiteralValue(node.Utf8Text(src))
	}
	return node.Utf8Text(src)
}
