package tsutil

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// Statement is a top-level declaration with the export wrapper removed.
type Statement struct {
	Node     *ts.Node
	Exported bool
	Default  bool
}

// TopLevel returns the program's top-level declarations. `export` and
// `export default` wrappers are unwrapped and recorded on the statement.
func TopLevel(root *ts.Node) []Statement {
	var out []Statement
	for _, child := range NamedChildren(root) {
		if child.Kind() != "export_statement" {
			out = append(out, Statement{Node: child})
			continue
		}
		isDefault := HasChild(child, "default")
		if decl := child.ChildByFieldName("declaration"); decl != nil {
			out = append(out, Statement{Node: decl, Exported: true, Default: isDefault})
		} else if value := child.ChildByFieldName("value"); value != nil {
			out = append(out, Statement{Node: value, Exported: true, Default: true})
		}
	}
	return out
}

// Declarator is one `name = value` binding of a top-level const/let/var.
type Declarator struct {
	Name     string
	Value    *ts.Node
	Node     *ts.Node
	Exported bool
}

// Declarators returns the top-level variable bindings with identifier names.
// Destructuring patterns are skipped.
func Declarators(root *ts.Node, src []byte) []Declarator {
	var out []Declarator
	for _, st := range TopLevel(root) {
		kind := st.Node.Kind()
		if kind != "lexical_declaration" && kind != "variable_declaration" {
			continue
		}
		for _, d := range NamedChildren(st.Node) {
			if d.Kind() != "variable_declarator" {
				continue
			}
			name := d.ChildByFieldName("name")
			if name == nil || name.Kind() != "identifier" {
				continue
			}
			out = append(out, Declarator{
				Name:     name.Utf8Text(src),
				Value:    d.ChildByFieldName("value"),
				Node:     d,
				Exported: st.Exported,
			})
		}
	}
	return out
}

// EnclosingDeclarator returns the name of the variable a node is assigned
// to, walking up through wrappers such as calls and `as const`.
func EnclosingDeclarator(node *ts.Node, src []byte) string {
	for n := node; n != nil; n = n.Parent() {
		switch n.Kind() {
		case "variable_declarator":
			if name := n.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				return name.Utf8Text(src)
			}
			return ""
		case "program", "statement_block", "class_body":
			return ""
		}
	}
	return ""
}
