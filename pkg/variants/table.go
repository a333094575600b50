// Package variants reads variant tables declared in component source and
// merges them into extracted prop schemas.
//
// Two declaration styles are recognised:
//
//	const buttonVariants = cva("base classes", {
//	  variants: { size: { sm: "h-8", lg: "h-10" } },
//	  defaultVariants: { size: "sm" },
//	})
//
//	export const badgeVariants = {
//	  tone: {
//	    info: { classes: "bg-muted", description: "Neutral notice" },
//	    danger: { classes: ["bg-destructive"], stateClasses: { hover: "bg-destructive/90" } },
//	  },
//	}
//
// tv() calls take the same shape as cva's second argument, with base inside.
package variants

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uireg/pkg/tsutil"
)

// Option is one selectable value of a variant.
type Option struct {
	Key          string
	Classes      string
	Description  string
	StateClasses map[string]string
}

// Variant is one named axis such as size or tone. Options keep declaration
// order.
type Variant struct {
	Name    string
	Options []Option
}

// Keys returns the option keys in declaration order.
func (v *Variant) Keys() []string {
	keys := make([]string, len(v.Options))
	for i, o := range v.Options {
		keys[i] = o.Key
	}
	return keys
}

// Table is a variant table bound to a variable.
type Table struct {
	Name     string
	Base     string
	Variants []Variant
	Defaults map[string]string
}

// Lookup returns the variant with the given name.
func (t *Table) Lookup(name string) *Variant {
	if t == nil {
		return nil
	}
	for i := range t.Variants {
		if t.Variants[i].Name == name {
			return &t.Variants[i]
		}
	}
	return nil
}

// Classes returns every class string in the table, base first.
func (t *Table) Classes() []string {
	if t == nil {
		return nil
	}
	out := []string{t.Base}
	for _, v := range t.Variants {
		for _, o := range v.Options {
			out = append(out, o.Classes)
			for _, sc := range o.StateClasses {
				out = append(out, sc)
			}
		}
	}
	return out
}

// ParseTables finds every variant table in a parsed file, in source order.
func ParseTables(root *ts.Node, src []byte) []*Table {
	var tables []*Table
	seen := make(map[string]bool)

	add := func(t *Table) {
		if t == nil || t.Name == "" || seen[t.Name] {
			return
		}
		seen[t.Name] = true
		tables = append(tables, t)
	}

	tsutil.Walk(root, func(n *ts.Node) bool {
		switch n.Kind() {
		case "call_expression":
			switch callName(n, src) {
			case "cva":
				add(parseCVA(n, src))
				return false
			case "tv":
				add(parseTV(n, src))
				return false
			}
		case "variable_declarator":
			name := tsutil.Text(n.ChildByFieldName("name"), src)
			value := tsutil.Unwrap(n.ChildByFieldName("value"))
			if value != nil && value.Kind() == "object" && strings.HasSuffix(strings.ToLower(name), "variants") {
				add(parseRichTable(name, value, src))
				return false
			}
		}
		return true
	})
	return tables
}

func callName(call *ts.Node, src []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier":
		return fn.Utf8Text(src)
	case "member_expression":
		return tsutil.Text(fn.ChildByFieldName("property"), src)
	}
	return ""
}

func parseCVA(call *ts.Node, src []byte) *Table {
	args := tsutil.CallArguments(call)
	t := &Table{Name: tsutil.EnclosingDeclarator(call, src), Defaults: map[string]string{}}
	if len(args) > 0 {
		t.Base = joinClasses(tsutil.Strings(args[0], src))
	}
	if len(args) > 1 {
		parseConfig(t, args[1], src)
	}
	return t
}

func parseTV(call *ts.Node, src []byte) *Table {
	args := tsutil.CallArguments(call)
	t := &Table{Name: tsutil.EnclosingDeclarator(call, src), Defaults: map[string]string{}}
	if len(args) > 0 {
		t.Base = joinClasses(tsutil.Strings(tsutil.Lookup(args[0], src, "base"), src))
		parseConfig(t, args[0], src)
	}
	return t
}

// parseRichTable accepts either a cva-style config object or a bare
// variant map. Returns nil when the object does not look like a table.
func parseRichTable(name string, obj *ts.Node, src []byte) *Table {
	t := &Table{Name: name, Defaults: map[string]string{}}
	if tsutil.Lookup(obj, src, "variants") != nil {
		t.Base = joinClasses(tsutil.Strings(tsutil.Lookup(obj, src, "base"), src))
		parseConfig(t, obj, src)
	} else {
		variants, ok := parseVariants(obj, src)
		if !ok {
			return nil
		}
		t.Variants = variants
	}
	if len(t.Variants) == 0 {
		return nil
	}
	return t
}

func parseConfig(t *Table, config *ts.Node, src []byte) {
	if v, ok := parseVariants(tsutil.Lookup(config, src, "variants"), src); ok {
		t.Variants = v
	}
	for _, p := range tsutil.ObjectPairs(tsutil.Lookup(config, src, "defaultVariants"), src) {
		if def := defaultString(p.Value, src); def != "" {
			t.Defaults[p.Key] = def
		}
	}
}

func parseVariants(obj *ts.Node, src []byte) ([]Variant, bool) {
	pairs := tsutil.ObjectPairs(obj, src)
	if len(pairs) == 0 {
		return nil, false
	}
	variants := make([]Variant, 0, len(pairs))
	for _, p := range pairs {
		optionPairs := tsutil.ObjectPairs(p.Value, src)
		if tsutil.Unwrap(p.Value).Kind() != "object" {
			return nil, false
		}
		v := Variant{Name: p.Key}
		for _, op := range optionPairs {
			opt, ok := parseOption(op, src)
			if !ok {
				return nil, false
			}
			v.Options = append(v.Options, opt)
		}
		variants = append(variants, v)
	}
	return variants, true
}

func parseOption(p tsutil.Pair, src []byte) (Option, bool) {
	opt := Option{Key: p.Key}
	value := tsutil.Unwrap(p.Value)

	switch value.Kind() {
	case "string", "template_string", "array":
		opt.Classes = joinClasses(tsutil.Strings(value, src))
		return opt, true
	case "object":
		opt.Classes = joinClasses(tsutil.Strings(tsutil.Lookup(value, src, "classes"), src))
		opt.Description, _ = tsutil.StringValue(tsutil.Lookup(value, src, "description"), src)
		for _, sp := range tsutil.ObjectPairs(tsutil.Lookup(value, src, "stateClasses"), src) {
			if classes := joinClasses(tsutil.Strings(sp.Value, src)); classes != "" {
				if opt.StateClasses == nil {
					opt.StateClasses = make(map[string]string)
				}
				opt.StateClasses[sp.Key] = classes
			}
		}
		return opt, true
	}
	// cva allows template literals with substitutions and helper calls; the
	// option still exists even though its classes are not static.
	if value.Kind() == "call_expression" || value.Kind() == "identifier" {
		return opt, true
	}
	return opt, false
}

func defaultString(node *ts.Node, src []byte) string {
	node = tsutil.Unwrap(node)
	if node == nil {
		return ""
	}
	if s, ok := tsutil.StringValue(node, src); ok {
		return s
	}
	switch node.Kind() {
	case "true", "false", "number":
		return node.Utf8Text(src)
	}
	return ""
}

func joinClasses(parts []string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
