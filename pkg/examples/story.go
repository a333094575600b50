// Package examples collects usage snippets for a component from its story
// file and from the documentation site's demo metadata.
package examples

import (
	"encoding/json"
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uireg/pkg/tsutil"
)

// FromStory returns one snippet per exported story, in source order.
//
// A story that renders JSX (a function, or an object with render) yields
// that JSX. An object with args yields a synthesised element of component
// with the meta args and the story args as props.
func FromStory(root *ts.Node, src []byte, component string) []string {
	if root == nil {
		return nil
	}

	var metaArgs []arg
	var out []string
	for _, st := range tsutil.TopLevel(root) {
		if st.Default {
			metaArgs = args(tsutil.Lookup(metaObject(st.Node, root, src), src, "args"), src)
		}
	}

	for _, d := range tsutil.Declarators(root, src) {
		if !d.Exported {
			continue
		}
		value := tsutil.Unwrap(d.Value)
		if value == nil {
			continue
		}
		switch value.Kind() {
		case "arrow_function", "function_expression", "function":
			if jsx := renderedJSX(value, src); jsx != "" {
				out = append(out, jsx)
			}
		case "object":
			if render := tsutil.Lookup(value, src, "render"); render != nil {
				if jsx := renderedJSX(tsutil.Unwrap(render), src); jsx != "" {
					out = append(out, jsx)
				}
				continue
			}
			storyArgs := args(tsutil.Lookup(value, src, "args"), src)
			if len(metaArgs) == 0 && len(storyArgs) == 0 {
				continue
			}
			out = append(out, synthesize(component, merge(metaArgs, storyArgs)))
		}
	}
	return out
}

// metaObject finds the default export object, following `export default
// meta` to its declaration.
func metaObject(n, root *ts.Node, src []byte) *ts.Node {
	n = tsutil.Unwrap(n)
	if n == nil {
		return nil
	}
	if n.Kind() == "identifier" {
		name := n.Utf8Text(src)
		for _, d := range tsutil.Declarators(root, src) {
			if d.Name == name {
				return tsutil.Unwrap(d.Value)
			}
		}
		return nil
	}
	if n.Kind() == "object" {
		return n
	}
	return nil
}

type arg struct {
	key   string
	value *ts.Node
	src   []byte
}

func args(obj *ts.Node, src []byte) []arg {
	var out []arg
	for _, p := range tsutil.ObjectPairs(obj, src) {
		out = append(out, arg{key: p.Key, value: p.Value, src: src})
	}
	return out
}

func merge(base, over []arg) []arg {
	out := make([]arg, 0, len(base)+len(over))
	for _, b := range base {
		replaced := false
		for _, o := range over {
			if o.key == b.key {
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, b)
		}
	}
	return append(out, over...)
}

func synthesize(component string, props []arg) string {
	var b strings.Builder
	b.WriteString("<" + component)
	children := ""
	for _, a := range props {
		if a.key == "children" {
			if s, ok := tsutil.StringValue(a.value, a.src); ok {
				children = s
			} else {
				children = "{" + tsutil.Text(a.value, a.src) + "}"
			}
			continue
		}
		b.WriteString(" " + attribute(a))
	}
	if children == "" {
		b.WriteString(" />")
		return b.String()
	}
	b.WriteString(">" + children + "</" + component + ">")
	return b.String()
}

func attribute(a arg) string {
	value := tsutil.Unwrap(a.value)
	if s, ok := tsutil.StringValue(value, a.src); ok {
		if strings.ContainsAny(s, "\"{}") {
			quoted, _ := json.Marshal(s)
			return fmt.Sprintf("%s={%s}", a.key, quoted)
		}
		return fmt.Sprintf("%s=%q", a.key, s)
	}
	if value != nil && value.Kind() == "true" {
		return a.key
	}
	return fmt.Sprintf("%s={%s}", a.key, tsutil.Text(value, a.src))
}

// renderedJSX returns the dedented JSX a function renders: an expression
// body, or the single return of a block body.
func renderedJSX(fn *ts.Node, src []byte) string {
	if fn == nil {
		return ""
	}
	body := fn.ChildByFieldName("body")
	if body == nil {
		return ""
	}
	if body.Kind() == "statement_block" {
		var ret *ts.Node
		for _, s := range tsutil.NamedChildren(body) {
			if s.Kind() == "return_statement" {
				ret = s.NamedChild(0)
			}
		}
		body = ret
	}
	body = tsutil.Unwrap(body)
	if body == nil {
		return ""
	}
	switch body.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return dedent(body.Utf8Text(src), int(body.StartPosition().Column))
	}
	return ""
}

// dedent strips the indentation of continuation lines. first is the column
// the snippet starts at, which is the indentation of its closing line.
func dedent(text string, first int) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return strings.TrimSpace(text)
	}
	cut := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if cut < 0 || indent < cut {
			cut = indent
		}
	}
	cut = min(cut, first)
	for i := 1; i < len(lines); i++ {
		if cut > 0 && len(lines[i]) >= cut {
			lines[i] = lines[i][cut:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
