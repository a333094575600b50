// Package compound detects dot-notation component families such as
// Dialog.Trigger and documents each member.
//
// Detection is structural: it reads the syntax tree and never evaluates
// code. Two export shapes are recognised:
//
//	export const Dialog = Object.assign(DialogRoot, { Trigger: DialogTrigger })
//	Dialog.Trigger = DialogTrigger
//
// A member whose value is an external primitive, a local alias of one, or
// a wrapper that only forwards props and ref to one is a pass-through.
package compound

import (
	"strings"
	"unicode"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uireg/pkg/tsutil"
)

// Kind tags a detected member.
type Kind string

const (
	KindOwned       Kind = "owned"
	KindPassthrough Kind = "passthrough"
)

// Member is one detected compound member.
type Member struct {
	Name string
	Kind Kind
	// Target is the expression the member is bound to, as written.
	Target string
	// Ref is "<package>#<export>" of the wrapped primitive for
	// pass-through members.
	Ref         string
	Description string
}

// Detect returns the members attached to component in declaration order.
// Malformed or unrecognised shapes yield nil.
func Detect(root *ts.Node, src []byte, component string) (members []Member) {
	defer func() {
		if recover() != nil {
			members = nil
		}
	}()
	if root == nil || component == "" {
		return nil
	}

	d := &detector{
		src:     src,
		imports: make(map[string]tsutil.Import),
		locals:  make(map[string]*ts.Node),
	}
	for _, imp := range tsutil.Imports(root, src) {
		d.imports[imp.Local] = imp
	}
	for _, st := range tsutil.TopLevel(root) {
		if st.Node.Kind() == "function_declaration" {
			if name := tsutil.Text(st.Node.ChildByFieldName("name"), src); name != "" {
				d.locals[name] = st.Node
			}
		}
	}
	for _, decl := range tsutil.Declarators(root, src) {
		d.locals[decl.Name] = decl.Node
	}

	seen := make(map[string]bool)
	add := func(name string, value, docNode *ts.Node) {
		if seen[name] || !isComponentName(name) || value == nil {
			return
		}
		seen[name] = true
		members = append(members, d.member(name, value, docNode))
	}

	if decl, ok := d.locals[component]; ok && decl.Kind() == "variable_declarator" {
		value := tsutil.Unwrap(decl.ChildByFieldName("value"))
		if value != nil && value.Kind() == "call_expression" && tsutil.Callee(value, src) == "Object.assign" {
			args := tsutil.CallArguments(value)
			for i := 1; i < len(args); i++ {
				obj := args[i]
				for _, p := range tsutil.ObjectPairs(obj, src) {
					add(p.Key, p.Value, pairNode(p.Value))
				}
			}
		}
	}

	for _, stmt := range tsutil.NamedChildren(root) {
		if stmt.Kind() != "expression_statement" {
			continue
		}
		assign := stmt.NamedChild(0)
		if assign == nil || assign.Kind() != "assignment_expression" {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left == nil || left.Kind() != "member_expression" {
			continue
		}
		if tsutil.Text(left.ChildByFieldName("object"), src) != component {
			continue
		}
		add(tsutil.Text(left.ChildByFieldName("property"), src), assign.ChildByFieldName("right"), stmt)
	}
	return members
}

type detector struct {
	src     []byte
	imports map[string]tsutil.Import
	locals  map[string]*ts.Node
}

func (d *detector) member(name string, value, docNode *ts.Node) Member {
	value = tsutil.Unwrap(value)
	m := Member{Name: name, Kind: KindOwned, Target: value.Utf8Text(d.src)}
	if docNode != nil {
		m.Description = tsutil.LeadingDoc(docNode, d.src).Description
	}
	if local, ok := d.locals[m.Target]; ok && m.Description == "" {
		m.Description = tsutil.LeadingDoc(declStatement(local), d.src).Description
	}
	if ref, ok := d.passthrough(value, 0); ok {
		m.Kind = KindPassthrough
		m.Ref = ref
	}
	return m
}

// passthrough reports the primitive a value forwards to.
func (d *detector) passthrough(value *ts.Node, depth int) (string, bool) {
	value = tsutil.Unwrap(value)
	if value == nil || depth > 8 {
		return "", false
	}
	switch value.Kind() {
	case "identifier", "member_expression":
		text := value.Utf8Text(d.src)
		if ref, ok := d.externalRef(text); ok {
			return ref, true
		}
		local, ok := d.locals[text]
		if !ok {
			return "", false
		}
		if local.Kind() == "variable_declarator" {
			return d.passthrough(local.ChildByFieldName("value"), depth+1)
		}
		return d.wrapper(local)
	case "call_expression":
		// forwardRef(fn) and memo(fn) wrap the function that matters.
		switch callee := tsutil.Callee(value, d.src); {
		case strings.HasSuffix(callee, "forwardRef"), strings.HasSuffix(callee, "memo"):
			args := tsutil.CallArguments(value)
			if len(args) == 0 {
				return "", false
			}
			return d.passthrough(args[0], depth+1)
		}
	case "arrow_function", "function_expression", "function":
		return d.wrapper(value)
	}
	return "", false
}

// externalRef resolves an identifier or Namespace.Member to a package
// export.
func (d *detector) externalRef(text string) (string, bool) {
	if ns, member, ok := strings.Cut(text, "."); ok {
		imp, found := d.imports[ns]
		if !found || !tsutil.IsExternal(imp.Source) || strings.Contains(member, ".") {
			return "", false
		}
		if imp.Imported == "*" {
			return imp.Source + "#" + member, true
		}
		return imp.Source + "#" + imp.Imported + "." + member, true
	}
	imp, ok := d.imports[text]
	if !ok || !tsutil.IsExternal(imp.Source) {
		return "", false
	}
	return imp.Source + "#" + imp.Imported, true
}

// wrapper reports whether fn only renders one external primitive with
// spread props, an optional ref and children.
func (d *detector) wrapper(fn *ts.Node) (string, bool) {
	el := returnedJSX(fn)
	if el == nil {
		return "", false
	}

	var opening *ts.Node
	switch el.Kind() {
	case "jsx_self_closing_element":
		opening = el
	case "jsx_element":
		opening = el.ChildByFieldName("open_tag")
		for _, child := range tsutil.NamedChildren(el) {
			switch child.Kind() {
			case "jsx_opening_element", "jsx_closing_element":
			case "jsx_expression":
				text := strings.TrimSpace(strings.Trim(child.Utf8Text(d.src), "{}"))
				if text != "children" && text != "props.children" {
					return "", false
				}
			case "jsx_text":
				if strings.TrimSpace(child.Utf8Text(d.src)) != "" {
					return "", false
				}
			default:
				return "", false
			}
		}
	default:
		return "", false
	}
	if opening == nil {
		return "", false
	}

	for _, attr := range tsutil.NamedChildren(opening) {
		switch attr.Kind() {
		case "jsx_expression":
			if !tsutil.HasChild(attr, "spread_element") {
				return "", false
			}
		case "jsx_attribute":
			name := tsutil.Text(attr.NamedChild(0), d.src)
			if name != "ref" && name != "data-slot" {
				return "", false
			}
		}
	}
	return d.externalRef(tsutil.Text(opening.ChildByFieldName("name"), d.src))
}

// returnedJSX returns the single JSX element a function renders.
func returnedJSX(fn *ts.Node) *ts.Node {
	if fn == nil {
		return nil
	}
	if fn.Kind() == "call_expression" {
		args := tsutil.CallArguments(fn)
		if len(args) == 0 {
			return nil
		}
		fn = tsutil.Unwrap(args[0])
	}
	if fn.Kind() == "variable_declarator" {
		return returnedJSX(tsutil.Unwrap(fn.ChildByFieldName("value")))
	}

	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if body.Kind() != "statement_block" {
		return jsxElement(body)
	}
	var stmts []*ts.Node
	for _, s := range tsutil.NamedChildren(body) {
		if s.Kind() != "comment" {
			stmts = append(stmts, s)
		}
	}
	if len(stmts) != 1 || stmts[0].Kind() != "return_statement" {
		return nil
	}
	return jsxElement(stmts[0].NamedChild(0))
}

func jsxElement(n *ts.Node) *ts.Node {
	n = tsutil.Unwrap(n)
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "jsx_element", "jsx_self_closing_element":
		return n
	}
	return nil
}

// pairNode returns the object pair holding value, for its leading comment.
func pairNode(value *ts.Node) *ts.Node {
	if p := value.Parent(); p != nil && p.Kind() == "pair" {
		return p
	}
	return nil
}

// declStatement returns the statement to read a declaration's JSDoc from.
func declStatement(n *ts.Node) *ts.Node {
	if n.Kind() == "variable_declarator" {
		if p := n.Parent(); p != nil {
			return p
		}
	}
	return n
}

func isComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
