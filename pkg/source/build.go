package source

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uireg/pkg/tsutil"
	"github.com/gnana997/uireg/pkg/variants"
)

// Build extracts the model of a parsed module in one pass over its
// top-level statements plus one walk for literals and JSX names.
func Build(root *ts.Node, src []byte, path string) *File {
	f := &File{
		Path:      path,
		Decls:     make(map[string]*Decl),
		Functions: make(map[string]*Function),
		Imports:   make(map[string]tsutil.Import),
		HasErrors: root.HasError(),
	}

	for _, imp := range tsutil.Imports(root, src) {
		f.Imports[imp.Local] = imp
	}
	f.ReExports, f.StarExports = tsutil.ReExports(root, src)

	for _, st := range tsutil.TopLevel(root) {
		n := st.Node
		switch n.Kind() {
		case "interface_declaration":
			f.addInterface(n, src, st.Exported)
		case "type_alias_declaration":
			name := tsutil.Text(n.ChildByFieldName("name"), src)
			f.Decls[name] = &Decl{
				Name:     name,
				Kind:     DeclAlias,
				Type:     typeExpr(n.ChildByFieldName("value"), src),
				Doc:      tsutil.LeadingDoc(n, src),
				Exported: st.Exported,
			}
		case "enum_declaration":
			name := tsutil.Text(n.ChildByFieldName("name"), src)
			f.Decls[name] = &Decl{
				Name:       name,
				Kind:       DeclEnum,
				EnumValues: enumValues(n.ChildByFieldName("body"), src),
				Doc:        tsutil.LeadingDoc(n, src),
				Exported:   st.Exported,
			}
		case "function_declaration":
			name := tsutil.Text(n.ChildByFieldName("name"), src)
			if name == "" {
				continue
			}
			fn := functionFrom(name, n, nil, src)
			fn.Doc = tsutil.LeadingDoc(n, src)
			fn.Exported = st.Exported
			f.Functions[name] = fn
		}
	}

	for _, d := range tsutil.Declarators(root, src) {
		fn := functionFrom(d.Name, d.Value, d.Node.ChildByFieldName("type"), src)
		if fn == nil {
			continue
		}
		fn.Doc = tsutil.LeadingDoc(d.Node.Parent(), src)
		fn.Exported = d.Exported
		f.Functions[d.Name] = fn
	}

	for _, name := range localExports(root, src) {
		if d, ok := f.Decls[name]; ok {
			d.Exported = true
		}
		if fn, ok := f.Functions[name]; ok {
			fn.Exported = true
		}
	}

	f.Tables = variants.ParseTables(root, src)
	f.Styling = variants.Styling(root, src)
	f.Strings, f.JSXNames = literals(root, src)
	return f
}

func (f *File) addInterface(n *ts.Node, src []byte, exported bool) {
	name := tsutil.Text(n.ChildByFieldName("name"), src)
	body := typeExpr(n.ChildByFieldName("body"), src)
	if body == nil {
		body = &TypeExpr{Kind: TypeObject}
	}
	var extends []*TypeExpr
	if clause := tsutil.ChildByKind(n, "extends_type_clause"); clause != nil {
		for _, t := range tsutil.NamedChildren(clause) {
			if t.Kind() != "comment" {
				extends = append(extends, typeExpr(t, src))
			}
		}
	}

	// Declaration merging: later bodies extend the earlier one.
	if prev, ok := f.Decls[name]; ok && prev.Kind == DeclInterface {
		prev.Type.Members = append(prev.Type.Members, body.Members...)
		prev.Extends = append(prev.Extends, extends...)
		prev.Exported = prev.Exported || exported
		return
	}
	f.Decls[name] = &Decl{
		Name:     name,
		Kind:     DeclInterface,
		Extends:  extends,
		Type:     body,
		Doc:      tsutil.LeadingDoc(n, src),
		Exported: exported,
	}
}

func enumValues(body *ts.Node, src []byte) []string {
	var out []string
	for _, m := range tsutil.NamedChildren(body) {
		switch m.Kind() {
		case "property_identifier", "string":
			out = append(out, tsutil.Unquote(m.Utf8Text(src)))
		case "enum_assignment":
			if s, ok := tsutil.StringValue(m.ChildByFieldName("value"), src); ok {
				out = append(out, s)
			} else {
				out = append(out, tsutil.Unquote(tsutil.Text(m.ChildByFieldName("name"), src)))
			}
		}
	}
	return out
}

// functionFrom builds a Function from a function node or from a value that
// wraps one. declType is the variable's own annotation (React.FC<Props>).
// Returns nil when value is not a function.
func functionFrom(name string, value, declType *ts.Node, src []byte) *Function {
	value = tsutil.Unwrap(value)
	if value == nil {
		return nil
	}

	var propsType *TypeExpr
	if t := typeExpr(declType, src); t != nil && t.Kind == TypeRef && len(t.Args) > 0 {
		switch lastSegment(t.Name) {
		case "FC", "FunctionComponent", "VFC", "ForwardRefExoticComponent", "MemoExoticComponent":
			propsType = t.Args[0]
		}
	}

	// forwardRef<El, Props>(fn), memo(fn), memo(forwardRef(fn))
	for value.Kind() == "call_expression" {
		callee := lastSegment(tsutil.Callee(value, src))
		if callee != "forwardRef" && callee != "memo" {
			return nil
		}
		if callee == "forwardRef" && propsType == nil {
			args := tsutil.NamedChildren(value.ChildByFieldName("type_arguments"))
			if len(args) == 2 {
				propsType = typeExpr(args[1], src)
			}
		}
		callArgs := tsutil.CallArguments(value)
		if len(callArgs) == 0 {
			return nil
		}
		value = tsutil.Unwrap(callArgs[0])
	}

	switch value.Kind() {
	case "function_declaration", "function_expression", "function", "arrow_function", "generator_function_declaration":
	default:
		return nil
	}

	fn := &Function{Name: name, Defaults: map[string]any{}}
	param := firstParam(value)
	if param != nil {
		fn.Params = typeExpr(param.ChildByFieldName("type"), src)
		fn.Defaults = patternDefaults(param.ChildByFieldName("pattern"), src)
	}
	if fn.Params == nil {
		fn.Params = propsType
	}
	return fn
}

func firstParam(fn *ts.Node) *ts.Node {
	for _, p := range tsutil.NamedChildren(fn.ChildByFieldName("parameters")) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			return p
		}
	}
	return nil
}

// patternDefaults reads `{ size = "md", variant: v = "solid" }`.
func patternDefaults(pattern *ts.Node, src []byte) map[string]any {
	out := make(map[string]any)
	if pattern == nil || pattern.Kind() != "object_pattern" {
		return out
	}
	for _, child := range tsutil.NamedChildren(pattern) {
		switch child.Kind() {
		case "object_assignment_pattern":
			key := tsutil.Text(child.ChildByFieldName("left"), src)
			if v, ok := literalDefault(child.ChildByFieldName("right"), src); ok && key != "" {
				out[key] = v
			}
		case "pair_pattern":
			key := tsutil.Unquote(tsutil.Text(child.ChildByFieldName("key"), src))
			value := child.ChildByFieldName("value")
			if value == nil || value.Kind() != "assignment_pattern" {
				continue
			}
			if v, ok := literalDefault(value.ChildByFieldName("right"), src); ok && key != "" {
				out[key] = v
			}
		}
	}
	return out
}

func literalDefault(n *ts.Node, src []byte) (any, bool) {
	n = tsutil.Unwrap(n)
	if n == nil {
		return nil, false
	}
	switch n.Kind() {
	case "string", "number", "true", "false", "unary_expression":
		return tsutil.LiteralValue(n.Utf8Text(src)), true
	case "template_string":
		if s, ok := tsutil.StringValue(n, src); ok {
			return s, true
		}
	}
	return nil, false
}

// localExports returns names listed in `export { a, b }` clauses without a
// module source.
func localExports(root *ts.Node, src []byte) []string {
	var out []string
	for _, stmt := range tsutil.NamedChildren(root) {
		if stmt.Kind() != "export_statement" || stmt.ChildByFieldName("source") != nil {
			continue
		}
		for _, spec := range tsutil.NamedChildren(tsutil.ChildByKind(stmt, "export_clause")) {
			if spec.Kind() == "export_specifier" {
				out = append(out, tsutil.Text(spec.ChildByFieldName("name"), src))
			}
		}
	}
	return out
}

func literals(root *ts.Node, src []byte) ([]string, []string) {
	var strs []string
	names := make(map[string]bool)
	tsutil.Walk(root, func(n *ts.Node) bool {
		switch n.Kind() {
		case "string":
			if s := tsutil.Unquote(n.Utf8Text(src)); s != "" {
				strs = append(strs, s)
			}
			return false
		case "template_string":
			strs = append(strs, tsutil.Unquote(n.Utf8Text(src)))
		case "jsx_opening_element", "jsx_self_closing_element":
			name := tsutil.Text(n.ChildByFieldName("name"), src)
			name, _, _ = strings.Cut(name, ".")
			if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
				names[name] = true
			}
		}
		return true
	})
	jsx := make([]string, 0, len(names))
	for name := range names {
		jsx = append(jsx, name)
	}
	slices.Sort(jsx)
	return strs, jsx
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
