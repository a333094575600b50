package props

import (
	"slices"
	"strings"

	"github.com/gnana997/uireg/pkg/source"
	"github.com/gnana997/uireg/pkg/tsutil"
)

// reactTypes are React type names reported without the namespace.
var reactTypes = map[string]bool{
	"ReactNode": true, "ReactElement": true, "ReactChild": true,
	"ReactPortal": true, "CSSProperties": true, "Ref": true,
	"RefObject": true, "ElementType": true, "ComponentType": true,
	"JSX.Element": true,
}

// typeInfo names the semantic type of a prop and, for enums, its values.
func (rs *resolver) typeInfo(file *source.File, te *source.TypeExpr, depth int) (string, []string) {
	if te == nil || depth > maxDepth {
		return "unknown", nil
	}
	switch te.Kind {
	case source.TypePrimitive:
		return te.Name, nil
	case source.TypeLiteral:
		if typ := tsutil.LiteralType(te.Name); typ == "boolean" {
			return "boolean", nil
		}
		return "enum", []string{literalString(te.Name)}
	case source.TypeUnion:
		return rs.unionInfo(file, te, depth)
	case source.TypeArray, source.TypeTuple:
		return "array", nil
	case source.TypeFunction:
		return "function", nil
	case source.TypeObject, source.TypeIntersection:
		return "object", nil
	case source.TypeRef:
		return rs.refInfo(file, te, depth)
	}
	if te.Text != "" {
		return te.Text, nil
	}
	return "unknown", nil
}

func (rs *resolver) unionInfo(file *source.File, te *source.TypeExpr, depth int) (string, []string) {
	var types []string
	var values []string
	allEnum := true
	for _, m := range te.Args {
		if isNullish(m) {
			continue
		}
		typ, vals := rs.typeInfo(file, m, depth+1)
		types = append(types, typ)
		if typ == "enum" {
			for _, v := range vals {
				if !slices.Contains(values, v) {
					values = append(values, v)
				}
			}
		} else {
			allEnum = false
		}
	}

	switch {
	case len(types) == 0:
		return "unknown", nil
	case allEnum:
		return "enum", values
	}
	// true | false parses as two literals; boolean | undefined as one type.
	first := types[0]
	for _, t := range types[1:] {
		if t != first {
			return "union", nil
		}
	}
	if first == "enum" {
		return "union", nil
	}
	return first, nil
}

func (rs *resolver) refInfo(file *source.File, te *source.TypeExpr, depth int) (string, []string) {
	name := te.Name
	if short, ok := strings.CutPrefix(name, "React."); ok {
		return short, nil
	}
	if reactTypes[name] {
		return name, nil
	}
	switch name {
	case "Array", "ReadonlyArray", "Set":
		return "array", nil
	case "Record", "Partial", "Omit", "Pick", "Required", "Map":
		return "object", nil
	case "Function":
		return "function", nil
	case "NonNullable", "Readonly":
		if len(te.Args) > 0 {
			return rs.typeInfo(file, te.Args[0], depth+1)
		}
	}

	declFile, decl := rs.lookup(file, name, 0)
	if decl == nil {
		return name, nil
	}
	switch decl.Kind {
	case source.DeclEnum:
		if len(decl.EnumValues) == 0 {
			return name, nil
		}
		return "enum", append([]string(nil), decl.EnumValues...)
	case source.DeclAlias:
		key := declFile.Path + "#" + decl.Name
		if rs.visiting[key] {
			return name, nil
		}
		rs.visiting[key] = true
		defer delete(rs.visiting, key)

		typ, values := rs.typeInfo(declFile, decl.Type, depth+1)
		switch typ {
		case "enum", "string", "number", "boolean", "function", "array":
			return typ, values
		}
	}
	return name, nil
}

// literalString renders a literal type as an enum value: strings unquoted,
// numbers as written.
func literalString(text string) string {
	return tsutil.Unquote(strings.TrimSpace(text))
}
