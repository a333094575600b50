package tsutil

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Import binds one local name to an export of another module.
type Import struct {
	Source string
	Local  string
	// Imported is the exported name, "default" or "*" for namespaces.
	Imported string
	TypeOnly bool
}

// Imports returns every binding introduced by the file's import statements.
func Imports(root *ts.Node, src []byte) []Import {
	var out []Import
	for _, stmt := range NamedChildren(root) {
		if stmt.Kind() != "import_statement" {
			continue
		}
		source := Unquote(Text(stmt.ChildByFieldName("source"), src))
		if source == "" {
			continue
		}
		typeOnly := HasChild(stmt, "type")

		clause := ChildByKind(stmt, "import_clause")
		for _, part := range NamedChildren(clause) {
			switch part.Kind() {
			case "identifier":
				out = append(out, Import{Source: source, Local: part.Utf8Text(src), Imported: "default", TypeOnly: typeOnly})
			case "namespace_import":
				if id := ChildByKind(part, "identifier"); id != nil {
					out = append(out, Import{Source: source, Local: id.Utf8Text(src), Imported: "*", TypeOnly: typeOnly})
				}
			case "named_imports":
				for _, spec := range NamedChildren(part) {
					if spec.Kind() != "import_specifier" {
						continue
					}
					name := Text(spec.ChildByFieldName("name"), src)
					local := name
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = alias.Utf8Text(src)
					}
					out = append(out, Import{
						Source:   source,
						Local:    local,
						Imported: Unquote(name),
						TypeOnly: typeOnly || HasChild(spec, "type"),
					})
				}
			}
		}
	}
	return out
}

// ReExports returns `export { a as b } from "./x"` bindings keyed by the
// exported name, plus the sources of `export * from "./x"` statements.
func ReExports(root *ts.Node, src []byte) (map[string]Import, []string) {
	named := make(map[string]Import)
	var stars []string
	for _, stmt := range NamedChildren(root) {
		if stmt.Kind() != "export_statement" {
			continue
		}
		source := Unquote(Text(stmt.ChildByFieldName("source"), src))
		if source == "" {
			continue
		}
		clause := ChildByKind(stmt, "export_clause")
		if clause == nil {
			stars = append(stars, source)
			continue
		}
		for _, spec := range NamedChildren(clause) {
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := Text(spec.ChildByFieldName("name"), src)
			exported := name
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = alias.Utf8Text(src)
			}
			named[exported] = Import{Source: source, Local: exported, Imported: name}
		}
	}
	return named, stars
}

// IsExternal reports whether an import specifier names a package rather
// than a project file. Path aliases such as "@/lib/utils" count as project
// files.
func IsExternal(spec string) bool {
	switch {
	case strings.HasPrefix(spec, "."), strings.HasPrefix(spec, "/"):
		return false
	case strings.HasPrefix(spec, "@/"), strings.HasPrefix(spec, "~/"), strings.HasPrefix(spec, "#"):
		return false
	}
	return spec != ""
}

// IsRelative reports whether spec is a relative module path.
func IsRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}
