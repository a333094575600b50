package props

import (
	"slices"
	"strings"

	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/source"
	"github.com/gnana997/uireg/pkg/tsutil"
	"github.com/gnana997/uireg/pkg/variants"
)

const maxDepth = 32

// resolver carries the state of one Read: the cycle guard, the variant
// tables referenced so far, and which schemas came from the inherited
// attribute table (those never override declared props).
type resolver struct {
	reader    *Reader
	visiting  map[string]bool
	inherited map[*registry.PropSchema]bool
	refs      []string
}

// lookup finds the declaration of name as visible from file, following
// imports, re-exports and namespace imports of project files.
func (rs *resolver) lookup(file *source.File, name string, depth int) (*source.File, *source.Decl) {
	if file == nil || depth > maxDepth {
		return nil, nil
	}
	if d, ok := file.Decls[name]; ok {
		return file, d
	}
	if ns, member, ok := strings.Cut(name, "."); ok {
		imp, found := file.Imports[ns]
		if !found || imp.Imported != "*" {
			return nil, nil
		}
		return rs.lookupExport(rs.load(file, imp.Source), member, depth+1)
	}
	if imp, ok := file.Imports[name]; ok {
		return rs.lookupExport(rs.load(file, imp.Source), imp.Imported, depth+1)
	}
	return nil, nil
}

func (rs *resolver) lookupExport(file *source.File, name string, depth int) (*source.File, *source.Decl) {
	if file == nil || depth > maxDepth {
		return nil, nil
	}
	if d, ok := file.Decls[name]; ok {
		return file, d
	}
	if re, ok := file.ReExports[name]; ok {
		return rs.lookupExport(rs.load(file, re.Source), re.Imported, depth+1)
	}
	for _, star := range file.StarExports {
		if f, d := rs.lookupExport(rs.load(file, star), name, depth+1); d != nil {
			return f, d
		}
	}
	return rs.lookup(file, name, depth+1)
}

// load returns the model of the module spec imported from file, or nil for
// packages and unresolvable paths.
func (rs *resolver) load(from *source.File, spec string) *source.File {
	loader := rs.reader.loader
	if loader == nil || tsutil.IsExternal(spec) {
		return nil
	}
	path, ok := loader.Resolve(from.Path, spec)
	if !ok {
		return nil
	}
	f, err := loader.Load(path)
	if err != nil {
		rs.reader.logger.Debug("cannot load imported module", "from", from.Path, "module", spec, "error", err)
		return nil
	}
	return f
}

// declProps returns the props of an interface or alias declaration.
func (rs *resolver) declProps(file *source.File, d *source.Decl, depth int) (*registry.Props, bool) {
	key := file.Path + "#" + d.Name
	if rs.visiting[key] || depth > maxDepth {
		return registry.NewProps(), true
	}
	rs.visiting[key] = true
	defer delete(rs.visiting, key)

	switch d.Kind {
	case source.DeclInterface:
		out := registry.NewProps()
		for _, ext := range d.Extends {
			if p, ok := rs.objectProps(file, ext, depth+1); ok {
				rs.intersectInto(out, p)
			}
		}
		rs.intersectInto(out, rs.members(file, d.Type.Members, depth+1))
		return out, true
	case source.DeclAlias:
		return rs.objectProps(file, d.Type, depth+1)
	}
	return nil, false
}

// objectProps flattens an object-like type expression. ok is false when te
// cannot describe an object (a primitive, a function, an enum). References
// that do not resolve contribute no props.
func (rs *resolver) objectProps(file *source.File, te *source.TypeExpr, depth int) (*registry.Props, bool) {
	if te == nil || depth > maxDepth {
		return registry.NewProps(), true
	}
	switch te.Kind {
	case source.TypeObject:
		return rs.members(file, te.Members, depth+1), true

	case source.TypeIntersection:
		out := registry.NewProps()
		matched := false
		for _, branch := range te.Args {
			if p, ok := rs.objectProps(file, branch, depth+1); ok {
				rs.intersectInto(out, p)
				matched = true
			}
		}
		return out, matched

	case source.TypeUnion:
		var branches []*registry.Props
		for _, member := range te.Args {
			if isNullish(member) {
				continue
			}
			if p, ok := rs.objectProps(file, member, depth+1); ok {
				branches = append(branches, p)
			}
		}
		if len(branches) == 0 {
			return nil, false
		}
		return mergeUnion(branches), true

	case source.TypeRef:
		return rs.refProps(file, te, depth)
	}
	return nil, false
}

func (rs *resolver) refProps(file *source.File, te *source.TypeExpr, depth int) (*registry.Props, bool) {
	arg := func(i int) *source.TypeExpr {
		if i < len(te.Args) {
			return te.Args[i]
		}
		return nil
	}

	switch lastSegment(te.Name) {
	case "Omit":
		p, ok := rs.objectProps(file, arg(0), depth+1)
		if ok {
			for _, k := range literalKeys(arg(1)) {
				p.Delete(k)
			}
		}
		return p, ok
	case "Pick":
		p, ok := rs.objectProps(file, arg(0), depth+1)
		if !ok {
			return p, ok
		}
		keep := literalKeys(arg(1))
		out := registry.NewProps()
		for pair := p.Oldest(); pair != nil; pair = pair.Next() {
			if slices.Contains(keep, pair.Key) {
				out.Set(pair.Key, pair.Value)
			}
		}
		return out, true
	case "Partial", "Required":
		p, ok := rs.objectProps(file, arg(0), depth+1)
		if ok {
			required := lastSegment(te.Name) == "Required"
			for pair := p.Oldest(); pair != nil; pair = pair.Next() {
				pair.Value.Required = required
			}
		}
		return p, ok
	case "Readonly", "NonNullable":
		return rs.objectProps(file, arg(0), depth+1)
	case "PropsWithChildren":
		p, ok := rs.objectProps(file, arg(0), depth+1)
		if !ok {
			p = registry.NewProps()
		}
		if _, exists := p.Get("children"); !exists {
			p.Set("children", &registry.PropSchema{Type: "ReactNode"})
		}
		return p, true
	case "VariantProps":
		return rs.variantProps(file, arg(0)), true
	case "ComponentProps", "ComponentPropsWithoutRef", "ComponentPropsWithRef":
		return rs.componentProps(file, arg(0), depth), true
	case "Record":
		return registry.NewProps(), true
	}

	if element, ok := attributeElement(te); ok {
		return rs.inheritedProps(element), true
	}

	declFile, decl := rs.lookup(file, te.Name, 0)
	if decl == nil {
		rs.reader.logger.Debug("unresolved type reference", "file", file.Path, "type", te.Name)
		return registry.NewProps(), true
	}
	return rs.declProps(declFile, decl, depth+1)
}

// variantProps expands VariantProps<typeof table> into one optional enum per
// variant. Enrich fills classes and defaults later.
func (rs *resolver) variantProps(file *source.File, query *source.TypeExpr) *registry.Props {
	out := registry.NewProps()
	if query == nil || query.Kind != source.TypeQuery {
		return out
	}
	table, name := rs.table(file, query.Name)
	if table == nil {
		return out
	}
	if !slices.Contains(rs.refs, name) {
		rs.refs = append(rs.refs, name)
	}
	for _, v := range table.Variants {
		if len(v.Options) == 0 {
			continue
		}
		out.Set(v.Name, &registry.PropSchema{Type: "enum", Values: v.Keys()})
	}
	return out
}

// table finds a variant table by local name, following one import.
func (rs *resolver) table(file *source.File, name string) (*variants.Table, string) {
	if t := file.Table(name); t != nil {
		return t, name
	}
	imp, ok := file.Imports[name]
	if !ok {
		return nil, ""
	}
	if f := rs.load(file, imp.Source); f != nil {
		if t := f.Table(imp.Imported); t != nil {
			return t, name
		}
	}
	return nil, ""
}

// componentProps handles ComponentProps<"button"> and
// ComponentProps<typeof Local>.
func (rs *resolver) componentProps(file *source.File, target *source.TypeExpr, depth int) *registry.Props {
	if target == nil {
		return registry.NewProps()
	}
	switch target.Kind {
	case source.TypeLiteral:
		return rs.inheritedProps(tsutil.Unquote(target.Name))
	case source.TypeQuery:
		if fn, ok := file.Functions[target.Name]; ok && fn.Params != nil {
			if p, ok := rs.objectProps(file, fn.Params, depth+1); ok {
				return p
			}
		}
	}
	return registry.NewProps()
}

func (rs *resolver) inheritedProps(element string) *registry.Props {
	out := registry.NewProps()
	if !rs.reader.opts.InheritedProps {
		return out
	}
	for _, attr := range attributes.forElement(element) {
		schema := attr.schema()
		rs.inherited[schema] = true
		out.Set(attr.Name, schema)
	}
	return out
}

func (rs *resolver) members(file *source.File, members []*source.Member, depth int) *registry.Props {
	out := registry.NewProps()
	for _, m := range members {
		typ, values := rs.typeInfo(file, m.Type, depth+1)
		schema := &registry.PropSchema{
			Type:        typ,
			Required:    !m.Optional,
			Description: m.Doc.Description,
			Values:      values,
			Deprecated:  m.Doc.Deprecated,
		}
		if m.Doc.Default != "" {
			def := tsutil.LiteralValue(m.Doc.Default)
			if schema.AllowsDefault(def) {
				schema.Default = def
			} else {
				rs.reader.logger.Warn("dropping @default outside enum values",
					"file", file.Path, "prop", m.Name, "default", m.Doc.Default, "values", values)
			}
		}
		out.Set(m.Name, schema)
	}
	return out
}

// intersectInto merges src into dst. Later branches override earlier ones in
// place, except that inherited attributes never replace a declared prop.
// Required is kept if either side requires it.
func (rs *resolver) intersectInto(dst, src *registry.Props) {
	if src == nil {
		return
	}
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		prev, exists := dst.Get(pair.Key)
		if !exists {
			dst.Set(pair.Key, pair.Value)
			continue
		}
		if rs.inherited[pair.Value] && !rs.inherited[prev] {
			continue
		}
		next := pair.Value
		next.Required = next.Required || prev.Required
		dst.Set(pair.Key, next)
	}
}

// mergeUnion merges the branches of a union by name. A prop is required only
// when every branch declares it required. Same-named props widen: enum
// branches union their values, and differing types become "union".
func mergeUnion(branches []*registry.Props) *registry.Props {
	out := registry.NewProps()
	for _, b := range branches {
		for pair := b.Oldest(); pair != nil; pair = pair.Next() {
			prev, exists := out.Get(pair.Key)
			if !exists {
				out.Set(pair.Key, pair.Value.Clone())
				continue
			}
			widen(prev, pair.Value)
		}
	}
	for pair := out.Oldest(); pair != nil; pair = pair.Next() {
		for _, b := range branches {
			p, ok := b.Get(pair.Key)
			if !ok || !p.Required {
				pair.Value.Required = false
				break
			}
		}
	}
	return out
}

// widen folds another branch's declaration of the same prop into dst.
func widen(dst, src *registry.PropSchema) {
	switch {
	case dst.Type == "enum" && src.Type == "enum":
		for _, v := range src.Values {
			if !slices.Contains(dst.Values, v) {
				dst.Values = append(dst.Values, v)
			}
		}
		dst.Descriptions = mergeStrings(dst.Descriptions, src.Descriptions)
		dst.Classes = mergeStrings(dst.Classes, src.Classes)
	case dst.Type != src.Type:
		dst.Type = "union"
		dst.Values = nil
		dst.Descriptions = nil
		dst.Classes = nil
		dst.StateClasses = nil
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Default == nil && dst.AllowsDefault(src.Default) {
		dst.Default = src.Default
	}
	dst.Deprecated = dst.Deprecated && src.Deprecated
}

func mergeStrings(dst, src map[string]string) map[string]string {
	for k, v := range src {
		if dst == nil {
			dst = make(map[string]string, len(src))
		}
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	return dst
}

// literalKeys reads the key set of Omit/Pick: "a" | "b".
func literalKeys(te *source.TypeExpr) []string {
	if te == nil {
		return nil
	}
	switch te.Kind {
	case source.TypeLiteral:
		return []string{tsutil.Unquote(te.Name)}
	case source.TypeUnion:
		var out []string
		for _, m := range te.Args {
			out = append(out, literalKeys(m)...)
		}
		return out
	}
	return nil
}

func isNullish(te *source.TypeExpr) bool {
	return te != nil && te.Kind == source.TypePrimitive && (te.Name == "null" || te.Name == "undefined")
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
