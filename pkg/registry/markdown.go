package registry

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteMarkdown renders the narrative summary: components grouped by
// category with their prop tables, then blocks with their manifests.
func WriteMarkdown(w io.Writer, reg *Registry) error {
	var b strings.Builder

	b.WriteString("# Component Registry\n\n")
	fmt.Fprintf(&b, "Format version %s. %d components, %d blocks.\n",
		reg.Version, len(reg.Index.ByKind.Components), len(reg.Index.ByKind.Blocks))

	categories := make([]string, 0, len(reg.Index.ByCategory))
	for cat := range reg.Index.ByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		var comps []*ComponentSchema
		for _, name := range reg.Index.ByCategory[cat] {
			if c, ok := reg.Components[name]; ok {
				comps = append(comps, c)
			}
		}
		if len(comps) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", titleCase(cat))
		for _, c := range comps {
			writeComponent(&b, c, "###")
		}
	}

	if len(reg.Index.ByKind.Blocks) > 0 {
		b.WriteString("\n## Blocks\n")
		for _, name := range reg.Index.ByKind.Blocks {
			block := reg.Blocks[name]
			writeComponent(&b, &block.ComponentSchema, "###")
			if len(block.Files) > 0 {
				b.WriteString("\nFiles:\n\n")
				for _, f := range block.Files {
					fmt.Fprintf(&b, "- `%s`\n", f)
				}
			}
			if len(block.Dependencies) > 0 {
				fmt.Fprintf(&b, "\nUses: %s\n", strings.Join(block.Dependencies, ", "))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeComponent(b *strings.Builder, c *ComponentSchema, heading string) {
	fmt.Fprintf(b, "\n%s %s\n", heading, c.Name)
	if c.Description != "" {
		fmt.Fprintf(b, "\n%s\n", c.Description)
	}
	writePropsTable(b, c.Props)

	if len(c.Colors) > 0 {
		fmt.Fprintf(b, "\nColors: %s\n", strings.Join(c.Colors, ", "))
	}

	if c.SubComponents != nil && c.SubComponents.Len() > 0 {
		b.WriteString("\nSub-components:\n")
		for pair := c.SubComponents.Oldest(); pair != nil; pair = pair.Next() {
			sub := pair.Value
			line := fmt.Sprintf("- `%s.%s`", c.Name, pair.Key)
			if sub.Passthrough && sub.Primitive != "" {
				line += fmt.Sprintf(" (wraps `%s`)", sub.Primitive)
			}
			if sub.Description != "" {
				line += ": " + sub.Description
			}
			b.WriteString(line + "\n")
		}
		for pair := c.SubComponents.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.Props != nil && pair.Value.Props.Len() > 0 {
				fmt.Fprintf(b, "\n#### %s.%s\n", c.Name, pair.Key)
				writePropsTable(b, pair.Value.Props)
			}
		}
	}

	for i, ex := range c.Examples {
		if i == 0 {
			b.WriteString("\nExamples:\n")
		}
		fmt.Fprintf(b, "\n```tsx\n%s\n```\n", strings.TrimRight(ex, "\n"))
	}
}

func writePropsTable(b *strings.Builder, props *Props) {
	if props == nil || props.Len() == 0 {
		return
	}
	b.WriteString("\n| Prop | Type | Required | Default | Description |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		p := pair.Value
		req := "no"
		if p.Required {
			req = "yes"
		}
		def := ""
		if p.Default != nil {
			def = fmt.Sprintf("`%v`", p.Default)
		}
		desc := p.Description
		if p.Deprecated {
			desc = strings.TrimSpace("**Deprecated.** " + desc)
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s |\n",
			pair.Key, cell(typeLabel(p)), req, def, cell(desc))
	}
}

func typeLabel(p *PropSchema) string {
	if p.Type != "enum" {
		return "`" + p.Type + "`"
	}
	quoted := make([]string, len(p.Values))
	for i, v := range p.Values {
		quoted[i] = fmt.Sprintf("`%q`", v)
	}
	return strings.Join(quoted, " | ")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
