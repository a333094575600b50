package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// WriteZod emits a TypeScript module of zod schemas, one per component and
// per sub-component with props, generated from the same PropSchema values
// as the JSON document.
func WriteZod(w io.Writer, reg *Registry) error {
	var b strings.Builder
	b.WriteString("// Code generated by uireg. DO NOT EDIT.\n\n")
	b.WriteString("import { z } from \"zod\";\n")

	var entries []string
	for _, name := range reg.Index.ByName {
		schema, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		ident := identifier(name)
		writeZodObject(&b, ident, schema.Description, schema.Props)
		entries = append(entries, fmt.Sprintf("  %s: %sPropsSchema,", jsKey(name), ident))

		if schema.SubComponents == nil {
			continue
		}
		for pair := schema.SubComponents.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.Props == nil || pair.Value.Props.Len() == 0 {
				continue
			}
			subIdent := ident + identifier(pair.Key)
			writeZodObject(&b, subIdent, pair.Value.Description, pair.Value.Props)
			entries = append(entries, fmt.Sprintf("  %s: %sPropsSchema,", jsKey(name+"."+pair.Key), subIdent))
		}
	}

	b.WriteString("\nexport const registrySchemas = {\n")
	for _, e := range entries {
		b.WriteString(e + "\n")
	}
	b.WriteString("} as const;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeZodObject(b *strings.Builder, ident, description string, props *Props) {
	b.WriteString("\n")
	if description != "" {
		fmt.Fprintf(b, "/** %s */\n", strings.ReplaceAll(description, "*/", "*\\/"))
	}
	fmt.Fprintf(b, "export const %sPropsSchema = z.object({\n", ident)
	if props != nil {
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(b, "  %s: %s,\n", jsKey(pair.Key), zodType(pair.Value))
		}
	}
	b.WriteString("});\n")
	fmt.Fprintf(b, "export type %sProps = z.infer<typeof %sPropsSchema>;\n", ident, ident)
}

func zodType(p *PropSchema) string {
	var expr string
	switch p.Type {
	case "string":
		expr = "z.string()"
	case "number":
		expr = "z.number()"
	case "boolean":
		expr = "z.boolean()"
	case "enum":
		expr = zodEnum(p.Values)
	case "array":
		expr = "z.array(z.unknown())"
	case "function":
		expr = "z.function()"
	case "object":
		expr = "z.record(z.string(), z.unknown())"
	default:
		expr = "z.any()"
	}
	if p.Default != nil {
		expr += fmt.Sprintf(".default(%s)", jsLiteral(p.Default))
	} else if !p.Required {
		expr += ".optional()"
	}
	if p.Description != "" {
		expr += fmt.Sprintf(".describe(%s)", jsLiteral(p.Description))
	}
	return expr
}

// zodEnum uses z.enum for string-only value sets. Enum values from literal
// unions may also be numbers or booleans, which need z.literal.
func zodEnum(values []string) string {
	quoted := make([]string, len(values))
	allStrings := true
	for i, v := range values {
		quoted[i] = jsLiteral(v)
		if v == "true" || v == "false" || isNumeric(v) {
			allStrings = false
		}
	}
	if allStrings {
		return "z.enum([" + strings.Join(quoted, ", ") + "])"
	}
	lits := make([]string, len(values))
	for i, v := range values {
		if v == "true" || v == "false" || isNumeric(v) {
			lits[i] = "z.literal(" + v + ")"
		} else {
			lits[i] = "z.literal(" + quoted[i] + ")"
		}
	}
	if len(lits) == 1 {
		return lits[0]
	}
	return "z.union([" + strings.Join(lits, ", ") + "])"
}

func jsLiteral(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "undefined"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func jsKey(name string) string {
	for i, r := range name {
		if !(r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))) {
			return jsLiteral(name)
		}
	}
	return name
}

// identifier turns "dropdown-menu" or "Menu.Item" into "DropdownMenu" / "MenuItem".
func identifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !(unicode.IsDigit(r) || r == '.' || (i == 0 && r == '-')) {
			return false
		}
	}
	return s != "-" && s != "."
}
