package tsutil

import (
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Doc is the useful part of a JSDoc block.
type Doc struct {
	Description string
	Deprecated  bool
	// Default is the raw text after @default or @defaultValue.
	Default string
}

// ParseJSDoc parses a /** */ block or a // line comment.
func ParseJSDoc(comment string) Doc {
	comment = strings.TrimSpace(comment)

	var lines []string
	switch {
	case strings.HasPrefix(comment, "/**"):
		comment = strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")
		lines = strings.Split(comment, "\n")
	case strings.HasPrefix(comment, "//"):
		lines = []string{strings.TrimPrefix(comment, "//")}
	default:
		return Doc{}
	}

	var doc Doc
	var desc []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		for _, part := range splitTags(line) {
			if part == "" {
				continue
			}
			if !strings.HasPrefix(part, "@") {
				desc = append(desc, part)
				continue
			}
			tag, rest, _ := strings.Cut(part, " ")
			rest = strings.TrimSpace(rest)
			switch tag {
			case "@deprecated":
				doc.Deprecated = true
				if rest != "" {
					desc = append(desc, rest)
				}
			case "@default", "@defaultValue":
				doc.Default = strings.Trim(rest, "`")
			}
		}
	}
	doc.Description = strings.Join(desc, " ")
	return doc
}

// splitTags breaks a line before each block tag, so "Size. @default 1"
// yields "Size." and "@default 1". Inline {@link} tags and quoted tag values
// are left alone.
func splitTags(line string) []string {
	var out []string
	var quote byte
	depth, start := 0, 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case (c == '"' || c == '\'' || c == '`') && line[start] == '@':
			quote = c
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == '@' && depth == 0 && i > start && (line[i-1] == ' ' || line[i-1] == '\t') &&
			i+1 < len(line) && unicode.IsLetter(rune(line[i+1])):
			out = append(out, strings.TrimSpace(line[start:i]))
			start = i
		}
	}
	return append(out, strings.TrimSpace(line[start:]))
}

// LeadingDoc returns the JSDoc attached to a declaration: the comment that
// directly precedes node, or its export_statement wrapper.
func LeadingDoc(node *ts.Node, src []byte) Doc {
	if node == nil {
		return Doc{}
	}
	if parent := node.Parent(); parent != nil && parent.Kind() == "export_statement" {
		node = parent
	}
	prev := node.PrevSibling()
	if prev == nil || prev.Kind() != "comment" {
		return Doc{}
	}
	// A blank line separates the comment from the declaration.
	if node.StartPosition().Row > prev.EndPosition().Row+1 {
		return Doc{}
	}
	return ParseJSDoc(prev.Utf8Text(src))
}
