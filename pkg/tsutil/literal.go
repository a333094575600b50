package tsutil

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// IsStringLiteral reports whether s is a quoted string or a template literal.
func IsStringLiteral(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == last && (first == '"' || first == '\'' || first == '`')
}

// Unquote strips the surrounding quotes of a string literal. Escape
// sequences are left as written.
func Unquote(s string) string {
	if IsStringLiteral(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// StringValue returns the value of a string or substitution-free template
// literal node.
func StringValue(node *ts.Node, src []byte) (string, bool) {
	node = Unwrap(node)
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case "string":
		return Unquote(node.Utf8Text(src)), true
	case "template_string":
		if ChildByKind(node, "template_substitution") != nil {
			return "", false
		}
		return Unquote(node.Utf8Text(src)), true
	}
	return "", false
}

// Strings returns the string values of a string node or of every string in
// an array literal. Used for class lists written either way.
func Strings(node *ts.Node, src []byte) []string {
	node = Unwrap(node)
	if node == nil {
		return nil
	}
	if s, ok := StringValue(node, src); ok {
		return []string{s}
	}
	if node.Kind() != "array" {
		return nil
	}
	var out []string
	for _, el := range NamedChildren(node) {
		if s, ok := StringValue(el, src); ok {
			out = append(out, s)
		}
	}
	return out
}

// LiteralValue decodes literal source text into a JSON-compatible value:
// strings are unquoted, booleans and numbers are typed, null becomes nil.
// Anything else is returned as the raw text.
func LiteralValue(text string) any {
	text = strings.TrimSpace(text)
	switch {
	case IsStringLiteral(text):
		return Unquote(text)
	case text == "true":
		return true
	case text == "false":
		return false
	case text == "null":
		return nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}

// LiteralType names the primitive type of a literal: "string", "number",
// "boolean", or "" when text is not a literal.
func LiteralType(text string) string {
	text = strings.TrimSpace(text)
	if IsStringLiteral(text) {
		return "string"
	}
	switch LiteralValue(text).(type) {
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	}
	return ""
}
