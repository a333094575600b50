package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a supported source language.
type Language int

const (
	// LanguageTypeScript covers .ts and .tsx files.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js and .jsx files.
	LanguageJavaScript
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the language from a file path.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile reports whether path needs the TSX grammar.
func IsTSXFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tsx")
}

// IsSourceFile reports whether path has an extension the generator parses.
func IsSourceFile(path string) bool {
	return DetectLanguage(path) != LanguageUnknown
}
