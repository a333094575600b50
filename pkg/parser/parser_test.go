package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uireg/pkg/util"
)

const sampleTSX = `import * as React from "react"

export interface BadgeProps {
  tone?: "info" | "warn"
}

export function Badge({ tone = "info" }: BadgeProps) {
  return <span data-tone={tone} />
}
`

func TestParseTSX(t *testing.T) {
	pm := NewParserManager(util.Discard())
	defer pm.Close()

	tree, err := pm.Parse([]byte(sampleTSX), LanguageTypeScript, true)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, root.HasError())
	assert.Contains(t, root.ToSexp(), "jsx_self_closing_element")
}

func TestParseFile(t *testing.T) {
	pm := NewParserManager(util.Discard())
	defer pm.Close()

	cases := []struct {
		path   string
		source string
	}{
		{"button.tsx", sampleTSX},
		{"types.ts", "export type Size = 'sm' | 'lg'"},
		{"legacy.jsx", "export const A = () => <div/>"},
		{"legacy.js", "module.exports = {}"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			tree, err := pm.ParseFile([]byte(tc.source), tc.path)
			require.NoError(t, err)
			defer tree.Close()
			assert.Equal(t, "program", tree.RootNode().Kind())
		})
	}

	_, err := pm.ParseFile([]byte("body {}"), "theme.css")
	assert.Error(t, err)
}

func TestParseUnknownLanguage(t *testing.T) {
	pm := NewParserManager(util.Discard())
	defer pm.Close()

	_, err := pm.Parse([]byte("x"), LanguageUnknown, false)
	assert.Error(t, err)
}

func TestLanguageDetection(t *testing.T) {
	cases := map[string]Language{
		"a.ts":   LanguageTypeScript,
		"a.tsx":  LanguageTypeScript,
		"a.mts":  LanguageTypeScript,
		"a.js":   LanguageJavaScript,
		"a.jsx":  LanguageJavaScript,
		"a.json": LanguageUnknown,
		"a":      LanguageUnknown,
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectLanguage(path), path)
	}

	assert.True(t, IsTSXFile("Button.TSX"))
	assert.False(t, IsTSXFile("button.ts"))
	assert.True(t, IsSourceFile("x.jsx"))
	assert.Equal(t, "typescript", LanguageTypeScript.String())
	assert.Equal(t, "unknown", LanguageUnknown.String())
}
