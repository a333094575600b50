package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uireg/pkg/registry"
)

const buttonSource = `import { cva, type VariantProps } from "class-variance-authority"

const buttonVariants = cva("inline-flex", {
  variants: {
    variant: {
      default: "bg-primary text-primary-foreground",
      destructive: "bg-destructive",
    },
  },
  defaultVariants: {
    variant: "default",
  },
})

/** Triggers an action. */
export interface ButtonProps extends VariantProps<typeof buttonVariants> {
  /** Visible text. */
  label: string
}

export function Button(props: ButtonProps) {
  return <button className={buttonVariants()} {...props} />
}
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	t.Chdir(root)
	return root
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	root := writeProject(t, map[string]string{"components/button.tsx": buttonSource})

	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 components and 0 blocks (0 cached, 1 regenerated, 0 fallbacks)")
	assert.Contains(t, out, "registry/registry.json")
	assert.FileExists(t, filepath.Join(root, "registry", registry.JSONFile))
	assert.FileExists(t, filepath.Join(root, "registry", registry.MarkdownFile))
	assert.FileExists(t, filepath.Join(root, "registry", registry.ZodFile))

	out, err = executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 cached, 0 regenerated")

	out, err = executeCommand(t, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 cached, 1 regenerated")
}

func TestGenerateIgnoresUnknownFlags(t *testing.T) {
	writeProject(t, map[string]string{"components/button.tsx": buttonSource})

	out, err := executeCommand(t, "--frobnicate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 components")
}

func TestHelpDoesNotRun(t *testing.T) {
	root := writeProject(t, map[string]string{"components/button.tsx": buttonSource})

	out, err := executeCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--inherited-props")
	assert.Contains(t, out, "--no-cache")
	assert.NoDirExists(t, filepath.Join(root, "registry"))
}

func TestGenerateReportsFallbackWarnings(t *testing.T) {
	writeProject(t, map[string]string{
		"components/card.tsx": "export function Card(props) {\n  return <div {...props} />\n}\n",
	})

	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: Card: type-not-found")
	assert.Contains(t, out, "1 fallbacks")
}

func TestInspectCommand(t *testing.T) {
	writeProject(t, map[string]string{"components/button.tsx": buttonSource})

	_, err := executeCommand(t)
	require.NoError(t, err)

	out, err := executeCommand(t, "inspect", "Button")
	require.NoError(t, err)
	assert.Contains(t, out, "Button  [components, component]")
	assert.Contains(t, out, "values: default | destructive")
	assert.Contains(t, out, `"default"`)
	assert.Contains(t, out, "Visible text.")
	assert.Contains(t, out, "Sub-components  (none)")
	assert.NotContains(t, out, "Examples")

	out, err = executeCommand(t, "inspect", "Button", "--examples")
	require.NoError(t, err)
	assert.Contains(t, out, "Examples  (none)")

	_, err = executeCommand(t, "inspect", "Missing")
	assert.ErrorContains(t, err, `"Missing" not found`)

	_, err = executeCommand(t, "inspect", "Button.Icon")
	assert.Error(t, err)
}

func TestInspectWithoutRegistry(t *testing.T) {
	writeProject(t, map[string]string{"components/button.tsx": buttonSource})

	_, err := executeCommand(t, "inspect", "Button")
	assert.ErrorContains(t, err, "run uireg first")
}

func TestStylesCommand(t *testing.T) {
	writeProject(t, map[string]string{
		".uireg/config.yaml": "styles_command: [\"sh\", \"-c\", \"echo ok > styles.css\"]\n",
	})

	out, err := executeCommand(t, "styles")
	require.NoError(t, err)
	assert.Contains(t, out, "Styles compiled")
	assert.FileExists(t, "styles.css")
}

func TestStylesCommandFailure(t *testing.T) {
	writeProject(t, map[string]string{
		".uireg/config.yaml": "styles_command: [\"sh\", \"-c\", \"echo broken >&2; exit 2\"]\n",
	})

	_, err := executeCommand(t, "styles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestVersionCommand(t *testing.T) {
	originalVersion := version
	t.Cleanup(func() { version = originalVersion })
	version = "1.2.3"

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "uireg 1.2.3")
	assert.Contains(t, out, registry.FormatVersion)
}
