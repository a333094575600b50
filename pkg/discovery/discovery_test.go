package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uireg/pkg/registry"
	"github.com/gnana997/uireg/pkg/util"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("export {}\n"), 0o644))
	}
}

func byName(units []ComponentConfig) map[string]ComponentConfig {
	out := make(map[string]ComponentConfig, len(units))
	for _, u := range units {
		out[u.Name] = u
	}
	return out
}

func TestDiscoverComponents(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"components/button.tsx",
		"components/button.stories.tsx",
		"components/alert-dialog.tsx",
		"components/forms/input.tsx",
		"components/forms/select/index.tsx",
		"components/button.test.tsx",
		"components/types.d.ts",
		"components/node_modules/pkg/index.tsx",
		"components/README.md",
	)

	units, err := Discover(Options{Root: root, ComponentsDir: "components", Logger: util.Discard()})
	require.NoError(t, err)

	got := byName(units)
	assert.Len(t, got, 4)

	button := got["Button"]
	assert.Equal(t, registry.KindComponent, button.Kind)
	assert.Equal(t, "components", button.Category)
	assert.Equal(t, "ButtonProps", button.TypeName)
	assert.Equal(t, filepath.Join(root, "components", "button.stories.tsx"), button.StoryPath)

	assert.Contains(t, got, "AlertDialog")
	assert.Empty(t, got["AlertDialog"].StoryPath)

	assert.Equal(t, "forms", got["Input"].Category)
	assert.Equal(t, "forms", got["Select"].Category)
	assert.Equal(t, filepath.Join(root, "components", "forms", "select", "index.tsx"), got["Select"].SourcePath)
}

func TestDiscoverBlocks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"blocks/login-form/login-form.tsx",
		"blocks/login-form/fields.tsx",
		"blocks/login-form/styles.css",
		"blocks/dashboard/page.tsx",
		"blocks/dashboard/chart.tsx",
		"blocks/empty/notes.md",
		"blocks/stray.tsx",
	)

	units, err := Discover(Options{Root: root, BlocksDir: "blocks", Logger: util.Discard()})
	require.NoError(t, err)
	got := byName(units)
	require.Len(t, got, 2)

	login := got["LoginForm"]
	assert.Equal(t, registry.KindBlock, login.Kind)
	assert.Equal(t, "blocks", login.Category)
	assert.Equal(t, filepath.Join(root, "blocks", "login-form", "login-form.tsx"), login.SourcePath)
	assert.Equal(t, []string{
		"blocks/login-form/fields.tsx",
		"blocks/login-form/login-form.tsx",
		"blocks/login-form/styles.css",
	}, login.Files)

	assert.Equal(t, filepath.Join(root, "blocks", "dashboard", "page.tsx"), got["Dashboard"].SourcePath)
}

func TestDiscoverOverridesAndDuplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"components/badge.tsx",
		"components/card.tsx",
		"components/legacy.tsx",
		"components/extra/card.tsx",
	)

	units, err := Discover(Options{
		Root:          root,
		ComponentsDir: "components",
		Overrides: map[string]Override{
			"Badge":  {Category: "display", TypeName: "BadgeOwnProps", Examples: []string{"<Badge />"}, Styling: map[string]any{"radius": "full"}},
			"Legacy": {Skip: true},
		},
		Logger: util.Discard(),
	})
	require.NoError(t, err)
	got := byName(units)
	require.Len(t, got, 2)

	badge := got["Badge"]
	assert.Equal(t, "display", badge.Category)
	assert.Equal(t, "BadgeOwnProps", badge.TypeName)
	assert.Equal(t, []string{"<Badge />"}, badge.Examples)
	assert.Equal(t, "full", badge.Styling["radius"])

	assert.Equal(t, filepath.Join(root, "components", "card.tsx"), got["Card"].SourcePath, "first path wins")
}

func TestDiscoverMissingDirsAndBadPatterns(t *testing.T) {
	root := t.TempDir()
	units, err := Discover(Options{Root: root, ComponentsDir: "components", BlocksDir: "blocks"})
	require.NoError(t, err)
	assert.Empty(t, units)

	_, err = Discover(Options{Root: root, ComponentsDir: "components", Exclude: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestPascal(t *testing.T) {
	assert.Equal(t, "AlertDialog", pascal("alert-dialog"))
	assert.Equal(t, "DataTable", pascal("data_table"))
	assert.Equal(t, "Button", pascal("Button"))
}
