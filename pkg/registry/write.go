package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Artifact file names inside the output directory.
const (
	JSONFile       = "registry.json"
	MarkdownFile   = "registry.md"
	ZodFile        = "schemas.ts"
	JSONSchemaFile = "registry.schema.json"
)

// WriteJSON writes the structured document with two-space indentation.
// HTML escaping is off so JSX in examples stays readable.
func WriteJSON(w io.Writer, reg *Registry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(reg)
}

// WriteJSONSchema writes the JSON Schema of the document format.
func WriteJSONSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(JSONSchema())
}

// Write renders every artifact from reg and writes them into dir. All
// artifacts are rendered before any file is touched, so a rendering error
// leaves the previous output intact. Returns the written paths.
func Write(dir string, reg *Registry) ([]string, error) {
	renderers := []struct {
		name   string
		render func(io.Writer) error
	}{
		{JSONFile, func(w io.Writer) error { return WriteJSON(w, reg) }},
		{MarkdownFile, func(w io.Writer) error { return WriteMarkdown(w, reg) }},
		{ZodFile, func(w io.Writer) error { return WriteZod(w, reg) }},
		{JSONSchemaFile, WriteJSONSchema},
	}

	rendered := make([][]byte, len(renderers))
	for i, r := range renderers {
		var buf bytes.Buffer
		if err := r.render(&buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", r.name, err)
		}
		rendered[i] = buf.Bytes()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(renderers))
	for i, r := range renderers {
		path := filepath.Join(dir, r.name)
		if err := WriteFileAtomic(path, rendered[i]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
