package examples

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// LoadDemo reads the demo metadata document: a JSON object mapping
// component name to example snippets. A missing or malformed file yields an
// empty map and a warning.
func LoadDemo(path string, logger *slog.Logger) map[string][]string {
	if logger == nil {
		logger = slog.Default()
	}
	out := make(map[string][]string)
	if path == "" {
		return out
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("demo metadata not found, continuing without it", "path", path)
		} else {
			logger.Warn("cannot read demo metadata", "path", path, "error", err)
		}
		return out
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("invalid demo metadata, continuing without it", "path", path, "error", err)
		return out
	}
	for name, snippets := range raw {
		if len(snippets) > 0 {
			out[name] = snippets
		}
	}
	logger.Debug("demo metadata loaded", "path", path, "components", len(out))
	return out
}
