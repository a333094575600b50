package variants

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uireg/pkg/tsutil"
)

// Styling returns the component's styling metadata export: a top-level
// object bound to `styling` or to a name ending in `Styling`. Nil when the
// file declares none.
func Styling(root *ts.Node, src []byte) map[string]any {
	for _, d := range tsutil.Declarators(root, src) {
		if d.Name != "styling" && !strings.HasSuffix(d.Name, "Styling") {
			continue
		}
		if m, ok := tsutil.Value(d.Value, src).(map[string]any); ok && len(m) > 0 {
			return m
		}
	}
	return nil
}
