package variants

import (
	"slices"
	"strings"
)

// colorUtilities are the utility prefixes whose argument is a colour.
var colorUtilities = []string{
	"bg", "text", "border", "border-t", "border-b", "border-l", "border-r",
	"border-x", "border-y", "ring", "ring-offset", "outline", "fill", "stroke",
	"from", "via", "to", "divide", "placeholder", "caret", "accent",
	"decoration", "shadow",
}

// semanticColors are the design tokens exposed by the theme. Each also has a
// "-foreground" form.
var semanticColors = map[string]bool{
	"background": true, "foreground": true, "border": true, "input": true,
	"ring": true, "primary": true, "secondary": true, "destructive": true,
	"muted": true, "accent": true, "popover": true, "card": true,
	"success": true, "warning": true, "info": true,
	"sidebar": true, "chart-1": true, "chart-2": true, "chart-3": true,
	"chart-4": true, "chart-5": true,
}

// ColorTokens returns the semantic colour tokens referenced by utility
// classes in the given strings, sorted and unique. Variant prefixes
// (hover:, dark:, data-[state=open]:) and opacity suffixes (/50) are
// ignored.
func ColorTokens(texts []string) []string {
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, class := range strings.Fields(text) {
			if token := colorToken(class); token != "" {
				seen[token] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for token := range seen {
		out = append(out, token)
	}
	slices.Sort(out)
	return out
}

func colorToken(class string) string {
	if i := strings.LastIndexByte(class, ':'); i >= 0 {
		class = class[i+1:]
	}
	class = strings.TrimPrefix(class, "!")
	if i := strings.IndexByte(class, '/'); i >= 0 {
		class = class[:i]
	}

	// Longest prefix first so border-t-primary is not read as t-primary.
	best := ""
	for _, u := range colorUtilities {
		if strings.HasPrefix(class, u+"-") && len(u) > len(best) {
			best = u
		}
	}
	if best == "" {
		return ""
	}
	token := class[len(best)+1:]
	if isSemantic(token) {
		return token
	}
	return ""
}

func isSemantic(token string) bool {
	if semanticColors[token] {
		return true
	}
	base, ok := strings.CutSuffix(token, "-foreground")
	return ok && semanticColors[base]
}
