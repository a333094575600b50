package variants

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Select picks the variant table that belongs to a component. Tables named
// by a VariantProps<typeof x> reference in its props type win, then the
// conventional `<component>Variants` name, then the file's only table.
func Select(tables []*Table, component string, refs []string) *Table {
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	for _, ref := range refs {
		if t, ok := byName[ref]; ok {
			return t
		}
	}
	if t, ok := byName[lowerFirst(component)+"Variants"]; ok {
		return t
	}
	if len(tables) == 1 {
		return tables[0]
	}
	return nil
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// BaseClasses splits a table's base class string.
func BaseClasses(t *Table) []string {
	if t == nil {
		return nil
	}
	return strings.Fields(t.Base)
}
