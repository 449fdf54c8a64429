// Package languages maps project language labels to display glyphs.
package languages

import "strings"

// FallbackIcon is shown for languages the table does not know.
const FallbackIcon = "󰄛"

// Language is one table entry. The first name is the canonical one.
type Language struct {
	Names []string
	Icon  string
}

// Name returns the canonical name.
func (l Language) Name() string {
	if len(l.Names) == 0 {
		return ""
	}
	return l.Names[0]
}

// Table is an immutable, case-insensitive language lookup.
type Table struct {
	entries []Language
	index   map[string]int
}

// NewTable builds a table from entries. Later aliases never shadow earlier
// ones.
func NewTable(entries []Language) *Table {
	t := &Table{
		entries: make([]Language, len(entries)),
		index:   make(map[string]int),
	}
	for i, entry := range entries {
		t.entries[i] = Language{Names: append([]string(nil), entry.Names...), Icon: entry.Icon}
		for _, name := range entry.Names {
			key := strings.ToLower(strings.TrimSpace(name))
			if _, taken := t.index[key]; key == "" || taken {
				continue
			}
			t.index[key] = i
		}
	}
	return t
}

// Default returns the built-in table.
func Default() *Table {
	return NewTable([]Language{
		{Names: []string{"C"}, Icon: ""},
		{Names: []string{"C++", "CPP"}, Icon: "󰙲"},
		{Names: []string{"C#"}, Icon: ""},
		{Names: []string{"Typescript", "TS"}, Icon: "󰛦"},
		{Names: []string{"Javascript", "JS"}, Icon: ""},
		{Names: []string{"Go"}, Icon: "󰟓"},
		{Names: []string{"Rust"}, Icon: "󱘗"},
	})
}

// Lookup finds the entry matching name under any alias.
func (t *Table) Lookup(name string) (Language, bool) {
	if t == nil {
		return Language{}, false
	}
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Language{}, false
	}
	return t.entries[i], true
}

// Icon returns the glyph for name, or FallbackIcon.
func (t *Table) Icon(name string) string {
	if lang, ok := t.Lookup(name); ok && lang.Icon != "" {
		return lang.Icon
	}
	return FallbackIcon
}

// Names lists canonical names in table order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.entries))
	for _, entry := range t.entries {
		if name := entry.Name(); name != "" {
			names = append(names, name)
		}
	}
	return names
}
