// Package codes maps bank-specific response codes to human-readable reason
// text. Each adapter owns one Table, built once at initialization; the code
// value itself drives state transitions, the text is diagnostics only.
package codes

// DefaultText is returned for any code absent from a table.
const DefaultText = "Unknown error"

// Table is an immutable code-to-text lookup. No runtime mutation: build it
// with New and share it process-wide.
type Table struct {
	entries map[string]string
}

// New builds a Table from a literal code map.
func New(entries map[string]string) Table {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return Table{entries: copied}
}

// Translate returns the mapped text for code, total over all inputs.
func (t Table) Translate(code string) string {
	if text, ok := t.entries[code]; ok {
		return text
	}
	return DefaultText
}

// Codes returns every documented code in the table.
func (t Table) Codes() []string {
	out := make([]string, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	return out
}
