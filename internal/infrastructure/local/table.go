package local

import "github.com/sucrecam/backend/internal/domain"

// defaultEntries covers a few common products so the app still works when
// the remote source is unreachable or reports no usable sugar value.
var defaultEntries = map[string]domain.OverrideEntry{
	"5449000000996": {
		Name:              "Coca-Cola 33 cl",
		SugarGramsPerUnit: 35, // ~10.6 g/100 ml over a 330 ml can
		BasisDescriptor:   "per unit (330 ml)",
	},
	"3017620429484": {
		Name:              "Nutella 400 g",
		SugarGramsPerUnit: 225, // ~56.3 g/100 g over a 400 g jar
		BasisDescriptor:   "per unit (400 g)",
	},
}

// Table is the static local override table, keyed by canonical identifier
type Table struct {
	entries map[string]domain.OverrideEntry
}

// NewTable creates a table preloaded with the built-in entries
func NewTable() *Table {
	entries := make(map[string]domain.OverrideEntry, len(defaultEntries))
	for code, entry := range defaultEntries {
		entries[code] = entry
	}
	return &Table{entries: entries}
}

// Add registers (or replaces) an override entry
func (t *Table) Add(code string, entry domain.OverrideEntry) {
	t.entries[code] = entry
}

// Lookup returns the entry for a canonical identifier, if any
func (t *Table) Lookup(code string) (*domain.OverrideEntry, bool) {
	entry, ok := t.entries[code]
	if !ok {
		return nil, false
	}
	return &entry, true
}
