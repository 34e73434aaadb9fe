// Package symbols provides the address to label table that is populated outside
// of the analysis and consulted when naming entry points and referenced addresses.
package symbols

import (
	"sort"
)

// Symbol is a named address.
type Symbol struct {
	Address uint16
	Label   string
}

// Table maps addresses to labels. The zero value is ready to use. A nil table
// can be read as an empty table but not written to.
type Table struct {
	items map[uint16]string
}

// New creates a new empty symbol table.
func New() *Table {
	return &Table{
		items: make(map[uint16]string),
	}
}

// FromSymbols creates a symbol table from a list of symbols. Later entries
// overwrite earlier ones with the same address.
func FromSymbols(symbols ...Symbol) *Table {
	t := New()
	for _, sym := range symbols {
		t.Set(sym.Address, sym.Label)
	}
	return t
}

// Label returns the label for the given address.
func (t *Table) Label(address uint16) (string, bool) {
	if t == nil {
		return "", false
	}
	label, ok := t.items[address]
	return label, ok
}

// Set sets the label for the given address.
func (t *Table) Set(address uint16, label string) {
	if t.items == nil {
		t.items = make(map[uint16]string)
	}
	t.items[address] = label
}

// Has returns whether a label exists for the given address.
func (t *Table) Has(address uint16) bool {
	_, ok := t.Label(address)
	return ok
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.items)
}

// Merge returns a new table containing the symbols of both tables. Symbols of
// other take precedence.
func (t *Table) Merge(other *Table) *Table {
	merged := New()
	for _, source := range []*Table{t, other} {
		if source == nil {
			continue
		}
		for address, label := range source.items {
			merged.items[address] = label
		}
	}
	return merged
}

// Sorted returns all symbols sorted by address.
func (t *Table) Sorted() []Symbol {
	if t == nil {
		return nil
	}
	items := make([]Symbol, 0, len(t.items))
	for address, label := range t.items {
		items = append(items, Symbol{Address: address, Label: label})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Address < items[j].Address
	})
	return items
}

// Referenced returns the symbols of all given addresses that have a label,
// sorted by address and without duplicates.
func (t *Table) Referenced(addresses []uint16) []Symbol {
	seen := make(map[uint16]struct{}, len(addresses))
	var result []Symbol
	for _, address := range addresses {
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		if label, ok := t.Label(address); ok {
			result = append(result, Symbol{Address: address, Label: label})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})
	return result
}
