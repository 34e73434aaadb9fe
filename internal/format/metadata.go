// Package format provides the per format metadata that bounds decoding and
// tracing: base address, content offset, entry points and edicts.
package format

import (
	"fmt"
	"sort"

	"github.com/retroenv/retrosniff/internal/symbols"
)

// EdictKind defines the literal type that an edict forces.
type EdictKind int

// Edict kinds.
const (
	ByteEdict EdictKind = iota
	WordEdict
	TextEdict
)

func (k EdictKind) String() string {
	switch k {
	case ByteEdict:
		return "byte"
	case WordEdict:
		return "word"
	case TextEdict:
		return "text"
	default:
		return fmt.Sprintf("EdictKind(%d)", int(k))
	}
}

// Edict forces a literal decoding of Width bytes at an offset.
type Edict struct {
	Kind  EdictKind
	Width int
	Label string
}

// EntryPoint is an address at which tracing starts.
type EntryPoint struct {
	Address uint16
	Label   string
}

// Metadata describes how a blob maps into the address space of a machine.
// It is built once per sniff call and is read-only afterwards.
type Metadata struct {
	Name          string
	BaseAddress   uint16 // address of the byte at ContentOffset
	ContentOffset int
	EntryPoints   []EntryPoint

	end    int // blob offset following the last content byte
	edicts map[int]Edict
}

// NewMetadata returns metadata for content that starts at contentOffset and
// ends before end.
func NewMetadata(name string, base uint16, contentOffset, end int) *Metadata {
	if end < contentOffset {
		end = contentOffset
	}
	// content can not extend past the 16 bit address space
	if limit := contentOffset + 0x10000 - int(base); end > limit {
		end = limit
	}
	return &Metadata{
		Name:          name,
		BaseAddress:   base,
		ContentOffset: contentOffset,
		end:           end,
		edicts:        make(map[int]Edict),
	}
}

// AddEdict sets the edict for the given blob offset. Edicts with a width below
// one are ignored.
func (m *Metadata) AddEdict(offset int, edict Edict) {
	if edict.Width < 1 {
		return
	}
	m.edicts[offset] = edict
}

// AddEntryPoint adds an entry point. The label of the symbol table takes
// precedence over the passed default label.
func (m *Metadata) AddEntryPoint(address uint16, label string, table *symbols.Table) {
	if name, ok := table.Label(address); ok {
		label = name
	}
	m.EntryPoints = append(m.EntryPoints, EntryPoint{Address: address, Label: label})
}

// Edict returns the edict for the given blob offset.
func (m *Metadata) Edict(offset int) (Edict, bool) {
	edict, ok := m.edicts[offset]
	return edict, ok
}

// Edicts returns the sorted offsets of all edicts.
func (m *Metadata) Edicts() []int {
	offsets := make([]int, 0, len(m.edicts))
	for offset := range m.edicts {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)
	return offsets
}

// Offset maps an address to its blob offset.
func (m *Metadata) Offset(address uint16) (int, bool) {
	offset := int(address) - int(m.BaseAddress) + m.ContentOffset
	if offset < m.ContentOffset || offset >= m.end {
		return 0, false
	}
	return offset, true
}

// Address maps a blob offset to its address.
func (m *Metadata) Address(offset int) (uint16, bool) {
	if offset < m.ContentOffset || offset >= m.end {
		return 0, false
	}
	return m.BaseAddress + uint16(offset-m.ContentOffset), true
}

// InRange returns whether the address is backed by content of the blob.
func (m *Metadata) InRange(address uint16) bool {
	_, ok := m.Offset(address)
	return ok
}

// EndOffset returns the blob offset following the last content byte.
func (m *Metadata) EndOffset() int {
	return m.end
}

// EndAddress returns the address following the last content byte. The result
// is an int as the content can end at the top of the address space.
func (m *Metadata) EndAddress() int {
	return int(m.BaseAddress) + m.end - m.ContentOffset
}

// Size returns the number of content bytes.
func (m *Metadata) Size() int {
	return m.end - m.ContentOffset
}
