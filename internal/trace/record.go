package trace

import (
	"sort"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/retrosniff/internal/disasm"
)

// Entry is an executed instruction.
type Entry struct {
	Address     uint16
	Instruction disasm.Instruction
	Thread      int
}

// Record is the append-only log of executed instructions that is shared by all
// threads of a trace run.
type Record struct {
	entries []Entry
	starts  map[uint16]int    // instruction address to entry index
	owners  map[uint16]uint16 // operand byte address to instruction address
	covered set.Set[uint16]
}

func newRecord() *Record {
	return &Record{
		starts:  make(map[uint16]int),
		owners:  make(map[uint16]uint16),
		covered: set.New[uint16](),
	}
}

func (r *Record) append(entry Entry) {
	r.starts[entry.Address] = len(r.entries)
	r.entries = append(r.entries, entry)
	r.covered.Add(entry.Address)

	for i := 1; i < entry.Instruction.Len(); i++ {
		address := entry.Address + uint16(i)
		r.covered.Add(address)
		if _, ok := r.owners[address]; !ok {
			r.owners[address] = entry.Address
		}
	}
}

// OverlappedStart returns the first executed instruction that starts inside the
// operand bytes of an instruction of the given length at the address.
func (r *Record) OverlappedStart(address uint16, length int) (uint16, bool) {
	for i := 1; i < length; i++ {
		operand := address + uint16(i)
		if _, ok := r.starts[operand]; ok {
			return operand, true
		}
	}
	return 0, false
}

// Covered returns the number of distinct bytes that belong to executed
// instructions.
func (r *Record) Covered() int {
	return len(r.covered)
}

// Contains returns whether an instruction starting at the address was executed.
func (r *Record) Contains(address uint16) bool {
	_, ok := r.starts[address]
	return ok
}

// OperandOwner returns the address of the executed instruction whose operand
// bytes contain the given address.
func (r *Record) OperandOwner(address uint16) (uint16, bool) {
	owner, ok := r.owners[address]
	return owner, ok
}

// Entry returns the executed instruction at the address.
func (r *Record) Entry(address uint16) (Entry, bool) {
	index, ok := r.starts[address]
	if !ok {
		return Entry{}, false
	}
	return r.entries[index], true
}

// Entries returns all entries in execution order. The returned slice must not
// be modified.
func (r *Record) Entries() []Entry {
	return r.entries
}

// Len returns the number of executed instructions.
func (r *Record) Len() int {
	return len(r.entries)
}

// Addresses returns the sorted addresses of all executed instructions.
func (r *Record) Addresses() []uint16 {
	addresses := make([]uint16, 0, len(r.entries))
	for _, entry := range r.entries {
		addresses = append(addresses, entry.Address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i] < addresses[j]
	})
	return addresses
}
