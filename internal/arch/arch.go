// Package arch contains the architecture neutral instruction set model that the
// decoder and the tracer operate on. Architecture specific packages fill the model.
package arch

import "fmt"

// AddressingMode defines how the operand bytes of an instruction are interpreted.
type AddressingMode int

// Addressing modes.
const (
	ImpliedAddressing AddressingMode = iota
	AccumulatorAddressing
	ImmediateAddressing
	ZeroPageAddressing
	ZeroPageXAddressing
	ZeroPageYAddressing
	RelativeAddressing
	AbsoluteAddressing
	AbsoluteXAddressing
	AbsoluteYAddressing
	IndirectAddressing
	IndirectXAddressing
	IndirectYAddressing
)

var addressingNames = map[AddressingMode]string{
	ImpliedAddressing:     "implied",
	AccumulatorAddressing: "accumulator",
	ImmediateAddressing:   "immediate",
	ZeroPageAddressing:    "zeropage",
	ZeroPageXAddressing:   "zeropage,x",
	ZeroPageYAddressing:   "zeropage,y",
	RelativeAddressing:    "relative",
	AbsoluteAddressing:    "absolute",
	AbsoluteXAddressing:   "absolute,x",
	AbsoluteYAddressing:   "absolute,y",
	IndirectAddressing:    "indirect",
	IndirectXAddressing:   "(indirect,x)",
	IndirectYAddressing:   "(indirect),y",
}

func (m AddressingMode) String() string {
	if name, ok := addressingNames[m]; ok {
		return name
	}
	return fmt.Sprintf("addressing(%d)", int(m))
}

// OperandWidth returns the number of operand bytes that follow the opcode byte.
func (m AddressingMode) OperandWidth() int {
	switch m {
	case ImpliedAddressing, AccumulatorAddressing:
		return 0
	case AbsoluteAddressing, AbsoluteXAddressing, AbsoluteYAddressing, IndirectAddressing:
		return 2
	default:
		return 1
	}
}

// References returns whether the operand of the addressing mode is a memory address.
func (m AddressingMode) References() bool {
	switch m {
	case ImpliedAddressing, AccumulatorAddressing, ImmediateAddressing, RelativeAddressing:
		return false
	default:
		return true
	}
}

// Tag is a set of semantic flags of an instruction.
type Tag uint16

// Semantic tags.
const (
	Break             Tag = 1 << iota // software interrupt
	Jam                               // halts the processor
	Illegal                           // undocumented opcode
	Return                            // returns from a subroutine or interrupt
	ConditionalBranch                 // branches depending on a flag
	Jump                              // unconditional transfer without return
	Call                              // transfer that eventually returns
	ReadsMemory                       // reads the operand address
	WritesMemory                      // writes the operand address
	Stack                             // accesses the stack page
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{Break, "break"},
	{Jam, "jam"},
	{Illegal, "illegal"},
	{Return, "return"},
	{ConditionalBranch, "branch"},
	{Jump, "jump"},
	{Call, "call"},
	{ReadsMemory, "read"},
	{WritesMemory, "write"},
	{Stack, "stack"},
}

// Names returns the names of all set tags in a fixed order.
func (t Tag) Names() []string {
	var names []string
	for _, tn := range tagNames {
		if t&tn.tag != 0 {
			names = append(names, tn.name)
		}
	}
	return names
}

// Descriptor describes one opcode of an instruction set. A descriptor is shared
// read-only between all decodes of the opcode.
type Descriptor struct {
	Opcode byte
	Name   string
	Mode   AddressingMode
	Tags   Tag
}

// Has returns whether all of the given tags are set.
func (d *Descriptor) Has(tags Tag) bool {
	return d.Tags&tags == tags
}

// HasAny returns whether any of the given tags is set.
func (d *Descriptor) HasAny(tags Tag) bool {
	return d.Tags&tags != 0
}

// OperandWidth returns the number of operand bytes.
func (d *Descriptor) OperandWidth() int {
	return d.Mode.OperandWidth()
}

// Length returns the full instruction length including the opcode byte.
func (d *Descriptor) Length() int {
	return 1 + d.Mode.OperandWidth()
}

// Model is a static instruction set: a lookup table from opcode byte to descriptor.
type Model struct {
	name    string
	opcodes [256]*Descriptor
}

// NewModel returns a model containing the given descriptors. Every opcode can only
// be described once.
func NewModel(name string, descriptors []*Descriptor) (*Model, error) {
	m := &Model{name: name}
	for _, d := range descriptors {
		if existing := m.opcodes[d.Opcode]; existing != nil {
			return nil, fmt.Errorf("opcode 0x%02x defined twice: %s and %s", d.Opcode, existing.Name, d.Name)
		}
		m.opcodes[d.Opcode] = d
	}
	return m, nil
}

// Name returns the name of the instruction set.
func (m *Model) Name() string {
	return m.name
}

// Lookup returns the descriptor for the opcode byte.
func (m *Model) Lookup(opcode byte) (*Descriptor, bool) {
	d := m.opcodes[opcode]
	return d, d != nil
}

// Len returns the number of implemented opcodes.
func (m *Model) Len() int {
	n := 0
	for _, d := range m.opcodes {
		if d != nil {
			n++
		}
	}
	return n
}
