// Package disasm implements the byte decoder that turns blob bytes at an
// address into instructions or edict literals.
package disasm

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrosniff/internal/arch"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/format"
)

// Decode errors.
var (
	ErrOutOfRange    = errors.New("address out of range")
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// Instruction is a decoded instruction or an edict literal.
type Instruction struct {
	Address    uint16
	Offset     int
	Descriptor *arch.Descriptor // nil for edict literals
	Operand    []byte
	Edict      *format.Edict // set for edict literals

	data []byte
}

// Len returns the number of bytes of the instruction.
func (ins Instruction) Len() int {
	return len(ins.data)
}

// Bytes returns the raw bytes of the instruction including the opcode.
func (ins Instruction) Bytes() []byte {
	return ins.data
}

// IsData returns whether the instruction is a literal declaration.
func (ins Instruction) IsData() bool {
	return ins.Descriptor == nil
}

// Name returns the mnemonic or the edict kind for literals.
func (ins Instruction) Name() string {
	if ins.Descriptor != nil {
		return ins.Descriptor.Name
	}
	if ins.Edict != nil {
		return ins.Edict.Kind.String()
	}
	return format.ByteEdict.String()
}

// NextAddress returns the address following the instruction.
func (ins Instruction) NextAddress() uint16 {
	return ins.Address + uint16(ins.Len())
}

// Value returns the operand value, zero extended for one byte operands.
func (ins Instruction) Value() uint16 {
	switch len(ins.Operand) {
	case 1:
		return uint16(ins.Operand[0])
	case 2:
		return uint16(ins.Operand[0]) | uint16(ins.Operand[1])<<8
	default:
		return 0
	}
}

// Target returns the statically known address that the operand references.
// Branch targets are resolved relative to the following instruction.
func (ins Instruction) Target() (uint16, bool) {
	if ins.Descriptor == nil {
		return 0, false
	}

	switch ins.Descriptor.Mode {
	case arch.RelativeAddressing:
		offset := int8(ins.Operand[0])
		return uint16(int(ins.NextAddress()) + int(offset)), true

	case arch.ZeroPageAddressing, arch.ZeroPageXAddressing, arch.ZeroPageYAddressing,
		arch.IndirectXAddressing, arch.IndirectYAddressing,
		arch.AbsoluteAddressing, arch.AbsoluteXAddressing, arch.AbsoluteYAddressing,
		arch.IndirectAddressing:
		return ins.Value(), true

	default:
		return 0, false
	}
}

// Decoder decodes instructions using an instruction set model and the
// metadata of a format. It holds no mutable state.
type Decoder struct {
	model *arch.Model
	meta  *format.Metadata
}

// New returns a new decoder.
func New(model *arch.Model, meta *format.Metadata) *Decoder {
	return &Decoder{
		model: model,
		meta:  meta,
	}
}

// Metadata returns the format metadata used by the decoder.
func (d *Decoder) Metadata() *format.Metadata {
	return d.meta
}

// Decode decodes the instruction at the given address. An edict at the offset
// takes precedence over opcode decoding.
func (d *Decoder) Decode(b *blob.Blob, address uint16) (Instruction, error) {
	offset, ok := d.meta.Offset(address)
	if !ok {
		return Instruction{}, fmt.Errorf("%w: $%04x", ErrOutOfRange, address)
	}

	if edict, ok := d.meta.Edict(offset); ok {
		return d.decodeEdict(b, address, offset, edict)
	}

	opcode, _ := b.Byte(offset)
	descriptor, ok := d.model.Lookup(opcode)
	if !ok {
		return Instruction{}, fmt.Errorf("%w: $%02x at $%04x", ErrUnknownOpcode, opcode, address)
	}

	length := descriptor.Length()
	if offset+length > d.meta.EndOffset() {
		return Instruction{}, fmt.Errorf("%w: truncated operand of '%s' at $%04x", ErrOutOfRange, descriptor.Name, address)
	}
	data, _ := b.Slice(offset, length)

	return Instruction{
		Address:    address,
		Offset:     offset,
		Descriptor: descriptor,
		Operand:    data[1:],
		data:       data,
	}, nil
}

func (d *Decoder) decodeEdict(b *blob.Blob, address uint16, offset int, edict format.Edict) (Instruction, error) {
	width := min(edict.Width, d.meta.EndOffset()-offset)
	data, ok := b.Slice(offset, width)
	if !ok {
		return Instruction{}, fmt.Errorf("%w: edict at $%04x", ErrOutOfRange, address)
	}

	return Instruction{
		Address: address,
		Offset:  offset,
		Edict:   &edict,
		data:    data,
	}, nil
}
