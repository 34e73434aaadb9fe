package m6502

import (
	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrosniff/internal/arch"
)

// Opcode wraps a retrogolib opcode table entry.
type Opcode struct {
	op m6502.Opcode
}

// Addressing returns the architecture neutral addressing mode of the opcode.
func (o Opcode) Addressing() (arch.AddressingMode, error) {
	return convertAddressing(o.op.Addressing)
}

// Instruction returns the instruction of the opcode.
func (o Opcode) Instruction() Instruction {
	return Instruction{ins: o.op.Instruction}
}

// ReadsMemory returns true if the opcode reads its operand address.
func (o Opcode) ReadsMemory() bool {
	return o.op.ReadsMemory(m6502.MemoryReadInstructions) ||
		o.op.ReadWritesMemory(m6502.MemoryReadWriteInstructions)
}

// WritesMemory returns true if the opcode writes its operand address.
func (o Opcode) WritesMemory() bool {
	return o.op.WritesMemory(m6502.MemoryWriteInstructions) ||
		o.op.ReadWritesMemory(m6502.MemoryReadWriteInstructions)
}

// Tags returns the semantic tags of the opcode for the given converted addressing mode.
func (o Opcode) Tags(mode arch.AddressingMode) arch.Tag {
	ins := o.Instruction()
	var tags arch.Tag

	if ins.Unofficial() {
		tags |= arch.Illegal
	}
	if ins.IsStack() {
		tags |= arch.Stack
	}

	switch {
	case ins.IsBreak():
		tags |= arch.Break
	case ins.IsReturn():
		tags |= arch.Return
	case ins.IsJump():
		tags |= arch.Jump
	case ins.IsCall():
		tags |= arch.Call
	case mode == arch.RelativeAddressing:
		tags |= arch.ConditionalBranch
	}

	// jumps and calls transfer control to the operand, they do not access it as data
	if mode.References() && tags&(arch.Jump|arch.Call) == 0 {
		if o.ReadsMemory() {
			tags |= arch.ReadsMemory
		}
		if o.WritesMemory() {
			tags |= arch.WritesMemory
		}
	}
	return tags
}
