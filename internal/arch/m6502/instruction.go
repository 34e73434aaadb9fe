package m6502

import (
	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// Instruction represents a 6502 CPU instruction.
type Instruction struct {
	ins *m6502.Instruction
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.ins.Name == m6502.JsrInst.Name
}

// IsJump returns true if the instruction is an unconditional jump.
func (i Instruction) IsJump() bool {
	return i.ins.Name == m6502.JmpInst.Name
}

// IsBreak returns true if the instruction triggers a software interrupt.
func (i Instruction) IsBreak() bool {
	return i.ins.Name == m6502.BrkInst.Name
}

// IsReturn returns true if the instruction returns from a subroutine or interrupt.
func (i Instruction) IsReturn() bool {
	return i.ins.Name == m6502.RtsInst.Name || i.ins.Name == m6502.RtiInst.Name
}

// IsStack returns true if the instruction pushes or pulls the stack explicitly.
func (i Instruction) IsStack() bool {
	_, ok := stackInstructions[i.ins.Name]
	return ok
}

// Name returns the instruction name.
func (i Instruction) Name() string {
	return i.ins.Name
}

// Unofficial returns true if the instruction is not official.
func (i Instruction) Unofficial() bool {
	return i.ins.Unofficial
}

var stackInstructions = map[string]struct{}{
	m6502.PhaInst.Name: {},
	m6502.PhpInst.Name: {},
	m6502.PlaInst.Name: {},
	m6502.PlpInst.Name: {},
	m6502.TsxInst.Name: {},
	m6502.TxsInst.Name: {},
	m6502.BrkInst.Name: {},
	m6502.JsrInst.Name: {},
	m6502.RtsInst.Name: {},
	m6502.RtiInst.Name: {},
}
