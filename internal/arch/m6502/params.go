package m6502

import (
	"fmt"

	"github.com/retroenv/retrosniff/internal/arch"
)

type paramFormatterFunc func(value uint16, address string) string

var paramFormatter = map[arch.AddressingMode]paramFormatterFunc{
	arch.ImpliedAddressing:     paramFormatterImplied,
	arch.AccumulatorAddressing: paramFormatterAccumulator,
	arch.ImmediateAddressing:   paramFormatterImmediate,
	arch.ZeroPageAddressing:    paramFormatterZeroPage,
	arch.ZeroPageXAddressing:   paramFormatterZeroPageX,
	arch.ZeroPageYAddressing:   paramFormatterZeroPageY,
	arch.RelativeAddressing:    paramFormatterAbsolute,
	arch.AbsoluteAddressing:    paramFormatterAbsolute,
	arch.AbsoluteXAddressing:   paramFormatterAbsoluteX,
	arch.AbsoluteYAddressing:   paramFormatterAbsoluteY,
	arch.IndirectAddressing:    paramFormatterIndirect,
	arch.IndirectXAddressing:   paramFormatterIndirectX,
	arch.IndirectYAddressing:   paramFormatterIndirectY,
}

// FormatParam returns the assembler notation of an operand. Value is the raw
// operand value, label replaces the target address of absolute, relative and
// indirect operands when it is not empty. Relative operands are expected to be
// passed as resolved target.
func FormatParam(mode arch.AddressingMode, value uint16, label string) string {
	fun, ok := paramFormatter[mode]
	if !ok {
		return ""
	}
	address := label
	if address == "" {
		address = fmt.Sprintf("$%04x", value)
	}
	return fun(value, address)
}

func paramFormatterImplied(uint16, string) string {
	return ""
}

func paramFormatterAccumulator(uint16, string) string {
	return "a"
}

func paramFormatterImmediate(value uint16, _ string) string {
	return fmt.Sprintf("#$%02x", value)
}

func paramFormatterZeroPage(value uint16, _ string) string {
	return fmt.Sprintf("$%02x", value)
}

func paramFormatterZeroPageX(value uint16, _ string) string {
	return fmt.Sprintf("$%02x,x", value)
}

func paramFormatterZeroPageY(value uint16, _ string) string {
	return fmt.Sprintf("$%02x,y", value)
}

func paramFormatterAbsolute(_ uint16, address string) string {
	return address
}

func paramFormatterAbsoluteX(_ uint16, address string) string {
	return address + ",x"
}

func paramFormatterAbsoluteY(_ uint16, address string) string {
	return address + ",y"
}

func paramFormatterIndirect(_ uint16, address string) string {
	return "(" + address + ")"
}

func paramFormatterIndirectX(value uint16, _ string) string {
	return fmt.Sprintf("($%02x,x)", value)
}

func paramFormatterIndirectY(value uint16, _ string) string {
	return fmt.Sprintf("($%02x),y", value)
}
