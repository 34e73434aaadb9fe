package m6502

import (
	"fmt"

	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrosniff/internal/arch"
)

var addressingModes = map[m6502.AddressingMode]arch.AddressingMode{
	m6502.ImpliedAddressing:     arch.ImpliedAddressing,
	m6502.AccumulatorAddressing: arch.AccumulatorAddressing,
	m6502.ImmediateAddressing:   arch.ImmediateAddressing,
	m6502.ZeroPageAddressing:    arch.ZeroPageAddressing,
	m6502.ZeroPageXAddressing:   arch.ZeroPageXAddressing,
	m6502.ZeroPageYAddressing:   arch.ZeroPageYAddressing,
	m6502.RelativeAddressing:    arch.RelativeAddressing,
	m6502.AbsoluteAddressing:    arch.AbsoluteAddressing,
	m6502.AbsoluteXAddressing:   arch.AbsoluteXAddressing,
	m6502.AbsoluteYAddressing:   arch.AbsoluteYAddressing,
	m6502.IndirectAddressing:    arch.IndirectAddressing,
	m6502.IndirectXAddressing:   arch.IndirectXAddressing,
	m6502.IndirectYAddressing:   arch.IndirectYAddressing,
}

// convertAddressing translates a retrogolib addressing mode into the
// architecture neutral addressing mode.
func convertAddressing(mode m6502.AddressingMode) (arch.AddressingMode, error) {
	converted, ok := addressingModes[mode]
	if !ok {
		return 0, fmt.Errorf("unsupported addressing mode %d", mode)
	}
	return converted, nil
}
