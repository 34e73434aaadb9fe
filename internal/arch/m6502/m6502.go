// Package m6502 builds the 6502 instruction set model from the opcode table of retrogolib.
package m6502

import (
	"fmt"

	m6502 "github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrosniff/internal/arch"
)

// Name of the instruction set model.
const Name = "6502"

// jamOpcodes lock up the CPU until the next reset.
var jamOpcodes = []byte{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xb2, 0xd2, 0xf2}

// jamNames are alternative mnemonics that tables use for the jam opcodes.
var jamNames = map[string]struct{}{
	"jam": {},
	"kil": {},
	"hlt": {},
}

// NewModel returns the 6502 instruction set model including the undocumented
// opcodes. Undocumented opcodes are tagged as illegal, the jam opcodes are
// additionally tagged as jam.
func NewModel() (*arch.Model, error) {
	descriptors := make([]*arch.Descriptor, 0, 256)
	known := make(map[byte]struct{}, 256)

	for i, op := range m6502.Opcodes {
		if op.Instruction == nil {
			continue
		}

		opcode := byte(i)
		d, err := describe(opcode, Opcode{op: op})
		if err != nil {
			return nil, fmt.Errorf("describing opcode 0x%02x: %w", opcode, err)
		}
		descriptors = append(descriptors, d)
		known[opcode] = struct{}{}
	}

	for _, opcode := range jamOpcodes {
		if _, ok := known[opcode]; ok {
			continue
		}
		descriptors = append(descriptors, &arch.Descriptor{
			Opcode: opcode,
			Name:   "jam",
			Mode:   arch.ImpliedAddressing,
			Tags:   arch.Jam | arch.Illegal,
		})
	}

	model, err := arch.NewModel(Name, descriptors)
	if err != nil {
		return nil, fmt.Errorf("creating model: %w", err)
	}
	return model, nil
}

// MustModel returns the 6502 model and panics if the opcode table can not be converted.
// It is intended for package level initialization and tests.
func MustModel() *arch.Model {
	model, err := NewModel()
	if err != nil {
		panic(err)
	}
	return model
}

func describe(opcode byte, op Opcode) (*arch.Descriptor, error) {
	mode, err := op.Addressing()
	if err != nil {
		return nil, err
	}

	ins := op.Instruction()
	d := &arch.Descriptor{
		Opcode: opcode,
		Name:   ins.Name(),
		Mode:   mode,
		Tags:   op.Tags(mode),
	}
	if _, ok := jamNames[d.Name]; ok {
		d.Tags |= arch.Jam | arch.Illegal
	}
	return d, nil
}
