// Package machine contains the memory configurations of the supported
// Commodore machines.
package machine

import (
	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/symbols"
	"github.com/retroenv/retrosniff/internal/trace"
)

// Machine is a memory configuration of a machine.
type Machine struct {
	Name        string
	Description string
	BasicStart  uint16
	Dialect     *basic.Dialect
	CallToken   byte

	// CartridgeBase is the address that cartridge ROMs are mapped to, 0 if the
	// machine has no autostart cartridge support.
	CartridgeBase      uint16
	CartridgeSignature []byte

	ROM    []trace.AddressRange
	Kernal []symbols.Symbol
}

// Symbols returns a new symbol table with the KERNAL labels of the machine.
func (m Machine) Symbols() *symbols.Table {
	return symbols.FromSymbols(m.Kernal...)
}

// IgnoreRules returns tracer rules that do not follow code into the ROM.
func (m Machine) IgnoreRules() trace.IgnoreRules {
	addresses := make([]uint16, 0, len(m.Kernal))
	for _, sym := range m.Kernal {
		addresses = append(addresses, sym.Address)
	}
	return trace.NewIgnoreRules(m.ROM, addresses...)
}

// Cartridge signatures at offset 4 of the cartridge ROM.
var (
	c64CartridgeSignature   = []byte{0xc3, 0xc2, 0xcd, 0x38, 0x30} // CBM80
	vic20CartridgeSignature = []byte{0x41, 0x30, 0xc3, 0xc2, 0xcd} // A0CBM
)

// Machine configurations.
var (
	C64 = Machine{
		Name:               "c64",
		Description:        "Commodore 64",
		BasicStart:         0x0801,
		Dialect:            basic.V2,
		CallToken:          basic.TokenSys,
		CartridgeBase:      0x8000,
		CartridgeSignature: c64CartridgeSignature,
		ROM: []trace.AddressRange{
			{Start: 0xa000, End: 0xbfff},
			{Start: 0xe000, End: 0xffff},
		},
		Kernal: kernalJumpTable,
	}

	VIC20 = Machine{
		Name:               "vic20",
		Description:        "VIC-20 unexpanded",
		BasicStart:         0x1001,
		Dialect:            basic.V2,
		CallToken:          basic.TokenSys,
		CartridgeBase:      0xa000,
		CartridgeSignature: vic20CartridgeSignature,
		ROM:                vic20ROM,
		Kernal:             kernalJumpTable,
	}

	VIC20Expanded3K = Machine{
		Name:        "vic20-3k",
		Description: "VIC-20 with 3K expansion",
		BasicStart:  0x0401,
		Dialect:     basic.V2,
		CallToken:   basic.TokenSys,
		ROM:         vic20ROM,
		Kernal:      kernalJumpTable,
	}

	VIC20Expanded8K = Machine{
		Name:        "vic20-8k",
		Description: "VIC-20 with 8K or more expansion",
		BasicStart:  0x1201,
		Dialect:     basic.V2,
		CallToken:   basic.TokenSys,
		ROM:         vic20ROM,
		Kernal:      kernalJumpTable,
	}

	C128 = Machine{
		Name:        "c128",
		Description: "Commodore 128",
		BasicStart:  0x1c01,
		Dialect:     basic.V7,
		CallToken:   basic.TokenSys,
		ROM: []trace.AddressRange{
			{Start: 0x4000, End: 0xcfff},
			{Start: 0xe000, End: 0xffff},
		},
		Kernal: kernalJumpTable,
	}

	Plus4 = Machine{
		Name:        "plus4",
		Description: "Commodore Plus/4 and C16",
		BasicStart:  0x1001,
		Dialect:     basic.V35,
		CallToken:   basic.TokenSys,
		ROM: []trace.AddressRange{
			{Start: 0x8000, End: 0xffff},
		},
		Kernal: kernalJumpTable,
	}

	PET = Machine{
		Name:        "pet",
		Description: "Commodore PET",
		BasicStart:  0x0401,
		Dialect:     basic.V4,
		CallToken:   basic.TokenSys,
		ROM: []trace.AddressRange{
			{Start: 0xb000, End: 0xe7ff},
			{Start: 0xf000, End: 0xffff},
		},
		Kernal: petKernal,
	}
)

var vic20ROM = []trace.AddressRange{
	{Start: 0xc000, End: 0xffff},
}

// All lists all machine configurations. The order is used as the registration
// order of sniffers.
var All = []Machine{C64, VIC20, VIC20Expanded3K, VIC20Expanded8K, C128, Plus4, PET}

// ByName returns the machine configuration with the given name.
func ByName(name string) (Machine, bool) {
	for _, m := range All {
		if m.Name == name {
			return m, true
		}
	}
	return Machine{}, false
}

// ByBasicStart returns all machine configurations that load BASIC programs
// to the given address.
func ByBasicStart(address uint16) []Machine {
	var result []Machine
	for _, m := range All {
		if m.BasicStart == address {
			result = append(result, m)
		}
	}
	return result
}

// Names returns the names of all machine configurations.
func Names() []string {
	names := make([]string, 0, len(All))
	for _, m := range All {
		names = append(names, m.Name)
	}
	return names
}
