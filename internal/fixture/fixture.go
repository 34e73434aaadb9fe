// Package fixture builds small program images that are used by tests of multiple packages.
package fixture

import (
	"strconv"
)

// Token values used by the builders.
const (
	tokenPrint = 0x99
	tokenSys   = 0x9e
)

// C64BasicStart is the BASIC start address of an unexpanded C64.
const C64BasicStart = 0x0801

// Line is a program line that will be tokenized.
type Line struct {
	Number  uint16
	Content []byte // already tokenized content without terminator
}

// Program returns a tokenized program including load address, correct next
// line pointers and the end marker.
func Program(load uint16, lines ...Line) []byte {
	data := []byte{byte(load), byte(load >> 8)}
	address := load
	for _, line := range lines {
		next := address + uint16(4+len(line.Content)+1)
		data = append(data, byte(next), byte(next>>8), byte(line.Number), byte(line.Number>>8))
		data = append(data, line.Content...)
		data = append(data, 0)
		address = next
	}
	return append(data, 0, 0)
}

// PrintProgram returns the program `10 PRINT`.
func PrintProgram() []byte {
	return Program(C64BasicStart, Line{Number: 10, Content: []byte{tokenPrint}})
}

// Stub returns a program `10 SYS <address>` followed by the machine code, with
// the SYS address pointing to the first byte of the code.
func Stub(load uint16, code []byte) []byte {
	digits := 1
	for {
		target := StubCodeAddress(load, digits)
		text := strconv.Itoa(int(target))
		if len(text) == digits {
			content := append([]byte{tokenSys}, text...)
			data := Program(load, Line{Number: 10, Content: content})
			return append(data, code...)
		}
		digits = len(text)
	}
}

// StubCodeAddress returns the address following a one line SYS stub with the
// given number of argument digits.
func StubCodeAddress(load uint16, digits int) uint16 {
	lineLen := 4 + 1 + digits + 1
	return load + uint16(lineLen) + 2
}

// StubCode is a short routine without any stop condition in its first 6 instructions.
var StubCode = []byte{
	0xa9, 0x00, // lda #$00
	0x8d, 0x20, 0xd0, // sta $d020
	0x8d, 0x21, 0xd0, // sta $d021
	0xa2, 0x00, // ldx #$00
	0xe8,       // inx
	0xd0, 0xfd, // bne inx
	0x60, // rts
}

// StubProgram returns a C64 SYS stub followed by StubCode.
func StubProgram() []byte {
	return Stub(C64BasicStart, StubCode)
}

// CartridgeSignature is the signature of C64 cartridges at offset 4.
var CartridgeSignature = []byte{0xc3, 0xc2, 0xcd, 0x38, 0x30}

// Cartridge returns a raw C64 cartridge dump for $8000 whose cold and warm start
// vectors point to the given code directly following the signature.
func Cartridge(code []byte) []byte {
	const start = 0x8009
	data := []byte{byte(start & 0xff), byte(start >> 8), byte(start & 0xff), byte(start >> 8)}
	data = append(data, CartridgeSignature...)
	return append(data, code...)
}

// CartridgeCode initializes the video chip and loops forever.
var CartridgeCode = []byte{
	0x78,       // sei
	0xa9, 0x00, // lda #$00
	0x8d, 0x16, 0xd0, // sta $d016
	0x4c, 0x0f, 0x80, // jmp $800f
}

// CartridgeImage returns a raw C64 cartridge with CartridgeCode.
func CartridgeImage() []byte {
	return Cartridge(CartridgeCode)
}

// CRT wraps a cartridge ROM into a CRT container with a single CHIP packet.
func CRT(rom []byte, load uint16) []byte {
	header := make([]byte, 0x40)
	copy(header, "C64 CARTRIDGE   ")
	header[0x13] = 0x40 // header length, big endian
	header[0x14] = 0x01 // version 1.0
	header[0x17] = 0x00 // hardware type normal cartridge
	header[0x18] = 0x00 // exrom
	header[0x19] = 0x00 // game
	copy(header[0x20:], "TEST")

	packetLen := 0x10 + len(rom)
	chip := []byte{
		'C', 'H', 'I', 'P',
		byte(packetLen >> 24), byte(packetLen >> 16), byte(packetLen >> 8), byte(packetLen),
		0x00, 0x00, // ROM
		0x00, 0x00, // bank
		byte(load >> 8), byte(load),
		byte(len(rom) >> 8), byte(len(rom)),
	}
	data := append(header, chip...)
	return append(data, rom...)
}
