package format

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/symbols"
)

// ErrUnsupported is returned when a blob does not have the layout that a
// provider expects.
var ErrUnsupported = errors.New("unsupported layout")

// Provider derives the metadata of a blob for one format.
type Provider interface {
	Name() string
	Metadata(b *blob.Blob) (*Metadata, error)
}

// BasicProvider provides metadata for tokenized BASIC programs with a load
// address header.
type BasicProvider struct {
	Format  string
	Dialect *basic.Dialect
}

// Name returns the format name.
func (p BasicProvider) Name() string {
	return p.Format
}

// Metadata decodes the program and returns metadata with edicts for every line.
func (p BasicProvider) Metadata(b *blob.Blob) (*Metadata, error) {
	prg, err := basic.Decode(b, p.Dialect)
	if err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	meta := NewMetadata(p.Format, prg.LoadAddress, basic.HeaderSize, b.Len())
	addProgramEdicts(meta, prg)
	return meta, nil
}

// StubProvider provides metadata for a BASIC stub that calls machine code
// following the program.
type StubProvider struct {
	Format    string
	Dialect   *basic.Dialect
	CallToken byte
	Symbols   *symbols.Table
}

// Name returns the format name.
func (p StubProvider) Name() string {
	return p.Format
}

// Metadata returns metadata with an entry point at the call target. Program
// edicts are only added if the stub decodes as a valid program.
func (p StubProvider) Metadata(b *blob.Blob) (*Metadata, error) {
	load, ok := b.Word(0)
	if !ok {
		return nil, fmt.Errorf("%w: missing load address", ErrUnsupported)
	}
	meta := NewMetadata(p.Format, load, basic.HeaderSize, b.Len())

	target, err := basic.CallTarget(b, basic.CallOffset, p.CallToken)
	if err != nil {
		return nil, fmt.Errorf("reading call target: %w", err)
	}
	if !meta.InRange(target) {
		return nil, fmt.Errorf("%w: call target $%04x outside of file", ErrUnsupported, target)
	}

	if prg, err := basic.Decode(b, p.Dialect); err == nil {
		addProgramEdicts(meta, prg)
	}
	meta.AddEntryPoint(target, "start", p.Symbols)
	return meta, nil
}

func addProgramEdicts(meta *Metadata, prg *basic.Program) {
	for _, line := range prg.Lines {
		meta.AddEdict(line.Offset, Edict{Kind: WordEdict, Width: 2, Label: "next line"})
		meta.AddEdict(line.Offset+2, Edict{Kind: WordEdict, Width: 2, Label: fmt.Sprintf("line %d", line.Number)})
		meta.AddEdict(line.Offset+4, Edict{Kind: TextEdict, Width: line.Len - 4, Label: "line content"})
	}
	if prg.Terminated {
		meta.AddEdict(prg.EndOffset, Edict{Kind: WordEdict, Width: 2, Label: "end of program"})
	}
}

// Cartridge start vector offsets relative to the cartridge base.
const (
	ColdStartOffset = 0
	WarmStartOffset = 2
	SignatureOffset = 4
)

// CartridgeProvider provides metadata for raw cartridge ROM dumps without a
// load address header.
type CartridgeProvider struct {
	Format    string
	Base      uint16
	Signature []byte
	Symbols   *symbols.Table
}

// Name returns the format name.
func (p CartridgeProvider) Name() string {
	return p.Format
}

// Metadata returns metadata with entry points at the cold and warm start vectors.
func (p CartridgeProvider) Metadata(b *blob.Blob) (*Metadata, error) {
	meta := NewMetadata(p.Format, p.Base, 0, b.Len())
	if err := addCartridgeVectors(meta, b, p.Signature, p.Symbols); err != nil {
		return nil, err
	}
	return meta, nil
}

func addCartridgeVectors(meta *Metadata, b *blob.Blob, signature []byte, table *symbols.Table) error {
	start := meta.ContentOffset
	cold, ok := b.Word(start + ColdStartOffset)
	if !ok {
		return fmt.Errorf("%w: missing cold start vector", ErrUnsupported)
	}
	warm, ok := b.Word(start + WarmStartOffset)
	if !ok {
		return fmt.Errorf("%w: missing warm start vector", ErrUnsupported)
	}

	meta.AddEdict(start+ColdStartOffset, Edict{Kind: WordEdict, Width: 2, Label: "cold start"})
	meta.AddEdict(start+WarmStartOffset, Edict{Kind: WordEdict, Width: 2, Label: "warm start"})
	if b.Match(start+SignatureOffset, signature) {
		meta.AddEdict(start+SignatureOffset, Edict{Kind: TextEdict, Width: len(signature), Label: "signature"})
	}

	if meta.InRange(cold) {
		meta.AddEntryPoint(cold, "cold_start", table)
	}
	if warm != cold && meta.InRange(warm) {
		meta.AddEntryPoint(warm, "warm_start", table)
	}
	return nil
}

// CRT container layout.
const (
	CRTMagic              = "C64 CARTRIDGE   "
	crtHeaderLengthOffset = 0x10
	chipMagic             = "CHIP"
	chipLoadOffset        = 0x0c
	chipSizeOffset        = 0x0e
	chipHeaderSize        = 0x10
)

// CRTProvider provides metadata for the first ROM chip of a CRT cartridge container.
type CRTProvider struct {
	Format    string
	Signature []byte
	Symbols   *symbols.Table
}

// Name returns the format name.
func (p CRTProvider) Name() string {
	return p.Format
}

// Metadata parses the container header and the first CHIP packet.
func (p CRTProvider) Metadata(b *blob.Blob) (*Metadata, error) {
	if !b.Match(0, []byte(CRTMagic)) {
		return nil, fmt.Errorf("%w: missing container signature", ErrUnsupported)
	}
	headerLen, ok := b.Uint32(crtHeaderLengthOffset, binary.BigEndian)
	if !ok || int64(headerLen) >= int64(b.Len()) {
		return nil, fmt.Errorf("%w: invalid header length", ErrUnsupported)
	}

	chip := int(headerLen)
	if !b.Match(chip, []byte(chipMagic)) {
		return nil, fmt.Errorf("%w: missing chip packet at offset %d", ErrUnsupported, chip)
	}
	load, ok := b.Uint16(chip+chipLoadOffset, binary.BigEndian)
	if !ok {
		return nil, fmt.Errorf("%w: truncated chip packet", ErrUnsupported)
	}
	size, ok := b.Uint16(chip+chipSizeOffset, binary.BigEndian)
	if !ok {
		return nil, fmt.Errorf("%w: truncated chip packet", ErrUnsupported)
	}

	content := chip + chipHeaderSize
	end := min(content+int(size), b.Len())
	meta := NewMetadata(p.Format, load, content, end)

	if err := addCartridgeVectors(meta, b, p.Signature, p.Symbols); err != nil {
		return nil, err
	}
	return meta, nil
}
