package sniff

import (
	"github.com/retroenv/retrosniff/internal/basic"
	"github.com/retroenv/retrosniff/internal/blob"
	"github.com/retroenv/retrosniff/internal/format"
	"github.com/retroenv/retrosniff/internal/machine"
)

// EvaluateLoader scores the blob as a BASIC program of the machine and returns
// the decoded program. A structural decode error is converted into a penalty
// and results in a nil program.
func EvaluateLoader(b *blob.Blob, m machine.Machine, w Weights, stench *Stench) *basic.Program {
	load, _ := b.Word(0)
	if load == m.BasicStart {
		stench.Multiply(w.LoadAddressMatch, "load address $%04x matches %s", load, m.Name)
	} else {
		stench.Multiply(w.LoadAddressMismatch, "load address $%04x is not $%04x", load, m.BasicStart)
	}

	prg, err := basic.Decode(b, m.Dialect)
	if err != nil {
		stench.Multiply(w.DecodeFailure, "program decoding failed: %s", err)
		return nil
	}

	for range prg.LineNumberDecreases() {
		stench.Multiply(w.LineNumberDecrease, "line number does not increase")
	}
	for range prg.LinkDecreases() {
		stench.Multiply(w.LinkDecrease, "next line pointer does not increase")
	}
	for range prg.LinkMismatches() {
		stench.Multiply(w.LinkMismatch, "next line pointer does not point to the following line")
	}

	trailing := prg.Trailing(b)
	if trailing > w.TrailingMinimum && trailing > prg.Size {
		stench.Multiply(w.TrailingPayload, "%d trailing bytes after %d bytes of program", trailing, prg.Size)
	}
	return prg
}

// LoaderSniffer scores a blob as a pure BASIC program.
type LoaderSniffer struct {
	Format  string
	Machine machine.Machine
	Weights Weights
}

// Name returns the format name.
func (s *LoaderSniffer) Name() string {
	return s.Format
}

// Sniff scores the blob.
func (s *LoaderSniffer) Sniff(b *blob.Blob) Result {
	result := Result{
		Format: s.Format,
		Stench: NewStench(),
	}

	prg := EvaluateLoader(b, s.Machine, s.Weights, &result.Stench)
	if prg == nil {
		return result
	}
	result.Program = prg

	provider := format.BasicProvider{Format: s.Format, Dialect: s.Machine.Dialect}
	if meta, err := provider.Metadata(b); err == nil {
		result.Meta = meta
	}
	return result
}
